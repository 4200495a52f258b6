/*
 * dedup.go, part of goConformer.
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicosdotutadotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package systematic

import (
	"fmt"
	"sort"

	conformer "github.com/rmera/goconformer"
)

//EnergyWindow is how far above the global minimum, in kcal/mol, a relaxed
//candidate may sit and still make it into the output.
const EnergyWindow = 1.0

//SimilarityCutoff is the distance-matrix RMS deviation (same length unit
//as the coordinates, not normalized by atom count) at or below which two
//relaxed geometries count as the same conformer.
const SimilarityCutoff = 0.1

//deduplicate reduces relaxation results to one representative per distinct
//conformer: only candidates within window of the lowest energy are
//retained, sorted ascending by energy (ties broken by index, so the
//outcome is deterministic); then, walking that order, every later
//candidate whose fingerprint deviates from the current one by at most
//cutoff is marked a duplicate. The survivors come back lowest energy
//first. The operation is idempotent: feeding its output back yields the
//same set in the same order.
func deduplicate(results []Result, window, cutoff float64) ([]Result, error) {
	errid := "systematic/deduplicate"
	if len(results) == 0 {
		return nil, fmt.Errorf("%s: no relaxation results given", errid)
	}
	min := results[0].Energy
	for _, r := range results[1:] {
		if r.Energy < min {
			min = r.Energy
		}
	}
	retained := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Energy <= min+window {
			retained = append(retained, r)
		}
	}
	if len(retained) == 0 {
		//the minimum always qualifies, so this is a consistency failure
		return nil, fmt.Errorf("%s: energy window retained no candidates", errid)
	}
	sort.Slice(retained, func(a, b int) bool {
		if retained[a].Energy != retained[b].Energy {
			return retained[a].Energy < retained[b].Energy
		}
		return retained[a].Index < retained[b].Index
	})
	duplicate := make([]bool, len(retained))
	kept := make([]Result, 0, len(retained))
	for i := range retained {
		if duplicate[i] {
			continue
		}
		kept = append(kept, retained[i])
		for j := i + 1; j < len(retained); j++ {
			if duplicate[j] {
				continue
			}
			rms, err := conformer.RMSDevDistMats(retained[i].Distances, retained[j].Distances)
			if err != nil {
				return nil, fmt.Errorf("%s: comparing candidates %d and %d: %w", errid, retained[i].Index, retained[j].Index, err)
			}
			if rms <= cutoff {
				duplicate[j] = true
			}
		}
	}
	return kept, nil
}

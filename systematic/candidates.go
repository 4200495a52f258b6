/*
 * candidates.go, part of goConformer.
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

	conformer "github.com/rmera/goconformer"
)

//checkArity rejects combinations whose component lengths do not match the
//structure's descriptor counts. A zero-length label tuple is the valid
//form for a disabled class.
func checkArity(mol *conformer.Structure, c *Combination) error {
	if len(c.Angles) != len(mol.Torsions) {
		return fmt.Errorf("combination carries %d angles for %d torsions", len(c.Angles), len(mol.Torsions))
	}
	if len(c.CisTrans) != 0 && len(c.CisTrans) != len(mol.CisTrans) {
		return fmt.Errorf("combination carries %d cis/trans labels for %d descriptors", len(c.CisTrans), len(mol.CisTrans))
	}
	if len(c.Chiral) != 0 && len(c.Chiral) != len(mol.ChiralCenters) {
		return fmt.Errorf("combination carries %d chirality labels for %d centers", len(c.Chiral), len(mol.ChiralCenters))
	}
	return nil
}

//BuildCandidates produces one independent candidate structure per
//combination: a deep copy of base with the combination's torsion angles,
//cis/trans labels and chirality labels applied. base itself is never
//touched. Candidates are returned in combination order, so the i-th
//candidate corresponds to combos[i]. A malformed combination is fatal:
//no candidates are returned.
func BuildCandidates(base *conformer.Structure, combos []Combination) ([]*conformer.Structure, error) {
	errid := "systematic/BuildCandidates"
	for i := range combos {
		if err := checkArity(base, &combos[i]); err != nil {
			return nil, fmt.Errorf("%s: combination %d: %w", errid, i, err)
		}
	}
	cands := make([]*conformer.Structure, 0, len(combos))
	for ci := range combos {
		combo := &combos[ci]
		cand := base.Copy()
		for i, angle := range combo.Angles {
			if err := cand.SetDihedral(i, angle); err != nil {
				return nil, fmt.Errorf("%s: combination %d: %w", errid, ci, err)
			}
		}
		for i, label := range combo.CisTrans {
			if err := cand.SetCisTrans(i, label); err != nil {
				return nil, fmt.Errorf("%s: combination %d: %w", errid, ci, err)
			}
		}
		for i, label := range combo.Chiral {
			if err := cand.SetChirality(i, label); err != nil {
				return nil, fmt.Errorf("%s: combination %d: %w", errid, ci, err)
			}
		}
		cands = append(cands, cand)
	}
	return cands, nil
}

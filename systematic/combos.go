/*
 * combos.go, part of goConformer.
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
	"errors"
	"fmt"
	"math"

	conformer "github.com/rmera/goconformer"
)

//ErrNoCombos signals that a structure carries no descriptor at all, so
//there is nothing to enumerate. Search treats it as "return the input
//unchanged", not as a failure.
var ErrNoCombos = errors.New("structure has no torsions, cis/trans bonds, or chiral centers")

//A Combination is one fully specified assignment of values to every
//descriptor of a structure: one angle (degrees) per torsion, one label per
//cis/trans bond, one label per chiral center.
type Combination struct {
	Angles   []float64
	CisTrans []string
	Chiral   []string
}

//angleGrid returns the torsion-angle alphabet {0, delta, 2·delta, ...}
//within [0,360). delta must divide 360 into a positive whole number of
//grid points.
func angleGrid(delta float64) ([]float64, error) {
	errid := "systematic/angleGrid"
	if delta <= 0 || delta > 360 {
		return nil, fmt.Errorf("%s: delta %.2f out of range (0,360]", errid, delta)
	}
	n := 360.0 / delta
	if math.Abs(n-math.Round(n)) > 1e-9 {
		return nil, fmt.Errorf("%s: delta %.2f does not divide 360", errid, delta)
	}
	grid := make([]float64, 0, int(math.Round(n)))
	for a := 0.0; a < 360; a += delta {
		grid = append(grid, a)
	}
	return grid, nil
}

//combosWithReplacement returns every non-decreasing (by alphabet position)
//tuple of r symbols from the alphabet, in lexicographic order of positions.
func combosWithReplacement[T any](alphabet []T, r int) [][]T {
	if r == 0 {
		return [][]T{{}}
	}
	var out [][]T
	idx := make([]int, r)
	for {
		tuple := make([]T, r)
		for i, j := range idx {
			tuple[i] = alphabet[j]
		}
		out = append(out, tuple)
		//advance to the next non-decreasing index tuple
		i := r - 1
		for ; i >= 0; i-- {
			if idx[i] < len(alphabet)-1 {
				break
			}
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[i]
		}
	}
}

//palindromeUnion is the symmetry-reduction policy for multi-descriptor
//classes: the tuples drawn (with replacement) from the alphabet in its
//given order, united with those drawn from the reversed alphabet. It
//covers ascending and descending assignments but not true permutations,
//so for 3 or more descriptors some mixed orderings are never visited.
//That trade was made deliberately: full permutations grow factorially and
//the relaxation step collapses most of them anyway.
func palindromeUnion[T any](alphabet []T, r int) [][]T {
	forward := combosWithReplacement(alphabet, r)
	if r == 1 { //reversed-alphabet tuples are the same set
		return forward
	}
	rev := make([]T, len(alphabet))
	for i, v := range alphabet {
		rev[len(alphabet)-1-i] = v
	}
	seen := make(map[string]bool, len(forward))
	out := make([][]T, 0, len(forward))
	for _, t := range forward {
		seen[fmt.Sprint(t)] = true
		out = append(out, t)
	}
	for _, t := range combosWithReplacement(rev, r) {
		k := fmt.Sprint(t)
		if !seen[k] {
			seen[k] = true
			out = append(out, t)
		}
	}
	return out
}

//FindAllCombos enumerates every combination of discretized torsion angles,
//cis/trans labels and chirality labels for the descriptors of mol. delta
//is the angle step, in degrees; it must divide 360. The cistrans and
//chiral flags disable their respective classes, leaving a single empty
//tuple in their place. If mol carries no descriptors at all, the error is
//ErrNoCombos.
func FindAllCombos(mol *conformer.Structure, delta float64, cistrans, chiral bool) ([]Combination, error) {
	errid := "systematic/FindAllCombos"
	if len(mol.Torsions) == 0 && len(mol.CisTrans) == 0 && len(mol.ChiralCenters) == 0 {
		return nil, fmt.Errorf("%s: %w", errid, ErrNoCombos)
	}
	grid, err := angleGrid(delta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	angleTuples := palindromeUnion(grid, len(mol.Torsions))
	ctTuples := [][]string{{}}
	if cistrans {
		ctTuples = palindromeUnion([]string{conformer.Trans, conformer.Cis}, len(mol.CisTrans))
	}
	chTuples := [][]string{{}}
	if chiral {
		chTuples = palindromeUnion([]string{conformer.Rectus, conformer.Sinister}, len(mol.ChiralCenters))
	}
	combos := make([]Combination, 0, len(angleTuples)*len(ctTuples)*len(chTuples))
	for _, a := range angleTuples {
		for _, ct := range ctTuples {
			for _, ch := range chTuples {
				combos = append(combos, Combination{Angles: a, CisTrans: ct, Chiral: ch})
			}
		}
	}
	return combos, nil
}

/*
 * fingerprint.go, part of goConformer.
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

package conformer

import (
	"fmt"
	"math"

	v3 "github.com/rmera/goconformer/v3"
	"gonum.org/v1/gonum/mat"
)

//DistanceMatrix returns the full pairwise interatomic distance matrix for
//the given coordinates: symmetric, with a zero diagonal. Being invariant to
//rotation and translation, it serves as a geometry-equivalence fingerprint.
func DistanceMatrix(coords *v3.Matrix) *mat.Dense {
	n := coords.NVecs()
	D := mat.NewDense(n, n, nil)
	diff := v3.Zeros(1)
	for i := 0; i < n; i++ {
		vi := coords.VecView(i)
		for j := i + 1; j < n; j++ {
			diff.Sub(vi, coords.VecView(j))
			d := diff.Norm()
			D.Set(i, j, d)
			D.Set(j, i, d)
		}
	}
	return D
}

//DistanceMatrix returns the distance-matrix fingerprint of the structure's
//current coordinates.
func (S *Structure) DistanceMatrix() *mat.Dense {
	return DistanceMatrix(S.Coords)
}

//RMSDevDistMats returns the root of the mean squared element-wise
//difference between two distance matrices. Two geometries whose
//fingerprints deviate by no more than ~0.1 A are, for conformational
//purposes, the same geometry. The value is absolute, in the length unit
//of the coordinates; it is not normalized by atom count.
func RMSDevDistMats(A, B *mat.Dense) (float64, error) {
	ar, ac := A.Dims()
	br, bc := B.Dims()
	if ar != br || ac != bc {
		return 0, fmt.Errorf("RMSDevDistMats: mismatched distance matrices: %dx%d vs %dx%d", ar, ac, br, bc)
	}
	var sum float64
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			d := A.At(i, j) - B.At(i, j)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(ar*ac)), nil
}

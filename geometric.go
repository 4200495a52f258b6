/*
 * geometric.go, part of goConformer.
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
)

//used to correct floating point errors. Everything equal or less than
//this is considered zero.
const appzero float64 = 0.0000001

//Deg2Rad converts degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

//Rad2Deg converts radians to degrees.
func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

//Angle takes 2 vectors and calculates the angle in radians between them.
//It does not check for correctness or return errors!
func Angle(v1, v2 *v3.Matrix) float64 {
	normproduct := v1.Norm() * v2.Norm()
	argument := v1.Dot(v2) / normproduct
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//Dihedral calculates the dihedral angle (radians) between the points
//a, b, c, d, where the first plane is defined by abc and the second by bcd.
func Dihedral(a, b, c, d *v3.Matrix) float64 {
	all := []*v3.Matrix{a, b, c, d}
	for number, point := range all {
		if point == nil {
			panic(fmt.Sprintf("goConformer: vector %d is nil", number))
		}
		pr, pc := point.Dims()
		if pr != 1 || pc != 3 {
			panic(fmt.Sprintf("goConformer: vector %d has invalid shape", number))
		}
	}
	//bma=b minus a
	bma := v3.Zeros(1)
	cmb := v3.Zeros(1)
	dmc := v3.Zeros(1)
	bmascaled := v3.Zeros(1)
	bma.Sub(b, a)
	cmb.Sub(c, b)
	dmc.Sub(d, c)
	bmascaled.Scale(cmb.Norm(), bma)
	cross1 := v3.Zeros(1)
	cross1.Cross(cmb, dmc)
	first := bmascaled.Dot(cross1)
	v1 := v3.Zeros(1)
	v1.Cross(bma, cmb)
	second := v1.Dot(cross1)
	return math.Atan2(first, second)
}

//RotatorAroundZ returns an operator that will rotate a set of
//coordinates by gamma radians around the z axis.
func RotatorAroundZ(gamma float64) (*v3.Matrix, error) {
	singamma := math.Sin(gamma)
	cosgamma := math.Cos(gamma)
	operator := []float64{cosgamma, singamma, 0,
		-singamma, cosgamma, 0,
		0, 0, 1}
	return v3.NewMatrix(operator)
}

//RotatorToNewZ takes a row vector (newz) and returns a linear operator
//such that, when applied to a matrix mol (with the operator on the right
//side) it will rotate mol so that newz is aligned with the z axis.
func RotatorToNewZ(newz *v3.Matrix) *v3.Matrix {
	r, c := newz.Dims()
	if c != 3 || r != 1 {
		panic("goConformer: wrong newz vector")
	}
	normxy := math.Sqrt(math.Pow(newz.At(0, 0), 2) + math.Pow(newz.At(0, 1), 2))
	theta := math.Atan2(normxy, newz.At(0, 2))      //Around the new y
	phi := math.Atan2(newz.At(0, 1), newz.At(0, 0)) //First around z
	psi := 0.000000000000                           //second around z
	sinphi := math.Sin(phi)
	cosphi := math.Cos(phi)
	sintheta := math.Sin(theta)
	costheta := math.Cos(theta)
	sinpsi := math.Sin(psi)
	cospsi := math.Cos(psi)
	operator := []float64{cosphi*costheta*cospsi - sinphi*sinpsi, -sinphi*cospsi - cosphi*costheta*sinpsi, cosphi * sintheta,
		sinphi*costheta*cospsi + cosphi*sinpsi, -sinphi*costheta*sinpsi + cosphi*cospsi, sintheta * sinphi,
		-sintheta * cospsi, sintheta * sinpsi, costheta}
	finalop, _ := v3.NewMatrix(operator) //we are hardcoding operator so it must have the right dimensions.
	return finalop
}

//RotateAbout rotates the coordinates in coordsorig by angle radians around
//the axis given by the vector from ax1 to ax2 (right-hand rule). It returns
//the rotated coordinates; the original is not affected. It uses Euler-angle
//operators: the axis is switched onto z, the rotation happens around z, and
//the switch is undone.
func RotateAbout(coordsorig, ax1, ax2 *v3.Matrix, angle float64) (*v3.Matrix, error) {
	errid := "RotateAbout"
	coords := v3.Zeros(coordsorig.NVecs())
	coords.Copy(coordsorig)
	translation := v3.Zeros(1)
	translation.Copy(ax1)
	axis := v3.Zeros(1)
	axis.Sub(ax2, ax1)
	if axis.Norm() <= appzero {
		return nil, fmt.Errorf("%s: rotation axis has zero length", errid)
	}
	coords.SubVec(coords, translation)
	Zswitch := RotatorToNewZ(axis)
	Zrot, err := RotatorAroundZ(angle)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	RevZ := v3.Zeros(3)
	if err := RevZ.Dense.Inverse(Zswitch.Dense); err != nil {
		return nil, fmt.Errorf("%s: couldn't invert the axis-switch operator: %w", errid, err)
	}
	coords.Mul(coords, Zswitch)
	coords.Mul(coords, Zrot)
	coords.Mul(coords, RevZ)
	coords.AddVec(coords, translation)
	return coords, nil
}

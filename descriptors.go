/*
 * descriptors.go, part of goConformer.
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

//Labels for the two canonical states of a double bond and of a
//stereocenter. These are the alphabets the systematic search enumerates.
const (
	Cis      = "Z"
	Trans    = "E"
	Rectus   = "R"
	Sinister = "S"
)

//Torsion identifies one rotatable dihedral: four atom indices defining the
//angle, plus the mask of atoms that move when the dihedral is changed.
//The mask must contain every atom on the far side of the rotating bond
//(including the fourth defining atom) and nothing else; masks of distinct
//torsions applied together must not move each other's defining atoms.
type Torsion struct {
	Atoms [4]int
	Mask  []int
}

//Copy returns a copy of the torsion.
func (T *Torsion) Copy() *Torsion {
	n := &Torsion{Atoms: T.Atoms}
	n.Mask = make([]int, len(T.Mask))
	copy(n.Mask, T.Mask)
	return n
}

//CisTrans identifies one double bond with geometric (E/Z) isomerism.
//Atoms holds a-b=c-d where b=c is the double bond; Mask lists the atoms
//that move when the label is switched (the d side of the bond).
type CisTrans struct {
	Atoms [4]int
	Mask  []int
}

//Copy returns a copy of the descriptor.
func (C *CisTrans) Copy() *CisTrans {
	n := &CisTrans{Atoms: C.Atoms}
	n.Mask = make([]int, len(C.Mask))
	copy(n.Mask, C.Mask)
	return n
}

//ChiralCenter identifies one stereocenter: the central atom, its four
//substituent atoms in decreasing priority order, and the two substituent
//branches (each given as the atom indices of the whole subtree, starting
//at Neighbors[2] and Neighbors[3] respectively) that are exchanged to
//invert the configuration.
type ChiralCenter struct {
	Center    int
	Neighbors [4]int
	BranchA   []int
	BranchB   []int
}

//Copy returns a copy of the descriptor.
func (C *ChiralCenter) Copy() *ChiralCenter {
	n := &ChiralCenter{Center: C.Center, Neighbors: C.Neighbors}
	n.BranchA = make([]int, len(C.BranchA))
	copy(n.BranchA, C.BranchA)
	n.BranchB = make([]int, len(C.BranchB))
	copy(n.BranchB, C.BranchB)
	return n
}

//SetDihedral rotates the ith torsion of the structure so the dihedral
//defined by its four atoms becomes angle (degrees). Only the atoms in the
//torsion's mask are displaced.
func (S *Structure) SetDihedral(i int, angle float64) error {
	errid := "Structure/SetDihedral"
	if i < 0 || i >= len(S.Torsions) {
		return fmt.Errorf("%s: no torsion with index %d", errid, i)
	}
	t := S.Torsions[i]
	for _, v := range t.Atoms {
		if v >= S.Len() {
			return fmt.Errorf("%s: torsion atom %d out of range", errid, v)
		}
	}
	a := S.Coords.VecView(t.Atoms[0])
	b := S.Coords.VecView(t.Atoms[1])
	c := S.Coords.VecView(t.Atoms[2])
	d := S.Coords.VecView(t.Atoms[3])
	current := Dihedral(a, b, c, d)
	delta := Deg2Rad(angle) - current
	return S.rotateMask(t.Mask, t.Atoms[1], t.Atoms[2], delta)
}

//CisTransLabel returns the current label ("Z" or "E") of the ith
//double-bond descriptor, judged from its dihedral: at most 90 degrees
//away from planar-cis is "Z", anything else "E".
func (S *Structure) CisTransLabel(i int) (string, error) {
	if i < 0 || i >= len(S.CisTrans) {
		return "", fmt.Errorf("Structure/CisTransLabel: no cis/trans descriptor with index %d", i)
	}
	ct := S.CisTrans[i]
	a := S.Coords.VecView(ct.Atoms[0])
	b := S.Coords.VecView(ct.Atoms[1])
	c := S.Coords.VecView(ct.Atoms[2])
	d := S.Coords.VecView(ct.Atoms[3])
	if math.Abs(Dihedral(a, b, c, d)) <= math.Pi/2 {
		return Cis, nil
	}
	return Trans, nil
}

//SetCisTrans sets the ith double bond of the structure to the given label
//("Z" or "E"). If the bond already has the requested geometry nothing
//moves; otherwise the mask atoms are rotated half a turn about the bond.
func (S *Structure) SetCisTrans(i int, label string) error {
	errid := "Structure/SetCisTrans"
	if label != Cis && label != Trans {
		return fmt.Errorf("%s: invalid label %q", errid, label)
	}
	current, err := S.CisTransLabel(i)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	if current == label {
		return nil
	}
	ct := S.CisTrans[i]
	return S.rotateMask(ct.Mask, ct.Atoms[1], ct.Atoms[2], math.Pi)
}

//ChiralityLabel returns the current label ("R" or "S") of the ith
//stereocenter. The label is the sign of the volume spanned by the three
//highest-priority substituent directions: negative is "R". It separates
//the two mirror configurations consistently, which is all the search
//needs; it is not a full CIP assignment.
func (S *Structure) ChiralityLabel(i int) (string, error) {
	if i < 0 || i >= len(S.ChiralCenters) {
		return "", fmt.Errorf("Structure/ChiralityLabel: no chiral center with index %d", i)
	}
	cc := S.ChiralCenters[i]
	center := S.Coords.VecView(cc.Center)
	u := make([]*v3.Matrix, 3)
	for j := 0; j < 3; j++ {
		u[j] = v3.Zeros(1)
		u[j].Sub(S.Coords.VecView(cc.Neighbors[j]), center)
	}
	cross := v3.Zeros(1)
	cross.Cross(u[1], u[2])
	if u[0].Dot(cross) < 0 {
		return Rectus, nil
	}
	return Sinister, nil
}

//SetChirality sets the ith stereocenter of the structure to the given
//label ("R" or "S"). An inversion exchanges the two lowest-priority
//branches by rotating them half a turn about the bisector of their bond
//directions, which preserves all bond lengths to the center.
func (S *Structure) SetChirality(i int, label string) error {
	errid := "Structure/SetChirality"
	if label != Rectus && label != Sinister {
		return fmt.Errorf("%s: invalid label %q", errid, label)
	}
	current, err := S.ChiralityLabel(i)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	if current == label {
		return nil
	}
	cc := S.ChiralCenters[i]
	center := S.Coords.VecView(cc.Center)
	ua := v3.Zeros(1)
	ua.Sub(S.Coords.VecView(cc.Neighbors[2]), center)
	ua.Unit(ua)
	ub := v3.Zeros(1)
	ub.Sub(S.Coords.VecView(cc.Neighbors[3]), center)
	ub.Unit(ub)
	bisector := v3.Zeros(1)
	bisector.Add(ua, ub)
	if bisector.Norm() <= appzero {
		return fmt.Errorf("%s: branches of center %d are collinear, can't invert", errid, cc.Center)
	}
	mask := make([]int, 0, len(cc.BranchA)+len(cc.BranchB))
	mask = append(mask, cc.BranchA...)
	mask = append(mask, cc.BranchB...)
	axisEnd := v3.Zeros(1)
	axisEnd.Add(center, bisector)
	return S.rotateMaskAbout(mask, center, axisEnd, math.Pi)
}

//rotateMask rotates the atoms in mask by angle radians about the
//axis from atom axfrom to atom axto.
func (S *Structure) rotateMask(mask []int, axfrom, axto int, angle float64) error {
	if axfrom >= S.Len() || axto >= S.Len() {
		return fmt.Errorf("Structure/rotateMask: axis atom out of range")
	}
	return S.rotateMaskAbout(mask, S.Coords.VecView(axfrom), S.Coords.VecView(axto), angle)
}

func (S *Structure) rotateMaskAbout(mask []int, ax1, ax2 *v3.Matrix, angle float64) error {
	errid := "Structure/rotateMaskAbout"
	if len(mask) == 0 {
		return nil
	}
	picked := v3.Zeros(len(mask))
	if err := picked.SomeVecsSafe(S.Coords, mask); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	//ax1 and ax2 are views into S.Coords. If an axis atom is itself in the
	//mask, rotating in place would corrupt the axis, so work on copies.
	from := v3.Zeros(1)
	from.Copy(ax1)
	to := v3.Zeros(1)
	to.Copy(ax2)
	rotated, err := RotateAbout(picked, from, to, angle)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	S.Coords.SetVecs(rotated, mask)
	return nil
}

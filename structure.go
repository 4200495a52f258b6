/*
 * structure.go, part of goConformer.
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

	v3 "github.com/rmera/goconformer/v3"
)

//Atom contains the topological information for one atom. Coordinates are
//kept separately, in the Structure's coordinate matrix.
type Atom struct {
	Name   string
	Symbol string
	Mass   float64
	Charge float64
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("attempted to copy a nil atom")
	}
	at := new(Atom)
	*at = *A
	return at
}

//Structure is one candidate conformer, or transition-state candidate: an
//ordered set of atoms with one set of cartesian coordinates, plus the
//descriptors over which a conformational search operates. Structures are
//value-like: anything that changes torsions or stereo labels must work on
//an independent Copy, never on a shared Structure.
type Structure struct {
	Atoms  []*Atom
	Coords *v3.Matrix

	//Name is the chemical identity used for naming and output
	//(typically a SMILES string, or a reaction label for a TS).
	Name string

	//Energy is in kcal/mol. It is only meaningful after relaxation.
	Energy float64

	//Index is the output index assigned by a search.
	Index int

	charge int
	multi  int

	Torsions      []*Torsion
	CisTrans      []*CisTrans
	ChiralCenters []*ChiralCenter

	//Reacting lists the reacting-bond atom pairs for a transition-state
	//structure. A non-empty list marks the Structure as a TS: those bonds
	//must be held at fixed length during relaxation.
	Reacting [][2]int
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Atoms)
}

//Atom returns the atom with index i. Panics if out of range.
func (S *Structure) Atom(i int) *Atom {
	if i >= S.Len() {
		panic("Structure: requested atom out of bounds")
	}
	return S.Atoms[i]
}

//Charge returns the total charge of the structure.
func (S *Structure) Charge() int { return S.charge }

//SetCharge sets the total charge of the structure to i.
func (S *Structure) SetCharge(i int) { S.charge = i }

//Multi returns the multiplicity of the structure.
func (S *Structure) Multi() int {
	if S.multi == 0 {
		return 1
	}
	return S.multi
}

//SetMulti sets the multiplicity of the structure to i.
func (S *Structure) SetMulti(i int) { S.multi = i }

//IsTS returns whether the structure is a transition-state candidate,
//i.e. whether it carries reaction labeling.
func (S *Structure) IsTS() bool { return len(S.Reacting) > 0 }

//FixedPairs returns the reacting atom pairs whose distances must be kept
//fixed during relaxation. Nil for a plain conformer.
func (S *Structure) FixedPairs() [][2]int {
	if !S.IsTS() {
		return nil
	}
	pairs := make([][2]int, len(S.Reacting))
	copy(pairs, S.Reacting)
	return pairs
}

//Corrupted checks that the coordinates match the number of atoms.
func (S *Structure) Corrupted() error {
	if S.Coords == nil {
		return fmt.Errorf("Structure/Corrupted: nil coordinates")
	}
	if S.Coords.NVecs() != S.Len() {
		return fmt.Errorf("Structure/Corrupted: %d atoms but %d coordinates", S.Len(), S.Coords.NVecs())
	}
	return nil
}

//Copy returns a deep copy of the structure, including coordinates and
//descriptors. The copy shares nothing with the original, so mutating one
//can never affect the other.
func (S *Structure) Copy() *Structure {
	if err := S.Corrupted(); err != nil {
		panic(err.Error()) //copying a corrupted structure means the program is wrong
	}
	n := new(Structure)
	n.Atoms = make([]*Atom, S.Len())
	for key, val := range S.Atoms {
		n.Atoms[key] = val.Copy()
	}
	n.Coords = v3.Zeros(S.Len())
	n.Coords.Copy(S.Coords)
	n.Name = S.Name
	n.Energy = S.Energy
	n.Index = S.Index
	n.charge = S.charge
	n.multi = S.multi
	n.Torsions = make([]*Torsion, len(S.Torsions))
	for key, val := range S.Torsions {
		n.Torsions[key] = val.Copy()
	}
	n.CisTrans = make([]*CisTrans, len(S.CisTrans))
	for key, val := range S.CisTrans {
		n.CisTrans[key] = val.Copy()
	}
	n.ChiralCenters = make([]*ChiralCenter, len(S.ChiralCenters))
	for key, val := range S.ChiralCenters {
		n.ChiralCenters[key] = val.Copy()
	}
	if S.Reacting != nil {
		n.Reacting = make([][2]int, len(S.Reacting))
		copy(n.Reacting, S.Reacting)
	}
	return n
}

//SetCoords replaces the structure's coordinates with c, after checking
//that the dimensions match the atoms. This is the coordinate-refresh
//operation: any derived state (fingerprints, labels) is computed on
//demand from Coords, so a successful SetCoords leaves nothing stale.
func (S *Structure) SetCoords(c *v3.Matrix) error {
	if c == nil {
		return fmt.Errorf("Structure/SetCoords: nil coordinates")
	}
	if c.NVecs() != S.Len() {
		return fmt.Errorf("Structure/SetCoords: %d coordinates given, %d atoms present", c.NVecs(), S.Len())
	}
	if S.Coords == nil || S.Coords.NVecs() != S.Len() {
		S.Coords = v3.Zeros(S.Len())
	}
	S.Coords.Copy(c)
	return nil
}

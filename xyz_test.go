/*
 * xyz_test.go, part of goConformer.
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
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestXYZReadWrite(Te *testing.T) {
	mol := torsionTestMol(Te)
	var buf bytes.Buffer
	if err := XYZWrite(&buf, nil, mol); err != nil {
		Te.Fatal(err)
	}
	mol2, err := XYZRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() {
		Te.Fatalf("expected %d atoms, got %d", mol.Len(), mol2.Len())
	}
	if mol2.Name != mol.Name {
		Te.Errorf("expected name %q, got %q", mol.Name, mol2.Name)
	}
	for i := 0; i < mol.Len(); i++ {
		if mol2.Atom(i).Symbol != mol.Atom(i).Symbol {
			Te.Errorf("atom %d: expected symbol %s, got %s", i, mol.Atom(i).Symbol, mol2.Atom(i).Symbol)
		}
		for j := 0; j < 3; j++ {
			if math.Abs(mol2.Coords.At(i, j)-mol.Coords.At(i, j)) > 1e-6 {
				Te.Errorf("atom %d coordinate %d: expected %f, got %f",
					i, j, mol.Coords.At(i, j), mol2.Coords.At(i, j))
			}
		}
	}
	if mol2.Atom(0).Mass == 0 {
		Te.Error("carbon mass wasn't filled in")
	}
}

func TestXYZReadMalformed(Te *testing.T) {
	cases := []string{
		"not-a-number\ncomment\n",
		"2\ncomment\nC 0.0 0.0 0.0\n",          //too few atoms
		"1\ncomment\nC 0.0 zero 0.0\n",          //bad coordinate
		"1\ncomment\nC 0.0 0.0\n",               //too few fields
	}
	for i, c := range cases {
		if _, err := XYZRead(strings.NewReader(c)); err == nil {
			Te.Errorf("case %d: expected an error", i)
		}
	}
}

func TestDescriptorsApply(Te *testing.T) {
	mol := torsionTestMol(Te)
	mol.Torsions = nil
	desc := &Descriptors{
		Name:         "test",
		Charge:       -1,
		Multiplicity: 2,
		Torsions:     []*Torsion{{Atoms: [4]int{0, 1, 2, 3}, Mask: []int{3}}},
		Reacting:     [][2]int{{0, 3}},
	}
	if err := desc.Apply(mol); err != nil {
		Te.Fatal(err)
	}
	if mol.Charge() != -1 || mol.Multi() != 2 || len(mol.Torsions) != 1 {
		Te.Error("descriptors weren't transferred")
	}
	if !mol.IsTS() {
		Te.Error("a structure with reacting pairs should be a TS")
	}
	bad := &Descriptors{
		Torsions: []*Torsion{{Atoms: [4]int{0, 1, 2, 9}, Mask: []int{3}}},
	}
	if err := bad.Apply(mol); err == nil {
		Te.Error("expected an error for an out-of-range atom index")
	}
}

func TestDescriptorsRoundTrip(Te *testing.T) {
	desc := &Descriptors{
		Name:          "CC=CC",
		Charge:        0,
		CisTrans:      []*CisTrans{{Atoms: [4]int{0, 1, 2, 3}, Mask: []int{3}}},
		ChiralCenters: []*ChiralCenter{{Center: 1, Neighbors: [4]int{0, 2, 3, 4}, BranchA: []int{3}, BranchB: []int{4}}},
	}
	var buf bytes.Buffer
	if err := WriteDescriptors(&buf, desc); err != nil {
		Te.Fatal(err)
	}
	got, err := ReadDescriptors(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if got.Name != desc.Name || len(got.CisTrans) != 1 || len(got.ChiralCenters) != 1 {
		Te.Errorf("round trip lost information: %+v", got)
	}
	if got.ChiralCenters[0].Center != 1 || got.CisTrans[0].Mask[0] != 3 {
		Te.Error("round trip changed descriptor contents")
	}
}

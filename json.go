/*
 * json.go, part of goConformer.
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
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//Descriptors is the JSON-serializable form of everything a conformational
//search needs to know about a structure beyond its atoms and coordinates:
//its descriptor lists, charge, multiplicity and, for a transition state,
//the reacting atom pairs. Identifying descriptors is a job for an
//upstream tool; this type only carries its output.
type Descriptors struct {
	Name          string          `json:"name,omitempty"`
	Charge        int             `json:"charge"`
	Multiplicity  int             `json:"multiplicity,omitempty"`
	Torsions      []*Torsion      `json:"torsions,omitempty"`
	CisTrans      []*CisTrans     `json:"cistrans,omitempty"`
	ChiralCenters []*ChiralCenter `json:"chiral_centers,omitempty"`
	Reacting      [][2]int        `json:"reacting,omitempty"`
}

//ReadDescriptors decodes a Descriptors JSON document from r.
func ReadDescriptors(r io.Reader) (*Descriptors, error) {
	d := new(Descriptors)
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("ReadDescriptors: %w", err)
	}
	return d, nil
}

//DescriptorsFileRead reads a Descriptors JSON file.
func DescriptorsFileRead(name string) (*Descriptors, error) {
	errid := "DescriptorsFileRead"
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	defer f.Close()
	d, err := ReadDescriptors(f)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", errid, name, err)
	}
	return d, nil
}

//Apply transfers the descriptors to mol, after checking that every atom
//index they mention exists there.
func (D *Descriptors) Apply(mol *Structure) error {
	errid := "Descriptors/Apply"
	check := func(kind string, indexes ...int) error {
		for _, v := range indexes {
			if v < 0 || v >= mol.Len() {
				return fmt.Errorf("%s: %s mentions atom %d, but the structure has %d atoms", errid, kind, v, mol.Len())
			}
		}
		return nil
	}
	for _, t := range D.Torsions {
		if err := check("torsion", append(t.Atoms[:], t.Mask...)...); err != nil {
			return err
		}
	}
	for _, ct := range D.CisTrans {
		if err := check("cis/trans bond", append(ct.Atoms[:], ct.Mask...)...); err != nil {
			return err
		}
	}
	for _, cc := range D.ChiralCenters {
		idx := []int{cc.Center}
		idx = append(idx, cc.Neighbors[:]...)
		idx = append(idx, cc.BranchA...)
		idx = append(idx, cc.BranchB...)
		if err := check("chiral center", idx...); err != nil {
			return err
		}
	}
	for _, p := range D.Reacting {
		if err := check("reacting pair", p[0], p[1]); err != nil {
			return err
		}
	}
	if D.Name != "" {
		mol.Name = D.Name
	}
	mol.SetCharge(D.Charge)
	if D.Multiplicity != 0 {
		mol.SetMulti(D.Multiplicity)
	}
	mol.Torsions = D.Torsions
	mol.CisTrans = D.CisTrans
	mol.ChiralCenters = D.ChiralCenters
	mol.Reacting = D.Reacting
	return nil
}

//WriteDescriptors encodes d as indented JSON to w.
func WriteDescriptors(w io.Writer, d *Descriptors) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("WriteDescriptors: %w", err)
	}
	return nil
}

/*
 * xyz.go, part of goConformer.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/rmera/goconformer/v3"
)

//XYZFileRead reads an XYZ-formatted file and returns a Structure with the
//atoms and coordinates of its first frame. Masses are filled from the
//element table when the symbol is known.
func XYZFileRead(name string) (*Structure, error) {
	errid := "XYZFileRead"
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	defer f.Close()
	mol, err := XYZRead(f)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", errid, name, err)
	}
	return mol, nil
}

//XYZRead reads one XYZ frame from r and returns the corresponding
//Structure.
func XYZRead(r io.Reader) (*Structure, error) {
	errid := "XYZRead"
	br := bufio.NewReader(r)
	line, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%s: couldn't read the atom-count line: %w", errid, err)
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("%s: malformed atom-count line %q: %w", errid, line, err)
	}
	comment, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("%s: couldn't read the comment line: %w", errid, err)
	}
	mol := new(Structure)
	mol.Name = strings.TrimSpace(comment)
	mol.Atoms = make([]*Atom, 0, natoms)
	data := make([]float64, 0, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, err = br.ReadString('\n')
		if err != nil && !(err == io.EOF && line != "") {
			return nil, fmt.Errorf("%s: couldn't read atom %d: %w", errid, i, err)
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("%s: malformed line for atom %d: %q", errid, i, line)
		}
		at := new(Atom)
		at.Symbol = fields[0]
		at.Name = fields[0]
		at.Mass, _ = SymbolMass(at.Symbol) //a zero mass just means an unknown element
		mol.Atoms = append(mol.Atoms, at)
		for j := 1; j <= 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("%s: malformed coordinate for atom %d: %w", errid, i, err)
			}
			data = append(data, v)
		}
	}
	mol.Coords, err = v3.NewMatrix(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return mol, nil
}

//XYZFileWrite writes the given coordinates and atoms to an XYZ-formatted
//file. coords may be nil, in which case the structure's own coordinates
//are written.
func XYZFileWrite(name string, coords *v3.Matrix, mol *Structure) error {
	errid := "XYZFileWrite"
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	defer f.Close()
	if err := XYZWrite(f, coords, mol); err != nil {
		return fmt.Errorf("%s (%s): %w", errid, name, err)
	}
	return nil
}

//XYZWrite writes one XYZ frame for the given coordinates and atoms to w.
func XYZWrite(w io.Writer, coords *v3.Matrix, mol *Structure) error {
	errid := "XYZWrite"
	if mol == nil {
		return fmt.Errorf("%s: nil structure", errid)
	}
	if coords == nil {
		coords = mol.Coords
	}
	if coords == nil || coords.NVecs() != mol.Len() {
		return fmt.Errorf("%s: mismatched atoms and coordinates", errid)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n%s\n", mol.Len(), mol.Name)
	for i := 0; i < mol.Len(); i++ {
		fmt.Fprintf(bw, "%-2s  %12.6f %12.6f %12.6f\n", mol.Atom(i).Symbol,
			coords.At(i, 0), coords.At(i, 1), coords.At(i, 2))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}

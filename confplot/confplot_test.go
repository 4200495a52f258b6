/*
 * confplot_test.go, part of goConformer.
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

package confplot

import (
	"os"
	"testing"

	conformer "github.com/rmera/goconformer"
	v3 "github.com/rmera/goconformer/v3"
)

func TestEnergySpectrum(Te *testing.T) {
	coords := v3.Zeros(1)
	confs := []*conformer.Structure{
		{Atoms: []*conformer.Atom{{Symbol: "C"}}, Coords: coords, Index: 0, Energy: -10.0},
		{Atoms: []*conformer.Atom{{Symbol: "C"}}, Coords: coords, Index: 1, Energy: -9.6},
		{Atoms: []*conformer.Atom{{Symbol: "C"}}, Coords: coords, Index: 2, Energy: -9.1},
	}
	name := Te.TempDir() + "/spectrum"
	if err := EnergySpectrum(confs, "test", name); err != nil {
		Te.Fatal(err)
	}
	if _, err := os.Stat(name + ".png"); err != nil {
		Te.Error("the plot file wasn't created")
	}
	if err := EnergySpectrum(nil, "empty", name); err == nil {
		Te.Error("expected an error for an empty conformer list")
	}
}

/*
 * confplot.go, part of goConformer.
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

//Package confplot draws simple reports for the results of a
//conformational search.
package confplot

import (
	"fmt"

	conformer "github.com/rmera/goconformer"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//EnergySpectrum plots, for each conformer, its energy relative to the
//lowest one found (kcal/mol) against its output index, and saves the
//result as a PNG file named plotname.png.
func EnergySpectrum(confs []*conformer.Structure, title, plotname string) error {
	errid := "confplot/EnergySpectrum"
	if len(confs) == 0 {
		return fmt.Errorf("%s: no conformers given", errid)
	}
	min := confs[0].Energy
	for _, c := range confs[1:] {
		if c.Energy < min {
			min = c.Energy
		}
	}
	pts := make(plotter.XYs, len(confs))
	for i, c := range confs {
		pts[i].X = float64(c.Index)
		pts[i].Y = c.Energy - min
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Conformer"
	p.Y.Label.Text = "Relative energy (kcal/mol)"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	p.Add(s)
	if err := p.Save(12*vg.Centimeter, 9*vg.Centimeter, plotname+".png"); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}

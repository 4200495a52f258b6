/*
 * calc.go, part of goConformer.
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

//Package calc implements communication with external programs that supply
//energies and geometry optimization, in such a way that the calculation
//settings are as separated as possible from the choice of program
//performing the calculation.
package calc

import (
	"context"

	conformer "github.com/rmera/goconformer"
	v3 "github.com/rmera/goconformer/v3"
)

//FixedPair is a pair of atoms (0-based indices) whose distance is to be
//held at its current value during an optimization.
type FixedPair struct {
	I, J int
}

//Calc holds the settings for the external energy model. One Calc is
//read-only once the search starts and can be shared by any number of
//concurrent optimizations.
type Calc struct {
	Method       string
	Dielectric   float64
	OptTightness int //0: loosest the program allows, higher is tighter
	Memory       int //Max memory to be used in MB (the effect depends on the program)

	//CConstraints lists atoms (0-based) to be frozen in place.
	CConstraints []int

	//FixedDistances lists atom pairs held at their current distance.
	//The systematic search fills this from a transition state's
	//reaction labeling, so the optimizer can't relax through the
	//reaction coordinate.
	FixedDistances []FixedPair

	Optimize bool
}

//SetDefaults sets the calculation parameters to their defaults. Defaults
//might change as methods evolve, so they are not part of the API.
func (Q *Calc) SetDefaults() {
	Q.Method = "gfn2"
	Q.Optimize = true
}

//Optimizer is anything that can bring a set of coordinates to a local
//energy minimum under an external energy model, honoring fixed-distance
//constraints. Implementations run to their own convergence criterion but
//must give up when the context is cancelled. They must be safe for
//concurrent use: each call works on its own resources.
type Optimizer interface {
	//Optimize returns the relaxed coordinates and the final energy in
	//kcal/mol.
	Optimize(ctx context.Context, coords *v3.Matrix, mol *conformer.Structure, fixed []FixedPair) (*v3.Matrix, float64, error)
}

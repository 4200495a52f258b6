/*
 * xtb.go, part of goConformer.
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
//In order to use this part of the library you need the xtb program, which
//must be obtained from Prof. Stefan Grimme's group.
//Please cite the xtb references if you use it.

package calc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	conformer "github.com/rmera/goconformer"
	v3 "github.com/rmera/goconformer/v3"
)

//XTBHandle represents one xtb calculation: input generation, the run
//itself, and the retrieval of its results. A handle is bound to one work
//directory and is not safe for concurrent use; the XTB Optimizer below
//creates one handle per optimization.
type XTBHandle struct {
	//Note that the defaults are NOT considered part of the API and
	//can change as new xtb versions appear.
	command   string
	inputname string
	nCPU      int
	options   []string
	wrkdir    string
}

//NewXTBHandle initializes and returns an xtb handle with values set to
//their defaults.
func NewXTBHandle() *XTBHandle {
	run := new(XTBHandle)
	run.SetDefaults()
	return run
}

//SetnCPU sets the number of CPUs given to each xtb run. The systematic
//search parallelizes over candidates, so this is 1 unless set otherwise.
func (O *XTBHandle) SetnCPU(cpu int) {
	O.nCPU = cpu
}

//Command returns the path and name for the xtb executable.
func (O *XTBHandle) Command() string {
	return O.command
}

//SetName sets the name for the calculation, which defines the input and
//output file names.
func (O *XTBHandle) SetName(name string) {
	O.inputname = name
}

//SetCommand sets the path and name for the xtb executable.
func (O *XTBHandle) SetCommand(name string) {
	O.command = name
}

//SetWorkDir sets the name of the working directory for the calculation.
func (O *XTBHandle) SetWorkDir(d string) {
	O.wrkdir = d
}

//SetDefaults sets calculation parameters to their defaults.
func (O *XTBHandle) SetDefaults() {
	O.command = os.ExpandEnv("xtb")
	O.nCPU = 1
}

//BuildInput writes the coordinate file and the xcontrol input for one xtb
//calculation with the given settings, in the handle's work directory.
func (O *XTBHandle) BuildInput(coords *v3.Matrix, mol *conformer.Structure, Q *Calc) error {
	errid := "XTBHandle/BuildInput"
	if O.wrkdir != "" && !strings.HasSuffix(O.wrkdir, "/") {
		O.wrkdir += "/"
	}
	w := O.wrkdir
	if O.inputname == "" {
		O.inputname = "goconformer"
	}
	if mol == nil || coords == nil {
		return fmt.Errorf("%s: no molecule or coordinates given", errid)
	}
	err := conformer.XYZFileWrite(w+O.inputname+".xyz", coords, mol)
	if err != nil {
		return fmt.Errorf("%s: couldn't write xyz file: %w", errid, err)
	}
	O.options = make([]string, 0, 6)
	O.options = append(O.options, O.inputname+".xyz")
	O.options = append(O.options, fmt.Sprintf("--chrg %d", mol.Charge()))
	O.options = append(O.options, fmt.Sprintf("--uhf %d", mol.Multi()-1))
	if O.nCPU > 1 {
		O.options = append(O.options, fmt.Sprintf("-P %d", O.nCPU))
	}
	switch Q.Method {
	case "gfn0", "gfn1", "gfn2":
		O.options = append(O.options, "--gfn "+strings.TrimPrefix(Q.Method, "gfn"))
	case "gfnff":
		O.options = append(O.options, "--gfnff")
	default:
		O.options = append(O.options, "--gfn 2")
	}
	if Q.Dielectric > 0 && Q.Method != "gfn0" { //gfn0 doesn't support implicit solvation
		solvent, ok := dielectric2Solvent[int(Q.Dielectric)]
		if ok {
			O.options = append(O.options, "--alpb "+solvent)
		}
	}
	if Q.Optimize {
		o := "--opt normal"
		if Q.OptTightness >= 2 {
			o = "--opt tight"
		}
		O.options = append(O.options, o)
	}
	xcontrol, err := os.Create(w + O.inputname + ".inp")
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	defer xcontrol.Close()
	if Q.CConstraints != nil {
		fixed := make([]string, 0, len(Q.CConstraints))
		for _, v := range Q.CConstraints {
			fixed = append(fixed, fmt.Sprintf("%d", v+1)) //xtb atom indices are 1-based
		}
		fmt.Fprintf(xcontrol, "$fix\n atoms: %s\n$end\n", strings.Join(fixed, ","))
	}
	if Q.FixedDistances != nil {
		fmt.Fprintf(xcontrol, "$constrain\n force constant=10.0\n")
		for _, p := range Q.FixedDistances {
			fmt.Fprintf(xcontrol, " distance: %d, %d, auto\n", p.I+1, p.J+1)
		}
		fmt.Fprintf(xcontrol, "$end\n")
	}
	O.options = append(O.options, "--input "+O.inputname+".inp")
	return nil
}

//Run runs the calculation previously set up with BuildInput, waiting for
//it to finish. If the context is cancelled the program is killed and the
//context's error returned. Only works on unix-compatible systems, as it
//uses sh.
func (O *XTBHandle) Run(ctx context.Context) error {
	errid := "XTBHandle/Run"
	com := fmt.Sprintf("%s %s > %s.out 2>&1", O.command, strings.Join(O.options, " "), O.inputname)
	command := exec.CommandContext(ctx, "sh", "-c", com)
	command.Dir = O.wrkdir
	err := command.Run()
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", errid, ctx.Err())
	}
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	os.Remove(O.wrkdir + "xtbrestart")
	return nil
}

//normalTermination checks that an xtb calculation has terminated normally.
func (O *XTBHandle) normalTermination() bool {
	out := fmt.Sprintf("%s%s.out", O.wrkdir, O.inputname)
	return searchBackwards("normal termination of x", out) != ""
}

//Energy returns the total energy, in kcal/mol, of a previously run xtb
//calculation, by parsing the program's output backwards.
func (O *XTBHandle) Energy() (float64, error) {
	errid := "XTBHandle/Energy"
	if !O.normalTermination() {
		return 0, fmt.Errorf("%s: calculation didn't end normally", errid)
	}
	out := fmt.Sprintf("%s%s.out", O.wrkdir, O.inputname)
	energyline := searchBackwards("TOTAL ENERGY", out)
	if energyline == "" {
		energyline = searchBackwards("total E       :", out)
	}
	if energyline == "" {
		return 0, fmt.Errorf("%s: no energy found in output", errid)
	}
	fields := strings.Fields(energyline)
	for _, f := range fields {
		var energy float64
		if _, err := fmt.Sscanf(f, "%f", &energy); err == nil {
			return energy * conformer.H2Kcal, nil
		}
	}
	return 0, fmt.Errorf("%s: couldn't parse energy from line %q", errid, energyline)
}

//OptimizedGeometry reads the optimized geometry from a finished xtb
//optimization in the handle's work directory.
func (O *XTBHandle) OptimizedGeometry() (*v3.Matrix, error) {
	errid := "XTBHandle/OptimizedGeometry"
	if !O.normalTermination() {
		return nil, fmt.Errorf("%s: calculation didn't end normally", errid)
	}
	mol, err := conformer.XYZFileRead(O.wrkdir + "xtbopt.xyz")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	return mol.Coords, nil
}

//XTB is an Optimizer backed by the xtb program. Each Optimize call runs
//in its own subdirectory of Wrkdir: running several calculations in
//parallel in the same directory would fail, as xtb output files always
//have the same names.
type XTB struct {
	Command string //path to the xtb executable; "" uses the default
	Wrkdir  string //parent directory for the per-run subdirectories
	Q       *Calc
}

//NewXTB returns an XTB optimizer for the given energy-model settings.
//A nil Q gets the defaults.
func NewXTB(Q *Calc) *XTB {
	if Q == nil {
		Q = new(Calc)
		Q.SetDefaults()
	}
	return &XTB{Q: Q}
}

//Optimize relaxes the given coordinates to a local minimum with xtb,
//returning the final geometry and its energy in kcal/mol.
func (X *XTB) Optimize(ctx context.Context, coords *v3.Matrix, mol *conformer.Structure, fixed []FixedPair) (*v3.Matrix, float64, error) {
	errid := "XTB/Optimize"
	base := X.Wrkdir
	if base == "" {
		base = "."
	}
	dir, err := os.MkdirTemp(base, "xtbopt")
	if err != nil {
		return nil, 0, fmt.Errorf("%s: couldn't create work directory: %w", errid, err)
	}
	Q := *X.Q
	Q.Optimize = true
	Q.FixedDistances = fixed
	h := NewXTBHandle()
	if X.Command != "" {
		h.SetCommand(X.Command)
	}
	h.SetWorkDir(dir)
	h.SetName("cand")
	if err := h.BuildInput(coords, mol, &Q); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", errid, err)
	}
	if err := h.Run(ctx); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", errid, err)
	}
	energy, err := h.Energy()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", errid, err)
	}
	geo, err := h.OptimizedGeometry()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", errid, err)
	}
	if geo.NVecs() != mol.Len() {
		return nil, 0, fmt.Errorf("%s: optimizer returned %d coordinates for %d atoms", errid, geo.NVecs(), mol.Len())
	}
	return geo, energy, nil
}

//SinglePoint returns the energy, in kcal/mol, of the given geometry,
//without optimizing it.
func (X *XTB) SinglePoint(ctx context.Context, coords *v3.Matrix, mol *conformer.Structure) (float64, error) {
	errid := "XTB/SinglePoint"
	base := X.Wrkdir
	if base == "" {
		base = "."
	}
	dir, err := os.MkdirTemp(base, "xtbsp")
	if err != nil {
		return 0, fmt.Errorf("%s: couldn't create work directory: %w", errid, err)
	}
	Q := *X.Q
	Q.Optimize = false
	h := NewXTBHandle()
	if X.Command != "" {
		h.SetCommand(X.Command)
	}
	h.SetWorkDir(dir)
	h.SetName("sp")
	if err := h.BuildInput(coords, mol, &Q); err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	if err := h.Run(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	energy, err := h.Energy()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errid, err)
	}
	return energy, nil
}

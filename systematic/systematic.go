/*
 * systematic.go, part of goConformer.
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

//Package systematic performs brute-force conformational search over a
//flexible molecule or transition-state candidate. It enumerates every
//combination of discretized torsion angles, cis/trans labels and
//chirality labels, builds an independent candidate per combination,
//relaxes the candidates in parallel with an external optimizer, and
//reduces the relaxed geometries to one representative per distinct
//low-energy conformer.
package systematic

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	conformer "github.com/rmera/goconformer"
	"github.com/rmera/goconformer/calc"
	"github.com/rmera/goconformer/stf"
	"go.uber.org/zap"
)

//Options configures a Search. The zero value is usable: every field falls
//back to its documented default.
type Options struct {
	//Delta is the torsion grid step in degrees. It must divide 360.
	//0 means the default, 30.
	Delta float64

	//SkipCisTrans and SkipChiral disable the enumeration of their
	//descriptor class, leaving the corresponding geometry as given.
	SkipCisTrans bool
	SkipChiral   bool

	//Workers bounds how many candidates relax at the same time.
	//0 or less means one per CPU.
	Workers int

	//Timeout is the most wall time one candidate's relaxation may take.
	//0 means no limit.
	Timeout time.Duration

	//Store, if true, persists the resulting conformers (compressed
	//coordinates plus an energies table) under StoreDir, which defaults
	//to the working directory.
	Store    bool
	StoreDir string

	//Logger receives progress and per-candidate failure reports. Nil
	//keeps the search silent.
	Logger *zap.Logger
}

func (o *Options) fillDefaults() {
	if o.Delta == 0 {
		o.Delta = 30
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.StoreDir == "" {
		o.StoreDir = "."
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

//Report accounts for every candidate submitted to a Search: each one
//either succeeded or appears in Failed with the reason. It also records
//the thresholds the deduplication used.
type Report struct {
	Combinations int
	Succeeded    int
	Failed       []Failure
	Kept         int
	Window       float64 //kcal/mol
	Cutoff       float64
}

//Search runs the whole systematic search on mol, relaxing candidates with
//opt. It returns the distinct conformers found within EnergyWindow of the
//lowest energy, ordered by ascending energy and indexed from 0, plus a
//Report. If mol has no descriptors at all there is nothing to search:
//the result is mol itself, untouched, as the only element.
//
//Candidate failures (including per-candidate timeouts) are reported, not
//fatal; Search only errors when no candidate at all could be relaxed, or
//on a structural problem with the enumeration. mol is never modified.
func Search(ctx context.Context, mol *conformer.Structure, opt calc.Optimizer, o *Options) ([]*conformer.Structure, *Report, error) {
	errid := "systematic/Search"
	if o == nil {
		o = new(Options)
	}
	opts := *o
	opts.fillDefaults()
	log := opts.Logger.Sugar()
	combos, err := FindAllCombos(mol, opts.Delta, !opts.SkipCisTrans, !opts.SkipChiral)
	if errors.Is(err, ErrNoCombos) {
		log.Infow("no descriptors to search, returning the original structure", "name", mol.Name)
		return []*conformer.Structure{mol}, &Report{Window: EnergyWindow, Cutoff: SimilarityCutoff}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", errid, err)
	}
	log.Infow("enumerated combinations", "name", mol.Name, "combinations", len(combos), "delta", opts.Delta)
	cands, err := BuildCandidates(mol, combos)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", errid, err)
	}
	results, failures := relaxAll(ctx, cands, opt, opts.Workers, opts.Timeout, log)
	report := &Report{
		Combinations: len(cands),
		Succeeded:    len(results),
		Failed:       failures,
		Window:       EnergyWindow,
		Cutoff:       SimilarityCutoff,
	}
	if len(results)+len(failures) != len(cands) {
		return nil, report, fmt.Errorf("%s: %d candidates submitted but only %d accounted for", errid, len(cands), len(results)+len(failures))
	}
	if len(results) == 0 {
		return nil, report, fmt.Errorf("%s: all %d candidates failed to relax", errid, len(cands))
	}
	kept, err := deduplicate(results, EnergyWindow, SimilarityCutoff)
	if err != nil {
		return nil, report, fmt.Errorf("%s: %w", errid, err)
	}
	report.Kept = len(kept)
	log.Infow("deduplicated conformers", "name", mol.Name, "relaxed", len(results), "kept", len(kept), "failed", len(failures))
	confs := make([]*conformer.Structure, 0, len(kept))
	for i, r := range kept {
		conf := mol.Copy()
		conf.Index = i
		conf.Energy = r.Energy
		if err := conf.SetCoords(r.Coords); err != nil {
			return nil, report, fmt.Errorf("%s: conformer %d: %w", errid, i, err)
		}
		confs = append(confs, conf)
	}
	if opts.Store {
		if err := store(confs, opts.StoreDir, mol.Name); err != nil {
			return nil, report, fmt.Errorf("%s: %w", errid, err)
		}
	}
	return confs, report, nil
}

//store persists the conformers as a compressed coordinate trajectory plus
//an energies table next to it.
func store(confs []*conformer.Structure, dir, name string) error {
	errid := "systematic/store"
	if name == "" {
		name = "conformers"
	}
	traj, err := stf.NewWriter(filepath.Join(dir, name+".stf"), confs[0].Len())
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	for _, c := range confs {
		if err := traj.WNext(c.Coords); err != nil {
			traj.Close()
			return fmt.Errorf("%s: %w", errid, err)
		}
	}
	if err := traj.Close(); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	f, err := os.Create(filepath.Join(dir, name+"_energies.csv"))
	if err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"index", "energy_kcal_mol"})
	for _, c := range confs {
		w.Write([]string{strconv.Itoa(c.Index), strconv.FormatFloat(c.Energy, 'f', 6, 64)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%s: %w", errid, err)
	}
	return nil
}

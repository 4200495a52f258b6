/*
 * main.go, part of goConformer.
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

//confsearch runs a systematic conformational search on an XYZ structure,
//relaxing each candidate with xtb.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	conformer "github.com/rmera/goconformer"
	"github.com/rmera/goconformer/calc"
	"github.com/rmera/goconformer/confplot"
	"github.com/rmera/goconformer/systematic"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type options struct {
	descriptors string
	delta       float64
	noCisTrans  bool
	noChiral    bool
	workers     int
	timeout     time.Duration
	store       bool
	storeDir    string
	writeXYZ    bool
	plot        bool
	method      string
	dielectric  float64
	xtbCommand  string
	verbose     bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "confsearch:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := new(options)
	cmd := &cobra.Command{
		Use:   "confsearch structure.xyz",
		Short: "Systematic conformational search with xtb relaxation",
		Long: "confsearch enumerates all combinations of torsion angles, cis/trans labels\n" +
			"and chirality labels of a structure, relaxes every candidate with xtb in\n" +
			"parallel, and reports the distinct conformers within 1 kcal/mol of the\n" +
			"lowest one found. Descriptors (torsions, stereo bonds, chiral centers,\n" +
			"charge, reacting pairs) are read from a JSON file.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.descriptors, "descriptors", "d", "", "JSON file with the structure's descriptors (default: structure.json next to the input)")
	f.Float64Var(&opts.delta, "delta", 30, "torsion grid step in degrees; must divide 360")
	f.BoolVar(&opts.noCisTrans, "no-cistrans", false, "don't enumerate cis/trans labels")
	f.BoolVar(&opts.noChiral, "no-chiral", false, "don't enumerate chirality labels")
	f.IntVarP(&opts.workers, "workers", "w", 0, "concurrent relaxations (0 = one per CPU)")
	f.DurationVar(&opts.timeout, "timeout", 0, "per-candidate relaxation timeout (0 = none)")
	f.BoolVar(&opts.store, "store", false, "store the conformers as a compressed trajectory plus an energies table")
	f.StringVar(&opts.storeDir, "store-dir", ".", "directory for stored results")
	f.BoolVar(&opts.writeXYZ, "write-xyz", false, "write each conformer as an individual XYZ file")
	f.BoolVar(&opts.plot, "plot", false, "save an energy-spectrum plot of the results")
	f.StringVar(&opts.method, "method", "gfn2", "xtb method (gfn0, gfn1, gfn2, gfnff)")
	f.Float64Var(&opts.dielectric, "epsilon", 0, "dielectric constant for implicit solvation (0 = gas phase)")
	f.StringVar(&opts.xtbCommand, "xtb", "", "path to the xtb executable (default: xtb from PATH)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log search progress")

	v := viper.New()
	v.SetEnvPrefix("CONFSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.BindPFlags(f)
	//environment values fill in whatever wasn't given on the command line
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		f.VisitAll(func(fl *pflag.Flag) {
			if err != nil || fl.Changed || !v.IsSet(fl.Name) {
				return
			}
			err = f.Set(fl.Name, v.GetString(fl.Name))
		})
		return err
	}
	return cmd
}

func run(ctx context.Context, xyzname string, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zap.NewNop()
	if opts.verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
	}
	mol, err := conformer.XYZFileRead(xyzname)
	if err != nil {
		return err
	}
	descname := opts.descriptors
	if descname == "" {
		descname = strings.TrimSuffix(xyzname, ".xyz") + ".json"
	}
	desc, err := conformer.DescriptorsFileRead(descname)
	if err != nil {
		return err
	}
	if err := desc.Apply(mol); err != nil {
		return err
	}
	Q := new(calc.Calc)
	Q.SetDefaults()
	Q.Method = opts.method
	Q.Dielectric = opts.dielectric
	xtb := calc.NewXTB(Q)
	xtb.Command = opts.xtbCommand
	xtb.Wrkdir = opts.storeDir

	confs, report, err := systematic.Search(ctx, mol, xtb, &systematic.Options{
		Delta:        opts.delta,
		SkipCisTrans: opts.noCisTrans,
		SkipChiral:   opts.noChiral,
		Workers:      opts.workers,
		Timeout:      opts.timeout,
		Store:        opts.store,
		StoreDir:     opts.storeDir,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%d combinations, %d relaxed, %d failed, %d distinct conformers\n",
		report.Combinations, report.Succeeded, len(report.Failed), len(confs))
	for _, c := range confs {
		fmt.Printf("conformer %3d  %12.4f kcal/mol\n", c.Index, c.Energy)
	}
	for _, fail := range report.Failed {
		fmt.Printf("candidate %3d failed: %v\n", fail.Index, fail.Err)
	}
	if opts.writeXYZ {
		for _, c := range confs {
			name := fmt.Sprintf("%s_conf%d.xyz", strings.TrimSuffix(xyzname, ".xyz"), c.Index)
			if err := conformer.XYZFileWrite(name, nil, c); err != nil {
				return err
			}
		}
	}
	if opts.plot {
		plotname := strings.TrimSuffix(xyzname, ".xyz") + "_spectrum"
		if err := confplot.EnergySpectrum(confs, mol.Name, plotname); err != nil {
			return err
		}
	}
	return nil
}

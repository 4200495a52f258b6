/*
 * relax.go, part of goConformer.
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

package systematic

import (
	"context"
	"fmt"
	"sort"
	"time"

	conformer "github.com/rmera/goconformer"
	"github.com/rmera/goconformer/calc"
	v3 "github.com/rmera/goconformer/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

//Result is the outcome of one successful relaxation: the candidate's
//combination index, its final energy in kcal/mol, the relaxed coordinates
//and their distance-matrix fingerprint. Immutable once produced.
type Result struct {
	Index     int
	Energy    float64
	Coords    *v3.Matrix
	Distances *mat.Dense
}

//Failure records one candidate whose relaxation did not produce a result.
type Failure struct {
	Index int
	Err   error
}

//relaxAll brings every candidate to a local minimum, at most workers at a
//time. Each candidate gets its own context; if timeout is positive, the
//context expires after that long, so a hung optimizer loses its own
//candidate and nothing else. Every submitted index ends up in exactly one
//of the two returned slices. The slices are ordered by index.
func relaxAll(ctx context.Context, cands []*conformer.Structure, opt calc.Optimizer, workers int, timeout time.Duration, log *zap.SugaredLogger) ([]Result, []Failure) {
	resc := make(chan Result, len(cands))
	failc := make(chan Failure, len(cands))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, cand := range cands {
		i, cand := i, cand
		g.Go(func() error {
			cctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				cctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			var fixed []calc.FixedPair
			for _, p := range cand.FixedPairs() {
				fixed = append(fixed, calc.FixedPair{I: p[0], J: p[1]})
			}
			coords, energy, err := opt.Optimize(cctx, cand.Coords, cand, fixed)
			if err != nil {
				log.Infow("candidate relaxation failed", "index", i, "error", err)
				failc <- Failure{Index: i, Err: fmt.Errorf("candidate %d: %w", i, err)}
				return nil //a failed candidate must not abort its siblings
			}
			resc <- Result{Index: i, Energy: energy, Coords: coords, Distances: conformer.DistanceMatrix(coords)}
			return nil
		})
	}
	g.Wait() //the workers only report through the channels
	close(resc)
	close(failc)
	results := make([]Result, 0, len(cands))
	for r := range resc {
		results = append(results, r)
	}
	failures := make([]Failure, 0)
	for f := range failc {
		failures = append(failures, f)
	}
	sortResultsByIndex(results)
	sort.Slice(failures, func(a, b int) bool { return failures[a].Index < failures[b].Index })
	return results, failures
}

func sortResultsByIndex(r []Result) {
	sort.Slice(r, func(a, b int) bool { return r[a].Index < r[b].Index })
}

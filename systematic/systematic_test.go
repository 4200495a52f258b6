/*
 * systematic_test.go, part of goConformer.
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
	"math"
	"testing"
	"time"

	conformer "github.com/rmera/goconformer"
	"github.com/rmera/goconformer/calc"
	v3 "github.com/rmera/goconformer/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

//a 4-atom chain with one rotatable bond; the dihedral 0-1-2-3 starts
//at 60 degrees.
func testMol(t *testing.T) *conformer.Structure {
	t.Helper()
	coords, err := v3.NewMatrix([]float64{
		1, 0, 0,
		0, 0, 0,
		0, 0, 1,
		math.Cos(math.Pi / 3), math.Sin(math.Pi / 3), 1,
	})
	require.NoError(t, err)
	return &conformer.Structure{
		Atoms: []*conformer.Atom{
			{Symbol: "C"}, {Symbol: "C"}, {Symbol: "C"}, {Symbol: "C"},
		},
		Coords:   coords,
		Name:     "chain",
		Torsions: []*conformer.Torsion{{Atoms: [4]int{0, 1, 2, 3}, Mask: []int{3}}},
	}
}

//springOpt is an in-process stand-in for a real optimizer: it leaves the
//geometry as given and scores it by the squared 0-3 distance, so the
//0-degree rotamer of testMol is the global minimum. failBelow, if
//positive, makes candidates with a 0-3 distance under it fail.
type springOpt struct {
	failBelow float64
}

func (s *springOpt) Optimize(ctx context.Context, coords *v3.Matrix, mol *conformer.Structure, fixed []calc.FixedPair) (*v3.Matrix, float64, error) {
	diff := v3.Zeros(1)
	diff.Sub(coords.VecView(0), coords.VecView(3))
	r := diff.Norm()
	if s.failBelow > 0 && r < s.failBelow {
		return nil, 0, fmt.Errorf("unconverged")
	}
	out := v3.Zeros(coords.NVecs())
	out.Copy(coords)
	return out, 0.1 * r * r, nil
}

//blockingOpt never converges; it only returns when its context dies.
type blockingOpt struct{}

func (blockingOpt) Optimize(ctx context.Context, coords *v3.Matrix, mol *conformer.Structure, fixed []calc.FixedPair) (*v3.Matrix, float64, error) {
	<-ctx.Done()
	return nil, 0, ctx.Err()
}

func TestAngleGrid(t *testing.T) {
	grid, err := angleGrid(120)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 120, 240}, grid)
	_, err = angleGrid(50)
	assert.Error(t, err, "50 does not divide 360")
	_, err = angleGrid(0)
	assert.Error(t, err)
	_, err = angleGrid(-30)
	assert.Error(t, err)
}

func TestFindAllCombosSingleTorsion(t *testing.T) {
	mol := testMol(t)
	combos, err := FindAllCombos(mol, 120, true, true)
	require.NoError(t, err)
	require.Len(t, combos, 3)
	angles := make([]float64, 0, 3)
	for _, c := range combos {
		require.Len(t, c.Angles, 1)
		assert.Empty(t, c.CisTrans)
		assert.Empty(t, c.Chiral)
		angles = append(angles, c.Angles[0])
	}
	assert.ElementsMatch(t, []float64{0, 120, 240}, angles)
}

func TestFindAllCombosCounts(t *testing.T) {
	mol := testMol(t)
	mol.Torsions = append(mol.Torsions, &conformer.Torsion{Atoms: [4]int{1, 2, 3, 0}, Mask: []int{0}})
	mol.CisTrans = []*conformer.CisTrans{{Atoms: [4]int{0, 1, 2, 3}, Mask: []int{3}}}
	mol.ChiralCenters = []*conformer.ChiralCenter{
		{Center: 1, Neighbors: [4]int{0, 2, 3, 3}},
		{Center: 2, Neighbors: [4]int{1, 3, 0, 0}},
	}
	combos, err := FindAllCombos(mol, 120, true, true)
	require.NoError(t, err)
	//2 torsions on a 3-angle grid: 6 ascending tuples plus 3 strictly
	//descending ones from the reversed grid. 1 cis/trans bond: 2 labels.
	//2 chiral centers: 3 ascending plus the (S,R) tuple.
	assert.Len(t, combos, 9*2*4)
	for _, c := range combos {
		assert.Len(t, c.Angles, 2)
		assert.Len(t, c.CisTrans, 1)
		assert.Len(t, c.Chiral, 2)
	}
	//disabling a class leaves a single empty tuple in its place
	combos, err = FindAllCombos(mol, 120, false, false)
	require.NoError(t, err)
	assert.Len(t, combos, 9)
	for _, c := range combos {
		assert.Empty(t, c.CisTrans)
		assert.Empty(t, c.Chiral)
	}
}

func TestFindAllCombosNoDescriptors(t *testing.T) {
	mol := testMol(t)
	mol.Torsions = nil
	_, err := FindAllCombos(mol, 30, true, true)
	assert.ErrorIs(t, err, ErrNoCombos)
}

func TestBuildCandidatesIndependence(t *testing.T) {
	mol := testMol(t)
	combos, err := FindAllCombos(mol, 120, true, true)
	require.NoError(t, err)
	cands, err := BuildCandidates(mol, combos)
	require.NoError(t, err)
	require.Len(t, cands, 3)
	//the base keeps its original 60-degree dihedral
	d := conformer.Dihedral(mol.Coords.VecView(0), mol.Coords.VecView(1),
		mol.Coords.VecView(2), mol.Coords.VecView(3))
	assert.InDelta(t, 60, conformer.Rad2Deg(d), 1e-6, "the base structure was mutated")
	//each candidate carries its combination's dihedral
	for i, c := range cands {
		d := conformer.Dihedral(c.Coords.VecView(0), c.Coords.VecView(1),
			c.Coords.VecView(2), c.Coords.VecView(3))
		want := combos[i].Angles[0]
		if want == 240 {
			want = -120 //Dihedral reports in (-180,180]
		}
		assert.InDelta(t, want, conformer.Rad2Deg(d), 1e-6)
	}
	//mutating one candidate touches neither the base nor its siblings
	cands[0].Coords.Set(3, 0, 42)
	assert.NotEqual(t, 42.0, mol.Coords.At(3, 0))
	assert.NotEqual(t, 42.0, cands[1].Coords.At(3, 0))
}

func TestBuildCandidatesMalformed(t *testing.T) {
	mol := testMol(t)
	bad := []Combination{{Angles: []float64{0, 120}}} //2 angles, 1 torsion
	cands, err := BuildCandidates(mol, bad)
	assert.Error(t, err)
	assert.Nil(t, cands)
}

func fingerprint2(d float64) *mat.Dense {
	return mat.NewDense(2, 2, []float64{0, d, d, 0})
}

func TestDeduplicateWindow(t *testing.T) {
	//distinct geometries; only the energy window decides
	results := []Result{
		{Index: 0, Energy: 0.0, Distances: fingerprint2(1.0)},
		{Index: 1, Energy: 0.2, Distances: fingerprint2(2.0)},
		{Index: 2, Energy: 2.0, Distances: fingerprint2(3.0)},
	}
	kept, err := deduplicate(results, EnergyWindow, SimilarityCutoff)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 0, kept[0].Index)
	assert.Equal(t, 1, kept[1].Index)
}

func TestDeduplicateClustering(t *testing.T) {
	//indices 0 and 1 differ by RMS |1.0-1.1|/sqrt(2) ≈ 0.071 <= cutoff,
	//index 2 is 0.2 away from index 0 in fingerprint, RMS ≈ 0.141 > cutoff
	results := []Result{
		{Index: 0, Energy: 0.0, Distances: fingerprint2(1.0)},
		{Index: 1, Energy: 0.3, Distances: fingerprint2(1.1)},
		{Index: 2, Energy: 0.5, Distances: fingerprint2(1.2)},
	}
	kept, err := deduplicate(results, EnergyWindow, SimilarityCutoff)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 0, kept[0].Index, "the lower-energy member represents the cluster")
	assert.Equal(t, 2, kept[1].Index)
}

func TestDeduplicateIdempotence(t *testing.T) {
	results := []Result{
		{Index: 3, Energy: 0.4, Distances: fingerprint2(1.05)},
		{Index: 0, Energy: 0.0, Distances: fingerprint2(1.0)},
		{Index: 1, Energy: 0.2, Distances: fingerprint2(1.5)},
		{Index: 2, Energy: 5.0, Distances: fingerprint2(9.0)},
	}
	once, err := deduplicate(results, EnergyWindow, SimilarityCutoff)
	require.NoError(t, err)
	twice, err := deduplicate(once, EnergyWindow, SimilarityCutoff)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestDeduplicateEmpty(t *testing.T) {
	_, err := deduplicate(nil, EnergyWindow, SimilarityCutoff)
	assert.Error(t, err)
}

func TestSearchNoDescriptors(t *testing.T) {
	mol := testMol(t)
	mol.Torsions = nil
	confs, report, err := Search(context.Background(), mol, &springOpt{}, nil)
	require.NoError(t, err)
	require.Len(t, confs, 1)
	assert.Same(t, mol, confs[0], "degenerate input returns the original structure")
	assert.Zero(t, report.Combinations)
	assert.Empty(t, report.Failed)
}

func TestSearch(t *testing.T) {
	mol := testMol(t)
	confs, report, err := Search(context.Background(), mol, &springOpt{}, &Options{Delta: 120, Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Combinations)
	assert.Equal(t, 3, report.Succeeded)
	assert.Empty(t, report.Failed)
	//the 120- and 240-degree rotamers are mirror images with identical
	//distance fingerprints, so they collapse into one conformer
	require.Len(t, confs, 2)
	assert.Equal(t, 0, confs[0].Index)
	assert.Equal(t, 1, confs[1].Index)
	assert.Less(t, confs[0].Energy, confs[1].Energy)
	assert.InDelta(t, 0.1, confs[0].Energy, 1e-6) //0-3 distance 1 at 0 degrees
	assert.InDelta(t, 0.4, confs[1].Energy, 1e-6) //0-3 distance 2 at ±120
	//the input structure keeps its original dihedral
	d := conformer.Dihedral(mol.Coords.VecView(0), mol.Coords.VecView(1),
		mol.Coords.VecView(2), mol.Coords.VecView(3))
	assert.InDelta(t, 60, conformer.Rad2Deg(d), 1e-6)
}

func TestSearchFailureIsolation(t *testing.T) {
	mol := testMol(t)
	//the 0-degree rotamer has a 0-3 distance of 1, the others of 2
	confs, report, err := Search(context.Background(), mol, &springOpt{failBelow: 1.5}, &Options{Delta: 120})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Combinations)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, report.Combinations, report.Succeeded+len(report.Failed),
		"every candidate is accounted for exactly once")
	require.Len(t, confs, 1, "the two surviving mirror rotamers are one conformer")
	assert.InDelta(t, 0.4, confs[0].Energy, 1e-6)
}

func TestSearchPerCandidateTimeout(t *testing.T) {
	mol := testMol(t)
	start := time.Now()
	confs, report, err := Search(context.Background(), mol, blockingOpt{}, &Options{
		Delta:   120,
		Workers: 3,
		Timeout: 20 * time.Millisecond,
	})
	assert.Error(t, err, "every candidate timed out")
	assert.Nil(t, confs)
	require.NotNil(t, report)
	assert.Len(t, report.Failed, 3)
	assert.Less(t, time.Since(start), 5*time.Second, "a hung optimizer must not hang the search")
}

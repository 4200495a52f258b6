/*
 * stf_test.go, part of goConformer.
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

package stf

import (
	"io"
	"math"
	"testing"

	v3 "github.com/rmera/goconformer/v3"
)

func TestRoundTrip(Te *testing.T) {
	name := Te.TempDir() + "/traj.stf"
	frames := make([]*v3.Matrix, 0, 2)
	f1, err := v3.NewMatrix([]float64{
		0.12, -1.5, 3.14159,
		10.01, 0, -0.005,
	})
	if err != nil {
		Te.Fatal(err)
	}
	f2, err := v3.NewMatrix([]float64{
		-2.33, 4.5, 0.01,
		0.99, -123.45, 6.78,
	})
	if err != nil {
		Te.Fatal(err)
	}
	frames = append(frames, f1, f2)
	w, err := NewWriter(name, 2)
	if err != nil {
		Te.Fatal(err)
	}
	for _, f := range frames {
		if err := w.WNext(f); err != nil {
			Te.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, err := NewReader(name)
	if err != nil {
		Te.Fatal(err)
	}
	if r.Len() != 2 {
		Te.Fatalf("expected 2 atoms per frame, got %d", r.Len())
	}
	got := v3.Zeros(2)
	for fi, want := range frames {
		if err := r.Next(got); err != nil {
			Te.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				//default precision keeps 2 decimals
				if math.Abs(got.At(i, j)-want.At(i, j)) > 0.005+1e-9 {
					Te.Errorf("frame %d atom %d coordinate %d: want %f, got %f",
						fi, i, j, want.At(i, j), got.At(i, j))
				}
			}
		}
	}
	if err := r.Next(got); err != io.EOF {
		Te.Errorf("expected io.EOF after the last frame, got %v", err)
	}
}

func TestWriterChecks(Te *testing.T) {
	name := Te.TempDir() + "/bad.stf"
	w, err := NewWriter(name, 3)
	if err != nil {
		Te.Fatal(err)
	}
	defer w.Close()
	if err := w.WNext(nil); err == nil {
		Te.Error("expected an error for nil coordinates")
	}
	if err := w.WNext(v3.Zeros(2)); err == nil {
		Te.Error("expected an error for a wrong atom count")
	}
}

func TestHigherPrecision(Te *testing.T) {
	name := Te.TempDir() + "/prec.stf"
	f, err := v3.NewMatrix([]float64{1.23456, -0.00042, 7.0001})
	if err != nil {
		Te.Fatal(err)
	}
	w, err := NewWriter(name, 1, 4)
	if err != nil {
		Te.Fatal(err)
	}
	if err := w.WNext(f); err != nil {
		Te.Fatal(err)
	}
	if err := w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, err := NewReader(name)
	if err != nil {
		Te.Fatal(err)
	}
	got := v3.Zeros(1)
	if err := r.Next(got); err != nil {
		Te.Fatal(err)
	}
	for j := 0; j < 3; j++ {
		if math.Abs(got.At(0, j)-f.At(0, j)) > 0.00005+1e-12 {
			Te.Errorf("coordinate %d: want %f, got %f", j, f.At(0, j), got.At(0, j))
		}
	}
	r.Close()
}

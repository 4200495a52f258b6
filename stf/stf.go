/*
 * stf.go, part of goConformer.
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

//Package stf implements a simple zstd-compressed, multi-frame coordinate
//store. Coordinates are kept as fixed-point text, by default with 2
//decimals, which compresses much better than free-form floats while
//keeping more precision than a conformational search needs. The format is
//a header line "** natoms", then, per frame, one "x y z" line per atom
//followed by a lone "*".
package stf

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	v3 "github.com/rmera/goconformer/v3"
)

const defaultPrec = 2

//Writer writes frames of coordinates, for a fixed number of atoms, to a
//compressed file.
type Writer struct {
	f         *os.File
	h         io.WriteCloser
	natoms    int
	filename  string
	writeable bool
	prec      int
}

//NewWriter creates the file name and returns a Writer for frames of
//natoms atoms. If given, prec sets the number of decimals stored per
//coordinate.
func NewWriter(name string, natoms int, prec ...int) (*Writer, error) {
	errid := "stf/NewWriter"
	S := new(Writer)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	S.h, err = zstd.NewWriter(S.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		S.f.Close()
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	S.natoms = natoms
	S.filename = name
	S.writeable = true
	S.prec = defaultPrec
	if len(prec) > 0 && prec[0] > 0 {
		S.prec = prec[0]
	}
	if S.prec != defaultPrec {
		fmt.Fprintf(S.h, "prec=%d\n", S.prec)
	}
	fmt.Fprintf(S.h, "** %d\n", S.natoms)
	return S, nil
}

//Len returns the number of atoms per frame.
func (S *Writer) Len() int {
	return S.natoms
}

//WNext writes coord as the next frame.
func (S *Writer) WNext(coord *v3.Matrix) error {
	errid := "stf/Writer.WNext"
	if !S.writeable {
		return fmt.Errorf("%s (%s): writer is closed", errid, S.filename)
	}
	if coord == nil {
		return fmt.Errorf("%s (%s): nil coordinates", errid, S.filename)
	}
	v := coord.NVecs()
	if v != S.natoms {
		return fmt.Errorf("%s (%s): %d coordinates given, but %d expected", errid, S.filename, v, S.natoms)
	}
	var floats [3]float64
	for i := 0; i < v; i++ {
		floats[0] = coord.At(i, 0)
		floats[1] = coord.At(i, 1)
		floats[2] = coord.At(i, 2)
		if _, err := S.h.Write([]byte(coordsEncode(floats, S.prec))); err != nil {
			return fmt.Errorf("%s (%s): %w", errid, S.filename, err)
		}
	}
	if _, err := S.h.Write([]byte("*\n")); err != nil {
		return fmt.Errorf("%s (%s): %w", errid, S.filename, err)
	}
	return nil
}

//Close flushes and closes the underlying file. The writer can not be used
//afterwards.
func (S *Writer) Close() error {
	if S == nil || !S.writeable {
		return nil
	}
	S.writeable = false
	if err := S.h.Close(); err != nil {
		S.f.Close()
		return fmt.Errorf("stf/Writer.Close (%s): %w", S.filename, err)
	}
	if err := S.f.Close(); err != nil {
		return fmt.Errorf("stf/Writer.Close (%s): %w", S.filename, err)
	}
	return nil
}

func coordsEncode(f [3]float64, prec int) string {
	p := math.Pow(10.0, float64(prec))
	var temp [3]int
	for i, v := range f {
		temp[i] = int(math.RoundToEven(v * p))
	}
	return fmt.Sprintf("%d %d %d\n", temp[0], temp[1], temp[2])
}

//Reader reads back frames written by a Writer.
type Reader struct {
	f        *os.File
	dec      *zstd.Decoder
	h        *bufio.Reader
	natoms   int
	filename string
	prec     int
	readable bool
}

//NewReader opens the file name for reading and parses its header.
func NewReader(name string) (*Reader, error) {
	errid := "stf/NewReader"
	S := new(Reader)
	S.filename = name
	S.natoms = -1
	var err error
	S.f, err = os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errid, err)
	}
	S.dec, err = zstd.NewReader(bufio.NewReader(S.f))
	if err != nil {
		S.f.Close()
		return nil, fmt.Errorf("%s (%s): %w", errid, name, err)
	}
	S.h = bufio.NewReader(S.dec)
	S.prec = defaultPrec
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%s (%s): can't read header: %w", errid, name, err)
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			fields := strings.Fields(str)
			if len(fields) < 2 {
				return nil, fmt.Errorf("%s (%s): can't read atom number from %q", errid, name, str)
			}
			S.natoms, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%s (%s): can't read atom number from %q: %w", errid, name, str, err)
			}
			break
		}
		kv := strings.Split(str, "=")
		if len(kv) != 2 {
			return nil, fmt.Errorf("%s (%s): malformed header line %q", errid, name, str)
		}
		if kv[0] == "prec" {
			if p, err := strconv.Atoi(kv[1]); err == nil && p > 0 {
				S.prec = p
			}
		}
	}
	S.readable = true
	return S, nil
}

//Len returns the number of atoms in each frame.
func (S *Reader) Len() int {
	return S.natoms
}

//Readable returns whether it is still possible to call Next on the reader.
func (S *Reader) Readable() bool {
	return S.readable
}

//Next puts the coordinates of the next frame in c, which must accommodate
//Len() atoms. A nil c skips the frame, still checking it for correctness.
//At the end of the trajectory, Next closes the reader and returns io.EOF,
//which does not signal an actual error.
func (S *Reader) Next(c *v3.Matrix) error {
	errid := "stf/Reader.Next"
	if !S.readable {
		return fmt.Errorf("%s (%s): reader is closed", errid, S.filename)
	}
	var temp [3]float64
	for i := 0; i < S.natoms; i++ {
		b, err := S.h.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && i == 0 {
				S.Close()
				return io.EOF //the trajectory just ended
			}
			return fmt.Errorf("%s (%s): truncated frame: %w", errid, S.filename, err)
		}
		if err := coordsDecode(string(b[:len(b)-1]), &temp, S.prec); err != nil {
			return fmt.Errorf("%s (%s): %w", errid, S.filename, err)
		}
		if c == nil {
			continue
		}
		for j, v := range temp {
			c.Set(i, j, v)
		}
	}
	s, err := S.h.ReadString('\n')
	if err != nil {
		return fmt.Errorf("%s (%s): can't read the frame termination mark: %w", errid, S.filename, err)
	}
	if s[0] != '*' {
		return fmt.Errorf("%s (%s): wrong number of atoms in frame", errid, S.filename)
	}
	return nil
}

//Close closes the reader and marks it unreadable.
func (S *Reader) Close() {
	if !S.readable {
		return
	}
	S.dec.Close()
	S.f.Close()
	S.readable = false
}

func coordsDecode(str string, temp *[3]float64, prec int) error {
	p := math.Pow(10.0, float64(prec))
	s := strings.Fields(str)
	if len(s) != 3 {
		return fmt.Errorf("ill-formatted coordinates line: %q", str)
	}
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / p
	}
	return nil
}

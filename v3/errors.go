/*
 * errors.go, part of goConformer.
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

package v3

//Error is the error type for recoverable problems in the package.
type Error struct {
	message  string
	deco     []string
	critical bool
}

//Error returns a string with an error message.
func (err Error) Error() string {
	return err.message
}

//Decorate adds the dec string to the decoration slice of strings of the
//error, and returns the resulting slice. Decorations normally list the
//callers in the stack, plus any relevant extra information.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
func (err Error) Critical() bool { return err.critical }

//PanicMsg is a message used for panics in the "fundamental" matrix
//operations, where a failure means the program is wrong and should crash.
//It satisfies the error interface anyway, so it can be recovered into one.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNotXx3Matrix      = PanicMsg("goConformer/v3: A Matrix should have 3 columns")
	ErrNoCrossProduct    = PanicMsg("goConformer/v3: Invalid matrix for cross product")
	ErrNotEnoughElements = PanicMsg("goConformer/v3: not enough elements in Matrix")
	ErrShape             = PanicMsg("goConformer/v3: Dimension mismatch")
	ErrIndexOutOfRange   = PanicMsg("goConformer/v3: index out of range")
)

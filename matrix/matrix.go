/*
Copyright © 2015-2022 Leo Antunes <leo@costela.net>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package matrix provides the numeric containers used while building solver
// input: a dense representation backed by gonum and a sparse one that can be
// exported in compressed-sparse-column form.
//
// Both satisfy gonum's mat.Matrix, so they can be handed directly to gonum
// routines. Unlike mat.Dense, containers with zero rows or columns are valid
// values here, since empty constraint blocks are routine.
package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a mutable two-dimensional numeric container.
type Matrix interface {
	mat.Matrix
	Set(i, j int, v float64)
}

// Interface creates zero-filled containers of a single representation.
type Interface interface {
	Zeros(rows, cols int) Matrix
}

var (
	// DenseInterface creates *Dense containers.
	DenseInterface Interface = denseInterface{}
	// SparseInterface creates *Sparse containers.
	SparseInterface Interface = sparseInterface{}
)

type denseInterface struct{}

func (denseInterface) Zeros(rows, cols int) Matrix { return NewDense(rows, cols) }

type sparseInterface struct{}

func (sparseInterface) Zeros(rows, cols int) Matrix { return NewSparse(rows, cols) }

// Dense is a dense matrix that tolerates zero dimensions.
type Dense struct {
	rows, cols int
	m          *mat.Dense // nil when rows or cols is zero
}

// NewDense returns a zero-filled rows×cols matrix.
func NewDense(rows, cols int) *Dense {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative dimension %dx%d", rows, cols))
	}

	d := &Dense{rows: rows, cols: cols}
	if rows > 0 && cols > 0 {
		d.m = mat.NewDense(rows, cols, nil)
	}

	return d
}

func (d *Dense) Dims() (int, int) { return d.rows, d.cols }

func (d *Dense) At(i, j int) float64 {
	if d.m == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return d.m.At(i, j)
}

func (d *Dense) T() mat.Matrix { return mat.Transpose{Matrix: d} }

func (d *Dense) Set(i, j int, v float64) {
	if d.m == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	d.m.Set(i, j, v)
}

// Raw returns the backing gonum matrix, or nil for an empty container.
func (d *Dense) Raw() *mat.Dense { return d.m }

// ToDense copies any matrix into a gonum *mat.Dense. It returns nil when m
// has no rows or no columns.
func ToDense(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil
	}

	switch t := m.(type) {
	case *Dense:
		return mat.DenseCopyOf(t.m)
	case *Sparse:
		d := mat.NewDense(r, c, nil)
		for k, v := range t.cells {
			d.Set(k.i, k.j, v)
		}
		return d
	}

	return mat.DenseCopyOf(m)
}

// Column flattens m in column-major order.
func Column(m mat.Matrix) []float64 {
	r, c := m.Dims()
	out := make([]float64, r*c)
	if len(out) == 0 {
		return out
	}

	if s, ok := m.(*Sparse); ok {
		for k, v := range s.cells {
			out[k.i+k.j*r] = v
		}
		return out
	}

	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out[i+j*r] = m.At(i, j)
		}
	}

	return out
}

// SetBlock writes block into dst with its upper left corner at (row, col).
// Zero entries of block are skipped for sparse destinations.
func SetBlock(dst Matrix, block mat.Matrix, row, col int) {
	br, bc := block.Dims()
	_, sparse := dst.(*Sparse)

	for j := 0; j < bc; j++ {
		for i := 0; i < br; i++ {
			v := block.At(i, j)
			if v == 0 && sparse {
				continue
			}
			dst.Set(row+i, col+j, v)
		}
	}
}

// AddBlock accumulates block into dst with its upper left corner at (row, col).
func AddBlock(dst Matrix, block mat.Matrix, row, col int) {
	br, bc := block.Dims()

	for j := 0; j < bc; j++ {
		for i := 0; i < br; i++ {
			v := block.At(i, j)
			if v == 0 {
				continue
			}
			dst.Set(row+i, col+j, dst.At(row+i, col+j)+v)
		}
	}
}

// Negate flips the sign of every stored entry of m in place.
func Negate(m Matrix) {
	if s, ok := m.(*Sparse); ok {
		for k, v := range s.cells {
			s.cells[k] = -v
		}
		return
	}

	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.At(i, j); v != 0 {
				m.Set(i, j, -v)
			}
		}
	}
}

// Equal reports whether a and b have the same shape and entries.
func Equal(a, b mat.Matrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}

	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if a.At(i, j) != b.At(i, j) {
				return false
			}
		}
	}

	return true
}

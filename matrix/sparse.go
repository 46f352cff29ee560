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
package matrix

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

type cell struct{ i, j int }

// Sparse is a dictionary-of-keys matrix. Only non-zero entries are stored.
type Sparse struct {
	rows, cols int
	cells      map[cell]float64
}

// NewSparse returns an empty rows×cols sparse matrix.
func NewSparse(rows, cols int) *Sparse {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix: negative dimension %dx%d", rows, cols))
	}

	return &Sparse{
		rows:  rows,
		cols:  cols,
		cells: make(map[cell]float64),
	}
}

func (s *Sparse) Dims() (int, int) { return s.rows, s.cols }

func (s *Sparse) At(i, j int) float64 {
	s.check(i, j)
	return s.cells[cell{i, j}]
}

func (s *Sparse) T() mat.Matrix { return mat.Transpose{Matrix: s} }

func (s *Sparse) Set(i, j int, v float64) {
	s.check(i, j)
	if v == 0 {
		delete(s.cells, cell{i, j})
		return
	}
	s.cells[cell{i, j}] = v
}

// NNZ returns the number of stored entries.
func (s *Sparse) NNZ() int { return len(s.cells) }

func (s *Sparse) check(i, j int) {
	if i < 0 || i >= s.rows || j < 0 || j >= s.cols {
		panic(mat.ErrIndexOutOfRange)
	}
}

// CSC is a matrix in compressed-sparse-column layout: the row indices and
// values of column j live in RowIdx[ColPtr[j]:ColPtr[j+1]], sorted by row.
type CSC struct {
	Rows, Cols int
	ColPtr     []int
	RowIdx     []int
	Values     []float64
}

// CSC exports s in compressed-sparse-column layout.
func (s *Sparse) CSC() CSC {
	keys := make([]cell, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].j != keys[b].j {
			return keys[a].j < keys[b].j
		}
		return keys[a].i < keys[b].i
	})

	out := CSC{
		Rows:   s.rows,
		Cols:   s.cols,
		ColPtr: make([]int, s.cols+1),
		RowIdx: make([]int, len(keys)),
		Values: make([]float64, len(keys)),
	}

	for n, k := range keys {
		out.ColPtr[k.j+1]++
		out.RowIdx[n] = k.i
		out.Values[n] = s.cells[k]
	}
	for j := 0; j < s.cols; j++ {
		out.ColPtr[j+1] += out.ColPtr[j]
	}

	return out
}

// ToCSC exports any matrix in compressed-sparse-column layout.
func ToCSC(m mat.Matrix) CSC {
	if s, ok := m.(*Sparse); ok {
		return s.CSC()
	}

	r, c := m.Dims()
	s := NewSparse(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			s.Set(i, j, m.At(i, j))
		}
	}

	return s.CSC()
}

// Dense expands c into a gonum matrix. It returns nil for empty shapes.
func (c CSC) Dense() *mat.Dense {
	if c.Rows == 0 || c.Cols == 0 {
		return nil
	}

	d := mat.NewDense(c.Rows, c.Cols, nil)
	for j := 0; j < c.Cols; j++ {
		for k := c.ColPtr[j]; k < c.ColPtr[j+1]; k++ {
			d.Set(c.RowIdx[k], j, c.Values[k])
		}
	}

	return d
}

// ColumnEmpty reports whether column j holds no entries.
func (c CSC) ColumnEmpty(j int) bool {
	return c.ColPtr[j] == c.ColPtr[j+1]
}

// RowEntries lists the entries of each row of c as column indices and values.
func (c CSC) RowEntries() (cols [][]int, vals [][]float64) {
	cols = make([][]int, c.Rows)
	vals = make([][]float64, c.Rows)
	for j := 0; j < c.Cols; j++ {
		for k := c.ColPtr[j]; k < c.ColPtr[j+1]; k++ {
			i := c.RowIdx[k]
			cols[i] = append(cols[i], j)
			vals[i] = append(vals[i], c.Values[k])
		}
	}
	return cols, vals
}

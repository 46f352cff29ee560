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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestZeroShapes(t *testing.T) {
	for _, intf := range []Interface{DenseInterface, SparseInterface} {
		m := intf.Zeros(0, 4)
		r, c := m.Dims()
		assert.Equal(t, 0, r)
		assert.Equal(t, 4, c)
		assert.Nil(t, ToDense(m))
		assert.Empty(t, Column(m))
	}
}

func TestSparseSetDeletesZeros(t *testing.T) {
	s := NewSparse(2, 2)
	s.Set(0, 1, 3)
	s.Set(1, 0, 4)
	assert.Equal(t, 2, s.NNZ())

	s.Set(0, 1, 0)
	assert.Equal(t, 1, s.NNZ())
	assert.Equal(t, 0.0, s.At(0, 1))
	assert.Equal(t, 4.0, s.At(1, 0))
}

func TestSparseOutOfRange(t *testing.T) {
	s := NewSparse(2, 2)
	assert.Panics(t, func() { s.Set(2, 0, 1) })
	assert.Panics(t, func() { s.At(0, -1) })
}

func TestCSC(t *testing.T) {
	// [ 1 0 2 ]
	// [ 0 0 3 ]
	s := NewSparse(2, 3)
	s.Set(0, 0, 1)
	s.Set(1, 2, 3)
	s.Set(0, 2, 2)

	c := s.CSC()
	assert.Equal(t, []int{0, 1, 1, 3}, c.ColPtr)
	assert.Equal(t, []int{0, 0, 1}, c.RowIdx)
	assert.Equal(t, []float64{1, 2, 3}, c.Values)
	assert.True(t, c.ColumnEmpty(1))
	assert.False(t, c.ColumnEmpty(2))

	cols, vals := c.RowEntries()
	assert.Equal(t, [][]int{{0, 2}, {2}}, cols)
	assert.Equal(t, [][]float64{{1, 2}, {3}}, vals)

	d := c.Dense()
	require.NotNil(t, d)
	assert.True(t, Equal(s, d))
	assert.True(t, Equal(ToCSC(d).Dense(), d))
}

func TestBlocks(t *testing.T) {
	for _, intf := range []Interface{DenseInterface, SparseInterface} {
		m := intf.Zeros(3, 3)
		block := mat.NewDense(2, 1, []float64{5, 0})

		SetBlock(m, block, 1, 2)
		assert.Equal(t, 5.0, m.At(1, 2))
		assert.Equal(t, 0.0, m.At(2, 2))

		AddBlock(m, block, 1, 2)
		assert.Equal(t, 10.0, m.At(1, 2))

		Negate(m)
		assert.Equal(t, -10.0, m.At(1, 2))
		assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, -10, 0}, Column(m))
	}
}

func TestTranspose(t *testing.T) {
	s := NewSparse(2, 3)
	s.Set(0, 2, 7)

	tr := s.T()
	r, c := tr.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 7.0, tr.At(2, 0))
}

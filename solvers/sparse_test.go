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
package solvers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func solveSparse(t *testing.T, p CSCProgram) Result {
	t.Helper()

	res, err := NewSparse().Solve(context.Background(), p, DefaultOptions())
	require.NoError(t, err)
	return res
}

func TestSparseLinearProgram(t *testing.T) {
	// maximize x1 + x2 s.t. x1 + 2x2 <= 4, 3x1 + x2 <= 6, x >= 0
	g := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 1,
		-1, 0,
		0, -1,
	})
	res := solveSparse(t, CSCProgramOf([]float64{-1, -1}, g, []float64{4, 6, 0, 0}, nil, nil, Dims{L: 4}))

	require.Equal(t, SparseOptimal, res.Code)
	assert.InDelta(t, 1.6, res.X[0], delta)
	assert.InDelta(t, 1.2, res.X[1], delta)
	assert.InDelta(t, -2.8, res.PrimalObjective, delta)
	assert.InDelta(t, 0.4, res.Z[0], delta)
	assert.InDelta(t, 0.2, res.Z[1], delta)
	assert.InDelta(t, 0, res.Z[2], delta)
}

func TestSparseEqualities(t *testing.T) {
	// minimize x1 + x2 s.t. x1 - x2 = 0, x1 >= 1
	res := solveSparse(t, CSCProgramOf(
		[]float64{1, 1},
		mat.NewDense(1, 2, []float64{-1, 0}), []float64{-1},
		mat.NewDense(1, 2, []float64{1, -1}), []float64{0},
		Dims{L: 1},
	))

	require.Equal(t, SparseOptimal, res.Code)
	assert.InDelta(t, 1, res.X[0], delta)
	assert.InDelta(t, 1, res.X[1], delta)
	assert.InDelta(t, 1, res.Y[0], delta)
	assert.InDelta(t, 2, res.Z[0], delta)
}

func TestSparseInfeasible(t *testing.T) {
	res := solveSparse(t, CSCProgramOf(
		[]float64{1},
		mat.NewDense(2, 1, []float64{1, -1}), []float64{0, -1},
		nil, nil,
		Dims{L: 2},
	))
	assert.Equal(t, SparsePrimalInfeasible, res.Code)
	assert.Equal(t, StatusInfeasible, Lookup(NewSparse(), res.Code))
}

func TestSparseUnbounded(t *testing.T) {
	res := solveSparse(t, CSCProgramOf(
		[]float64{1},
		mat.NewDense(1, 1, []float64{1}), []float64{1},
		nil, nil,
		Dims{L: 1},
	))
	assert.Equal(t, SparseDualInfeasible, res.Code)
}

func TestSparseUnconstrainedVariable(t *testing.T) {
	// x2 appears in no constraint
	p := CSCProgramOf(
		[]float64{1, 0},
		mat.NewDense(1, 2, []float64{-1, 0}), []float64{-1},
		nil, nil,
		Dims{L: 1},
	)
	res := solveSparse(t, p)
	require.Equal(t, SparseOptimal, res.Code)
	assert.InDelta(t, 1, res.X[0], delta)
	assert.Zero(t, res.X[1])

	// with a cost it makes the program unbounded
	p.C = []float64{1, 1}
	res = solveSparse(t, p)
	assert.Equal(t, SparseDualInfeasible, res.Code)
}

func TestSparseConeFallback(t *testing.T) {
	// minimize t s.t. ‖(3, 4)‖ <= t
	res := solveSparse(t, CSCProgramOf(
		[]float64{1},
		mat.NewDense(3, 1, []float64{-1, 0, 0}), []float64{0, 3, 4},
		nil, nil,
		Dims{L: 3, Q: []int{3}},
	))

	require.Equal(t, SparseOptimal, res.Code)
	assert.InDelta(t, 5, res.X[0], delta)
}

func TestLookup(t *testing.T) {
	assert.Equal(t, StatusSolved, Lookup(NewSparse(), SparseOptimal))
	assert.Equal(t, StatusError, Lookup(NewSparse(), SparseMaxIterations))
	assert.Equal(t, StatusError, Lookup(NewSparse(), 42))
	assert.Equal(t, StatusUnbounded, Lookup(NewInterior(), InteriorDualInfeasible))
}

func TestRecoverDuals(t *testing.T) {
	// minimize x s.t. x >= 1, x <= 5 at x = 1
	g := mat.NewDense(2, 1, []float64{-1, 1})
	y, z := RecoverDuals([]float64{1}, g, []float64{-1, 5}, nil, nil, []float64{1}, 1e-9)

	assert.Empty(t, y)
	assert.InDelta(t, 1, z[0], delta)
	assert.Zero(t, z[1])
}

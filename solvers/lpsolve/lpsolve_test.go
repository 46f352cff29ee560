//go:build lpsolve

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
package lpsolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/costela/gocvx/solvers"
)

const (
	delta = 0.0000001 // acceptable numerical deviation for test results
)

func TestLinearProgram(t *testing.T) {
	// maximize x1 + x2 s.t. x1 + 2x2 <= 4, 3x1 + x2 <= 6, x >= 0
	g := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 1,
		-1, 0,
		0, -1,
	})
	p := solvers.CSCProgramOf([]float64{-1, -1}, g, []float64{4, 6, 0, 0}, nil, nil, solvers.Dims{L: 4})

	res, err := New().Solve(context.Background(), p, solvers.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, solvers.StatusSolved, solvers.Lookup(New(), res.Code))
	assert.InDelta(t, 1.6, res.X[0], delta)
	assert.InDelta(t, 1.2, res.X[1], delta)
	assert.InDelta(t, -2.8, res.PrimalObjective, delta)
	assert.InDelta(t, 0.4, res.Z[0], delta)
	assert.InDelta(t, 0.2, res.Z[1], delta)
}

func TestFreeColumns(t *testing.T) {
	// minimize x s.t. x >= -3: lp_solve's default lower bound of 0 must not apply
	p := solvers.CSCProgramOf([]float64{1}, mat.NewDense(1, 1, []float64{-1}), []float64{3}, nil, nil, solvers.Dims{L: 1})

	res, err := New().Solve(context.Background(), p, solvers.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Code)
	assert.InDelta(t, -3, res.X[0], delta)
}

func TestEqualities(t *testing.T) {
	p := solvers.CSCProgramOf(
		[]float64{1, 1},
		mat.NewDense(1, 2, []float64{-1, 0}), []float64{-1},
		mat.NewDense(1, 2, []float64{1, -1}), []float64{0},
		solvers.Dims{L: 1},
	)

	res, err := New().Solve(context.Background(), p, solvers.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Code)
	assert.InDelta(t, 1, res.X[1], delta)
	assert.InDelta(t, 1, res.Y[0], delta)
	assert.InDelta(t, 2, res.Z[0], delta)
}

func TestStatuses(t *testing.T) {
	infeasible := solvers.CSCProgramOf([]float64{1}, mat.NewDense(2, 1, []float64{1, -1}), []float64{0, -1}, nil, nil, solvers.Dims{L: 2})
	res, err := New().Solve(context.Background(), infeasible, solvers.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, solvers.StatusInfeasible, solvers.Lookup(New(), res.Code))

	unbounded := solvers.CSCProgramOf([]float64{1}, mat.NewDense(1, 1, []float64{1}), []float64{1}, nil, nil, solvers.Dims{L: 1})
	res, err = New().Solve(context.Background(), unbounded, solvers.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, solvers.StatusUnbounded, solvers.Lookup(New(), res.Code))
}

func TestRejectsCones(t *testing.T) {
	p := solvers.CSCProgramOf([]float64{1}, mat.NewDense(3, 1, []float64{-1, 0, 0}), []float64{0, 3, 4}, nil, nil, solvers.Dims{L: 3, Q: []int{3}})

	_, err := New().Solve(context.Background(), p, solvers.DefaultOptions())
	assert.ErrorIs(t, err, ErrConeProgram)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := solvers.CSCProgramOf([]float64{1}, mat.NewDense(1, 1, []float64{-1}), []float64{-1}, nil, nil, solvers.Dims{L: 1})
	_, err := New().Solve(ctx, p, solvers.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

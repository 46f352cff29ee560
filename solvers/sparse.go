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
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/costela/gocvx/matrix"
)

// Raw codes returned by Sparse.
const (
	SparseOptimal          = 0
	SparsePrimalInfeasible = 1
	SparseDualInfeasible   = 2
	SparseMaxIterations    = -1
	SparseNumerics         = -2
)

// Sparse is the lightweight backend. Linear programs are solved with the
// simplex method; programs with cone blocks, and linear programs the simplex
// implementation rejects, are handed to a ConeSolver.
type Sparse struct {
	fallback ConeSolver
}

// NewSparse returns the sparse backend falling back to Interior.
func NewSparse() *Sparse {
	return &Sparse{fallback: NewInterior()}
}

// NewSparseWithFallback returns the sparse backend handing cone programs to
// fallback.
func NewSparseWithFallback(fallback ConeSolver) *Sparse {
	return &Sparse{fallback: fallback}
}

func (*Sparse) Name() string { return "sparse" }

func (*Sparse) Statuses() map[int]Status {
	return map[int]Status{
		SparseOptimal:          StatusSolved,
		SparsePrimalInfeasible: StatusInfeasible,
		SparseDualInfeasible:   StatusUnbounded,
		SparseMaxIterations:    StatusError,
		SparseNumerics:         StatusError,
	}
}

func (s *Sparse) Solve(ctx context.Context, p CSCProgram, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Code: SparseNumerics}, err
	}
	if len(p.Dims.Q) > 0 || len(p.Dims.S) > 0 || p.G.Rows == 0 {
		return s.cone(ctx, p, opts)
	}

	res, ok := s.simplex(p, opts)
	if ok {
		return res, nil
	}

	opts.logf("simplex failed, falling back to %s", s.fallback.Name())
	return s.cone(ctx, p, opts)
}

func (s *Sparse) cone(ctx context.Context, p CSCProgram, opts Options) (Result, error) {
	res, err := s.fallback.ConeLP(ctx, p.Dense(), opts)

	switch Lookup(s.fallback, res.Code) {
	case StatusSolved:
		res.Code = SparseOptimal
	case StatusInfeasible:
		res.Code = SparsePrimalInfeasible
	case StatusUnbounded:
		res.Code = SparseDualInfeasible
	default:
		res.Code = SparseNumerics
	}

	return res, err
}

// simplex solves p when it is a linear program. ok is false when the simplex
// implementation could not decide the program.
func (s *Sparse) simplex(p CSCProgram, opts Options) (Result, bool) {
	n := len(p.C)
	tol := opts.FeasTol
	if tol <= 0 {
		tol = DefaultOptions().FeasTol
	}

	// variables appearing in no constraint are left out of the simplex
	var keep []int
	freeCost := false
	for j := 0; j < n; j++ {
		if !p.G.ColumnEmpty(j) || (p.A.Rows > 0 && !p.A.ColumnEmpty(j)) {
			keep = append(keep, j)
		} else if p.C[j] != 0 {
			freeCost = true
		}
	}

	g := p.G.Dense()
	var a *mat.Dense
	if p.A.Rows > 0 {
		a = p.A.Dense()
	}

	cR := make([]float64, len(keep))
	for k, j := range keep {
		cR[k] = p.C[j]
	}
	gR := columns(g, keep)

	// equality rows left without variables must read 0 = 0
	var aRows []int
	for i := range p.B {
		empty := true
		for _, j := range keep {
			if a.At(i, j) != 0 {
				empty = false
				break
			}
		}
		switch {
		case !empty:
			aRows = append(aRows, i)
		case math.Abs(p.B[i]) > tol:
			return Result{Code: SparsePrimalInfeasible}, true
		}
	}

	xR := make([]float64, len(keep))
	if len(keep) == 0 {
		if floats.Min(p.H) < -tol {
			return Result{Code: SparsePrimalInfeasible}, true
		}
	} else {
		var aR mat.Matrix
		var bR []float64
		if len(aRows) > 0 {
			dense := mat.NewDense(len(aRows), len(keep), nil)
			for r, i := range aRows {
				for k, j := range keep {
					dense.Set(r, k, a.At(i, j))
				}
				bR = append(bR, p.B[i])
			}
			aR = dense
		}

		cNew, aNew, bNew := lp.Convert(cR, gR, p.H, aR, bR)
		if rows, cols := aNew.Dims(); rows > cols {
			return Result{}, false
		}

		_, xt, err := lp.Simplex(cNew, aNew, bNew, 0, nil)
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return Result{Code: SparsePrimalInfeasible}, true
		case errors.Is(err, lp.ErrUnbounded):
			return Result{Code: SparseDualInfeasible}, true
		case err != nil:
			opts.logf("simplex: %v", err)
			return Result{}, false
		}

		nk := len(keep)
		for k := range xR {
			xR[k] = xt[k] - xt[nk+k]
		}
	}

	if freeCost {
		return Result{Code: SparseDualInfeasible}, true
	}

	x := make([]float64, n)
	for k, j := range keep {
		x[j] = xR[k]
	}

	var am mat.Matrix
	if a != nil {
		am = a
	}
	y, z := RecoverDuals(p.C, g, p.H, am, p.B, x, tol)

	return Result{
		Code:            SparseOptimal,
		X:               x,
		Y:               y,
		Z:               z,
		PrimalObjective: floats.Dot(p.C, x),
	}, true
}

// columns returns the listed columns of m, or nil when none are listed.
func columns(m *mat.Dense, keep []int) *mat.Dense {
	if len(keep) == 0 {
		return nil
	}
	r, _ := m.Dims()
	out := mat.NewDense(r, len(keep), nil)
	for k, j := range keep {
		for i := 0; i < r; i++ {
			out.Set(i, k, m.At(i, j))
		}
	}
	return out
}

// CSCProgramOf is a convenience constructor converting gonum matrices, nil
// when empty, into a CSCProgram.
func CSCProgramOf(c []float64, g mat.Matrix, h []float64, a mat.Matrix, b []float64, dims Dims) CSCProgram {
	n := len(c)
	p := CSCProgram{C: c, H: h, B: b, Dims: dims}
	p.G = toCSC(g, len(h), n)
	p.A = toCSC(a, len(b), n)
	return p
}

func toCSC(m mat.Matrix, rows, cols int) matrix.CSC {
	if m == nil {
		return matrix.NewSparse(rows, cols).CSC()
	}
	return matrix.ToCSC(m)
}

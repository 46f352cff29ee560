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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const rankTol = 1e-10

// LeastSquares returns the minimum-norm solution of min ‖ax - b‖₂. A nil or
// empty a yields a zero vector of length cols.
func LeastSquares(a mat.Matrix, b []float64, cols int) []float64 {
	x := make([]float64, cols)
	if a == nil {
		return x
	}
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return x
	}

	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return x
	}
	rank := svd.Rank(rankTol)
	if rank == 0 {
		return x
	}

	svd.SolveVecTo(mat.NewVecDense(c, x), mat.NewVecDense(r, append([]float64(nil), b...)), rank)
	return x
}

// nullspace returns an orthonormal basis of the null space of a, or nil when
// a has full column rank.
func nullspace(a *mat.Dense) *mat.Dense {
	_, c := a.Dims()
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		panic("solvers: singular value decomposition did not converge")
	}
	rank := svd.Rank(rankTol)
	if rank >= c {
		return nil
	}

	var v mat.Dense
	svd.VTo(&v)
	return mat.DenseCopyOf(v.Slice(0, c, rank, c))
}

// newtonSolve solves h·x = rhs for a positive semidefinite h. The matrix is
// shifted by a growing multiple of the identity until it factorizes, then the
// solution is improved by refine steps of iterative refinement against the
// unshifted h.
func newtonSolve(h *mat.Dense, rhs []float64, refine int) ([]float64, bool) {
	n, _ := h.Dims()
	scale := 1.0
	for i := 0; i < n; i++ {
		scale = math.Max(scale, math.Abs(h.At(i, i)))
	}

	sym := mat.NewSymDense(n, nil)
	var chol mat.Cholesky
	ok := false
	for reg := 0.0; !ok && reg < scale; reg = nextShift(reg, scale) {
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := (h.At(i, j) + h.At(j, i)) / 2
				if i == j {
					v += reg
				}
				sym.SetSym(i, j, v)
			}
		}
		ok = chol.Factorize(sym)
	}
	if !ok {
		return nil, false
	}

	x := mat.NewVecDense(n, nil)
	b := mat.NewVecDense(n, append([]float64(nil), rhs...))
	if err := chol.SolveVecTo(x, b); err != nil && !isConditionError(err) {
		return nil, false
	}

	for k := 0; k < refine; k++ {
		var r, dx mat.VecDense
		r.MulVec(h, x)
		r.SubVec(b, &r)
		if err := chol.SolveVecTo(&dx, &r); err != nil && !isConditionError(err) {
			break
		}
		x.AddVec(x, &dx)
	}

	out := x.RawVector().Data
	if floats.HasNaN(out) {
		return nil, false
	}
	return out, true
}

func nextShift(reg, scale float64) float64 {
	if reg == 0 {
		return 1e-14 * scale
	}
	return reg * 100
}

func isConditionError(err error) bool {
	_, ok := err.(mat.Condition)
	return ok
}

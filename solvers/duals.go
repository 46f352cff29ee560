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

	"gonum.org/v1/gonum/mat"
)

// RecoverDuals estimates the multipliers at an optimal vertex x of the
// linear program min cᵀx s.t. Gx ≤ h, Ax = b. Only rows of G active at x
// (within tol) receive a multiplier; y and z then solve
// c + Aᵀy + Gᵀz = 0 in the least squares sense, with z clamped at zero.
// g and a may be nil when they have no rows.
func RecoverDuals(c []float64, g mat.Matrix, h []float64, a mat.Matrix, b []float64, x []float64, tol float64) (y, z []float64) {
	n := len(c)
	y = make([]float64, len(b))
	z = make([]float64, len(h))
	if n == 0 {
		return y, z
	}

	var active []int
	for i := range h {
		var gx float64
		for j := 0; j < n; j++ {
			gx += g.At(i, j) * x[j]
		}
		if math.Abs(h[i]-gx) <= tol*(1+math.Abs(h[i])) {
			active = append(active, i)
		}
	}

	cols := len(b) + len(active)
	if cols == 0 {
		return y, z
	}

	// columns: Aᵀ then the active rows of G transposed
	m := mat.NewDense(n, cols, nil)
	for j := 0; j < n; j++ {
		for i := range b {
			m.Set(j, i, a.At(i, j))
		}
		for k, i := range active {
			m.Set(j, len(b)+k, g.At(i, j))
		}
	}

	rhs := make([]float64, n)
	for j, v := range c {
		rhs[j] = -v
	}
	w := LeastSquares(m, rhs, cols)

	copy(y, w[:len(b)])
	for k, i := range active {
		z[i] = math.Max(0, w[len(b)+k])
	}

	return y, z
}

// Duals recovers the multipliers of p at the optimal vertex x. See
// RecoverDuals.
func (p CSCProgram) Duals(x []float64, tol float64) (y, z []float64) {
	var g, a mat.Matrix
	if d := p.G.Dense(); d != nil {
		g = d
	}
	if d := p.A.Dense(); d != nil {
		a = d
	}
	return RecoverDuals(p.C, g, p.H, a, p.B, x, tol)
}

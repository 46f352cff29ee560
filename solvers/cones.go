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

// Logarithmic barriers of the cones in K:
//
//	ℝ₊:   ψ(s) = -Σ log sᵢ
//	Q(q): ψ(t, u) = -log(t² - ‖u‖²)
//	S(n): ψ(S) = -log det ½(S + Sᵀ)
//
// Semidefinite blocks are read column-major.

// degree returns the barrier parameter ν of K.
func (d Dims) degree() float64 {
	nu := d.Orthant() + 2*len(d.Q)
	for _, s := range d.S {
		nu += s
	}
	return float64(nu)
}

// identity returns the point e of the interior of K used to shift slacks.
func (d Dims) identity() []float64 {
	e := make([]float64, d.L)
	pos := 0
	for ; pos < d.Orthant(); pos++ {
		e[pos] = 1
	}
	for _, q := range d.Q {
		e[pos] = 1
		pos += q
	}
	for _, n := range d.S {
		for i := 0; i < n; i++ {
			e[pos+i+i*n] = 1
		}
		pos += n * n
	}
	return e
}

// blocks calls the given functions with the slices of s belonging to each
// cone, in order.
func (d Dims) blocks(s []float64, orthant, soc func(off int, b []float64), sdp func(off, n int, b []float64)) {
	pos := d.Orthant()
	if orthant != nil {
		orthant(0, s[:pos])
	}
	for _, q := range d.Q {
		if soc != nil {
			soc(pos, s[pos:pos+q])
		}
		pos += q
	}
	for _, n := range d.S {
		if sdp != nil {
			sdp(pos, n, s[pos:pos+n*n])
		}
		pos += n * n
	}
}

// shift returns the smallest σ for which s + σe lies on the boundary of K.
// s is in the interior of K exactly when shift(s) < 0.
func (d Dims) shift(s []float64) float64 {
	sigma := math.Inf(-1)
	d.blocks(s,
		func(_ int, b []float64) {
			for _, v := range b {
				sigma = math.Max(sigma, -v)
			}
		},
		func(_ int, b []float64) {
			sigma = math.Max(sigma, floats.Norm(b[1:], 2)-b[0])
		},
		func(_, n int, b []float64) {
			var eig mat.EigenSym
			if !eig.Factorize(symmetric(n, b), false) {
				sigma = math.Inf(1)
				return
			}
			sigma = math.Max(sigma, -eig.Values(nil)[0])
		},
	)
	return sigma
}

// symmetric returns ½(S + Sᵀ) for the column-major block b.
func symmetric(n int, b []float64) *mat.SymDense {
	sym := mat.NewSymDense(n, nil)
	for j := 0; j < n; j++ {
		for i := 0; i <= j; i++ {
			sym.SetSym(i, j, (b[i+j*n]+b[j+i*n])/2)
		}
	}
	return sym
}

// barrier returns ψ(s), or false when s is outside the interior of K.
func (d Dims) barrier(s []float64) (float64, bool) {
	var val float64
	ok := true
	d.blocks(s,
		func(_ int, b []float64) {
			for _, v := range b {
				if v <= 0 {
					ok = false
					return
				}
				val -= math.Log(v)
			}
		},
		func(_ int, b []float64) {
			u := floats.Norm(b[1:], 2)
			if b[0] <= u {
				ok = false
				return
			}
			val -= math.Log((b[0] - u) * (b[0] + u))
		},
		func(_, n int, b []float64) {
			var chol mat.Cholesky
			if !chol.Factorize(symmetric(n, b)) {
				ok = false
				return
			}
			val -= chol.LogDet()
		},
	)
	if !ok || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// barrierDerivs returns the gradient and Hessian of ψ at an interior point s.
func (d Dims) barrierDerivs(s []float64) ([]float64, *mat.Dense) {
	m := d.L
	grad := make([]float64, m)
	if m == 0 {
		return grad, nil
	}
	hess := mat.NewDense(m, m, nil)

	d.blocks(s,
		func(_ int, b []float64) {
			for i, v := range b {
				grad[i] = -1 / v
				hess.Set(i, i, 1/(v*v))
			}
		},
		func(off int, b []float64) {
			// with J = diag(1, -1, …, -1) and δ = sᵀJs:
			// ∇ψ = -2Js/δ, ∇²ψ = -2J/δ + 4(Js)(Js)ᵀ/δ²
			q := len(b)
			js := make([]float64, q)
			js[0] = b[0]
			for i := 1; i < q; i++ {
				js[i] = -b[i]
			}
			delta := floats.Dot(b, js)
			for i := 0; i < q; i++ {
				grad[off+i] = -2 * js[i] / delta
				for j := 0; j < q; j++ {
					v := 4 * js[i] * js[j] / (delta * delta)
					if i == j {
						if i == 0 {
							v -= 2 / delta
						} else {
							v += 2 / delta
						}
					}
					hess.Set(off+i, off+j, v)
				}
			}
		},
		func(off, n int, b []float64) {
			var chol mat.Cholesky
			if !chol.Factorize(symmetric(n, b)) {
				panic("solvers: barrier derivative outside the semidefinite cone")
			}
			var p mat.SymDense
			if err := chol.InverseTo(&p); err != nil {
				panic(err)
			}
			for j := 0; j < n; j++ {
				for i := 0; i < n; i++ {
					a := i + j*n
					grad[off+a] = -p.At(i, j)
					for l := 0; l < n; l++ {
						for k := 0; k < n; k++ {
							v := (p.At(i, k)*p.At(l, j) + p.At(i, l)*p.At(k, j)) / 2
							hess.Set(off+a, off+k+l*n, v)
						}
					}
				}
			}
		},
	)

	return grad, hess
}

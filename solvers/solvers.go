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

/*
Package solvers defines the numeric payloads exchanged with conic solver
backends and ships two pure-Go backends.

Every backend receives a cone program in the standard form

	minimize    cᵀx
	subject to  Gx + s = h,  s ∈ K
	            Ax = b
	            f(x) ≤ 0    (ConvexSolver only)

where K = ℝ₊ˡ × Q(q₁) × … × S(s₁) × … is described by Dims, and returns a raw
status code together with primal and dual vectors. Raw codes are specific to
each backend and are translated through the table returned by Statuses.

Interior is a primal barrier method that handles every cone and the
nonlinear oracle. Sparse consumes compressed-sparse-column matrices and
solves linear programs with the simplex method, handing cone programs to
Interior.
*/
package solvers

//go:generate mockgen -source=solvers.go -destination=mocks/mocks.go -package=mocks ConeSolver,ConvexSolver,SparseSolver

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/costela/gocvx/matrix"
)

// Dims describes the cone K. L counts every inequality row, the orthant
// rows followed by one block of Q[i] rows per second-order cone and one
// block of S[i]² rows per semidefinite cone.
type Dims struct {
	L int
	Q []int
	S []int
}

// Orthant returns the number of rows belonging to the nonnegative orthant.
func (d Dims) Orthant() int {
	l := d.L
	for _, q := range d.Q {
		l -= q
	}
	for _, s := range d.S {
		l -= s * s
	}
	return l
}

// Validate checks that the cone blocks fit into L rows.
func (d Dims) Validate() error {
	if d.Orthant() < 0 {
		return fmt.Errorf("cone blocks %v/%v exceed %d inequality rows", d.Q, d.S, d.L)
	}
	for _, q := range d.Q {
		if q < 1 {
			return fmt.Errorf("invalid second-order cone size %d", q)
		}
	}
	for _, s := range d.S {
		if s < 1 {
			return fmt.Errorf("invalid semidefinite cone order %d", s)
		}
	}
	return nil
}

// ConeProgram is a dense cone program. G and A are nil when they have no
// rows.
type ConeProgram struct {
	C    []float64
	G    *mat.Dense
	H    []float64
	A    *mat.Dense
	B    []float64
	Dims Dims
}

// CSCProgram is a cone program whose matrices use the compressed-sparse-column
// layout.
type CSCProgram struct {
	C    []float64
	G    matrix.CSC
	H    []float64
	A    matrix.CSC
	B    []float64
	Dims Dims
}

// Dense converts p into a ConeProgram.
func (p CSCProgram) Dense() ConeProgram {
	return ConeProgram{
		C:    p.C,
		G:    p.G.Dense(),
		H:    p.H,
		A:    p.A.Dense(),
		B:    p.B,
		Dims: p.Dims,
	}
}

// Result is the raw output of a backend. The vectors are only meaningful
// when Code maps to StatusSolved.
type Result struct {
	Code int
	// X is the primal solution.
	X []float64
	// Y holds the multipliers of Ax = b.
	Y []float64
	// Z holds the multipliers of Gx + s = h.
	Z []float64
	// ZNL holds the multipliers of f(x) ≤ 0.
	ZNL             []float64
	PrimalObjective float64
}

// Oracle evaluates the nonlinear constraints f(x) ≤ 0 of a convex program.
type Oracle interface {
	// Start returns the number of rows of f and a point in its domain.
	Start() (rows int, x0 []float64)
	// Eval returns f(x) and its Jacobian, plus the Hessian Σ zᵢ∇²fᵢ(x) when z
	// is not nil. ok is false when x lies outside the domain of f.
	Eval(x, z []float64) (f []float64, df, h mat.Matrix, ok bool)
}

// Backend is the part shared by every solver.
type Backend interface {
	Name() string
	// Statuses maps the raw codes of the backend onto Status values.
	Statuses() map[int]Status
}

// ConeSolver solves dense cone programs.
type ConeSolver interface {
	Backend
	ConeLP(ctx context.Context, p ConeProgram, opts Options) (Result, error)
}

// ConvexSolver solves dense cone programs with additional nonlinear
// constraints.
type ConvexSolver interface {
	Backend
	CPL(ctx context.Context, p ConeProgram, f Oracle, opts Options) (Result, error)
}

// SparseSolver solves cone programs given in compressed-sparse-column layout.
type SparseSolver interface {
	Backend
	Solve(ctx context.Context, p CSCProgram, opts Options) (Result, error)
}

// Lookup translates a raw code of b. Unknown codes map to StatusError.
func Lookup(b Backend, code int) Status {
	if s, ok := b.Statuses()[code]; ok {
		return s
	}
	return StatusError
}

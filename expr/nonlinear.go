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
package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/costela/gocvx/matrix"
)

// NonlinearFunc is a smooth convex function f: ℝⁿ → ℝᵐ of the stacked,
// column-major flattened variables of a Nonlinear constraint.
type NonlinearFunc interface {
	// Rows returns m.
	Rows() int
	// Start writes a point in the domain of f into x0.
	Start(x0 []float64)
	// Eval returns f(x) and its m×n Jacobian. When z is not nil it also
	// returns the n×n Hessian Σ zᵢ∇²fᵢ(x). ok is false when x lies outside
	// the domain of f.
	Eval(x, z []float64) (f []float64, df, h *mat.Dense, ok bool)
}

// Offsets locates the first column of a variable in the stacked decision
// vector.
type Offsets interface {
	Offset(v *Variable) (int, bool)
}

// Nonlinear is the constraint f(v₁, …, vₖ) ≤ 0 for a smooth convex f.
type Nonlinear struct {
	dual
	vars []*Variable
	fn   NonlinearFunc
}

// NewNonlinear returns the constraint fn(vars...) ≤ 0. The variables must be
// distinct.
func NewNonlinear(fn NonlinearFunc, vars ...*Variable) *Nonlinear {
	seen := make(map[*Variable]struct{}, len(vars))
	for _, v := range vars {
		if _, ok := seen[v]; ok {
			panic(fmt.Sprintf("expr: variable %s repeated in nonlinear constraint", v))
		}
		seen[v] = struct{}{}
	}
	return &Nonlinear{vars: vars, fn: fn}
}

func (c *Nonlinear) Kind() Kind   { return KindNonlinear }
func (c *Nonlinear) Shape() Shape { return Shape{c.fn.Rows(), 1} }
func (c *Nonlinear) IsDCP() bool  { return true }

func (c *Nonlinear) Variables() []*Variable {
	return append([]*Variable(nil), c.vars...)
}

func (c *Nonlinear) CanonicalForm() (*Affine, []Constraint) {
	return nil, []Constraint{c}
}

func (c *Nonlinear) SaveValue(v *mat.Dense) { c.value = v }

func (c *Nonlinear) String() string { return fmt.Sprintf("nonlinear(%v) <= 0", c.vars) }

func (c *Nonlinear) localSize() int {
	n := 0
	for _, v := range c.vars {
		n += v.Size()
	}
	return n
}

func mustOffset(off Offsets, v *Variable) int {
	o, ok := off.Offset(v)
	if !ok {
		panic(fmt.Sprintf("expr: variable %s missing from layout", v))
	}
	return o
}

// PlaceX0 writes the starting point of fn into the columns of x owned by the
// constraint's variables.
func (c *Nonlinear) PlaceX0(x []float64, off Offsets) {
	local := make([]float64, c.localSize())
	c.fn.Start(local)

	pos := 0
	for _, v := range c.vars {
		o := mustOffset(off, v)
		copy(x[o:o+v.Size()], local[pos:pos+v.Size()])
		pos += v.Size()
	}
}

// ExtractVariables gathers the constraint's variables out of x.
func (c *Nonlinear) ExtractVariables(x []float64, off Offsets) []float64 {
	local := make([]float64, 0, c.localSize())
	for _, v := range c.vars {
		o := mustOffset(off, v)
		local = append(local, x[o:o+v.Size()]...)
	}
	return local
}

// F evaluates fn at the local point x. See NonlinearFunc.Eval.
func (c *Nonlinear) F(x, z []float64) (f []float64, df, h *mat.Dense, ok bool) {
	return c.fn.Eval(x, z)
}

// PlaceDf writes the local Jacobian df into dst starting at row.
func (c *Nonlinear) PlaceDf(dst matrix.Matrix, df *mat.Dense, off Offsets, row int) {
	m := c.fn.Rows()
	pos := 0
	for _, v := range c.vars {
		o := mustOffset(off, v)
		matrix.SetBlock(dst, df.Slice(0, m, pos, pos+v.Size()), row, o)
		pos += v.Size()
	}
}

// PlaceH accumulates the local Hessian h into dst.
func (c *Nonlinear) PlaceH(dst matrix.Matrix, h *mat.Dense, off Offsets) {
	pos := 0
	for _, vi := range c.vars {
		oi := mustOffset(off, vi)
		qos := 0
		for _, vj := range c.vars {
			oj := mustOffset(off, vj)
			matrix.AddBlock(dst, h.Slice(pos, pos+vi.Size(), qos, qos+vj.Size()), oi, oj)
			qos += vj.Size()
		}
		pos += vi.Size()
	}
}

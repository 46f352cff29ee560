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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Kind tags the cone a constraint belongs to.
type Kind int

const (
	KindEquality Kind = iota
	KindInequality
	KindSecondOrderCone
	KindSemidefinite
	KindNonlinear
)

func (k Kind) String() string {
	switch k {
	case KindEquality:
		return "equality"
	case KindInequality:
		return "inequality"
	case KindSecondOrderCone:
		return "second-order cone"
	case KindSemidefinite:
		return "semidefinite cone"
	case KindNonlinear:
		return "nonlinear"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Constraint is a constraint of one of the five kinds. Its identity is the
// pointer: the same constraint referenced twice counts once.
type Constraint interface {
	Kind() Kind
	Shape() Shape
	IsDCP() bool
	Variables() []*Variable
	// CanonicalForm returns the affine expression of the constraint, if any,
	// and the constraints representing it exactly. The latter always include
	// the canonical version of the constraint itself.
	CanonicalForm() (*Affine, []Constraint)
	// SaveValue stores the dual value computed by the solver.
	SaveValue(v *mat.Dense)
	Dual() *mat.Dense
	String() string
}

type dual struct {
	value *mat.Dense
}

func (d *dual) Dual() *mat.Dense { return d.value }

// DualValue returns the dual value of a scalar constraint, or NaN when no
// value was stored.
func (d *dual) DualValue() float64 {
	if d.value == nil {
		return math.NaN()
	}
	return d.value.At(0, 0)
}

// Equality is the constraint lhs = rhs, kept as lhs - rhs = 0.
type Equality struct {
	dual
	expr   Expression
	parent *Equality
}

// Eq returns the constraint lhs = rhs.
func Eq(lhs, rhs Expression) *Equality {
	return &Equality{expr: Sub(lhs, rhs)}
}

func (c *Equality) Kind() Kind             { return KindEquality }
func (c *Equality) Shape() Shape           { return c.expr.Shape() }
func (c *Equality) IsDCP() bool            { return c.expr.Curvature().IsAffine() }
func (c *Equality) Variables() []*Variable { return c.expr.Variables() }
func (c *Equality) String() string         { return fmt.Sprintf("%s == 0", c.expr) }

func (c *Equality) CanonicalForm() (*Affine, []Constraint) {
	aff, constraints := c.expr.CanonicalForm()
	if a, ok := c.expr.(*Affine); ok {
		return a, append(constraints, c)
	}
	return aff, append(constraints, &Equality{expr: aff, parent: c})
}

// Coefficients of the affine expression. Only valid for canonical
// constraints.
func (c *Equality) Coefficients() []Term {
	return mustAffine(c.expr, c).Coefficients()
}

func (c *Equality) SaveValue(v *mat.Dense) {
	c.value = v
	if c.parent != nil {
		c.parent.SaveValue(v)
	}
}

// Inequality is the constraint lhs ≤ rhs, kept as lhs - rhs ≤ 0.
type Inequality struct {
	dual
	expr   Expression
	parent *Inequality
}

// Leq returns the constraint lhs ≤ rhs.
func Leq(lhs, rhs Expression) *Inequality {
	return &Inequality{expr: Sub(lhs, rhs)}
}

// Geq returns the constraint lhs ≥ rhs.
func Geq(lhs, rhs Expression) *Inequality {
	return Leq(rhs, lhs)
}

func newInequality(a *Affine) *Inequality {
	return &Inequality{expr: a}
}

func (c *Inequality) Kind() Kind             { return KindInequality }
func (c *Inequality) Shape() Shape           { return c.expr.Shape() }
func (c *Inequality) IsDCP() bool            { return c.expr.Curvature().IsConvex() }
func (c *Inequality) Variables() []*Variable { return c.expr.Variables() }
func (c *Inequality) String() string         { return fmt.Sprintf("%s <= 0", c.expr) }

func (c *Inequality) CanonicalForm() (*Affine, []Constraint) {
	aff, constraints := c.expr.CanonicalForm()
	if a, ok := c.expr.(*Affine); ok {
		return a, append(constraints, c)
	}
	return aff, append(constraints, &Inequality{expr: aff, parent: c})
}

// Coefficients of the affine expression. Only valid for canonical
// constraints.
func (c *Inequality) Coefficients() []Term {
	return mustAffine(c.expr, c).Coefficients()
}

func (c *Inequality) SaveValue(v *mat.Dense) {
	c.value = v
	if c.parent != nil {
		c.parent.SaveValue(v)
	}
}

func mustAffine(e Expression, c Constraint) *Affine {
	a, ok := e.(*Affine)
	if !ok {
		panic(fmt.Sprintf("expr: coefficients requested from non-canonical constraint %s", c))
	}
	return a
}

// SOC is the second-order cone constraint ‖x‖₂ ≤ t, with x flattened.
type SOC struct {
	dual
	t, x *Affine
}

// NewSOC returns the constraint ‖x‖₂ ≤ t.
func NewSOC(t, x *Affine) *SOC {
	return &SOC{t: t, x: x}
}

func (c *SOC) Kind() Kind { return KindSecondOrderCone }

// Shape is (size(x) + rows(t), 1), the dimension of the cone.
func (c *SOC) Shape() Shape {
	return Shape{c.x.shape.Size() + c.t.shape.Rows, 1}
}

func (c *SOC) IsDCP() bool { return true }

func (c *SOC) Variables() []*Variable {
	return unionVariables(c.t, c.x)
}

func (c *SOC) CanonicalForm() (*Affine, []Constraint) {
	return nil, []Constraint{c}
}

// Format returns the inequality rows -t ≤ 0 and -x ≤ 0 whose slacks form the
// cone block (t, x). Every call returns new constraints.
func (c *SOC) Format() []Constraint {
	return []Constraint{
		newInequality(scaleAffine(-1, c.t)),
		newInequality(scaleAffine(-1, c.x)),
	}
}

func (c *SOC) SaveValue(v *mat.Dense) { c.value = v }

func (c *SOC) String() string { return fmt.Sprintf("SOC(%s, %s)", c.x, c.t) }

// SDP constrains a square affine expression to the positive semidefinite
// cone.
type SDP struct {
	dual
	a *Affine
}

// NewSDP returns the constraint a ⪰ 0. It panics if a is not square.
func NewSDP(a *Affine) *SDP {
	if a.shape.Rows != a.shape.Cols {
		panic(fmt.Sprintf("expr: semidefinite constraint on non-square %v", a.shape))
	}
	return &SDP{a: a}
}

func (c *SDP) Kind() Kind             { return KindSemidefinite }
func (c *SDP) Shape() Shape           { return c.a.shape }
func (c *SDP) IsDCP() bool            { return true }
func (c *SDP) Variables() []*Variable { return c.a.Variables() }

func (c *SDP) CanonicalForm() (*Affine, []Constraint) {
	return nil, []Constraint{c}
}

// Format returns the inequality -a ≤ 0 whose slack, read column-major, is
// the matrix block of the cone.
func (c *SDP) Format() []Constraint {
	return []Constraint{newInequality(scaleAffine(-1, c.a))}
}

func (c *SDP) SaveValue(v *mat.Dense) { c.value = v }

func (c *SDP) String() string { return fmt.Sprintf("SDP(%s)", c.a) }

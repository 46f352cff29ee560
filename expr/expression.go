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
Package expr provides the modelling entities consumed by gocvx: variables,
affine expressions, convex atoms, constraints and objectives.

Every expression can be reduced to a canonical form: an affine expression
together with the auxiliary constraints needed to represent it exactly. For
instance the canonical form of Norm2(x) is a fresh scalar t plus the
second-order cone constraint ‖x‖₂ ≤ t.

	x := expr.NewVariable("x", 2, 1)
	t := expr.NewScalar("t")
	objective := expr.Minimize(t)
	constraints := []expr.Constraint{
		expr.Leq(expr.Norm2(expr.Sub(x, expr.ConstantMatrix(b))), t),
	}
*/
package expr

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Expression is a (possibly non-affine) scalar or matrix expression.
type Expression interface {
	Shape() Shape
	Curvature() Curvature
	// Variables returns the variables referenced by the expression, without
	// the auxiliary variables introduced by its canonical form.
	Variables() []*Variable
	CanonicalForm() (*Affine, []Constraint)
	String() string
}

// Linear is an entity whose flattened rows are an affine function of the
// variables: affine expressions and affine constraints.
type Linear interface {
	Shape() Shape
	Coefficients() []Term
}

// asAffine returns e as an affine expression when it is one by construction.
func asAffine(e Expression) (*Affine, bool) {
	switch t := e.(type) {
	case *Affine:
		return t, true
	case *Variable:
		return t.affine(), true
	}
	return nil, false
}

// composite is a non-affine expression whose canonical form is built once
// and reused, so repeated solves see the same auxiliary variables.
type composite struct {
	shape Shape
	curv  Curvature
	repr  string
	args  []Expression
	build func() (*Affine, []Constraint)

	aff         *Affine
	constraints []Constraint
}

func (c *composite) Shape() Shape         { return c.shape }
func (c *composite) Curvature() Curvature { return c.curv }
func (c *composite) String() string       { return c.repr }

func (c *composite) Variables() []*Variable {
	return unionVariables(c.args...)
}

func (c *composite) CanonicalForm() (*Affine, []Constraint) {
	if c.aff == nil {
		c.aff, c.constraints = c.build()
	}
	return c.aff, c.constraints
}

func unionVariables(args ...Expression) []*Variable {
	seen := make(map[*Variable]struct{})
	var out []*Variable
	for _, a := range args {
		for _, v := range a.Variables() {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// combine lifts an affine operation over arguments that are not all affine.
func combine(repr string, shape Shape, curv Curvature, op func(...*Affine) *Affine, args ...Expression) Expression {
	return &composite{
		shape: shape,
		curv:  curv,
		repr:  repr,
		args:  args,
		build: func() (*Affine, []Constraint) {
			affs := make([]*Affine, len(args))
			var constraints []Constraint
			for i, a := range args {
				aff, cons := a.CanonicalForm()
				affs[i] = aff
				constraints = append(constraints, cons...)
			}
			return op(affs...), constraints
		},
	}
}

// Add returns a + b. A scalar operand is broadcast to the other's shape.
func Add(a, b Expression) Expression {
	aa, okA := asAffine(a)
	ba, okB := asAffine(b)
	if okA && okB {
		return addAffine(aa, ba)
	}

	return combine(fmt.Sprintf("%s + %s", a, b),
		broadcastShape(a.Shape(), b.Shape()),
		addCurvature(a.Curvature(), b.Curvature()),
		func(affs ...*Affine) *Affine { return addAffine(affs[0], affs[1]) },
		a, b)
}

// Sub returns a - b.
func Sub(a, b Expression) Expression {
	return Add(a, Neg(b))
}

// Neg returns -e.
func Neg(e Expression) Expression {
	return Scale(-1, e)
}

// Scale returns k·e.
func Scale(k float64, e Expression) Expression {
	if a, ok := asAffine(e); ok {
		return scaleAffine(k, a)
	}
	if k == 0 {
		return ConstantMatrix(mat.NewDense(e.Shape().Rows, e.Shape().Cols, nil))
	}

	return combine(fmt.Sprintf("%g * %s", k, e), e.Shape(), scaleCurvature(k, e.Curvature()),
		func(affs ...*Affine) *Affine { return scaleAffine(k, affs[0]) },
		e)
}

// Mul returns the product of the constant matrix c and e. When e is a scalar
// and the inner dimensions do not agree, e multiplies every entry of c.
func Mul(c mat.Matrix, e Expression) Expression {
	if a, ok := asAffine(e); ok {
		return mulAffine(c, a)
	}

	cr, cc := c.Dims()
	shape := Shape{cr, e.Shape().Cols}
	if cc != e.Shape().Rows {
		shape = Shape{cr, cc}
	}

	curv := e.Curvature()
	switch sign(c) {
	case 0:
		return ConstantMatrix(mat.NewDense(shape.Rows, shape.Cols, nil))
	case -1:
		curv = negCurvature(curv)
	case 2:
		curv = CurvatureUnknown
	}

	return combine(fmt.Sprintf("const%v * %s", Shape{cr, cc}, e), shape, curv,
		func(affs ...*Affine) *Affine { return mulAffine(c, affs[0]) },
		e)
}

// sign returns 1 if every entry of c is nonnegative with at least one
// positive, -1 for the mirrored case, 0 for an all-zero matrix and 2 for
// mixed signs.
func sign(c mat.Matrix) int {
	r, cc := c.Dims()
	pos, neg := false, false
	for i := 0; i < r; i++ {
		for j := 0; j < cc; j++ {
			switch v := c.At(i, j); {
			case v > 0:
				pos = true
			case v < 0:
				neg = true
			}
		}
	}

	switch {
	case pos && neg:
		return 2
	case pos:
		return 1
	case neg:
		return -1
	}
	return 0
}

// Sum returns the sum of all entries of e.
func Sum(e Expression) Expression {
	if a, ok := asAffine(e); ok {
		return sumAffine(a)
	}

	return combine(fmt.Sprintf("sum(%s)", e), Shape{1, 1}, e.Curvature(),
		func(affs ...*Affine) *Affine { return sumAffine(affs[0]) },
		e)
}

// Index returns entry (i, j) of e.
func Index(e Expression, i, j int) Expression {
	if a, ok := asAffine(e); ok {
		return indexAffine(a, i, j)
	}

	return combine(fmt.Sprintf("%s[%d, %d]", e, i, j), Shape{1, 1}, e.Curvature(),
		func(affs ...*Affine) *Affine { return indexAffine(affs[0], i, j) },
		e)
}

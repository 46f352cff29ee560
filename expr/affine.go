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
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Term pairs a variable, or the constant marker, with one coefficient block
// per column of the owning expression. Block j of a variable term maps the
// column-major flattening of the variable onto column j of the expression;
// block j of the constant term is column j of the constant part.
type Term struct {
	Var    *Variable // nil marks the constant term
	Blocks []*mat.Dense
}

// IsConstant reports whether t is the constant term.
func (t Term) IsConstant() bool { return t.Var == nil }

// Affine is an expression of the form Σ Aᵥ·vec(v) + b, stored with one
// coefficient matrix per variable over the column-major flattening of the
// expression.
type Affine struct {
	shape  Shape
	repr   string
	vars   []*Variable
	coefs  map[*Variable]*mat.Dense // shape.Size() × v.Size()
	consts []float64
}

func newAffine(shape Shape, repr string) *Affine {
	return &Affine{
		shape:  shape,
		repr:   repr,
		coefs:  make(map[*Variable]*mat.Dense),
		consts: make([]float64, shape.Size()),
	}
}

// Constant returns a 1×1 constant expression.
func Constant(v float64) *Affine {
	a := newAffine(Shape{1, 1}, strconv.FormatFloat(v, 'g', -1, 64))
	a.consts[0] = v
	return a
}

// ConstantMatrix returns a constant expression holding a copy of m.
func ConstantMatrix(m mat.Matrix) *Affine {
	r, c := m.Dims()
	a := newAffine(Shape{r, c}, fmt.Sprintf("const%v", Shape{r, c}))
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			a.consts[i+j*r] = m.At(i, j)
		}
	}
	return a
}

func (a *Affine) addTerm(v *Variable, coef *mat.Dense) {
	if cur, ok := a.coefs[v]; ok {
		cur.Add(cur, coef)
		return
	}
	a.vars = append(a.vars, v)
	a.coefs[v] = mat.DenseCopyOf(coef)
}

func (a *Affine) Shape() Shape { return a.shape }

func (a *Affine) Curvature() Curvature {
	if len(a.vars) == 0 {
		return CurvatureConstant
	}
	return CurvatureAffine
}

func (a *Affine) Variables() []*Variable {
	return append([]*Variable(nil), a.vars...)
}

func (a *Affine) CanonicalForm() (*Affine, []Constraint) { return a, nil }

func (a *Affine) String() string { return a.repr }

// ConstantPart returns a copy of the constant vector in column-major order.
func (a *Affine) ConstantPart() []float64 {
	return append([]float64(nil), a.consts...)
}

// Coefficients returns the variable terms in first-use order followed by the
// constant term.
func (a *Affine) Coefficients() []Term {
	m, n := a.shape.Rows, a.shape.Cols
	terms := make([]Term, 0, len(a.vars)+1)

	for _, v := range a.vars {
		coef := a.coefs[v]
		blocks := make([]*mat.Dense, n)
		for j := range blocks {
			blocks[j] = mat.DenseCopyOf(coef.Slice(j*m, (j+1)*m, 0, v.Size()))
		}
		terms = append(terms, Term{Var: v, Blocks: blocks})
	}

	blocks := make([]*mat.Dense, n)
	for j := range blocks {
		col := append([]float64(nil), a.consts[j*m:(j+1)*m]...)
		blocks[j] = mat.NewDense(m, 1, col)
	}

	return append(terms, Term{Blocks: blocks})
}

// promote broadcasts a scalar expression to shape.
func (a *Affine) promote(shape Shape) *Affine {
	if a.shape == shape {
		return a
	}
	if !a.shape.IsScalar() {
		panic(fmt.Sprintf("expr: cannot broadcast %v to %v", a.shape, shape))
	}

	size := shape.Size()
	out := newAffine(shape, a.repr)
	for _, v := range a.vars {
		src := a.coefs[v]
		coef := mat.NewDense(size, v.Size(), nil)
		for i := 0; i < size; i++ {
			coef.SetRow(i, src.RawRowView(0))
		}
		out.addTerm(v, coef)
	}
	for i := range out.consts {
		out.consts[i] = a.consts[0]
	}

	return out
}

func broadcastShape(a, b Shape) Shape {
	switch {
	case a == b:
		return a
	case a.IsScalar():
		return b
	case b.IsScalar():
		return a
	}
	panic(fmt.Sprintf("expr: incompatible shapes %v and %v", a, b))
}

func addAffine(a, b *Affine) *Affine {
	shape := broadcastShape(a.shape, b.shape)
	a, b = a.promote(shape), b.promote(shape)

	out := newAffine(shape, fmt.Sprintf("%s + %s", a, b))
	for _, v := range a.vars {
		out.addTerm(v, a.coefs[v])
	}
	for _, v := range b.vars {
		out.addTerm(v, b.coefs[v])
	}
	for i := range out.consts {
		out.consts[i] = a.consts[i] + b.consts[i]
	}

	return out
}

func scaleAffine(k float64, a *Affine) *Affine {
	repr := fmt.Sprintf("%g * %s", k, a)
	if k == -1 {
		repr = "-" + a.repr
	}

	out := newAffine(a.shape, repr)
	for _, v := range a.vars {
		coef := mat.DenseCopyOf(a.coefs[v])
		coef.Scale(k, coef)
		out.addTerm(v, coef)
	}
	for i, c := range a.consts {
		out.consts[i] = k * c
	}

	return out
}

// mulAffine computes c·a. A scalar a is broadcast over every entry of c.
func mulAffine(c mat.Matrix, a *Affine) *Affine {
	cr, cc := c.Dims()
	m, n := a.shape.Rows, a.shape.Cols

	switch {
	case cr == 1 && cc == 1:
		return scaleAffine(c.At(0, 0), a)
	case cc == m:
		// matrix product, handled below
	case a.shape.IsScalar():
		return broadcastMul(c, a)
	default:
		panic(fmt.Sprintf("expr: cannot multiply %dx%d by %v", cr, cc, a.shape))
	}

	out := newAffine(Shape{cr, n}, fmt.Sprintf("const%v * %s", Shape{cr, cc}, a))
	for _, v := range a.vars {
		src := a.coefs[v]
		s := v.Size()
		coef := mat.NewDense(cr*n, s, nil)
		for j := 0; j < n; j++ {
			dst := coef.Slice(j*cr, (j+1)*cr, 0, s).(*mat.Dense)
			dst.Mul(c, src.Slice(j*m, (j+1)*m, 0, s))
		}
		out.addTerm(v, coef)
	}
	for j := 0; j < n; j++ {
		for i := 0; i < cr; i++ {
			var sum float64
			for l := 0; l < m; l++ {
				sum += c.At(i, l) * a.consts[l+j*m]
			}
			out.consts[i+j*cr] = sum
		}
	}

	return out
}

func broadcastMul(c mat.Matrix, a *Affine) *Affine {
	cr, cc := c.Dims()
	shape := Shape{cr, cc}

	out := newAffine(shape, fmt.Sprintf("const%v * %s", shape, a))
	for _, v := range a.vars {
		src := a.coefs[v].RawRowView(0)
		coef := mat.NewDense(shape.Size(), v.Size(), nil)
		for j := 0; j < cc; j++ {
			for i := 0; i < cr; i++ {
				k := c.At(i, j)
				for l, x := range src {
					coef.Set(i+j*cr, l, k*x)
				}
			}
		}
		out.addTerm(v, coef)
	}
	for j := 0; j < cc; j++ {
		for i := 0; i < cr; i++ {
			out.consts[i+j*cr] = c.At(i, j) * a.consts[0]
		}
	}

	return out
}

func sumAffine(a *Affine) *Affine {
	out := newAffine(Shape{1, 1}, fmt.Sprintf("sum(%s)", a))
	size := a.shape.Size()
	for _, v := range a.vars {
		src := a.coefs[v]
		coef := mat.NewDense(1, v.Size(), nil)
		for i := 0; i < size; i++ {
			for l := 0; l < v.Size(); l++ {
				coef.Set(0, l, coef.At(0, l)+src.At(i, l))
			}
		}
		out.addTerm(v, coef)
	}
	for _, c := range a.consts {
		out.consts[0] += c
	}

	return out
}

func indexAffine(a *Affine, i, j int) *Affine {
	if i < 0 || i >= a.shape.Rows || j < 0 || j >= a.shape.Cols {
		panic(fmt.Sprintf("expr: index (%d, %d) out of range for %v", i, j, a.shape))
	}

	row := i + j*a.shape.Rows
	out := newAffine(Shape{1, 1}, fmt.Sprintf("%s[%d, %d]", a, i, j))
	for _, v := range a.vars {
		out.addTerm(v, mat.NewDense(1, v.Size(), append([]float64(nil), a.coefs[v].RawRowView(row)...)))
	}
	out.consts[0] = a.consts[row]

	return out
}

// vstackAffine stacks expressions with equal column counts vertically.
func vstackAffine(items ...*Affine) *Affine {
	cols := items[0].shape.Cols
	rows := 0
	for _, it := range items {
		if it.shape.Cols != cols {
			panic(fmt.Sprintf("expr: cannot stack %v under %d columns", it.shape, cols))
		}
		rows += it.shape.Rows
	}

	shape := Shape{rows, cols}
	out := newAffine(shape, fmt.Sprintf("vstack(%d)", len(items)))
	offset := 0
	for _, it := range items {
		m := it.shape.Rows
		for _, v := range it.vars {
			src := it.coefs[v]
			coef := mat.NewDense(shape.Size(), v.Size(), nil)
			for j := 0; j < cols; j++ {
				for i := 0; i < m; i++ {
					coef.SetRow(offset+i+j*rows, src.RawRowView(i+j*m))
				}
			}
			out.addTerm(v, coef)
		}
		for j := 0; j < cols; j++ {
			for i := 0; i < m; i++ {
				out.consts[offset+i+j*rows] = it.consts[i+j*m]
			}
		}
		offset += m
	}

	return out
}

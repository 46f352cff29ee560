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

// atomCurvature is curv when the argument is affine and unknown otherwise.
func atomCurvature(arg Expression, curv Curvature) Curvature {
	if arg.Curvature().IsAffine() {
		return curv
	}
	return CurvatureUnknown
}

// Norm2 returns the Euclidean norm of the flattened e. Its canonical form is
// a scalar t with ‖e‖₂ ≤ t.
func Norm2(e Expression) Expression {
	return &composite{
		shape: Shape{1, 1},
		curv:  atomCurvature(e, CurvatureConvex),
		repr:  fmt.Sprintf("norm2(%s)", e),
		args:  []Expression{e},
		build: func() (*Affine, []Constraint) {
			aff, constraints := e.CanonicalForm()
			t := NewScalar("").affine()
			return t, append(constraints, NewSOC(t, aff))
		},
	}
}

// Abs returns the elementwise absolute value of e.
func Abs(e Expression) Expression {
	return &composite{
		shape: e.Shape(),
		curv:  atomCurvature(e, CurvatureConvex),
		repr:  fmt.Sprintf("abs(%s)", e),
		args:  []Expression{e},
		build: func() (*Affine, []Constraint) {
			aff, constraints := e.CanonicalForm()
			t := NewVariable("", e.Shape().Rows, e.Shape().Cols).affine()
			return t, append(constraints,
				newInequality(addAffine(aff, scaleAffine(-1, t))),
				newInequality(addAffine(scaleAffine(-1, aff), scaleAffine(-1, t))),
			)
		},
	}
}

// Square returns the elementwise square of e. Each entry xᵢ² ≤ tᵢ is
// represented by the cone constraint ‖(2xᵢ, tᵢ-1)‖₂ ≤ tᵢ+1.
func Square(e Expression) Expression {
	shape := e.Shape()
	return &composite{
		shape: shape,
		curv:  atomCurvature(e, CurvatureConvex),
		repr:  fmt.Sprintf("square(%s)", e),
		args:  []Expression{e},
		build: func() (*Affine, []Constraint) {
			aff, constraints := e.CanonicalForm()
			t := NewVariable("", shape.Rows, shape.Cols).affine()
			one := Constant(1)
			for j := 0; j < shape.Cols; j++ {
				for i := 0; i < shape.Rows; i++ {
					xi, ti := indexAffine(aff, i, j), indexAffine(t, i, j)
					constraints = append(constraints, NewSOC(
						addAffine(ti, one),
						vstackAffine(scaleAffine(2, xi), addAffine(ti, scaleAffine(-1, one))),
					))
				}
			}
			return t, constraints
		},
	}
}

// LambdaMax returns the largest eigenvalue of the symmetric matrix e. Its
// canonical form is a scalar t with t·I - e ⪰ 0.
func LambdaMax(e Expression) Expression {
	n := e.Shape().Rows
	if e.Shape().Cols != n {
		panic(fmt.Sprintf("expr: lambda_max of non-square %v", e.Shape()))
	}

	return &composite{
		shape: Shape{1, 1},
		curv:  atomCurvature(e, CurvatureConvex),
		repr:  fmt.Sprintf("lambda_max(%s)", e),
		args:  []Expression{e},
		build: func() (*Affine, []Constraint) {
			aff, constraints := e.CanonicalForm()
			t := NewScalar("").affine()

			eye := mat.NewDense(n, n, nil)
			for i := 0; i < n; i++ {
				eye.Set(i, i, 1)
			}
			slack := addAffine(mulAffine(eye, t), scaleAffine(-1, aff))

			return t, append(constraints, NewSDP(slack))
		},
	}
}

// Exp returns the elementwise exponential of e, represented by the
// nonlinear constraint exp(u) - t ≤ 0.
func Exp(e Expression) Expression {
	return elementwise("exp", e, CurvatureConvex, expFunc{n: e.Shape().Size()})
}

// Log returns the elementwise natural logarithm of e, represented by the
// nonlinear constraint t - log(u) ≤ 0.
func Log(e Expression) Expression {
	return elementwise("log", e, CurvatureConcave, logFunc{n: e.Shape().Size()})
}

func elementwise(name string, e Expression, curv Curvature, fn NonlinearFunc) Expression {
	shape := e.Shape()
	return &composite{
		shape: shape,
		curv:  atomCurvature(e, curv),
		repr:  fmt.Sprintf("%s(%s)", name, e),
		args:  []Expression{e},
		build: func() (*Affine, []Constraint) {
			aff, constraints := e.CanonicalForm()

			u, ok := e.(*Variable)
			if !ok {
				u = NewVariable("", shape.Rows, shape.Cols)
				constraints = append(constraints, Eq(u, aff))
			}
			t := NewVariable("", shape.Rows, shape.Cols)

			return t.affine(), append(constraints, NewNonlinear(fn, u, t))
		},
	}
}

// expFunc is f(u, t) = exp(u) - t.
type expFunc struct{ n int }

func (f expFunc) Rows() int { return f.n }

func (f expFunc) Start(x0 []float64) {
	for i := 0; i < f.n; i++ {
		x0[i], x0[f.n+i] = 0, 2
	}
}

func (f expFunc) Eval(x, z []float64) ([]float64, *mat.Dense, *mat.Dense, bool) {
	n := f.n
	val := make([]float64, n)
	df := mat.NewDense(n, 2*n, nil)

	for i := 0; i < n; i++ {
		e := math.Exp(x[i])
		if math.IsInf(e, 0) {
			return nil, nil, nil, false
		}
		val[i] = e - x[n+i]
		df.Set(i, i, e)
		df.Set(i, n+i, -1)
	}
	if z == nil {
		return val, df, nil, true
	}

	h := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		h.Set(i, i, z[i]*math.Exp(x[i]))
	}

	return val, df, h, true
}

// logFunc is f(u, t) = t - log(u), defined for u > 0.
type logFunc struct{ n int }

func (f logFunc) Rows() int { return f.n }

func (f logFunc) Start(x0 []float64) {
	for i := 0; i < f.n; i++ {
		x0[i], x0[f.n+i] = 1, -1
	}
}

func (f logFunc) Eval(x, z []float64) ([]float64, *mat.Dense, *mat.Dense, bool) {
	n := f.n
	val := make([]float64, n)
	df := mat.NewDense(n, 2*n, nil)

	for i := 0; i < n; i++ {
		u := x[i]
		if u <= 0 {
			return nil, nil, nil, false
		}
		val[i] = x[n+i] - math.Log(u)
		df.Set(i, i, -1/u)
		df.Set(i, n+i, 1)
	}
	if z == nil {
		return val, df, nil, true
	}

	h := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		h.Set(i, i, z[i]/(x[i]*x[i]))
	}

	return val, df, h, true
}

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
	"sync/atomic"

	"gonum.org/v1/gonum/mat"
)

var lastID atomic.Uint64

// Variable is a decision variable of fixed shape. Its identity is the
// pointer: two variables with equal shapes and names are still distinct.
type Variable struct {
	id    uint64
	name  string
	shape Shape
	value *mat.Dense
}

// NewVariable returns a rows×cols variable. Empty names are replaced by a
// unique name.
func NewVariable(name string, rows, cols int) *Variable {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("expr: invalid variable shape %dx%d", rows, cols))
	}

	id := lastID.Add(1)
	if name == "" {
		name = fmt.Sprintf("var%d", id)
	}

	return &Variable{
		id:    id,
		name:  name,
		shape: Shape{rows, cols},
	}
}

// NewScalar is a convenience function for a 1×1 variable.
func NewScalar(name string) *Variable {
	return NewVariable(name, 1, 1)
}

func (v *Variable) ID() uint64   { return v.id }
func (v *Variable) Name() string { return v.name }
func (v *Variable) Shape() Shape { return v.shape }

// Size returns the number of scalar entries of v.
func (v *Variable) Size() int { return v.shape.Size() }

func (v *Variable) Curvature() Curvature { return CurvatureAffine }

func (v *Variable) Variables() []*Variable { return []*Variable{v} }

// CanonicalForm returns the identity affine map of v.
func (v *Variable) CanonicalForm() (*Affine, []Constraint) {
	return v.affine(), nil
}

func (v *Variable) affine() *Affine {
	n := v.Size()
	coef := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		coef.Set(i, i, 1)
	}

	a := newAffine(v.shape, v.name)
	a.addTerm(v, coef)

	return a
}

// SaveValue stores the solved value of v.
func (v *Variable) SaveValue(value *mat.Dense) {
	v.value = value
}

// Value returns the solved value of a scalar variable, or NaN when the
// variable has not been solved yet.
func (v *Variable) Value() float64 {
	if v.value == nil {
		return math.NaN()
	}
	return v.value.At(0, 0)
}

// Matrix returns the solved value of v, or nil when v has not been solved.
func (v *Variable) Matrix() *mat.Dense {
	return v.value
}

func (v *Variable) String() string { return v.name }

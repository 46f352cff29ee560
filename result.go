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
package gocvx

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/costela/gocvx/expr"
	"github.com/costela/gocvx/solvers"
)

// Status is the normalized outcome of a solve.
type Status = solvers.Status

const (
	StatusSolved     = solvers.StatusSolved
	StatusInfeasible = solvers.StatusInfeasible
	StatusUnbounded  = solvers.StatusUnbounded
	StatusError      = solvers.StatusError
)

var (
	ErrNotDCP             = errors.New("problem does not follow DCP rules")
	ErrUnknownMethod      = errors.New("unknown solve method")
	ErrNilObjective       = errors.New("problem has no objective")
	ErrNonScalarObjective = errors.New("objective is not scalar")
	ErrNotSolved          = errors.New("problem not solved")
)

// Result is the outcome of a solve. Value is the optimal objective value
// and NaN unless Status is StatusSolved.
type Result struct {
	Status Status
	Value  float64
}

func failed(status Status) Result {
	return Result{Status: status, Value: math.NaN()}
}

// Err returns nil for solved problems and an error wrapping ErrNotSolved
// otherwise.
func (r Result) Err() error {
	if r.Status == StatusSolved {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotSolved, r.Status)
}

// valueOwner is anything a slice of a solution vector is written back to.
type valueOwner interface {
	Shape() expr.Shape
	SaveValue(v *mat.Dense)
}

func owners[T valueOwner](items []T) []valueOwner {
	out := make([]valueOwner, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// saveValues hands each owner its consecutive range of vec, reshaped
// column-major into the owner's shape.
func saveValues(vec []float64, owners []valueOwner) {
	offset := 0
	for _, o := range owners {
		shape := o.Shape()

		if shape.IsScalar() {
			o.SaveValue(mat.NewDense(1, 1, []float64{vec[offset]}))
			offset++
			continue
		}

		v := mat.NewDense(shape.Rows, shape.Cols, nil)
		for j := 0; j < shape.Cols; j++ {
			for i := 0; i < shape.Rows; i++ {
				v.Set(i, j, vec[offset+i+j*shape.Rows])
			}
		}
		o.SaveValue(v)
		offset += shape.Size()
	}
}

// save writes a solved backend result onto the variables and constraints of
// the problem.
func (c *canonical) save(res solvers.Result) {
	saveValues(res.X, owners(c.layout.Variables()))
	saveValues(res.Y, owners(c.equalities()))
	saveValues(res.Z, owners(c.inequalities()))
	saveValues(res.ZNL, owners(c.nonlinear()))

	// the cone blocks follow the orthant rows, in folding order
	cones := append(
		owners(c.constraints[expr.KindSecondOrderCone].Items()),
		owners(c.constraints[expr.KindSemidefinite].Items())...,
	)
	saveValues(res.Z[c.dims.Orthant():], cones)
}

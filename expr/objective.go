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

import "fmt"

type Sense int

const (
	SenseMinimize Sense = iota
	SenseMaximize
)

// Objective is a scalar expression to be minimized or maximized.
type Objective struct {
	sense Sense
	expr  Expression
}

// Minimize returns the objective of minimizing e.
func Minimize(e Expression) *Objective {
	return &Objective{sense: SenseMinimize, expr: e}
}

// Maximize returns the objective of maximizing e.
func Maximize(e Expression) *Objective {
	return &Objective{sense: SenseMaximize, expr: e}
}

func (o *Objective) Sense() Sense           { return o.sense }
func (o *Objective) Expression() Expression { return o.expr }
func (o *Objective) Shape() Shape           { return o.expr.Shape() }
func (o *Objective) Variables() []*Variable { return o.expr.Variables() }

// IsDCP reports whether a minimized expression is convex or a maximized one
// concave.
func (o *Objective) IsDCP() bool {
	if o.sense == SenseMaximize {
		return o.expr.Curvature().IsConcave()
	}
	return o.expr.Curvature().IsConvex()
}

// CanonicalForm returns the affine expression to be minimized and its
// auxiliary constraints. Maximization is turned into minimizing -e.
func (o *Objective) CanonicalForm() (*Affine, []Constraint) {
	aff, constraints := o.expr.CanonicalForm()
	if o.sense == SenseMaximize {
		aff = scaleAffine(-1, aff)
	}
	return aff, constraints
}

// PrimalToResult converts the optimal value of the canonical minimization
// back to the user's sense.
func (o *Objective) PrimalToResult(v float64) float64 {
	if o.sense == SenseMaximize {
		return -v
	}
	return v
}

func (o *Objective) String() string {
	if o.sense == SenseMaximize {
		return fmt.Sprintf("Maximize(%s)", o.expr)
	}
	return fmt.Sprintf("Minimize(%s)", o.expr)
}

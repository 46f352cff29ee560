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
	"gonum.org/v1/gonum/mat"

	"github.com/costela/gocvx/expr"
	"github.com/costela/gocvx/matrix"
)

// oracle evaluates the stacked nonlinear constraints of a problem on the
// full decision vector.
type oracle struct {
	constraints []*expr.Nonlinear
	layout      *Layout
	n           int
	rows        int
	intf        matrix.Interface
}

func newOracle(constraints []expr.Constraint, layout *Layout, n int, intf matrix.Interface) *oracle {
	o := &oracle{
		layout: layout,
		n:      n,
		intf:   intf,
	}
	for _, c := range constraints {
		nl := c.(*expr.Nonlinear)
		o.constraints = append(o.constraints, nl)
		o.rows += nl.Shape().Rows
	}
	return o
}

func (o *oracle) Start() (int, []float64) {
	x0 := make([]float64, o.n)
	for _, c := range o.constraints {
		c.PlaceX0(x0, o.layout)
	}
	return o.rows, x0
}

func (o *oracle) Eval(x, z []float64) ([]float64, mat.Matrix, mat.Matrix, bool) {
	f := make([]float64, 0, o.rows)
	df := o.intf.Zeros(o.rows, o.n)

	var h matrix.Matrix
	if z != nil {
		h = o.intf.Zeros(o.n, o.n)
	}

	row := 0
	for _, c := range o.constraints {
		m := c.Shape().Rows
		local := c.ExtractVariables(x, o.layout)

		var zl []float64
		if z != nil {
			zl = z[row : row+m]
		}

		fl, dfl, hl, ok := c.F(local, zl)
		if !ok {
			return nil, nil, nil, false
		}

		f = append(f, fl...)
		c.PlaceDf(df, dfl, o.layout, row)
		if h != nil && hl != nil {
			c.PlaceH(h, hl, o.layout)
		}

		row += m
	}

	if h == nil {
		return f, df, nil, true
	}
	return f, df, h, true
}

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
	"fmt"

	"github.com/costela/gocvx/expr"
	"github.com/costela/gocvx/matrix"
)

// Assemble stacks the flattened rows of items into a coefficient matrix with
// n columns and a right-hand side vector, so that the rows read
// M·x + const = 0 become M·x = v. Each item contributes rows·cols rows in
// column-major order. The matrix is created through mIntf and the vector
// through vIntf.
//
// Assemble panics if an item references a variable missing from layout.
func Assemble(items []expr.Linear, layout *Layout, n int, mIntf, vIntf matrix.Interface) (matrix.Matrix, matrix.Matrix) {
	rows := 0
	for _, it := range items {
		rows += it.Shape().Size()
	}

	m := mIntf.Zeros(rows, n)
	v := vIntf.Zeros(rows, 1)

	row := 0
	for _, it := range items {
		height := it.Shape().Rows

		for _, term := range it.Coefficients() {
			if term.IsConstant() {
				for j, block := range term.Blocks {
					matrix.AddBlock(v, block, row+j*height, 0)
				}
				continue
			}

			col, ok := layout.Offset(term.Var)
			if !ok {
				panic(fmt.Sprintf("gocvx: variable %s missing from layout", term.Var))
			}
			for j, block := range term.Blocks {
				matrix.SetBlock(m, block, row+j*height, col)
			}
		}

		row += it.Shape().Size()
	}

	matrix.Negate(v)
	return m, v
}

// linear converts canonical affine constraints for Assemble.
func linear(constraints []expr.Constraint) []expr.Linear {
	items := make([]expr.Linear, len(constraints))
	for i, c := range constraints {
		l, ok := c.(expr.Linear)
		if !ok {
			panic(fmt.Sprintf("gocvx: constraint %s has no affine coefficients", c))
		}
		items[i] = l
	}
	return items
}

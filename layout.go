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

import "github.com/costela/gocvx/expr"

// Layout assigns each variable a contiguous range of columns in the stacked
// decision vector.
type Layout struct {
	vars    []*expr.Variable
	offsets map[*expr.Variable]int
	size    int
}

// newLayout collects the variables of the objective and of every constraint
// group in first-appearance order.
func newLayout(objective *expr.Affine, groups ...[]expr.Constraint) *Layout {
	l := &Layout{offsets: make(map[*expr.Variable]int)}

	if objective != nil {
		l.add(objective.Variables()...)
	}
	for _, group := range groups {
		for _, c := range group {
			l.add(c.Variables()...)
		}
	}

	return l
}

func (l *Layout) add(vars ...*expr.Variable) {
	for _, v := range vars {
		if _, ok := l.offsets[v]; ok {
			continue
		}
		l.offsets[v] = l.size
		l.vars = append(l.vars, v)
		l.size += v.Size()
	}
}

// Offset returns the first column of v.
func (l *Layout) Offset(v *expr.Variable) (int, bool) {
	o, ok := l.offsets[v]
	return o, ok
}

// Len returns the length of the decision vector.
func (l *Layout) Len() int { return l.size }

// Variables returns the variables in column order.
func (l *Layout) Variables() []*expr.Variable {
	return append([]*expr.Variable(nil), l.vars...)
}

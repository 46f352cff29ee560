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
	"github.com/costela/gocvx/solvers"
)

// orderedSet holds constraints keyed by identity and iterates them in
// insertion order. Constraints must be comparable, which pointer
// implementations always are.
type orderedSet struct {
	items []expr.Constraint
	index map[expr.Constraint]int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[expr.Constraint]int)}
}

// Add inserts c unless the very same constraint is already present.
func (s *orderedSet) Add(c expr.Constraint) bool {
	if _, ok := s.index[c]; ok {
		return false
	}
	s.index[c] = len(s.items)
	s.items = append(s.items, c)
	return true
}

func (s *orderedSet) Contains(c expr.Constraint) bool {
	_, ok := s.index[c]
	return ok
}

func (s *orderedSet) Len() int { return len(s.items) }

func (s *orderedSet) Items() []expr.Constraint { return s.items }

// rows returns the number of flattened rows of the set.
func (s *orderedSet) rows() int {
	n := 0
	for _, c := range s.items {
		n += c.Shape().Size()
	}
	return n
}

// constraintMap partitions constraints by kind.
type constraintMap map[expr.Kind]*orderedSet

var kinds = []expr.Kind{
	expr.KindEquality,
	expr.KindInequality,
	expr.KindSecondOrderCone,
	expr.KindSemidefinite,
	expr.KindNonlinear,
}

func newConstraintMap() constraintMap {
	m := make(constraintMap, len(kinds))
	for _, k := range kinds {
		m[k] = newOrderedSet()
	}
	return m
}

func (m constraintMap) add(c expr.Constraint) {
	s, ok := m[c.Kind()]
	if !ok {
		panic(fmt.Sprintf("gocvx: constraint %s has unknown kind %v", c, c.Kind()))
	}
	s.Add(c)
}

// classify sorts the auxiliary constraints of the objective, followed by the
// canonical constraints of every distinct user constraint, into their kinds.
func classify(auxiliary, constraints []expr.Constraint) constraintMap {
	m := newConstraintMap()
	for _, c := range auxiliary {
		m.add(c)
	}

	seen := make(map[expr.Constraint]struct{}, len(constraints))
	for _, c := range constraints {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		_, canon := c.CanonicalForm()
		for _, cc := range canon {
			m.add(cc)
		}
	}

	return m
}

type formatter interface {
	Format() []expr.Constraint
}

// formatCones folds the second-order and semidefinite constraints into
// inequality rows and describes the resulting cone. Every Format call yields
// new rows, so folded rows are never merged with existing ones.
func (m constraintMap) formatCones() solvers.Dims {
	var dims solvers.Dims
	ineq := m[expr.KindInequality]

	for _, c := range m[expr.KindSecondOrderCone].Items() {
		for _, row := range c.(formatter).Format() {
			ineq.Add(row)
		}
		dims.Q = append(dims.Q, c.Shape().Rows)
	}

	for _, c := range m[expr.KindSemidefinite].Items() {
		for _, row := range c.(formatter).Format() {
			ineq.Add(row)
		}
		dims.S = append(dims.S, c.Shape().Rows)
	}

	dims.L = ineq.rows()
	return dims
}

// canonical is a problem reduced to the sets the assembler and the splitter
// walk. Both use the same traversal, so offsets always line up.
type canonical struct {
	objective   *expr.Affine
	constraints constraintMap
	dims        solvers.Dims
	layout      *Layout
}

func canonicalize(objective *expr.Objective, constraints []expr.Constraint) *canonical {
	obj, aux := objective.CanonicalForm()

	m := classify(aux, constraints)
	dims := m.formatCones()

	layout := newLayout(obj,
		m[expr.KindEquality].Items(),
		m[expr.KindInequality].Items(),
		m[expr.KindNonlinear].Items(),
	)

	return &canonical{
		objective:   obj,
		constraints: m,
		dims:        dims,
		layout:      layout,
	}
}

func (c *canonical) equalities() []expr.Constraint {
	return c.constraints[expr.KindEquality].Items()
}

func (c *canonical) inequalities() []expr.Constraint {
	return c.constraints[expr.KindInequality].Items()
}

func (c *canonical) nonlinear() []expr.Constraint {
	return c.constraints[expr.KindNonlinear].Items()
}

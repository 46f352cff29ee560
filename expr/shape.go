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

// Shape is the (rows, cols) size of an expression, variable or constraint.
type Shape struct {
	Rows, Cols int
}

// Size returns the number of entries, rows*cols.
func (s Shape) Size() int { return s.Rows * s.Cols }

// IsScalar reports whether s is 1×1.
func (s Shape) IsScalar() bool { return s.Rows == 1 && s.Cols == 1 }

func (s Shape) String() string { return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols) }

// Curvature classifies an expression for the disciplined convex programming
// rules.
type Curvature int

const (
	CurvatureConstant Curvature = iota
	CurvatureAffine
	CurvatureConvex
	CurvatureConcave
	CurvatureUnknown
)

func (c Curvature) String() string {
	switch c {
	case CurvatureConstant:
		return "constant"
	case CurvatureAffine:
		return "affine"
	case CurvatureConvex:
		return "convex"
	case CurvatureConcave:
		return "concave"
	default:
		return "unknown"
	}
}

// IsAffine reports whether c is constant or affine.
func (c Curvature) IsAffine() bool { return c == CurvatureConstant || c == CurvatureAffine }

// IsConvex reports whether c is constant, affine or convex.
func (c Curvature) IsConvex() bool { return c.IsAffine() || c == CurvatureConvex }

// IsConcave reports whether c is constant, affine or concave.
func (c Curvature) IsConcave() bool { return c.IsAffine() || c == CurvatureConcave }

func addCurvature(a, b Curvature) Curvature {
	switch {
	case a == CurvatureUnknown || b == CurvatureUnknown:
		return CurvatureUnknown
	case a == CurvatureConstant:
		return b
	case b == CurvatureConstant:
		return a
	case a == CurvatureAffine:
		return b
	case b == CurvatureAffine:
		return a
	case a == b:
		return a
	default:
		return CurvatureUnknown
	}
}

func negCurvature(c Curvature) Curvature {
	switch c {
	case CurvatureConvex:
		return CurvatureConcave
	case CurvatureConcave:
		return CurvatureConvex
	default:
		return c
	}
}

func scaleCurvature(k float64, c Curvature) Curvature {
	switch {
	case k == 0:
		return CurvatureConstant
	case k < 0:
		return negCurvature(c)
	default:
		return c
	}
}

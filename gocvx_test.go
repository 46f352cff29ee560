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
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/costela/gocvx/expr"
	"github.com/costela/gocvx/matrix"
	"github.com/costela/gocvx/solvers"
)

const (
	delta = 0.0001 // acceptable numerical deviation for test results
)

// affineOf returns v as an affine expression.
func affineOf(v *expr.Variable) *expr.Affine {
	return expr.Add(v, expr.Constant(0)).(*expr.Affine)
}

func TestNewProblem(t *testing.T) {
	x := expr.NewScalar("x")

	_, err := NewProblem(nil, nil)
	assert.ErrorIs(t, err, ErrNilObjective)

	_, err = NewProblem(expr.Minimize(expr.NewVariable("y", 2, 1)), nil)
	assert.ErrorIs(t, err, ErrNonScalarObjective)

	_, err = NewProblem(expr.Minimize(x), nil, WithLogger(nil))
	assert.Error(t, err)

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{expr.Geq(x, expr.Constant(1))})
	require.NoError(t, err)

	assert.True(t, p.IsDCP())
	assert.Equal(t, StatusError, p.Status())
	assert.True(t, math.IsNaN(p.Value()))
	assert.Equal(t, "Problem(Minimize(x), [1 + -x <= 0])", p.String())
}

func TestSolveLowerBound(t *testing.T) {
	x := expr.NewScalar("x")
	bound := expr.Geq(x, expr.Constant(1))

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{bound})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.Equal(t, StatusSolved, res.Status)
	assert.InDelta(t, 1, res.Value, delta)
	assert.InDelta(t, 1, x.Value(), delta)
	assert.InDelta(t, 1, bound.DualValue(), delta)
	assert.Equal(t, StatusSolved, p.Status())
	assert.InDelta(t, 1, p.Value(), delta)
}

func TestSolveObjectiveOffset(t *testing.T) {
	x := expr.NewScalar("x")
	constraints := []expr.Constraint{expr.Geq(x, expr.Constant(1))}

	p, err := NewProblem(expr.Minimize(expr.Add(x, expr.Constant(2))), constraints)
	require.NoError(t, err)
	res, err := p.Solve()
	require.NoError(t, err)
	assert.InDelta(t, 3, res.Value, delta)

	p, err = NewProblem(expr.Maximize(expr.Sub(expr.Constant(2), x)), constraints)
	require.NoError(t, err)
	res, err = p.Solve(WithSolver(SolverDense))
	require.NoError(t, err)
	assert.InDelta(t, 1, res.Value, delta)
	assert.InDelta(t, 1, x.Value(), delta)
}

func TestSolveInfeasible(t *testing.T) {
	x := expr.NewScalar("x")

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{
		expr.Geq(x, expr.Constant(1)),
		expr.Leq(x, expr.Constant(0)),
	})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)

	assert.Equal(t, StatusInfeasible, res.Status)
	assert.ErrorIs(t, res.Err(), ErrNotSolved)
	assert.True(t, math.IsNaN(res.Value))
	assert.Nil(t, x.Matrix())
}

func TestSolveUnbounded(t *testing.T) {
	x := expr.NewScalar("x")

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{expr.Leq(x, expr.Constant(1))})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	assert.Equal(t, StatusUnbounded, res.Status)
}

func TestSolveEqualities(t *testing.T) {
	x := expr.NewVariable("x", 2, 1)
	sum := expr.Eq(expr.Sum(x), expr.Constant(3))

	p, err := NewProblem(expr.Minimize(expr.Index(x, 0, 0)), []expr.Constraint{
		sum,
		expr.Geq(x, expr.Constant(1)),
	})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)

	assert.InDelta(t, 1, res.Value, delta)
	require.NotNil(t, x.Matrix())
	assert.InDelta(t, 1, x.Matrix().At(0, 0), delta)
	assert.InDelta(t, 2, x.Matrix().At(1, 0), delta)
	assert.NotNil(t, sum.Dual())
}

func TestSolveSecondOrderCone(t *testing.T) {
	x := expr.NewVariable("x", 2, 1)
	sum := expr.Geq(expr.Sum(x), expr.Constant(2))

	p, err := NewProblem(expr.Minimize(expr.Norm2(x)), []expr.Constraint{sum})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)

	assert.InDelta(t, math.Sqrt2, res.Value, delta)
	assert.InDelta(t, 1, x.Matrix().At(0, 0), delta)
	assert.InDelta(t, 1, x.Matrix().At(1, 0), delta)
	assert.InDelta(t, 1/math.Sqrt2, sum.DualValue(), delta)
}

func TestSolveSemidefinite(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 1, 1, 2})

	p, err := NewProblem(expr.Minimize(expr.LambdaMax(expr.ConstantMatrix(a))), nil)
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)
	assert.InDelta(t, 3, res.Value, delta)
}

func TestSolveNonlinear(t *testing.T) {
	x := expr.NewScalar("x")
	bound := expr.Geq(x, expr.Constant(1))

	p, err := NewProblem(expr.Minimize(expr.Exp(x)), []expr.Constraint{bound})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)
	assert.InDelta(t, math.E, res.Value, delta)
	assert.InDelta(t, 1, x.Value(), delta)

	y := expr.NewScalar("y")
	p, err = NewProblem(expr.Maximize(expr.Log(y)), []expr.Constraint{expr.Leq(y, expr.Constant(2))})
	require.NoError(t, err)

	res, err = p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)
	assert.InDelta(t, math.Ln2, res.Value, delta)
	assert.InDelta(t, 2, y.Value(), delta)
}

func TestSolveConeDuals(t *testing.T) {
	tt := expr.NewScalar("t")
	x := expr.NewVariable("x", 2, 1)
	fix := expr.Eq(x, expr.ConstantMatrix(mat.NewDense(2, 1, []float64{3, 4})))
	soc := expr.NewSOC(affineOf(tt), affineOf(x))

	p, err := NewProblem(expr.Minimize(tt), []expr.Constraint{fix, soc})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)
	assert.InDelta(t, 5, res.Value, delta)

	require.NotNil(t, soc.Dual())
	r, c := soc.Dual().Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 1, c)
	assert.InDelta(t, 1, soc.Dual().At(0, 0), delta)
	assert.InDelta(t, -0.6, soc.Dual().At(1, 0), delta)
	assert.InDelta(t, -0.8, soc.Dual().At(2, 0), delta)

	require.NotNil(t, fix.Dual())
	assert.InDelta(t, -0.6, fix.Dual().At(0, 0), delta)
	assert.InDelta(t, -0.8, fix.Dual().At(1, 0), delta)
}

func TestSolveSemidefiniteDual(t *testing.T) {
	lm := expr.LambdaMax(expr.ConstantMatrix(mat.NewDense(2, 2, []float64{2, 1, 1, 2})))
	_, aux := lm.CanonicalForm()
	psd, ok := aux[len(aux)-1].(*expr.SDP)
	require.True(t, ok)

	p, err := NewProblem(expr.Minimize(lm), nil)
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)

	// the multiplier of tI - A ⪰ 0 is the projector onto the top
	// eigenvector (1, 1)/√2, with unit trace
	z := psd.Dual()
	require.NotNil(t, z)
	r, c := z.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	assert.InDelta(t, 1, mat.Trace(z), delta)
	assert.InDelta(t, 0.5, z.At(0, 0), delta)
	assert.InDelta(t, 0.5, z.At(0, 1), delta)
	assert.InDelta(t, 0.5, z.At(1, 0), delta)
	assert.InDelta(t, 0.5, z.At(1, 1), delta)
}

func TestSolveNonlinearDual(t *testing.T) {
	x := expr.NewScalar("x")
	bound := expr.Geq(x, expr.Constant(1))
	ex := expr.Exp(x)
	_, aux := ex.CanonicalForm()
	nl, ok := aux[len(aux)-1].(*expr.Nonlinear)
	require.True(t, ok)

	p, err := NewProblem(expr.Minimize(ex), []expr.Constraint{bound})
	require.NoError(t, err)

	res, err := p.Solve()
	require.NoError(t, err)
	require.Equal(t, StatusSolved, res.Status)

	// stationarity in t and x: λ = 1 and λ·eˣ = μ
	assert.InDelta(t, 1, nl.DualValue(), delta)
	assert.InDelta(t, math.E, bound.DualValue(), delta)
}

func TestSolveNotDCP(t *testing.T) {
	x := expr.NewVariable("x", 2, 1)

	p, err := NewProblem(expr.Maximize(expr.Norm2(x)), []expr.Constraint{
		expr.Leq(x, expr.Constant(1)),
	})
	require.NoError(t, err)
	assert.False(t, p.IsDCP())

	res, err := p.Solve()
	assert.ErrorIs(t, err, ErrNotDCP)
	assert.Equal(t, StatusError, res.Status)
	assert.Nil(t, x.Matrix())
}

func TestSolveCancelled(t *testing.T) {
	x := expr.NewScalar("x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{expr.Geq(x, expr.Constant(1))})
	require.NoError(t, err)

	res, err := p.SolveContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusError, res.Status)
	assert.Nil(t, x.Matrix())
}

func TestSolveLeavesOptionsUntouched(t *testing.T) {
	x := expr.NewScalar("x")
	opts := solvers.DefaultOptions()
	opts.FeasTol = 1e-8

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{expr.Geq(x, expr.Constant(1))}, WithSolverOptions(opts))
	require.NoError(t, err)

	_, err = p.Solve(WithSolver(SolverDense), Verbose())
	require.NoError(t, err)

	assert.Equal(t, opts, p.options)
}

func TestClassify(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewVariable("y", 2, 1)

	eq := expr.Eq(x, expr.Constant(1))
	leq := expr.Leq(y, expr.Constant(1))
	twin := expr.Leq(y, expr.Constant(1))

	m := classify(nil, []expr.Constraint{eq, leq, eq, twin, leq})

	assert.Equal(t, []expr.Constraint{eq}, m[expr.KindEquality].Items())
	assert.Equal(t, []expr.Constraint{leq, twin}, m[expr.KindInequality].Items())
	for _, k := range []expr.Kind{expr.KindSecondOrderCone, expr.KindSemidefinite, expr.KindNonlinear} {
		assert.Zero(t, m[k].Len(), k.String())
	}
}

func TestFormatCones(t *testing.T) {
	tt := expr.NewScalar("t")
	x := expr.NewVariable("x", 2, 1)
	soc := expr.NewSOC(affineOf(tt), affineOf(x))
	bound := expr.Leq(x, expr.Constant(5))

	canon := canonicalize(expr.Minimize(tt), []expr.Constraint{bound, soc})

	require.Equal(t, []int{3}, canon.dims.Q)
	assert.Empty(t, canon.dims.S)
	assert.Equal(t, 2+3, canon.dims.L)
	assert.Equal(t, 2, canon.dims.Orthant())
	assert.Len(t, canon.inequalities(), 3)

	g, h := Assemble(linear(canon.inequalities()), canon.layout, canon.layout.Len(), matrix.SparseInterface, matrix.DenseInterface)
	rows, cols := g.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)

	ot, _ := canon.layout.Offset(tt)
	ox, _ := canon.layout.Offset(x)
	assert.Equal(t, -1.0, g.At(2, ot))
	assert.Equal(t, -1.0, g.At(3, ox))
	assert.Equal(t, -1.0, g.At(4, ox+1))
	assert.Equal(t, []float64{5, 5, 0, 0, 0}, matrix.Column(h))

	// a second canonicalization folds new rows
	again := canonicalize(expr.Minimize(tt), []expr.Constraint{bound, soc})
	assert.NotSame(t, canon.inequalities()[1], again.inequalities()[1])
	assert.Equal(t, canon.dims, again.dims)
}

func TestLayout(t *testing.T) {
	a := expr.NewScalar("a")
	b := expr.NewVariable("b", 2, 3)
	c := expr.NewVariable("c", 4, 1)

	obj := affineOf(b)
	l := newLayout(obj, []expr.Constraint{
		expr.Leq(expr.Add(a, expr.Index(b, 0, 0)), expr.Constant(1)),
		expr.Eq(c, expr.Constant(0)),
	})

	require.Equal(t, []*expr.Variable{b, a, c}, l.Variables())

	next := 0
	for _, v := range l.Variables() {
		o, ok := l.Offset(v)
		require.True(t, ok)
		assert.Equal(t, next, o)
		next += v.Size()
	}
	assert.Equal(t, next, l.Len())
	assert.Equal(t, 6+1+4, l.Len())

	_, ok := l.Offset(expr.NewScalar("stranger"))
	assert.False(t, ok)
}

func TestAssemble(t *testing.T) {
	x := expr.NewVariable("x", 2, 2)
	y := expr.NewScalar("y")

	items := []expr.Linear{
		affineOf(x),
		expr.Add(expr.Scale(2, y), expr.Constant(3)).(*expr.Affine),
	}
	l := newLayout(nil)
	l.add(x, y)

	m, v := Assemble(items, l, l.Len(), matrix.SparseInterface, matrix.DenseInterface)
	rows, cols := m.Dims()
	assert.Equal(t, 4+1, rows)
	assert.Equal(t, 5, cols)

	// column-major flattening of x maps onto the identity
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1.0, m.At(i, i))
	}
	assert.Equal(t, 2.0, m.At(4, 4))
	assert.Equal(t, []float64{0, 0, 0, 0, -3}, matrix.Column(v))

	m2, v2 := Assemble(items, l, l.Len(), matrix.DenseInterface, matrix.DenseInterface)
	assert.True(t, matrix.Equal(m, m2))
	assert.True(t, matrix.Equal(v, v2))

	assert.Panics(t, func() {
		Assemble([]expr.Linear{affineOf(expr.NewScalar("z"))}, l, l.Len(), matrix.DenseInterface, matrix.DenseInterface)
	})
}

func TestSaveValuesRoundTrip(t *testing.T) {
	a := expr.NewScalar("a")
	b := expr.NewVariable("b", 2, 2)
	l := newLayout(nil)
	l.add(a, b)

	x := []float64{7, 1, 2, 3, 4}
	saveValues(x, owners(l.Variables()))

	assert.Equal(t, 7.0, a.Value())
	ob, _ := l.Offset(b)
	assert.Equal(t, x[ob:ob+b.Size()], matrix.Column(b.Matrix()))
	assert.Equal(t, 3.0, b.Matrix().At(0, 1))
}

func TestOracle(t *testing.T) {
	x := expr.NewScalar("x")
	y := expr.NewVariable("y", 2, 1)

	canon := canonicalize(expr.Minimize(expr.Add(expr.Exp(x), expr.Sum(expr.Exp(y)))), nil)
	nl := canon.nonlinear()
	require.Len(t, nl, 2)

	n := canon.layout.Len()
	o := newOracle(nl, canon.layout, n, matrix.SparseInterface)

	rows, x0 := o.Start()
	assert.Equal(t, 3, rows)
	require.Len(t, x0, n)

	f, df, h, ok := o.Eval(x0, nil)
	require.True(t, ok)
	assert.Len(t, f, 3)
	r, c := df.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, n, c)
	assert.Nil(t, h)
	for _, fi := range f {
		assert.Less(t, fi, 0.0)
	}

	_, _, h, ok = o.Eval(x0, []float64{1, 1, 1})
	require.True(t, ok)
	require.NotNil(t, h)
	ox, _ := canon.layout.Offset(x)
	assert.InDelta(t, 1, h.At(ox, ox), 1e-12)

	bad := append([]float64(nil), x0...)
	bad[ox] = math.Inf(1)
	_, _, _, ok = o.Eval(bad, nil)
	assert.False(t, ok)
}

func TestRegisteredMethod(t *testing.T) {
	x := expr.NewScalar("x")
	r := NewRegistry()

	var (
		gotProblem  *Problem
		gotSettings SolveSettings
	)
	r.Register("fixed", func(ctx context.Context, p *Problem, settings SolveSettings) (Result, error) {
		gotProblem = p
		gotSettings = settings
		return Result{Status: StatusSolved, Value: 42}, nil
	})

	p, err := NewProblem(expr.Minimize(x), nil, WithRegistry(r))
	require.NoError(t, err)

	res, err := p.Solve(WithMethod("fixed"), Verbose(), IgnoreDCP())
	require.NoError(t, err)

	assert.Equal(t, 42.0, res.Value)
	assert.Same(t, p, gotProblem)
	assert.Equal(t, SolveSettings{Method: "fixed", Verbose: true, IgnoreDCP: true}, gotSettings)
	assert.Nil(t, x.Matrix())

	_, err = p.Solve(WithMethod("missing"))
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestDefaultRegistry(t *testing.T) {
	x := expr.NewScalar("x")
	RegisterSolveMethod("default-delegate", func(ctx context.Context, p *Problem, settings SolveSettings) (Result, error) {
		settings.Solver = SolverDense
		return p.SolveDefault(ctx, settings)
	})

	p, err := NewProblem(expr.Minimize(x), []expr.Constraint{expr.Geq(x, expr.Constant(-2))})
	require.NoError(t, err)

	res, err := p.Solve(WithMethod("default-delegate"))
	require.NoError(t, err)
	assert.InDelta(t, -2, res.Value, delta)
}

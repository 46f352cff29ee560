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
package solvers

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Raw codes returned by Interior.
const (
	InteriorOptimal          = 0
	InteriorPrimalInfeasible = 1
	InteriorDualInfeasible   = 2
	InteriorUnknown          = 3
)

const (
	barrierMu     = 10.0
	newtonTol     = 1e-9
	maxNewton     = 50
	maxOuter      = 40
	lsAlpha       = 0.01
	lsBeta        = 0.5
	ballScale     = 1e7
	unboundedTest = 1e-3
)

// Interior is a primal log-barrier interior-point method. Equality
// constraints are eliminated through the null space of A, a phase I problem
// finds a strictly feasible point and the barrier path is then followed
// until the duality gap drops below the configured tolerances. The decision
// vector is kept inside a large ball, whose multiplier reveals unbounded
// programs.
type Interior struct{}

// NewInterior returns the barrier backend.
func NewInterior() *Interior {
	return &Interior{}
}

func (*Interior) Name() string { return "interior" }

func (*Interior) Statuses() map[int]Status {
	return map[int]Status{
		InteriorOptimal:          StatusSolved,
		InteriorPrimalInfeasible: StatusInfeasible,
		InteriorDualInfeasible:   StatusUnbounded,
		InteriorUnknown:          StatusError,
	}
}

// ConeLP solves a cone program without nonlinear constraints.
func (s *Interior) ConeLP(ctx context.Context, p ConeProgram, opts Options) (Result, error) {
	return s.solve(ctx, p, nil, opts)
}

// CPL solves a cone program with the nonlinear constraints evaluated by f.
func (s *Interior) CPL(ctx context.Context, p ConeProgram, f Oracle, opts Options) (Result, error) {
	if f == nil {
		return Result{Code: InteriorUnknown}, errors.New("nil oracle")
	}
	return s.solve(ctx, p, f, opts)
}

func (p ConeProgram) validate() error {
	n := len(p.C)
	if err := p.Dims.Validate(); err != nil {
		return err
	}
	if len(p.H) != p.Dims.L {
		return fmt.Errorf("h has %d rows, cone has %d", len(p.H), p.Dims.L)
	}
	if p.G != nil {
		if r, c := p.G.Dims(); r != len(p.H) || c != n {
			return fmt.Errorf("G is %dx%d, want %dx%d", r, c, len(p.H), n)
		}
	} else if len(p.H) > 0 && n > 0 {
		return errors.New("missing G")
	}
	if p.A != nil {
		if r, c := p.A.Dims(); r != len(p.B) || c != n {
			return fmt.Errorf("A is %dx%d, want %dx%d", r, c, len(p.B), n)
		}
	} else if len(p.B) > 0 && n > 0 {
		return errors.New("missing A")
	}
	return nil
}

func (s *Interior) solve(ctx context.Context, p ConeProgram, f Oracle, opts Options) (Result, error) {
	if err := p.validate(); err != nil {
		return Result{Code: InteriorUnknown}, fmt.Errorf("invalid cone program: %w", err)
	}

	e := &engine{ctx: ctx, p: p, f: f, opts: opts}
	if f != nil {
		e.nl, e.start = f.Start()
	}

	if !e.eliminate() {
		opts.logf("equality constraints are inconsistent")
		return Result{Code: InteriorPrimalInfeasible}, nil
	}

	switch {
	case e.k == 0:
		return e.fixedPoint(), nil
	case p.Dims.L == 0 && e.nl == 0:
		return e.equalityOnly(), nil
	}
	return e.barrier()
}

// engine holds the state of one solve. Points are expressed in the reduced
// coordinates v of x = x0 + N·v, where N spans the null space of A.
type engine struct {
	ctx  context.Context
	p    ConeProgram
	f    Oracle
	opts Options

	nl    int
	start []float64

	x0    []float64
	basis *mat.Dense // nil when A is empty
	k     int

	iterations int
}

func (e *engine) eliminate() bool {
	n := len(e.p.C)
	if e.p.A == nil {
		e.x0 = make([]float64, n)
		e.k = n
		// rows of A without any column
		return floats.Norm(e.p.B, math.Inf(1)) <= e.opts.FeasTol
	}

	e.x0 = LeastSquares(e.p.A, e.p.B, n)

	var ax mat.VecDense
	ax.MulVec(e.p.A, mat.NewVecDense(n, e.x0))
	res := append([]float64(nil), e.p.B...)
	floats.Sub(res, ax.RawVector().Data)
	if floats.Norm(res, math.Inf(1)) > e.opts.FeasTol*(1+floats.Norm(e.p.B, math.Inf(1))) {
		return false
	}

	e.basis = nullspace(e.p.A)
	if e.basis != nil {
		_, e.k = e.basis.Dims()
	}
	return true
}

// point returns x0 + N·v.
func (e *engine) point(v []float64) []float64 {
	x := append([]float64(nil), e.x0...)
	if e.basis == nil {
		floats.Add(x, v)
		return x
	}
	var nv mat.VecDense
	nv.MulVec(e.basis, mat.NewVecDense(len(v), v))
	floats.Add(x, nv.RawVector().Data)
	return x
}

// reduceVec returns Nᵀ·g.
func (e *engine) reduceVec(g []float64) []float64 {
	if e.basis == nil {
		return append([]float64(nil), g...)
	}
	out := make([]float64, e.k)
	mat.NewVecDense(e.k, out).MulVec(e.basis.T(), mat.NewVecDense(len(g), g))
	return out
}

// reduceCols returns m·N.
func (e *engine) reduceCols(m mat.Matrix) *mat.Dense {
	if e.basis == nil {
		return mat.DenseCopyOf(m)
	}
	var out mat.Dense
	out.Mul(m, e.basis)
	return &out
}

// reduceHess returns Nᵀ·h·N.
func (e *engine) reduceHess(h mat.Matrix) *mat.Dense {
	if e.basis == nil {
		return mat.DenseCopyOf(h)
	}
	var hn, out mat.Dense
	hn.Mul(h, e.basis)
	out.Mul(e.basis.T(), &hn)
	return &out
}

// slack returns h - G·x.
func (e *engine) slack(x []float64) []float64 {
	s := append([]float64(nil), e.p.H...)
	if e.p.G == nil || len(x) == 0 {
		return s
	}
	var gx mat.VecDense
	gx.MulVec(e.p.G, mat.NewVecDense(len(x), x))
	floats.Sub(s, gx.RawVector().Data)
	return s
}

func (e *engine) eval(x, z []float64) ([]float64, mat.Matrix, mat.Matrix, bool) {
	f, df, h, ok := e.f.Eval(x, z)
	if !ok || len(f) != e.nl || floats.HasNaN(f) {
		return nil, nil, nil, false
	}
	return f, df, h, true
}

// fixedPoint handles programs whose equalities leave no freedom.
func (e *engine) fixedPoint() Result {
	x := e.x0
	tol := e.opts.FeasTol

	if e.p.Dims.L > 0 && e.p.Dims.shift(e.slack(x)) > tol {
		return Result{Code: InteriorPrimalInfeasible}
	}
	if e.nl > 0 {
		f, _, _, ok := e.eval(x, nil)
		if !ok || floats.Max(f) > tol {
			return Result{Code: InteriorPrimalInfeasible}
		}
	}

	return e.result(x, make([]float64, e.p.Dims.L), make([]float64, e.nl), nil)
}

// equalityOnly handles programs without inequalities: they are either
// solved by any feasible point or unbounded.
func (e *engine) equalityOnly() Result {
	c := e.reduceVec(e.p.C)
	if floats.Norm(c, math.Inf(1)) > 1e-9*(1+floats.Norm(e.p.C, math.Inf(1))) {
		return Result{Code: InteriorDualInfeasible}
	}
	return e.result(e.x0, nil, nil, nil)
}

// result assembles an optimal Result at x, recovering y from the
// stationarity condition c + Aᵀy + Gᵀz + Dfᵀλ = 0.
func (e *engine) result(x, z, znl []float64, df mat.Matrix) Result {
	n := len(e.p.C)
	r := append([]float64(nil), e.p.C...)

	if e.p.G != nil && len(z) > 0 {
		var gz mat.VecDense
		gz.MulVec(e.p.G.T(), mat.NewVecDense(len(z), z))
		floats.Add(r, gz.RawVector().Data)
	}
	if df != nil {
		for i, l := range znl {
			for j := 0; j < n; j++ {
				r[j] += df.At(i, j) * l
			}
		}
	}
	floats.Scale(-1, r)

	var y []float64
	if e.p.A != nil {
		y = LeastSquares(e.p.A.T(), r, len(e.p.B))
	}

	return Result{
		Code:            InteriorOptimal,
		X:               x,
		Y:               y,
		Z:               z,
		ZNL:             znl,
		PrimalObjective: floats.Dot(e.p.C, x),
	}
}

func (e *engine) barrier() (Result, error) {
	k := e.k
	dims := e.p.Dims

	v0 := make([]float64, k)
	if e.nl > 0 {
		diff := append([]float64(nil), e.start...)
		floats.Sub(diff, e.x0)
		v0 = e.reduceVec(diff)
	}

	hTil := e.slack(e.x0)
	var gTil *mat.Dense
	if dims.L > 0 {
		gTil = e.reduceCols(e.p.G)
		gTil.Scale(-1, gTil)
	}

	need, ok := e.infeasibility(v0, hTil, gTil)
	if !ok {
		v0 = make([]float64, k)
		if need, ok = e.infeasibility(v0, hTil, gTil); !ok {
			e.opts.logf("nonlinear constraints undefined at the starting point")
			return Result{Code: InteriorUnknown}, nil
		}
	}
	radius := ballScale * (1 + floats.Norm(v0, 2))

	var shift float64
	if need >= 0 {
		ph1 := &barrierProblem{
			e:      e,
			phase1: true,
			c:      make([]float64, k+1),
			h:      hTil,
			g:      augment(gTil, dims.identity(), dims.L, k),
			radius: radius,
		}
		ph1.c[k] = 1

		w := append(append([]float64(nil), v0...), need+1)
		out, t, err := ph1.minimize(w, func(w []float64) bool { return w[k] < 0 })
		if err != nil {
			return Result{Code: InteriorUnknown}, err
		}

		switch out {
		case stopped:
		case converged:
			sigma := w[k]
			if sigma-ph1.degree()/t > e.opts.FeasTol {
				e.opts.logf("phase I: infeasibility %g", sigma)
				return Result{Code: InteriorPrimalInfeasible}, nil
			}
			// the feasible set has no interior: relax it slightly
			shift = sigma + e.opts.FeasTol
		default:
			return Result{Code: InteriorUnknown}, nil
		}
		copy(v0, w[:k])
	}

	h := append([]float64(nil), hTil...)
	floats.AddScaled(h, shift, dims.identity())
	ph2 := &barrierProblem{
		e:      e,
		c:      e.reduceVec(e.p.C),
		h:      h,
		g:      gTil,
		shift:  shift,
		radius: radius,
	}

	v := v0
	out, t, err := ph2.minimize(v, nil)
	if err != nil {
		return Result{Code: InteriorUnknown}, err
	}
	if out != converged {
		return Result{Code: InteriorUnknown}, nil
	}
	if norm := floats.Norm(ph2.c, 2); norm > 0 && ph2.ballForce(v, t) > unboundedTest*norm {
		return Result{Code: InteriorDualInfeasible}, nil
	}

	x := e.point(v)

	z := make([]float64, dims.L)
	if dims.L > 0 {
		grad, _ := dims.barrierDerivs(ph2.slack(v))
		for i, g := range grad {
			z[i] = -g / t
		}
	}

	var znl []float64
	var df mat.Matrix
	if e.nl > 0 {
		if znl, df, ok = e.multipliers(x, t, shift); !ok {
			e.opts.logf("nonlinear constraints undefined at the final point")
			return Result{Code: InteriorUnknown}, nil
		}
	}

	return e.result(x, z, znl, df), nil
}

// multipliers returns the nonlinear multipliers 1/(t·(σ - fᵢ(x))) together
// with the Jacobian at x. ok is false when x lies outside the domain of f.
func (e *engine) multipliers(x []float64, t, shift float64) ([]float64, mat.Matrix, bool) {
	f, df, _, ok := e.eval(x, nil)
	if !ok {
		return nil, nil, false
	}
	znl := make([]float64, e.nl)
	for i, fi := range f {
		znl[i] = 1 / (t * (shift - fi))
	}
	return znl, df, true
}

// infeasibility returns the smallest σ for which the point v satisfies the
// inequalities shifted by σ.
func (e *engine) infeasibility(v, h []float64, g *mat.Dense) (float64, bool) {
	sigma := math.Inf(-1)
	if g != nil {
		s := append([]float64(nil), h...)
		var gv mat.VecDense
		gv.MulVec(g, mat.NewVecDense(len(v), v))
		floats.Add(s, gv.RawVector().Data)
		sigma = e.p.Dims.shift(s)
	}
	if e.nl > 0 {
		f, _, _, ok := e.eval(e.point(v), nil)
		if !ok {
			return 0, false
		}
		sigma = math.Max(sigma, floats.Max(f))
	}
	return sigma, true
}

// augment appends the column e to g. g may be nil when there are no rows.
func augment(g *mat.Dense, e []float64, rows, cols int) *mat.Dense {
	if rows == 0 {
		return nil
	}
	out := mat.NewDense(rows, cols+1, nil)
	out.Slice(0, rows, 0, cols).(*mat.Dense).Copy(g)
	out.SetCol(cols, e)
	return out
}

type outcome int

const (
	converged outcome = iota
	stopped
	stalled
)

// barrierProblem is the minimization of cᵀw over the strict interior of
//
//	h + G·w ∈ K,  f(x(v)) - σ < 0,  ‖v‖ < radius
//
// where v is the first k entries of w. In phase I w = (v, σ); otherwise
// w = v and σ is the fixed relaxation shift.
type barrierProblem struct {
	e      *engine
	phase1 bool
	c      []float64
	h      []float64
	g      *mat.Dense
	shift  float64
	radius float64
}

func (bp *barrierProblem) degree() float64 {
	return bp.e.p.Dims.degree() + float64(bp.e.nl) + 1
}

func (bp *barrierProblem) sigma(w []float64) float64 {
	if bp.phase1 {
		return w[bp.e.k]
	}
	return bp.shift
}

func (bp *barrierProblem) slack(w []float64) []float64 {
	s := append([]float64(nil), bp.h...)
	if bp.g == nil {
		return s
	}
	var gw mat.VecDense
	gw.MulVec(bp.g, mat.NewVecDense(len(w), w))
	floats.Add(s, gw.RawVector().Data)
	return s
}

// nonlinear evaluates g(w) = f(x(v)) - σ, its Jacobian and, when z is not
// nil, Σ zᵢ∇²gᵢ.
func (bp *barrierProblem) nonlinear(w, z []float64) ([]float64, *mat.Dense, *mat.Dense, bool) {
	e := bp.e
	k, nw := e.k, len(w)

	f, df, h, ok := e.eval(e.point(w[:k]), z)
	if !ok {
		return nil, nil, nil, false
	}

	sigma := bp.sigma(w)
	g := make([]float64, e.nl)
	for i, fi := range f {
		g[i] = fi - sigma
	}

	jac := mat.NewDense(e.nl, nw, nil)
	jac.Slice(0, e.nl, 0, k).(*mat.Dense).Copy(e.reduceCols(df))
	if bp.phase1 {
		for i := 0; i < e.nl; i++ {
			jac.Set(i, k, -1)
		}
	}

	var hess *mat.Dense
	if z != nil {
		hess = mat.NewDense(nw, nw, nil)
		if h != nil {
			hess.Slice(0, k, 0, k).(*mat.Dense).Copy(e.reduceHess(h))
		}
	}

	return g, jac, hess, true
}

// phi returns t·cᵀw plus the barrier, or false outside the domain.
func (bp *barrierProblem) phi(w []float64, t float64) (float64, bool) {
	k := bp.e.k
	val := t * floats.Dot(bp.c, w)

	if bp.e.p.Dims.L > 0 {
		psi, ok := bp.e.p.Dims.barrier(bp.slack(w))
		if !ok {
			return 0, false
		}
		val += psi
	}

	d := bp.radius*bp.radius - floats.Dot(w[:k], w[:k])
	if d <= 0 {
		return 0, false
	}
	val -= math.Log(d)

	if bp.e.nl > 0 {
		g, _, _, ok := bp.nonlinear(w, nil)
		if !ok {
			return 0, false
		}
		for _, gi := range g {
			if gi >= 0 {
				return 0, false
			}
			val -= math.Log(-gi)
		}
	}

	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}

// derivs returns the gradient and Hessian of phi at an interior point.
func (bp *barrierProblem) derivs(w []float64, t float64) ([]float64, *mat.Dense, bool) {
	e := bp.e
	k, nw := e.k, len(w)

	grad := make([]float64, nw)
	floats.AddScaled(grad, t, bp.c)
	hess := mat.NewDense(nw, nw, nil)

	if e.p.Dims.L > 0 {
		gpsi, hpsi := e.p.Dims.barrierDerivs(bp.slack(w))

		var gg mat.VecDense
		gg.MulVec(bp.g.T(), mat.NewVecDense(len(gpsi), gpsi))
		floats.Add(grad, gg.RawVector().Data)

		var hg, ghg mat.Dense
		hg.Mul(hpsi, bp.g)
		ghg.Mul(bp.g.T(), &hg)
		hess.Add(hess, &ghg)
	}

	// ball: -log(r² - ‖v‖²)
	v := w[:k]
	d := bp.radius*bp.radius - floats.Dot(v, v)
	for i := 0; i < k; i++ {
		grad[i] += 2 * v[i] / d
		for j := 0; j < k; j++ {
			val := 4 * v[i] * v[j] / (d * d)
			if i == j {
				val += 2 / d
			}
			hess.Set(i, j, hess.At(i, j)+val)
		}
	}

	if e.nl > 0 {
		g, jac, _, ok := bp.nonlinear(w, nil)
		if !ok {
			return nil, nil, false
		}
		a := make([]float64, e.nl)
		for i, gi := range g {
			a[i] = -1 / gi
		}
		_, _, hf, ok := bp.nonlinear(w, a)
		if !ok {
			return nil, nil, false
		}

		var ja mat.VecDense
		ja.MulVec(jac.T(), mat.NewVecDense(e.nl, a))
		floats.Add(grad, ja.RawVector().Data)

		scaled := mat.DenseCopyOf(jac)
		for i := 0; i < e.nl; i++ {
			row := scaled.RawRowView(i)
			floats.Scale(a[i]*a[i], row)
		}
		var jtj mat.Dense
		jtj.Mul(jac.T(), scaled)
		hess.Add(hess, &jtj)
		hess.Add(hess, hf)
	}

	return grad, hess, true
}

// ballForce is the magnitude of the ball multiplier's contribution to the
// optimality conditions at v.
func (bp *barrierProblem) ballForce(v []float64, t float64) float64 {
	norm := floats.Norm(v, 2)
	d := bp.radius*bp.radius - norm*norm
	return 2 * norm / (t * d)
}

// minimize follows the central path from the strictly feasible w, which is
// updated in place. done is checked after every Newton step.
func (bp *barrierProblem) minimize(w []float64, done func([]float64) bool) (outcome, float64, error) {
	nu := bp.degree()
	phase := 2
	if bp.phase1 {
		phase = 1
	}

	t := 1.0
	for outer := 0; ; outer++ {
		out, err := bp.center(w, t, done)
		if err != nil {
			return stalled, t, err
		}

		gap := nu / t
		obj := floats.Dot(bp.c, w)
		bp.e.opts.logf("phase %d iter %d: obj %.8g gap %.3g", phase, outer, obj, gap)

		switch out {
		case stopped:
			return stopped, t, nil
		case stalled:
			// progress is limited by rounding; accept a point that was
			// already close to the path's end.
			if outer > 0 && gap*barrierMu <= math.Sqrt(bp.e.opts.AbsTol) {
				return converged, t, nil
			}
			return stalled, t, nil
		}

		if gap <= bp.e.opts.AbsTol || (obj != 0 && gap/math.Abs(obj) <= bp.e.opts.RelTol) {
			return converged, t, nil
		}
		if outer >= maxOuter {
			return stalled, t, nil
		}
		t *= barrierMu
	}
}

// center runs damped Newton steps on phi for a fixed t.
func (bp *barrierProblem) center(w []float64, t float64, done func([]float64) bool) (outcome, error) {
	e := bp.e
	trial := make([]float64, len(w))

	for it := 0; it < maxNewton; it++ {
		if err := e.ctx.Err(); err != nil {
			return stalled, err
		}
		e.iterations++
		if e.opts.MaxIterations > 0 && e.iterations > e.opts.MaxIterations {
			return stalled, nil
		}

		grad, hess, ok := bp.derivs(w, t)
		if !ok {
			return stalled, nil
		}
		rhs := append([]float64(nil), grad...)
		floats.Scale(-1, rhs)
		step, ok := newtonSolve(hess, rhs, e.opts.Refinement)
		if !ok {
			return stalled, nil
		}

		dec := -floats.Dot(grad, step)
		if dec/2 <= newtonTol {
			return converged, nil
		}

		phi0, _ := bp.phi(w, t)
		slack := 1e-13 * math.Abs(phi0)
		alpha := 1.0
		for {
			copy(trial, w)
			floats.AddScaled(trial, alpha, step)
			if val, ok := bp.phi(trial, t); ok && val <= phi0-lsAlpha*alpha*dec+slack {
				break
			}
			alpha *= lsBeta
			if alpha < 1e-12 {
				return stalled, nil
			}
		}
		copy(w, trial)

		if done != nil && done(w) {
			return stopped, nil
		}
	}

	return converged, nil
}

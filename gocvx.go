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

/*
Package gocvx models and solves convex optimization problems.

A problem is an objective plus constraints built from the expr package. It
is checked against the disciplined convex programming (DCP) rules, reduced to
a cone program and handed to one of the backends of the solvers package:

	x := expr.NewVariable("x", 2, 1)
	t := expr.NewScalar("t")

	problem, _ := gocvx.NewProblem(
		expr.Minimize(expr.Add(t, expr.Norm2(x))),
		[]expr.Constraint{
			expr.Geq(expr.Sum(x), expr.Constant(1)),
			expr.Geq(t, expr.Constant(0)),
		},
	)

	result, _ := problem.Solve() // you should check for errors

	fmt.Printf("solved? %t\n", result.Status == gocvx.StatusSolved)
	fmt.Printf("value = %f\n", result.Value)
	fmt.Printf("x = %v\n", mat.Formatted(x.Matrix()))

After a successful solve every variable holds its value and every constraint
its dual value. A Problem must not be solved concurrently.
*/
package gocvx

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/costela/gocvx/expr"
	"github.com/costela/gocvx/matrix"
	"github.com/costela/gocvx/solvers"
)

/* Types */

type Problem struct {
	objective   *expr.Objective
	constraints []expr.Constraint

	logger   Logger
	metrics  *Metrics
	registry *Registry
	options  solvers.Options

	cone   solvers.ConeSolver
	convex solvers.ConvexSolver
	sparse solvers.SparseSolver

	status Status
	value  float64
}

// solvePath is one of the three ways a problem reaches a backend.
type solvePath int

const (
	defaultPath solvePath = iota
	densePath
	nonlinearPath
)

func (p solvePath) String() string {
	switch p {
	case defaultPath:
		return "default"
	case densePath:
		return "dense"
	case nonlinearPath:
		return "nonlinear"
	default:
		return fmt.Sprintf("solvePath(%d)", int(p))
	}
}

/* Problem related functions */

// NewProblem instantiates a problem minimizing or maximizing objective
// subject to constraints. Constraints are deduplicated by identity.
func NewProblem(objective *expr.Objective, constraints []expr.Constraint, opts ...Option) (*Problem, error) {
	if objective == nil {
		return nil, ErrNilObjective
	}
	if !objective.Shape().IsScalar() {
		return nil, fmt.Errorf("%w: shape %v", ErrNonScalarObjective, objective.Shape())
	}

	interior := solvers.NewInterior()

	p := &Problem{
		objective:   objective,
		constraints: append([]expr.Constraint(nil), constraints...),
		logger:      noopLogger{},
		registry:    defaultRegistry,
		options:     solvers.DefaultOptions(),
		cone:        interior,
		convex:      interior,
		sparse:      solvers.NewSparseWithFallback(interior),
		status:      StatusError,
		value:       math.NaN(),
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("applying problem option: %w", err)
		}
	}

	return p, nil
}

func (p *Problem) Objective() *expr.Objective { return p.objective }

func (p *Problem) Constraints() []expr.Constraint {
	return append([]expr.Constraint(nil), p.constraints...)
}

// IsDCP reports whether the objective and every constraint follow the DCP
// rules.
func (p *Problem) IsDCP() bool {
	if !p.objective.IsDCP() {
		return false
	}
	for _, c := range p.constraints {
		if !c.IsDCP() {
			return false
		}
	}
	return true
}

// Status returns the status of the last solve, StatusError before the first
// one.
func (p *Problem) Status() Status { return p.status }

// Value returns the optimal value found by the last solve, or NaN.
func (p *Problem) Value() float64 { return p.value }

func (p *Problem) String() string {
	constraints := make([]string, len(p.constraints))
	for i, c := range p.constraints {
		constraints[i] = c.String()
	}
	return fmt.Sprintf("Problem(%s, [%s])", p.objective, strings.Join(constraints, ", "))
}

/* Solving */

// Solve is a shortcut for SolveContext with a background context.
func (p *Problem) Solve(opts ...SolveOption) (Result, error) {
	return p.SolveContext(context.Background(), opts...)
}

// SolveContext solves the problem. A solve method selected with WithMethod
// takes over entirely; otherwise the problem is canonicalized and sent to
// the backend of its solve path. Backend statuses other than StatusSolved
// are returned in the Result, not as errors, and leave all values
// untouched. Cancelling ctx aborts the backend.
func (p *Problem) SolveContext(ctx context.Context, opts ...SolveOption) (Result, error) {
	settings := newSolveSettings(opts)

	if settings.Method != "" {
		method, ok := p.registry.Lookup(settings.Method)
		if !ok {
			return failed(StatusError), fmt.Errorf("%w: %q", ErrUnknownMethod, settings.Method)
		}
		return method(ctx, p, settings)
	}

	return p.SolveDefault(ctx, settings)
}

// SolveDefault runs the built-in solve strategy, ignoring settings.Method.
// Registered solve methods may use it to delegate.
func (p *Problem) SolveDefault(ctx context.Context, settings SolveSettings) (Result, error) {
	if !p.IsDCP() {
		if !settings.IgnoreDCP {
			return failed(StatusError), ErrNotDCP
		}
		p.logger.Print("problem does not follow DCP rules; solving it anyway, the result may not be optimal")
	}

	start := time.Now()

	canon := canonicalize(p.objective, p.constraints)
	prog := assembleProgram(canon)
	path := choosePath(canon, prog, settings)
	opts := p.backendOptions(path, settings)

	if settings.Verbose {
		p.logger.Print(fmt.Sprintf("solving %d variables, cone %+v on the %s path", prog.n, canon.dims, path))
	}

	var (
		backend solvers.Backend
		res     solvers.Result
		err     error
	)
	switch path {
	case nonlinearPath:
		backend = p.convex
		res, err = p.convex.CPL(ctx, prog.dense(), newOracle(canon.nonlinear(), canon.layout, prog.n, matrix.SparseInterface), opts)
	case densePath:
		backend = p.cone
		res, err = p.cone.ConeLP(ctx, prog.dense(), opts)
	default:
		backend = p.sparse
		res, err = p.sparse.Solve(ctx, prog.csc(), opts)
	}

	if err != nil {
		p.finish(path, StatusError, math.NaN(), start)
		return failed(StatusError), fmt.Errorf("%s backend: %w", backend.Name(), err)
	}

	status := solvers.Lookup(backend, res.Code)
	if status != StatusSolved {
		p.finish(path, status, math.NaN(), start)
		return failed(status), nil
	}

	canon.save(res)
	value := p.objective.PrimalToResult(res.PrimalObjective - prog.offset)
	p.finish(path, status, value, start)

	return Result{Status: status, Value: value}, nil
}

func (p *Problem) finish(path solvePath, status Status, value float64, start time.Time) {
	p.status = status
	p.value = value
	p.metrics.ObserveSolve(path.String(), status.String(), time.Since(start))
}

// backendOptions derives the options of one backend call. The problem's own
// options are copied, never modified.
func (p *Problem) backendOptions(path solvePath, settings SolveSettings) solvers.Options {
	opts := p.options
	opts.Verbose = settings.Verbose
	opts.Refinement = 1
	if path == densePath {
		opts.FeasTol = 2e-6
	}
	if opts.Logger == nil {
		opts.Logger = p.logger
	}
	return opts
}

// choosePath picks the solve path: nonlinear constraints need the convex
// backend, and the dense cone backend takes semidefinite cones, degenerate
// inequality matrices and explicit requests.
func choosePath(canon *canonical, prog *program, settings SolveSettings) solvePath {
	switch {
	case len(canon.nonlinear()) > 0:
		return nonlinearPath
	case settings.Solver == SolverDense,
		len(canon.dims.S) > 0:
		return densePath
	}

	if rows, cols := prog.g.Dims(); rows == 0 || cols == 0 {
		return densePath
	}
	return defaultPath
}

// program is the assembled cone program of a problem.
type program struct {
	n      int
	c      []float64
	offset float64
	a, b   matrix.Matrix
	g, h   matrix.Matrix
	dims   solvers.Dims
}

func assembleProgram(canon *canonical) *program {
	n := canon.layout.Len()

	cm, cv := Assemble([]expr.Linear{canon.objective}, canon.layout, n, matrix.DenseInterface, matrix.DenseInterface)
	a, b := Assemble(linear(canon.equalities()), canon.layout, n, matrix.SparseInterface, matrix.DenseInterface)
	g, h := Assemble(linear(canon.inequalities()), canon.layout, n, matrix.SparseInterface, matrix.DenseInterface)

	return &program{
		n:      n,
		c:      matrix.Column(cm),
		offset: cv.At(0, 0),
		a:      a,
		b:      b,
		g:      g,
		h:      h,
		dims:   canon.dims,
	}
}

func (p *program) dense() solvers.ConeProgram {
	return solvers.ConeProgram{
		C:    p.c,
		G:    matrix.ToDense(p.g),
		H:    matrix.Column(p.h),
		A:    matrix.ToDense(p.a),
		B:    matrix.Column(p.b),
		Dims: p.dims,
	}
}

func (p *program) csc() solvers.CSCProgram {
	return solvers.CSCProgram{
		C:    p.c,
		G:    matrix.ToCSC(p.g),
		H:    matrix.Column(p.h),
		A:    matrix.ToCSC(p.a),
		B:    matrix.Column(p.b),
		Dims: p.dims,
	}
}

package gocvx

import (
	"errors"

	"github.com/costela/gocvx/solvers"
)

type Option func(*Problem) error

func WithLogger(logger Logger) Option {
	return func(p *Problem) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		p.logger = logger

		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Problem) error {
		p.metrics = m

		return nil
	}
}

// WithRegistry selects the registry WithMethod looks solve methods up in.
func WithRegistry(r *Registry) Option {
	return func(p *Problem) error {
		if r == nil {
			return errors.New("nil registry")
		}
		p.registry = r

		return nil
	}
}

// WithBackends replaces the backends of the three solve paths. Nil
// arguments keep the current backend.
func WithBackends(cone solvers.ConeSolver, convex solvers.ConvexSolver, sparse solvers.SparseSolver) Option {
	return func(p *Problem) error {
		if cone != nil {
			p.cone = cone
		}
		if convex != nil {
			p.convex = convex
		}
		if sparse != nil {
			p.sparse = sparse
		}

		return nil
	}
}

// WithSolverOptions sets the tolerances handed to the backends.
func WithSolverOptions(opts solvers.Options) Option {
	return func(p *Problem) error {
		if opts.MaxIterations < 1 {
			return errors.New("solver options need a positive iteration limit")
		}
		p.options = opts

		return nil
	}
}

// Solver forces a backend family for one solve.
type Solver int

const (
	SolverAuto Solver = iota
	SolverDense
)

// SolveSettings are the per-call settings of a solve. Registered solve
// methods receive them unchanged.
type SolveSettings struct {
	Solver    Solver
	IgnoreDCP bool
	Verbose   bool
	Method    string
}

type SolveOption func(*SolveSettings)

// WithSolver forces a backend family.
func WithSolver(s Solver) SolveOption {
	return func(o *SolveSettings) {
		o.Solver = s
	}
}

// IgnoreDCP solves problems violating the DCP rules anyway. The result may
// not be optimal for the original problem.
func IgnoreDCP() SolveOption {
	return func(o *SolveSettings) {
		o.IgnoreDCP = true
	}
}

func Verbose() SolveOption {
	return func(o *SolveSettings) {
		o.Verbose = true
	}
}

// WithMethod routes the solve to a registered solve method.
func WithMethod(name string) SolveOption {
	return func(o *SolveSettings) {
		o.Method = name
	}
}

func newSolveSettings(opts []SolveOption) SolveSettings {
	var s SolveSettings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

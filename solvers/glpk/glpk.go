//go:build glpk

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
Package glpk solves linear programs with the GLPK simplex method.

It is only built with the glpk build tag and needs GLPK installed:

	go build -tags glpk ./...

Programs with second-order or semidefinite cone blocks are rejected.
*/
package glpk

// #cgo LDFLAGS: -lglpk
// #include <glpk.h>
// #include <stdlib.h>
import "C"

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/costela/gocvx/solvers"
)

// ErrConeProgram is returned for programs with non-linear cone blocks.
var ErrConeProgram = errors.New("glpk only solves linear programs")

// Raw codes, as returned by glp_get_status.
const (
	Optimal    = int(C.GLP_OPT)
	Feasible   = int(C.GLP_FEAS)
	Infeasible = int(C.GLP_INFEAS)
	NoFeasible = int(C.GLP_NOFEAS)
	Unbounded  = int(C.GLP_UNBND)
	Undefined  = int(C.GLP_UNDEF)
)

// Solver implements solvers.SparseSolver on top of GLPK.
type Solver struct {
	// Presolve enables the LP presolver.
	Presolve bool
	// Dual selects the dual simplex method.
	Dual bool
}

func New() *Solver {
	return &Solver{Presolve: true}
}

func (*Solver) Name() string { return "glpk" }

func (*Solver) Statuses() map[int]solvers.Status {
	return map[int]solvers.Status{
		Optimal:    solvers.StatusSolved,
		NoFeasible: solvers.StatusInfeasible,
		Unbounded:  solvers.StatusUnbounded,
	}
}

// Solve loads free columns, Gx ≤ h and Ax = b rows into a GLPK problem and
// runs the simplex method. GLPK cannot be interrupted, so ctx is only
// checked before the call.
func (s *Solver) Solve(ctx context.Context, p solvers.CSCProgram, opts solvers.Options) (solvers.Result, error) {
	if len(p.Dims.Q) > 0 || len(p.Dims.S) > 0 {
		return solvers.Result{Code: Undefined}, ErrConeProgram
	}
	if err := ctx.Err(); err != nil {
		return solvers.Result{Code: Undefined}, err
	}

	prob := C.glp_create_prob()
	defer C.glp_delete_prob(prob)

	name := C.CString("gocvx")
	defer C.free(unsafe.Pointer(name))
	C.glp_set_prob_name(prob, name)
	C.glp_set_obj_dir(prob, C.GLP_MIN)

	n := len(p.C)
	if n > 0 {
		C.glp_add_cols(prob, C.int(n))
	}
	for j, c := range p.C {
		C.glp_set_col_bnds(prob, C.int(j+1), C.GLP_FR, 0, 0)
		C.glp_set_obj_coef(prob, C.int(j+1), C.double(c))
	}

	// glpk indices start at 1; index 0 is reserved
	ia := []C.int{0}
	ja := []C.int{0}
	ar := []C.double{0}

	rows := 0
	load := func(entries func() ([][]int, [][]float64), rhs []float64, bound C.int) error {
		cols, vals := entries()
		if len(cols) != len(rhs) {
			return fmt.Errorf("inconsistent number of rows and right-hand sides: %d != %d", len(cols), len(rhs))
		}
		if len(cols) == 0 {
			return nil
		}

		C.glp_add_rows(prob, C.int(len(cols)))
		for i := range cols {
			rows++
			C.glp_set_row_bnds(prob, C.int(rows), bound, C.double(rhs[i]), C.double(rhs[i]))
			for k, j := range cols[i] {
				ia = append(ia, C.int(rows))
				ja = append(ja, C.int(j+1))
				ar = append(ar, C.double(vals[i][k]))
			}
		}
		return nil
	}

	if err := load(p.G.RowEntries, p.H, C.GLP_UP); err != nil {
		return solvers.Result{Code: Undefined}, err
	}
	if err := load(p.A.RowEntries, p.B, C.GLP_FX); err != nil {
		return solvers.Result{Code: Undefined}, err
	}
	C.glp_load_matrix(prob, C.int(len(ia)-1), &ia[0], &ja[0], &ar[0])

	var parm C.glp_smcp
	C.glp_init_smcp(&parm)

	if opts.Verbose {
		parm.msg_lev = C.GLP_MSG_ON
	} else {
		parm.msg_lev = C.GLP_MSG_OFF
	}
	if s.Presolve {
		parm.presolve = C.GLP_ON
	} else {
		parm.presolve = C.GLP_OFF
	}
	if s.Dual {
		parm.meth = C.GLP_DUALP
	}
	if opts.MaxIterations > 0 {
		parm.it_lim = C.int(opts.MaxIterations)
	}

	switch ret := C.glp_simplex(prob, &parm); ret {
	case 0:
	case C.GLP_ENOPFS:
		return solvers.Result{Code: NoFeasible}, nil
	case C.GLP_ENODFS:
		return solvers.Result{Code: Unbounded}, nil
	case C.GLP_EITLIM:
		return solvers.Result{Code: Undefined}, nil
	default:
		return solvers.Result{Code: Undefined}, glpkError(ret)
	}

	res := solvers.Result{Code: int(C.glp_get_status(prob))}
	if solvers.Lookup(s, res.Code) != solvers.StatusSolved {
		return res, nil
	}

	res.X = make([]float64, n)
	for j := range res.X {
		res.X[j] = float64(C.glp_get_col_prim(prob, C.int(j+1)))
	}
	res.PrimalObjective = float64(C.glp_get_obj_val(prob))

	// GLPK's row duals satisfy c = Σ πᵢ aᵢ, the cone program wants
	// c + Gᵀz + Aᵀy = 0
	res.Z = make([]float64, len(p.H))
	for i := range res.Z {
		res.Z[i] = -float64(C.glp_get_row_dual(prob, C.int(i+1)))
	}
	res.Y = make([]float64, len(p.B))
	for i := range res.Y {
		res.Y[i] = -float64(C.glp_get_row_dual(prob, C.int(len(p.H)+i+1)))
	}

	return res, nil
}

func glpkError(err C.int) error {
	switch err {
	case C.GLP_EBADB:
		return fmt.Errorf("initial basis invalid")
	case C.GLP_ESING:
		return fmt.Errorf("initial basis is exactly singular")
	case C.GLP_ECOND:
		return fmt.Errorf("initial basis is ill-conditioned")
	case C.GLP_EBOUND:
		return fmt.Errorf("double-bounded variables have incorrect bounds")
	case C.GLP_EFAIL:
		return fmt.Errorf("problem instance has no rows/columns")
	case C.GLP_ETMLIM:
		return fmt.Errorf("time limit exceeded")
	default:
		return fmt.Errorf("unknown glpk error: %d", err)
	}
}

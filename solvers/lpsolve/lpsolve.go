//go:build lpsolve

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
Package lpsolve solves linear programs with lp_solve 5.5.

It is only built with the lpsolve build tag and needs the lp_solve headers
and library installed:

	go build -tags lpsolve ./...

Programs with second-order or semidefinite cone blocks are rejected.
*/
package lpsolve

// #cgo linux LDFLAGS: -llpsolve55
// #cgo linux CFLAGS: -I/usr/include/lpsolve/
// #cgo darwin LDFLAGS: -L/usr/local/lib -llpsolve55
// #cgo darwin CFLAGS: -I/usr/local/include
// #include <lp_lib.h>
// #include <stdlib.h>
/*
// https://golang.org/issue/19837
extern int abortCallback(lprec *lp, void *userhandle);
extern void logCallback(lprec *lp, void *userhandle, char *buf);
*/
import "C"

import (
	"context"
	"errors"
	"fmt"
	"unsafe"

	"github.com/costela/gocvx/solvers"
)

// ErrConeProgram is returned for programs with non-linear cone blocks.
var ErrConeProgram = errors.New("lp_solve only solves linear programs")

// Raw codes, as returned by lp_solve's solve().
const (
	Optimal     = int(C.OPTIMAL)
	Suboptimal  = int(C.SUBOPTIMAL)
	Infeasible  = int(C.INFEASIBLE)
	Unbounded   = int(C.UNBOUNDED)
	Degenerate  = int(C.DEGENERATE)
	NumFailure  = int(C.NUMFAILURE)
	UserAbort   = int(C.USERABORT)
	Timeout     = int(C.TIMEOUT)
	NoMemory    = int(C.NOMEMORY)
	NoFeasFound = int(C.NOFEASFOUND)
)

// Solver implements solvers.SparseSolver on top of lp_solve. Each call
// builds and frees its own model, so a Solver may be shared.
type Solver struct{}

func New() *Solver {
	return &Solver{}
}

func (*Solver) Name() string { return "lpsolve" }

func (*Solver) Statuses() map[int]solvers.Status {
	return map[int]solvers.Status{
		Optimal:    solvers.StatusSolved,
		Suboptimal: solvers.StatusSolved,
		Infeasible: solvers.StatusInfeasible,
		Unbounded:  solvers.StatusUnbounded,
	}
}

// callbacks is what the C callbacks get to see of one Solve call.
type callbacks struct {
	ctx     context.Context
	logger  solvers.Logger
	verbose bool
}

//export logCallback
func logCallback(prob *C.lprec, ptr unsafe.Pointer, msg *C.char) {
	cb, ok := loadRef(ptr).(*callbacks)
	if !ok || !cb.verbose || cb.logger == nil {
		return
	}

	cb.logger.Print(C.GoString(msg))
}

//export abortCallback
func abortCallback(prob *C.lprec, ptr unsafe.Pointer) C.int {
	cb, ok := loadRef(ptr).(*callbacks)
	if ok && cb.ctx.Err() != nil {
		return C.TRUE
	}

	return C.FALSE
}

// Solve builds an lp_solve model with free columns, Gx ≤ h and Ax = b rows
// and solves it. Cancelling ctx aborts the simplex and returns ctx.Err().
func (s *Solver) Solve(ctx context.Context, p solvers.CSCProgram, opts solvers.Options) (solvers.Result, error) {
	if len(p.Dims.Q) > 0 || len(p.Dims.S) > 0 {
		return solvers.Result{Code: NoFeasFound}, ErrConeProgram
	}
	if err := ctx.Err(); err != nil {
		return solvers.Result{Code: UserAbort}, err
	}

	n := len(p.C)
	prob := C.make_lp(0, C.int(n))
	if prob == nil {
		return solvers.Result{Code: NoMemory}, errors.New("could not create lp_solve model")
	}
	defer C.delete_lp(prob)

	ref := saveRef(&callbacks{ctx: ctx, logger: opts.Logger, verbose: opts.Verbose})
	defer freeRef(ref)

	// disable stdout logging and redirect to our logger
	empty := C.CString("")
	defer C.free(unsafe.Pointer(empty))
	C.set_outputfile(prob, empty)
	C.put_logfunc(prob, (*C.lphandlestr_func)(C.logCallback), ref)
	C.put_abortfunc(prob, (*C.lphandle_intfunc)(C.abortCallback), ref)
	if opts.Verbose {
		C.set_verbose(prob, C.NORMAL)
	} else {
		C.set_verbose(prob, C.NEUTRAL)
	}

	C.set_minim(prob, C.TRUE)
	if n > 0 {
		obj := make([]C.REAL, n+1) // index 0 is the objective row itself
		for j, c := range p.C {
			obj[j+1] = C.REAL(c)
			C.set_unbounded(prob, C.int(j+1))
		}
		C.set_obj_fn(prob, &obj[0])
	}

	C.set_add_rowmode(prob, C.TRUE)
	if err := addRows(prob, p.G.RowEntries, p.H, C.LE); err != nil {
		return solvers.Result{Code: NumFailure}, err
	}
	if err := addRows(prob, p.A.RowEntries, p.B, C.EQ); err != nil {
		return solvers.Result{Code: NumFailure}, err
	}
	C.set_add_rowmode(prob, C.FALSE)

	ret := int(C.solve(prob))
	if ret == UserAbort {
		return solvers.Result{Code: ret}, ctx.Err()
	}

	res := solvers.Result{Code: ret}
	if solvers.Lookup(s, ret) != solvers.StatusSolved {
		return res, nil
	}

	res.X = make([]float64, n)
	if n > 0 {
		vars := make([]C.REAL, n)
		C.get_variables(prob, &vars[0])
		for j, v := range vars {
			res.X[j] = float64(v)
		}
	}
	res.PrimalObjective = float64(C.get_objective(prob))
	res.Y, res.Z = p.Duals(res.X, opts.FeasTol)

	return res, nil
}

func addRows(prob *C.lprec, entries func() ([][]int, [][]float64), rhs []float64, kind C.int) error {
	cols, vals := entries()
	if len(cols) != len(rhs) {
		return fmt.Errorf("inconsistent number of rows and right-hand sides: %d != %d", len(cols), len(rhs))
	}

	for i := range cols {
		row := make([]C.REAL, len(cols[i]))
		colno := make([]C.int, len(cols[i]))
		for k, j := range cols[i] {
			colno[k] = C.int(j + 1)
			row[k] = C.REAL(vals[i][k])
		}

		var rowPtr *C.REAL
		var colPtr *C.int
		if len(row) > 0 {
			rowPtr, colPtr = &row[0], &colno[0]
		}

		if C.add_constraintex(prob, C.int(len(row)), rowPtr, colPtr, kind, C.REAL(rhs[i])) == C.FALSE {
			return fmt.Errorf("could not add row %d", i)
		}
	}

	return nil
}

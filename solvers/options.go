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

import "fmt"

// Logger receives progress output of verbose solves. It is satisfied by
// *log.Logger.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}

// Options configures a single backend call. Backends receive it by value, so
// a caller can derive per-call settings without touching its own copy.
type Options struct {
	Verbose bool
	// Refinement is the number of iterative refinement steps applied to each
	// Newton system.
	Refinement    int
	AbsTol        float64
	RelTol        float64
	FeasTol       float64
	MaxIterations int
	Logger        Logger
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		AbsTol:        1e-7,
		RelTol:        1e-6,
		FeasTol:       1e-7,
		MaxIterations: 500,
	}
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return noopLogger{}
	}
	return o.Logger
}

func (o Options) logf(format string, args ...interface{}) {
	if o.Verbose {
		o.logger().Print(fmt.Sprintf(format, args...))
	}
}

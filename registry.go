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
	"sync"
)

// SolveMethod is an alternative solve strategy. It receives the settings of
// the solve call as given.
type SolveMethod func(ctx context.Context, p *Problem, settings SolveSettings) (Result, error)

// Registry maps names to solve methods. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]SolveMethod
}

func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]SolveMethod)}
}

// Register adds fn under name, replacing any previous method of that name.
func (r *Registry) Register(name string, fn SolveMethod) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.methods[name] = fn
}

func (r *Registry) Lookup(name string) (SolveMethod, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.methods[name]
	return fn, ok
}

var defaultRegistry = NewRegistry()

// RegisterSolveMethod adds fn to the registry used by problems created
// without WithRegistry.
func RegisterSolveMethod(name string, fn SolveMethod) {
	defaultRegistry.Register(name, fn)
}

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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts solves and their durations. A nil *Metrics records nothing.
type Metrics struct {
	// Solves by path and normalized status
	Solves *prometheus.CounterVec

	// Duration of canonicalization, backend call and result splitting
	SolveDuration *prometheus.HistogramVec
}

// NewMetrics creates the solve metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gocvx_solves_total",
			Help: "Total solves by path and status",
		}, []string{"path", "status"}),

		SolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gocvx_solve_duration_seconds",
			Help:    "Duration of solve calls by path",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"path"}),
	}
}

// ObserveSolve records one finished solve.
func (m *Metrics) ObserveSolve(path, status string, d time.Duration) {
	if m != nil {
		m.Solves.WithLabelValues(path, status).Inc()
		m.SolveDuration.WithLabelValues(path).Observe(d.Seconds())
	}
}

// Package metrics exposes Prometheus counters for workflow sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inflow"

var (
	// actionsTotal counts handled actions by kind and outcome.
	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Total number of user actions handled",
		},
		[]string{"kind", "outcome"}, // outcome: accepted, validation, invalid_state, stale
	)

	sessionsStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of started or restarted sessions",
		},
	)

	sessionsFinishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Total number of sessions that reached the end of the workflow",
		},
	)

	allMetrics = []prometheus.Collector{
		actionsTotal,
		sessionsStartedTotal,
		sessionsFinishedTotal,
	}
)

// NewRegistry returns a registry with the workflow metrics and the Go
// runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	for _, c := range allMetrics {
		reg.MustRegister(c)
	}
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler serves reg in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Recorder feeds the package counters.
type Recorder struct{}

// Action records one handled action.
func (Recorder) Action(kind, outcome string) {
	actionsTotal.WithLabelValues(kind, outcome).Inc()
}

// SessionStarted records a start or restart.
func (Recorder) SessionStarted() {
	sessionsStartedTotal.Inc()
}

// SessionFinished records a session reaching the summary.
func (Recorder) SessionFinished() {
	sessionsFinishedTotal.Inc()
}

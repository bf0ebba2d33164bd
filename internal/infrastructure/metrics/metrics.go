package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for one engine run.
type Metrics struct {
	registry *prometheus.Registry

	// Event metrics
	EventsApplied  *prometheus.CounterVec
	EventsRejected *prometheus.CounterVec

	// Account metrics
	Accounts       prometheus.Gauge
	LockedAccounts prometheus.Gauge
	LedgerEntries  prometheus.Gauge
}

// New creates and registers all metrics on a private registry, so
// multiple runs inside one process never collide.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		EventsApplied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payengine_events_applied_total",
			Help: "Events applied to the ledger, by event type",
		}, []string{"type"}),
		EventsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "payengine_events_rejected_total",
			Help: "Events dropped by the processor, by event type and reason",
		}, []string{"type", "reason"}),

		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_accounts",
			Help: "Client accounts seen in the input",
		}),
		LockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_locked_accounts",
			Help: "Accounts frozen by a chargeback",
		}),
		LedgerEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_ledger_entries",
			Help: "Deposits and withdrawals recorded in the ledger",
		}),
	}
}

// EventApplied counts one applied event.
func (m *Metrics) EventApplied(eventType string) {
	m.EventsApplied.WithLabelValues(eventType).Inc()
}

// EventRejected counts one dropped event.
func (m *Metrics) EventRejected(eventType, reason string) {
	m.EventsRejected.WithLabelValues(eventType, reason).Inc()
}

// Handler returns an http.Handler exposing the run's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr for the lifetime of the run. Useful
// when replaying feeds large enough to be worth watching.
func (m *Metrics) Serve(addr string) error {
	r := chi.NewRouter()
	r.Handle("/metrics", m.Handler())

	return http.ListenAndServe(addr, r)
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	IntentsAdmitted      prometheus.Counter
	CartsDerived         prometheus.Counter
	PaymentsExecuted     *prometheus.CounterVec
	SignatureFailures    prometheus.Counter
	ApprovalsRejected    prometheus.Counter
	ConcurrencyConflicts prometheus.Counter
	TransitionDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		IntentsAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paychain_intents_admitted_total",
			Help: "Total number of intent mandates admitted",
		}),
		CartsDerived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paychain_carts_derived_total",
			Help: "Total number of cart mandates derived from intents",
		}),
		PaymentsExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "paychain_payments_executed_total",
			Help: "Total number of gateway executions by outcome",
		}, []string{"outcome"}),
		SignatureFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paychain_signature_failures_total",
			Help: "Total number of signature verification failures",
		}),
		ApprovalsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paychain_approvals_rejected_total",
			Help: "Total number of carts rejected by the AI reviewer",
		}),
		ConcurrencyConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paychain_concurrency_conflicts_total",
			Help: "Total number of transitions rejected by the per-intent lock",
		}),
		TransitionDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paychain_transition_duration_seconds",
			Help:    "Duration of mandate chain transitions",
			Buckets: prometheus.DefBuckets,
		}, []string{"transition"}),
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Webhook outcome label values.
const (
	OutcomeStaged       = "staged"
	OutcomePropagated   = "propagated"
	OutcomeUnlinked     = "unlinked"
	OutcomeRejected     = "rejected"
	OutcomeStagingError = "staging_error"
)

type Metrics struct {
	WebhookEvents  *prometheus.CounterVec
	ChargesSettled prometheus.Counter
	SweepRuns      *prometheus.CounterVec
	SweepItems     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revalya",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Webhook events by outcome.",
		}, []string{"outcome"}),
		ChargesSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "revalya",
			Subsystem: "reconciliation",
			Name:      "charges_settled_total",
			Help:      "Charges updated from staging rows.",
		}),
		SweepRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revalya",
			Subsystem: "reconciliation",
			Name:      "sweep_runs_total",
			Help:      "Reconciliation sweep executions.",
		}, []string{"dry_run"}),
		SweepItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "revalya",
			Subsystem: "reconciliation",
			Name:      "sweep_items_total",
			Help:      "Staging rows visited by sweeps, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.WebhookEvents, m.ChargesSettled, m.SweepRuns, m.SweepItems)
	return m
}

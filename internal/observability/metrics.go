// Package observability – domain metrics.
//
// HTTP-level metrics (request counts, latency) live in the middleware; the
// counters here track pipeline outcomes that a status code alone does not
// show, most importantly relay failures that the contact flow deliberately
// hides from the visitor.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// SubmissionsTotal counts contact-form submissions by outcome
	// (accepted, rejected).
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_submissions_total",
			Help: "Contact form submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// RelayFailuresTotal counts failed downstream forwards by flow
	// (submission, unsubscribe). Submission failures are swallowed at the
	// edge, so this counter is the only place they surface.
	RelayFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forms_relay_failures_total",
			Help: "Failed forwards to the CRM endpoint by flow.",
		},
		[]string{"flow"},
	)

	// UnsubscribesTotal counts suppression-list appends (first-time only;
	// repeat unsubscribes are idempotent and not counted).
	UnsubscribesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forms_unsubscribes_total",
			Help: "New addresses added to the unsubscribe set.",
		},
	)
)

func init() {
	prometheus.MustRegister(SubmissionsTotal, RelayFailuresTotal, UnsubscribesTotal)
}

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Cancellations counts cancellation requests by acting role and
	// outcome (cancelled, not_eligible, conflict, forbidden, error).
	Cancellations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_engine_cancellations_total",
		Help: "Cancellation requests by acting role and outcome.",
	}, []string{"role", "outcome"})

	// PaymentAttempts counts simulator sessions reaching a terminal state.
	PaymentAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_engine_payment_attempts_total",
		Help: "Gateway simulator attempts by method and terminal outcome.",
	}, []string{"method", "outcome"})

	// Settlements counts orders marked paid through mock verification.
	Settlements = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refund_engine_payment_settlements_total",
		Help: "Orders settled through mock payment verification.",
	})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentMetrics contains all payment integrity metrics
type PaymentMetrics struct {
	InitiationsTotal       prometheus.CounterVec
	InitiationDuration     prometheus.HistogramVec
	DuplicateAttemptsTotal prometheus.CounterVec
	LockBusyTotal          prometheus.CounterVec
	AmountMismatchTotal    prometheus.CounterVec

	WebhookAcceptedTotal prometheus.CounterVec
	WebhookRejectedTotal prometheus.CounterVec

	ActivationsTotal      prometheus.CounterVec
	AttemptsExpiredTotal  prometheus.CounterVec
	FlaggedForReviewTotal prometheus.CounterVec

	PendingAttemptsGauge prometheus.GaugeVec
}

// NewPaymentMetrics creates a new metrics instance
func NewPaymentMetrics() *PaymentMetrics {
	return &PaymentMetrics{
		InitiationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_initiations_total",
				Help: "Total payment initiation requests by result",
			},
			[]string{"result", "currency"},
		),

		InitiationDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payment_initiation_duration_seconds",
				Help:    "Time spent in the initiation flow",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms, 20ms, 40ms...
			},
			[]string{"result"},
		),

		DuplicateAttemptsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_duplicate_attempts_total",
				Help: "Initiations rejected by the idempotency guard",
			},
			[]string{"currency"},
		),

		LockBusyTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_lock_busy_total",
				Help: "Initiations that lost the payment lock race",
			},
			[]string{"currency"},
		),

		AmountMismatchTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_amount_mismatch_total",
				Help: "Initiations rejected for claiming a wrong price",
			},
			[]string{"currency"},
		),

		WebhookAcceptedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_accepted_total",
				Help: "Gateway callbacks that passed verification",
			},
			[]string{"gateway_status"},
		),

		WebhookRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_webhook_rejected_total",
				Help: "Gateway callbacks rejected by the verifier",
			},
			[]string{"reason"},
		),

		ActivationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_activations_total",
				Help: "Activation transaction outcomes",
			},
			[]string{"outcome"},
		),

		AttemptsExpiredTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_attempts_expired_total",
				Help: "Pending attempts swept to EXPIRED",
			},
			[]string{"currency"},
		),

		FlaggedForReviewTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_flagged_for_review_total",
				Help: "Completed attempts flagged by the risk scorer",
			},
			[]string{"currency"},
		),

		PendingAttemptsGauge: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "payment_pending_attempts",
				Help: "Currently open payment attempts",
			},
			[]string{"currency"},
		),
	}
}

// RecordInitiation records an initiation attempt outcome
func (m *PaymentMetrics) RecordInitiation(result, currency string, durationSeconds float64) {
	m.InitiationsTotal.WithLabelValues(result, currency).Inc()
	m.InitiationDuration.WithLabelValues(result).Observe(durationSeconds)
	if result == "created" {
		m.PendingAttemptsGauge.WithLabelValues(currency).Inc()
	}
}

func (m *PaymentMetrics) RecordDuplicate(currency string) {
	m.DuplicateAttemptsTotal.WithLabelValues(currency).Inc()
}

func (m *PaymentMetrics) RecordLockBusy(currency string) {
	m.LockBusyTotal.WithLabelValues(currency).Inc()
}

func (m *PaymentMetrics) RecordAmountMismatch(currency string) {
	m.AmountMismatchTotal.WithLabelValues(currency).Inc()
}

func (m *PaymentMetrics) RecordWebhookAccepted(gatewayStatus string) {
	m.WebhookAcceptedTotal.WithLabelValues(gatewayStatus).Inc()
}

// RecordWebhookRejected records a rejected callback by classified reason
func (m *PaymentMetrics) RecordWebhookRejected(reason string) {
	m.WebhookRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordActivation records an activation transaction outcome
func (m *PaymentMetrics) RecordActivation(outcome, currency string, flagged bool) {
	m.ActivationsTotal.WithLabelValues(outcome).Inc()
	if outcome == "APPLIED" {
		m.PendingAttemptsGauge.WithLabelValues(currency).Dec()
		if flagged {
			m.FlaggedForReviewTotal.WithLabelValues(currency).Inc()
		}
	}
}

func (m *PaymentMetrics) RecordExpired(currency string) {
	m.AttemptsExpiredTotal.WithLabelValues(currency).Inc()
	m.PendingAttemptsGauge.WithLabelValues(currency).Dec()
}

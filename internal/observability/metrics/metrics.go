// Package metrics exposes prometheus instruments for the billing core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Module provides the billing metrics set.
var Module = fx.Provide(New)

type Metrics struct {
	paymentsFinalized *prometheus.CounterVec
	receiptsIssued    prometheus.Counter
	allocatedAmount   prometheus.Histogram
	invoicesCreated   prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		paymentsFinalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dentacloud",
			Subsystem: "billing",
			Name:      "payments_finalized_total",
			Help:      "Payment finalization attempts by outcome.",
		}, []string{"outcome"}),
		receiptsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "dentacloud",
			Subsystem: "billing",
			Name:      "receipts_issued_total",
			Help:      "Receipts issued.",
		}),
		allocatedAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dentacloud",
			Subsystem: "billing",
			Name:      "allocated_amount_minor_units",
			Help:      "Amount applied per finalized payment, in minor units.",
			Buckets:   prometheus.ExponentialBuckets(100, 4, 10),
		}),
		invoicesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "dentacloud",
			Subsystem: "billing",
			Name:      "invoices_created_total",
			Help:      "Invoices created.",
		}),
	}
}

func (m *Metrics) RecordPaymentFinalized(outcome string, allocated int64) {
	if m == nil {
		return
	}
	m.paymentsFinalized.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.allocatedAmount.Observe(float64(allocated))
	}
}

func (m *Metrics) RecordReceiptIssued() {
	if m == nil {
		return
	}
	m.receiptsIssued.Inc()
}

func (m *Metrics) RecordInvoiceCreated() {
	if m == nil {
		return
	}
	m.invoicesCreated.Inc()
}

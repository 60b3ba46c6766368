package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransferMetrics counts ledger operations by kind and outcome.
type TransferMetrics struct {
	Transfers *prometheus.CounterVec
	Latency   prometheus.Histogram
}

// NewTransferMetrics registers and returns the ledger metric collectors.
func NewTransferMetrics(reg prometheus.Registerer) *TransferMetrics {
	factory := promauto.With(reg)
	return &TransferMetrics{
		Transfers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peerpay_transfers_total",
			Help: "Ledger operations by kind and outcome.",
		}, []string{"kind", "outcome"}),
		Latency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "peerpay_transfer_duration_seconds",
			Help:    "Latency of balance-moving ledger operations.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

package cooldown

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	pending        prometheus.Gauge
	itemsAccepted  prometheus.Counter
	batchesEmitted prometheus.Counter
	batchSize      prometheus.Histogram
}

func newMetrics(registerer prometheus.Registerer, namespace, subsystem string) *metrics {
	registerer = prometheus.WrapRegistererWith(
		prometheus.Labels{"component": "cooldown"},
		registerer,
	)

	m := metrics{
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "pending_items",
			Help:      "Number of items waiting in the accumulator",
		}),
		itemsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "items_total",
			Help:      "Number of items accepted for buffering",
		}),
		batchesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batches_total",
			Help:      "Number of batches emitted",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "batch_size",
			Help:      "Number of items per emitted batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.pending,
			m.itemsAccepted,
			m.batchesEmitted,
			m.batchSize,
		)
	}

	return &m
}

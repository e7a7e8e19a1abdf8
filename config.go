package cooldown

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quiesce/cooldown/buffer"
)

type Option[Item any] = func(*config[Item])

// WithAccumulator overrides the accumulator holding items between flushes.
// The default is [buffer.Appending], which preserves submission order.
func WithAccumulator[Item any](accumulator buffer.Buffer[Item]) Option[Item] {
	if accumulator == nil {
		panic("accumulator can't be nil")
	}
	return func(c *config[Item]) {
		c.accumulator = accumulator
	}
}

// WithBatchCapacity sets the capacity of the egress channel. Once this many
// batches are waiting to be received, the next flush blocks until the
// consumer catches up, stalling the timer's goroutine.
func WithBatchCapacity[Item any](capacity int) Option[Item] {
	if capacity < 1 {
		panic("batch capacity can't be < 1")
	}
	return func(c *config[Item]) {
		c.batchCapacity = capacity
	}
}

// WithPrometheus registers the buffer's metrics with the given registerer.
// If registerer is nil, metrics are collected but not registered.
func WithPrometheus[Item any](
	registerer prometheus.Registerer,
	namespace, subsystem string,
) Option[Item] {
	return func(c *config[Item]) {
		c.metrics = newMetrics(registerer, namespace, subsystem)
	}
}

type config[Item any] struct {
	accumulator   buffer.Buffer[Item]
	batchCapacity int
	metrics       *metrics
}

func newConfig[Item any](options ...Option[Item]) *config[Item] {
	options = append([]Option[Item]{
		WithAccumulator[Item](buffer.Appending[Item]()),
		WithBatchCapacity[Item](64),
		WithPrometheus[Item](nil, "cooldown", ""),
	}, options...)

	cfg := config[Item]{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}

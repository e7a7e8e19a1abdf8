// Package cooldown coalesces bursts of individually produced items into
// batches. Items pushed into the buffer are accumulated until the producer
// side stays quiet for a configured cooldown duration, at which point
// everything accumulated so far is delivered downstream as a single batch.
//
// This is debounce semantics, not deadline semantics: every accepted item
// resets the clock, so a steady stream of items arriving faster than the
// cooldown produces no batch at all until the stream pauses.
package cooldown

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quiesce/cooldown/buffer"
)

var (
	ErrClosed = errors.New("cooldown buffer is closed")
)

// New starts a cooldown buffer and returns its two ends. Items submitted via
// the [Sender] are appended to a shared accumulator; once no item arrives for
// the given cooldown duration, the accumulated items are emitted as one batch
// to the [Receiver].
//
// The buffering worker runs until either end is closed. Panics if cooldown is
// not positive.
func New[Item any](cooldown time.Duration, options ...Option[Item]) (*Sender[Item], *Receiver[Item]) {
	if cooldown <= 0 {
		panic("cooldown can't be <= 0")
	}

	cfg := newConfig(options...)

	ctx_, stop := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx_)

	c := &core[Item]{
		cooldown: cooldown,
		metrics:  cfg.metrics,
		items:    cfg.accumulator,
		intake:   make(chan Item),
		batches:  make(chan []Item, cfg.batchCapacity),
		recvDone: make(chan struct{}),
		ctx:      ctx,
		stop:     stop,
		group:    group,
	}

	group.Go(c.ingestWorker)

	return &Sender[Item]{core: c}, &Receiver[Item]{core: c}
}

// Sender is the producer end of a cooldown buffer. It is safe for use by
// multiple goroutines; concurrently submitted items are accumulated in the
// order the ingest worker receives them.
type Sender[Item any] struct {
	core *core[Item]
}

// Send submits one item for buffering and resets the quiescence clock. It
// returns [ErrClosed] once either end of the buffer has been closed; an
// accepted item is never dropped.
func (s *Sender[Item]) Send(item Item) error {
	if s.core.closing.Load() {
		return ErrClosed
	}

	select {
	case s.core.intake <- item:
		return nil
	case <-s.core.ctx.Done():
		return ErrClosed
	}
}

// Close stops the buffer from the producer side. Items accepted before Close
// are emitted as one final batch, after which the receiving end observes
// [ErrClosed]. Close blocks until that batch fits into the egress channel,
// so a consumer that neither receives nor closes can stall it.
func (s *Sender[Item]) Close() error {
	return s.core.close()
}

// Receiver is the consumer end of a cooldown buffer.
type Receiver[Item any] struct {
	core *core[Item]
}

// Receive blocks until the next batch is emitted, the context is cancelled,
// or the buffer is closed and all emitted batches have been received, in
// which case it returns [ErrClosed]. Batches arrive in emission order.
func (r *Receiver[Item]) Receive(ctx context.Context) ([]Item, error) {
	select {
	case batch, ok := <-r.core.batches:
		if !ok {
			return nil, ErrClosed
		}
		return batch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poll returns the next batch if one has already been emitted. It never
// blocks; ok reports whether a batch was available.
func (r *Receiver[Item]) Poll() (batch []Item, ok bool) {
	select {
	case batch, ok = <-r.core.batches:
		return batch, ok
	default:
		return nil, false
	}
}

// Close tears the buffer down from the consumer side. Items that were
// accepted but not yet received can no longer be delivered; if any exist,
// Close discards them and reports the loss through the returned error.
func (r *Receiver[Item]) Close() error {
	r.core.recvOnce.Do(func() {
		close(r.core.recvDone)
	})
	return r.core.close()
}

// core is the state shared by both handles. The accumulator is the only
// mutable state shared between the ingest worker and the timer callback;
// mu guards it.
type core[Item any] struct {
	cooldown time.Duration
	metrics  *metrics

	mu    sync.Mutex
	items buffer.Buffer[Item]

	timer quiesceTimer

	intake  chan Item
	batches chan []Item

	closing  atomic.Bool
	recvDone chan struct{}
	recvOnce sync.Once

	ctx   context.Context
	stop  func()
	group *errgroup.Group
}

// ingestWorker consumes the intake channel. Every accepted item triggers
// exactly one cancel-then-rearm cycle, so the timer only fires after a full
// cooldown with no intervening items.
func (c *core[Item]) ingestWorker() error {
	for {
		select {
		case <-c.ctx.Done():
			// Make sure no fire is pending or in flight before the
			// final drain.
			c.timer.Cancel()

			// Pick up items whose Send rendezvoused with the close.
			for {
				select {
				case item := <-c.intake:
					c.append(item)
					continue
				default:
				}
				break
			}

			err := c.flush()
			close(c.batches)
			return err

		case item := <-c.intake:
			c.timer.Cancel()
			c.append(item)
			c.timer.Start(c.cooldown, func() {
				// A failed fire leaves the accumulator intact; the
				// same failure resurfaces from the final flush.
				_ = c.flush()
			})
		}
	}
}

func (c *core[Item]) append(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items.Push(item)

	// The gauge is updated under the lock so a flush racing with this
	// append can't leave it reporting items that were already emitted.
	c.metrics.itemsAccepted.Inc()
	c.metrics.pending.Set(float64(c.items.Size()))
}

// flush emits the accumulated items as one batch and clears the accumulator.
// Snapshot, send and clear all happen under the accumulator lock, so an item
// arriving mid-flush always lands in the next batch, never in both or
// neither.
func (c *core[Item]) flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A fire can race with a close that already flushed everything.
	// Nothing to emit then.
	if c.items.Size() == 0 {
		return nil
	}

	batch := slices.Collect(c.items.Iter())

	select {
	case <-c.recvDone:
		return fmt.Errorf("emit batch of %d items: %w", len(batch), ErrClosed)
	default:
	}

	select {
	case c.batches <- batch:
	case <-c.recvDone:
		return fmt.Errorf("emit batch of %d items: %w", len(batch), ErrClosed)
	}

	c.items.Reset()

	c.metrics.batchesEmitted.Inc()
	c.metrics.batchSize.Observe(float64(len(batch)))
	c.metrics.pending.Set(0)

	return nil
}

func (c *core[Item]) close() error {
	if c.closing.Swap(true) {
		return ErrClosed
	}

	c.stop()
	if err := c.group.Wait(); err != nil {
		return fmt.Errorf("ingest worker: %w", err)
	}

	return nil
}

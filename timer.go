package cooldown

import (
	"sync"
	"time"
)

// quiesceTimer is a cancellable one-shot timer. Start schedules fn to run
// once after d; Cancel prevents a scheduled run and is a no-op when nothing
// is scheduled.
//
// The mutex is held across Start, Cancel and the callback body, so callbacks
// never overlap and a Cancel that loses the race to a firing timer waits for
// the callback to finish. The generation counter discards fires that were
// superseded before they could acquire the mutex.
type quiesceTimer struct {
	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// Start schedules fn to run once after d, superseding any prior schedule.
func (t *quiesceTimer) Start(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}

	t.gen++
	gen := t.gen

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.gen != gen {
			// Cancelled or restarted after the fire was already
			// scheduled onto its own goroutine.
			return
		}

		fn()
	})
}

// Cancel discards the pending run, if any.
func (t *quiesceTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

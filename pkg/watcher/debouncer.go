// Package watcher re-renders on file changes, coalescing editor save bursts
// into single callbacks.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the settle window applied when the caller does
// not choose one. Rename-and-replace saves finish well inside it, and a
// re-render per event of a save burst would thrash the output file.
const DefaultDebounceDuration = 250 * time.Millisecond

// Debouncer collapses a burst of filesystem events into one callback. An
// atomic editor save typically lands as create, write, and rename events
// within a few milliseconds; each Trigger resets the settle timer, so only
// the event that ends the burst causes a re-render.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	seq      uint64
}

// NewDebouncer creates a debouncer with the given settle window. A zero
// duration uses DefaultDebounceDuration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration == 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules callback after the settle window. A Trigger arriving
// before the window elapses replaces the pending callback and restarts the
// window.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// A timer that fired concurrently with a newer Trigger or a Cancel
		// sees a stale sequence number and yields; Stop alone cannot rule
		// that race out.
		stale := seq != d.seq
		if !stale {
			d.timer = nil
		}
		d.mu.Unlock()

		if stale {
			return
		}
		callback()
	})
}

// Cancel discards any pending callback, including one whose timer has
// already fired but not yet run.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the settle window.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}

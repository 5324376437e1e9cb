package offers

import (
	"sync"
	"time"
)

const DefaultDebounce = 800 * time.Millisecond

// Debouncer coalesces rapid edits to the free-text filters. A commit fires
// only after the configured quiet period; every edit resets the timer, so
// five keystrokes in quick succession produce exactly one commit.
type Debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	timer     *time.Timer
	buffered  TextFilters
	committed TextFilters
	commit    func(TextFilters)
}

func NewDebouncer(delay time.Duration, commit func(TextFilters)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		delay:  delay,
		commit: commit,
	}
}

// Edit buffers a new value for the text filters. Editing back to the
// committed state cancels any pending commit instead of scheduling one.
func (d *Debouncer) Edit(t TextFilters) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buffered = t

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	if t == d.committed {
		return
	}

	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.buffered == d.committed {
		d.timer = nil
		d.mu.Unlock()
		return
	}
	value := d.buffered
	d.committed = value
	d.timer = nil
	d.mu.Unlock()

	d.commit(value)
}

// Flush commits any pending edit immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.fire()
}

// SetCommitted aligns the baseline with state committed through another
// path (sort change, clear-all), so stale buffers do not re-fire.
func (d *Debouncer) SetCommitted(t TextFilters) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.committed = t
	d.buffered = t
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels a pending commit without firing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

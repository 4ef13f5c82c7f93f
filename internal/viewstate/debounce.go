package viewstate

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid string updates and hands the last one to apply
// once no update arrived for the window. A value equal to the last applied
// one is swallowed.
type Debouncer struct {
	window time.Duration
	apply  func(string)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending string
	last    string
}

func NewDebouncer(window time.Duration, apply func(string)) *Debouncer {
	return &Debouncer{window: window, apply: apply}
}

// Push records v as the newest raw value and restarts the quiet window.
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.window <= 0 {
		d.mu.Unlock()
		d.fire(gen)
		return
	}
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen) })
	d.mu.Unlock()
}

// Flush applies the pending value now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// Stop drops the pending value.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.gen++
	d.pending = d.last
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
}

// Pending returns the latest raw value.
func (d *Debouncer) Pending() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == d.last {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.last = v
	d.mu.Unlock()
	d.apply(v)
}

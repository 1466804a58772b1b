package sched

import "time"

// DefaultResizeDuration is the debounce window for viewport resize events.
const DefaultResizeDuration = 250 * time.Millisecond

// Debouncer runs the last submitted function once no new call has arrived
// for the debounce duration.
type Debouncer struct {
	s        Scheduler
	timer    Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the specified duration.
func NewDebouncer(s Scheduler, duration time.Duration) *Debouncer {
	return &Debouncer{s: s, duration: duration}
}

// Debounce executes fn after the debounce duration has elapsed without any
// new calls. Rapid successive calls reset the timer.
func (d *Debouncer) Debounce(fn func()) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.s.After(d.duration, func() {
		d.timer = nil
		fn()
	})
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// ResizeDebouncer is a Debouncer specialised for window size events.
type ResizeDebouncer struct {
	debouncer     *Debouncer
	pendingWidth  int
	pendingHeight int
}

// NewResizeDebouncer creates a debouncer for resize events.
func NewResizeDebouncer(s Scheduler, duration time.Duration) *ResizeDebouncer {
	return &ResizeDebouncer{debouncer: NewDebouncer(s, duration)}
}

// Resize records the latest size and calls handler with it once resizing settles.
func (rd *ResizeDebouncer) Resize(width, height int, handler func(int, int)) {
	rd.pendingWidth = width
	rd.pendingHeight = height

	rd.debouncer.Debounce(func() {
		handler(rd.pendingWidth, rd.pendingHeight)
	})
}

// Cancel drops any pending resize.
func (rd *ResizeDebouncer) Cancel() {
	rd.debouncer.Cancel()
}

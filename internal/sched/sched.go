// Package sched provides the timer plumbing for the dashboard's single-threaded
// event loop. Callbacks scheduled here never run on a timer goroutine: Loop hands
// them to the host loop, Manual runs them when the test clock is advanced.
package sched

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs callbacks after a delay on the owning event loop.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Timer is a pending callback. Stop reports whether the call was prevented.
type Timer interface {
	Stop() bool
}

// FrameInterval is the tick used by frame-driven steppers.
const FrameInterval = 16 * time.Millisecond

// =============================================================================
// LOOP (production)
// =============================================================================

// Loop schedules callbacks with real timers and delivers them through post,
// which must enqueue the function onto the event loop goroutine.
type Loop struct {
	post func(func())
}

// NewLoop creates a Loop that hands expired callbacks to post.
func NewLoop(post func(func())) *Loop {
	return &Loop{post: post}
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

// After schedules fn to be posted onto the event loop after d.
func (l *Loop) After(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.post(func() {
			// The timer may have been stopped after it fired but before the
			// loop got to the callback.
			if lt.stopped.Load() {
				return
			}
			fn()
		})
	})
	return lt
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time { return time.Now() }

func (lt *loopTimer) Stop() bool {
	if lt.stopped.Swap(true) {
		return false
	}
	return lt.t.Stop()
}

// =============================================================================
// MANUAL (tests, headless replay)
// =============================================================================

// Manual is a deterministic scheduler driven by Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	m       *Manual
	due     time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// After registers fn to run once the clock reaches now+d.
func (m *Manual) After(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &manualTimer{m: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, t)
	return t
}

// Now returns the manual clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every timer that comes due in
// due-time order. Timers scheduled by callbacks run too if they fall inside
// the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	m.mu.Lock()
	m.now = target
	m.compact()
	m.mu.Unlock()
}

// nextDue pops the earliest live timer due at or before target and moves the
// clock to its due time.
func (m *Manual) nextDue(target time.Time) *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()

	live := m.pending[:0:0]
	for _, t := range m.pending {
		if !t.stopped && !t.fired && !t.due.After(target) {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	t := live[0]
	t.fired = true
	if t.due.After(m.now) {
		m.now = t.due
	}
	return t
}

func (m *Manual) compact() {
	kept := m.pending[:0]
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			kept = append(kept, t)
		}
	}
	m.pending = kept
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

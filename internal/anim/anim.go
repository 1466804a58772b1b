// Package anim interpolates numeric properties over time on the event loop.
package anim

import (
	"time"

	"medboard/internal/sched"
)

// Key identifies the property a transition writes to. Only one transition may
// write a given key at a time.
type Key struct {
	Element  string
	Property string
}

// EaseInOutQuad maps linear progress in [0,1] onto an ease-in-out curve.
func EaseInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	q := -2*p + 2
	return 1 - q*q/2
}

// Lerp returns the value at eased progress p between from and to.
func Lerp(from, to, p float64) float64 {
	return from + (to-from)*p
}

type run struct {
	from, to float64
	start    time.Time
	duration time.Duration
	apply    func(float64)
	timer    sched.Timer
}

// Animator steps keyed transitions once per frame until they reach progress 1.
type Animator struct {
	s       sched.Scheduler
	frame   time.Duration
	running map[Key]*run
}

// NewAnimator creates an animator stepping every frame interval.
func NewAnimator(s sched.Scheduler, frame time.Duration) *Animator {
	if frame <= 0 {
		frame = sched.FrameInterval
	}
	return &Animator{s: s, frame: frame, running: make(map[Key]*run)}
}

// Transition starts interpolating from → to over duration, calling apply with
// each intermediate value. A transition already running for key is cancelled
// first; its last applied value stays in place.
func (a *Animator) Transition(key Key, from, to float64, duration time.Duration, apply func(float64)) {
	a.Cancel(key)

	if duration <= 0 || from == to {
		apply(to)
		return
	}

	r := &run{from: from, to: to, start: a.s.Now(), duration: duration, apply: apply}
	a.running[key] = r
	apply(from)
	a.schedule(key, r)
}

func (a *Animator) schedule(key Key, r *run) {
	r.timer = a.s.After(a.frame, func() { a.step(key, r) })
}

func (a *Animator) step(key Key, r *run) {
	if a.running[key] != r {
		return
	}
	elapsed := a.s.Now().Sub(r.start)
	progress := float64(elapsed) / float64(r.duration)
	if progress > 1 {
		progress = 1
	}
	r.apply(Lerp(r.from, r.to, EaseInOutQuad(progress)))
	if progress < 1 {
		a.schedule(key, r)
		return
	}
	delete(a.running, key)
}

// Cancel stops the transition running for key, if any.
func (a *Animator) Cancel(key Key) bool {
	r, ok := a.running[key]
	if !ok {
		return false
	}
	delete(a.running, key)
	if r.timer != nil {
		r.timer.Stop()
	}
	return true
}

// Active reports whether a transition is running for key.
func (a *Animator) Active(key Key) bool {
	_, ok := a.running[key]
	return ok
}

// CancelAll stops every running transition.
func (a *Animator) CancelAll() {
	for key := range a.running {
		a.Cancel(key)
	}
}

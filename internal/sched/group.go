package sched

import "time"

// Group keys pending callbacks so that scheduling under a key supersedes
// whatever was pending for it. Not safe for concurrent use; it belongs to the
// event loop like everything else it schedules.
type Group struct {
	s      Scheduler
	timers map[string]Timer
}

// NewGroup creates an empty group on top of s.
func NewGroup(s Scheduler) *Group {
	return &Group{s: s, timers: make(map[string]Timer)}
}

// Replace cancels any callback pending under key and schedules fn in its place.
func (g *Group) Replace(key string, d time.Duration, fn func()) {
	g.Cancel(key)
	var t Timer
	t = g.s.After(d, func() {
		if g.timers[key] == t {
			delete(g.timers, key)
		}
		fn()
	})
	g.timers[key] = t
}

// Cancel stops the callback pending under key. It reports whether one was pending.
func (g *Group) Cancel(key string) bool {
	t, ok := g.timers[key]
	if !ok {
		return false
	}
	delete(g.timers, key)
	return t.Stop()
}

// CancelAll stops every pending callback.
func (g *Group) CancelAll() {
	for key, t := range g.timers {
		t.Stop()
		delete(g.timers, key)
	}
}

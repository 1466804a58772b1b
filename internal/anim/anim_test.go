package anim

import (
	"testing"
	"time"

	"medboard/internal/sched"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 10, 2, 9, 0, 0, 0, time.UTC)

func TestEaseInOutQuad(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.25, 0.125},
		{0.5, 0.5},
		{0.75, 0.875},
		{1, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, EaseInOutQuad(tt.p), 1e-9, "p=%v", tt.p)
	}
}

func TestTransition_ReachesTarget(t *testing.T) {
	m := sched.NewManual(epoch)
	a := NewAnimator(m, sched.FrameInterval)
	key := Key{Element: "left-panel", Property: "width"}

	var values []float64
	a.Transition(key, 6, 36, 160*time.Millisecond, func(v float64) { values = append(values, v) })

	assert.True(t, a.Active(key))
	assert.Equal(t, 6.0, values[0])

	m.Advance(time.Second)

	assert.False(t, a.Active(key))
	assert.Equal(t, 36.0, values[len(values)-1])
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1], "values should be monotonic")
	}
	assert.Zero(t, m.Pending(), "stepper must stop rescheduling at progress 1")
}

func TestTransition_RestartCancelsPrevious(t *testing.T) {
	m := sched.NewManual(epoch)
	a := NewAnimator(m, sched.FrameInterval)
	key := Key{Element: "left-panel", Property: "width"}

	firstWrites := 0
	a.Transition(key, 0, 100, time.Second, func(float64) { firstWrites++ })
	m.Advance(48 * time.Millisecond)
	before := firstWrites

	var last float64
	a.Transition(key, 50, 10, 100*time.Millisecond, func(v float64) { last = v })
	m.Advance(time.Second)

	assert.Equal(t, before, firstWrites, "cancelled transition kept writing")
	assert.Equal(t, 10.0, last)
	assert.Zero(t, m.Pending())
}

func TestTransition_ZeroDurationAppliesImmediately(t *testing.T) {
	m := sched.NewManual(epoch)
	a := NewAnimator(m, 0)

	var got float64
	a.Transition(Key{"x", "y"}, 1, 5, 0, func(v float64) { got = v })

	assert.Equal(t, 5.0, got)
	assert.False(t, a.Active(Key{"x", "y"}))
}

func TestCancelAll(t *testing.T) {
	m := sched.NewManual(epoch)
	a := NewAnimator(m, sched.FrameInterval)
	a.Transition(Key{"a", "w"}, 0, 1, time.Second, func(float64) {})
	a.Transition(Key{"b", "w"}, 0, 1, time.Second, func(float64) {})

	a.CancelAll()

	assert.False(t, a.Active(Key{"a", "w"}))
	assert.False(t, a.Active(Key{"b", "w"}))
	assert.Zero(t, m.Pending())
}

package viewmode

import (
	"testing"
	"time"

	"medboard/internal/sched"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCards struct {
	calls []bool
}

func (f *fakeCards) SetAllExpanded(expanded bool) { f.calls = append(f.calls, expanded) }

func newTestMachine() (*Machine, *sched.Manual, *fakeCards) {
	clock := sched.NewManual(time.Unix(0, 0))
	cards := &fakeCards{}
	return New(clock, cards, DefaultOptions(), nil), clock, cards
}

func TestParseMode(t *testing.T) {
	m, ok := ParseMode("visit")
	assert.True(t, ok)
	assert.Equal(t, Visit, m)

	m, ok = ParseMode("pre-visit")
	assert.True(t, ok)
	assert.Equal(t, PreVisit, m)

	for _, bad := range []string{"", "Visit", "post-visit"} {
		_, ok := ParseMode(bad)
		assert.False(t, ok, bad)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Visit Mode", Visit.DisplayName())
	assert.Equal(t, "Pre-Visit Mode", PreVisit.DisplayName())
}

func TestRequest_SameModeIsNoop(t *testing.T) {
	m, clock, cards := newTestMachine()
	switched := 0
	m.OnSwitched(func(Mode) { switched++ })

	assert.False(t, m.Request(PreVisit))
	assert.False(t, m.Transitioning())
	clock.Advance(time.Second)

	assert.Zero(t, switched)
	assert.Empty(t, cards.calls)
}

func TestRequest_ToVisit(t *testing.T) {
	m, clock, cards := newTestMachine()
	var got []Mode
	m.OnSwitched(func(mode Mode) { got = append(got, mode) })

	require.True(t, m.Request(Visit))
	assert.True(t, m.Transitioning())
	assert.Equal(t, Visit, m.Mode())
	assert.Equal(t, []bool{false}, cards.calls)
	assert.True(t, m.Layout().Visit)
	assert.Equal(t, 6, m.Layout().LeftWidth)
	assert.Empty(t, got, "callback waits for the transition to settle")

	clock.Advance(599 * time.Millisecond)
	assert.True(t, m.Transitioning())

	clock.Advance(time.Millisecond)
	assert.False(t, m.Transitioning())
	assert.Equal(t, []Mode{Visit}, got)
}

func TestRequest_DroppedDuringTransition(t *testing.T) {
	m, clock, cards := newTestMachine()
	var got []Mode
	m.OnSwitched(func(mode Mode) { got = append(got, mode) })

	require.True(t, m.Request(Visit))
	assert.False(t, m.Request(PreVisit))
	clock.Advance(time.Second)

	assert.Equal(t, Visit, m.Mode())
	assert.Equal(t, []Mode{Visit}, got)
	assert.Equal(t, []bool{false}, cards.calls)
}

func TestRequest_BackToPreVisitResetsPanel(t *testing.T) {
	m, clock, cards := newTestMachine()
	require.True(t, m.Request(Visit))
	clock.Advance(time.Second)
	require.True(t, m.TogglePanel())
	assert.Equal(t, Expanded, m.Panel())

	require.True(t, m.Request(PreVisit))
	assert.Equal(t, Collapsed, m.Panel())
	assert.False(t, m.Layout().Visit)
	assert.Equal(t, []bool{false, true}, cards.calls)
}

func TestTogglePanel(t *testing.T) {
	m, clock, _ := newTestMachine()

	assert.False(t, m.TogglePanel(), "no-op outside visit")
	assert.Equal(t, Collapsed, m.Panel())
	assert.Equal(t, 28, m.Layout().LeftWidth)

	require.True(t, m.Request(Visit))
	clock.Advance(time.Second)

	require.True(t, m.TogglePanel())
	assert.Equal(t, 36, m.Layout().LeftWidth)
	require.True(t, m.TogglePanel())
	assert.Equal(t, 6, m.Layout().LeftWidth)
}

func TestRecompute_Tiers(t *testing.T) {
	tests := []struct {
		width int
		right int
	}{
		{80, 32},
		{139, 32},
		{140, 36},
		{159, 36},
		{160, 40},
		{240, 40},
	}

	for _, tt := range tests {
		m, _, _ := newTestMachine()
		require.True(t, m.Request(Visit))
		m.Recompute(tt.width)
		assert.Equal(t, tt.right, m.Layout().RightWidth, "width %d", tt.width)
	}
}

func TestRecompute_IgnoredOutsideVisit(t *testing.T) {
	m, clock, _ := newTestMachine()
	m.Recompute(100)
	assert.Equal(t, 36, m.Layout().RightWidth)

	require.True(t, m.Request(Visit))
	clock.Advance(time.Second)
	assert.Equal(t, 32, m.Layout().RightWidth, "remembered width applies on entering visit")
}

func TestRecompute_IndependentOfPanel(t *testing.T) {
	m, clock, _ := newTestMachine()
	m.Recompute(150)
	require.True(t, m.Request(Visit))
	clock.Advance(time.Second)

	right := m.Layout().RightWidth
	m.TogglePanel()
	assert.Equal(t, right, m.Layout().RightWidth)
}

func TestOnLayout(t *testing.T) {
	m, _, _ := newTestMachine()
	var changes [][2]Layout
	m.OnLayout(func(prev, next Layout) { changes = append(changes, [2]Layout{prev, next}) })

	require.True(t, m.Request(Visit))
	require.Len(t, changes, 1)
	assert.Equal(t, 28, changes[0][0].LeftWidth)
	assert.Equal(t, 6, changes[0][1].LeftWidth)

	m.Recompute(0)
	assert.Len(t, changes, 1, "identical layout does not fire")
}

func TestSetOptions(t *testing.T) {
	m, _, _ := newTestMachine()
	opts := DefaultOptions()
	opts.PreVisitLeft = 30
	m.SetOptions(opts)
	assert.Equal(t, 30, m.Layout().LeftWidth)
}

func TestClose_StopsPendingTransition(t *testing.T) {
	m, clock, _ := newTestMachine()
	switched := 0
	m.OnSwitched(func(Mode) { switched++ })

	require.True(t, m.Request(Visit))
	m.Close()
	clock.Advance(time.Second)

	assert.Zero(t, switched)
	assert.False(t, m.Transitioning())
}

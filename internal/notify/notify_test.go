package notify

import (
	"testing"
	"time"

	"medboard/internal/sched"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEmitter_Lifecycle(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	e := NewEmitter(clock, 0, 0, nil)

	n := e.Emit("Dashboard updated successfully!", Success)
	require.NotEmpty(t, n.ID)

	active := e.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Dashboard updated successfully!", active[0].Message)
	assert.Equal(t, Success, active[0].Kind)
	assert.False(t, active[0].Leaving)

	clock.Advance(DefaultDisplay)
	active = e.Active()
	require.Len(t, active, 1)
	assert.True(t, active[0].Leaving)

	clock.Advance(DefaultExit)
	assert.Empty(t, e.Active())
}

func TestEmitter_InsertionOrderNoDedup(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	e := NewEmitter(clock, 0, 0, nil)

	e.Emit("a", Info)
	clock.Advance(time.Second)
	e.Emit("b", Info)
	e.Emit("b", Info)

	var msgs []string
	for _, n := range e.Active() {
		msgs = append(msgs, n.Message)
	}
	assert.Equal(t, []string{"a", "b", "b"}, msgs)

	clock.Advance(DefaultDisplay - time.Second + DefaultExit)
	assert.Len(t, e.Active(), 2, "first toast expires on its own schedule")
}

func TestEmitter_LogsMessages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	clock := sched.NewManual(time.Unix(0, 0))
	e := NewEmitter(clock, 0, 0, zap.New(core))

	e.Emit("Action initiated: Order Labs", Info)

	entries := logs.FilterMessage("notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Action initiated: Order Labs", entries[0].ContextMap()["message"])
}

func TestAnnouncer(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	a := NewAnnouncer(clock, 0)

	a.Announce("Dashboard view changed to Visit mode")
	assert.Equal(t, []string{"Dashboard view changed to Visit mode"}, a.Messages())

	clock.Advance(DefaultAnnounce)
	assert.Empty(t, a.Messages())
	assert.Zero(t, clock.Pending())
}

func TestEmitter_CloseStopsTimers(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	e := NewEmitter(clock, 0, 0, nil)

	e.Emit("a", Info)
	clock.Advance(DefaultDisplay)
	e.Emit("b", Success)
	require.Len(t, e.Active(), 2)

	e.Close()
	assert.Empty(t, e.Active())
	assert.Zero(t, clock.Pending())

	clock.Advance(time.Minute)
	assert.Empty(t, e.Active())
}

func TestAnnouncer_CloseStopsTimers(t *testing.T) {
	clock := sched.NewManual(time.Unix(0, 0))
	a := NewAnnouncer(clock, 0)

	a.Announce("one")
	a.Announce("two")
	a.Close()

	assert.Empty(t, a.Messages())
	assert.Zero(t, clock.Pending())
}

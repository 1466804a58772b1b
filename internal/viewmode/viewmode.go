// Package viewmode implements the pre-visit / visit layout state machine.
package viewmode

import (
	"time"

	"medboard/internal/sched"

	"go.uber.org/zap"
)

// Mode is the dashboard layout mode.
type Mode string

const (
	PreVisit Mode = "pre-visit"
	Visit    Mode = "visit"
)

// Default is the mode the dashboard starts in.
const Default = PreVisit

// ParseMode accepts the persisted string form of a mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case PreVisit:
		return PreVisit, true
	case Visit:
		return Visit, true
	}
	return "", false
}

// DisplayName is the human label, e.g. "Visit Mode".
func (m Mode) DisplayName() string {
	return m.Label() + " Mode"
}

// Label is the short name, e.g. "Pre-Visit".
func (m Mode) Label() string {
	if m == Visit {
		return "Visit"
	}
	return "Pre-Visit"
}

// PanelState is the left panel state in visit mode.
type PanelState int

const (
	Collapsed PanelState = iota
	Expanded
)

func (p PanelState) String() string {
	if p == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Layout is the panel geometry in terminal columns.
type Layout struct {
	Visit      bool
	LeftWidth  int
	RightWidth int
}

// Cards is the bulk-expansion hook the machine drives on transitions.
type Cards interface {
	SetAllExpanded(expanded bool)
}

// Options holds the layout widths and transition timing.
type Options struct {
	PreVisitLeft  int
	PreVisitRight int

	CollapsedLeft int
	ExpandedLeft  int

	RightNarrow  int
	RightMedium  int
	RightWide    int
	NarrowCutoff int
	MediumCutoff int

	TransitionDelay time.Duration
}

// DefaultOptions returns the stock layout.
func DefaultOptions() Options {
	return Options{
		PreVisitLeft:    28,
		PreVisitRight:   36,
		CollapsedLeft:   6,
		ExpandedLeft:    36,
		RightNarrow:     32,
		RightMedium:     36,
		RightWide:       40,
		NarrowCutoff:    140,
		MediumCutoff:    160,
		TransitionDelay: 600 * time.Millisecond,
	}
}

// RightTier picks the visit-mode right panel width for a viewport width.
// A non-positive width means the viewport is not known yet.
func (o Options) RightTier(viewport int) int {
	switch {
	case viewport <= 0:
		return o.RightWide
	case viewport < o.NarrowCutoff:
		return o.RightNarrow
	case viewport < o.MediumCutoff:
		return o.RightMedium
	default:
		return o.RightWide
	}
}

// Machine owns the current mode. It is not safe for concurrent use; all calls
// come from the host event loop.
type Machine struct {
	s     sched.Scheduler
	cards Cards
	opts  Options
	log   *zap.Logger

	mode          Mode
	panel         PanelState
	transitioning bool
	timer         sched.Timer
	viewport      int
	layout        Layout

	onSwitched func(Mode)
	onLayout   func(prev, next Layout)
}

// New creates a machine in the default mode.
func New(s sched.Scheduler, cards Cards, opts Options, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Machine{s: s, cards: cards, opts: opts, log: log, mode: Default}
	m.layout = m.preVisitLayout()
	return m
}

// OnSwitched registers fn to run once a transition settles.
func (m *Machine) OnSwitched(fn func(Mode)) { m.onSwitched = fn }

// OnLayout registers fn to run whenever the layout changes.
func (m *Machine) OnLayout(fn func(prev, next Layout)) { m.onLayout = fn }

// Mode returns the active mode. It changes only when a transition settles.
func (m *Machine) Mode() Mode { return m.mode }

// Panel returns the right panel state.
func (m *Machine) Panel() PanelState { return m.panel }

// Transitioning reports whether a mode switch is in flight.
func (m *Machine) Transitioning() bool { return m.transitioning }

// Layout returns the current column widths.
func (m *Machine) Layout() Layout { return m.layout }

// Request asks for a transition to mode. It reports whether the request was
// accepted; requests during a transition or for the current mode are dropped.
func (m *Machine) Request(mode Mode) bool {
	if m.transitioning {
		m.log.Debug("mode request dropped: transition in flight", zap.String("requested", string(mode)))
		return false
	}
	if mode == m.mode {
		return false
	}
	if _, ok := ParseMode(string(mode)); !ok {
		m.log.Warn("mode request dropped: unknown mode", zap.String("requested", string(mode)))
		return false
	}

	m.transitioning = true
	m.mode = mode
	if mode == Visit {
		if m.cards != nil {
			m.cards.SetAllExpanded(false)
		}
		m.setLayout(m.visitLayout())
	} else {
		m.panel = Collapsed
		if m.cards != nil {
			m.cards.SetAllExpanded(true)
		}
		m.setLayout(m.preVisitLayout())
	}
	m.log.Info("mode transition started", zap.String("mode", string(mode)))

	m.timer = m.s.After(m.opts.TransitionDelay, func() {
		m.timer = nil
		m.transitioning = false
		m.log.Debug("mode transition settled", zap.String("mode", string(m.mode)))
		if m.onSwitched != nil {
			m.onSwitched(m.mode)
		}
	})
	return true
}

// Toggle requests the other mode.
func (m *Machine) Toggle() bool {
	if m.mode == Visit {
		return m.Request(PreVisit)
	}
	return m.Request(Visit)
}

// TogglePanel flips the left panel in visit mode. It reports whether anything changed.
func (m *Machine) TogglePanel() bool {
	if m.mode != Visit {
		return false
	}
	if m.panel == Collapsed {
		m.panel = Expanded
	} else {
		m.panel = Collapsed
	}
	m.log.Debug("panel toggled", zap.Stringer("panel", m.panel))
	m.setLayout(m.visitLayout())
	return true
}

// Recompute records the viewport width and, in visit mode, reselects the
// right panel tier.
func (m *Machine) Recompute(viewport int) {
	m.viewport = viewport
	if m.mode != Visit {
		return
	}
	m.setLayout(m.visitLayout())
}

// SetOptions swaps in new widths, e.g. after a config reload, and reapplies
// the layout for the current mode.
func (m *Machine) SetOptions(opts Options) {
	m.opts = opts
	if m.mode == Visit {
		m.setLayout(m.visitLayout())
	} else {
		m.setLayout(m.preVisitLayout())
	}
}

// Close stops a pending transition timer without firing its callback.
func (m *Machine) Close() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.transitioning = false
}

func (m *Machine) visitLayout() Layout {
	left := m.opts.CollapsedLeft
	if m.panel == Expanded {
		left = m.opts.ExpandedLeft
	}
	return Layout{Visit: true, LeftWidth: left, RightWidth: m.opts.RightTier(m.viewport)}
}

func (m *Machine) preVisitLayout() Layout {
	return Layout{LeftWidth: m.opts.PreVisitLeft, RightWidth: m.opts.PreVisitRight}
}

func (m *Machine) setLayout(next Layout) {
	prev := m.layout
	if prev == next {
		return
	}
	m.layout = next
	if m.onLayout != nil {
		m.onLayout(prev, next)
	}
}

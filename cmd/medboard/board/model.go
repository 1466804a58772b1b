// Package board is the interactive terminal host for the dashboard.
//
// Model adapts bubbletea messages to dashboard commands and draws the
// controller's Snapshot. Timer callbacks scheduled through sched.Loop come
// back into Update as eventMsg, so the controller is only ever touched from
// the bubbletea event loop.
package board

import (
	"sync"
	"time"

	"medboard/cmd/medboard/ui"
	"medboard/internal/dashboard"
	"medboard/internal/logging"
	"medboard/internal/modules"
	"medboard/internal/sched"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Quick actions and diagnoses listed in the right panel.
var (
	QuickActions = []string{"Order Labs", "Write Prescription", "Schedule Follow-up", "Refer to Specialist"}
	Diagnoses    = []string{"Hypertension", "Type 2 Diabetes", "Hyperlipidemia"}
)

type pane int

const (
	paneModules pane = iota
	paneWorkspace
	panePrompt
	paneRight
	paneCount
)

func (p pane) String() string {
	switch p {
	case paneModules:
		return "modules"
	case paneWorkspace:
		return "workspace"
	case panePrompt:
		return "prompt"
	case paneRight:
		return "sidebar"
	}
	return "unknown"
}

// eventMsg carries a timer callback posted by sched.Loop.
type eventMsg func()

type startMsg struct{}

// OptionsMsg replaces the controller options, typically after a config
// reload. Send it with tea.Program.Send.
type OptionsMsg struct {
	Options dashboard.Options
}

// Config configures a Model.
type Config struct {
	// Deps.Scheduler may be left nil; the model then drives the controller
	// with a sched.Loop posting into its own event channel.
	Deps    dashboard.Deps
	Options dashboard.Options

	Theme          string
	RenderCacheTTL time.Duration
	ShowHelp       bool
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	ctrl   *dashboard.Controller
	events chan func()
	done   chan struct{}
	once   *sync.Once
	log    *zap.Logger

	styles  ui.Styles
	keys    ui.KeyMap
	help    help.Model
	md      *ui.MarkdownRenderer
	spinner spinner.Model
	input   textinput.Model
	cards   *cardView

	focus        pane
	moduleCursor int
	cardCursor   int
	rightCursor  int
	// picked is the module being dragged; empty when nothing is held.
	picked modules.Type

	width, height int
	quitting      bool
}

// New builds a Model and its controller.
func New(cfg Config) Model {
	m := Model{
		done: make(chan struct{}),
		once: &sync.Once{},
		log:  logging.Get(logging.CategoryUI),
		keys: ui.DefaultKeyMap,
	}

	deps := cfg.Deps
	if deps.Scheduler == nil {
		m.events = make(chan func(), 64)
		deps.Scheduler = sched.NewLoop(m.post)
	}

	m.cards = newCardView()
	deps.Viewport = m.cards
	m.ctrl = dashboard.New(deps, cfg.Options)

	m.styles = ui.NewStyles(ui.DetectTheme(cfg.Theme))
	m.md = ui.NewMarkdownRenderer(m.styles.Theme, ui.NewRenderCache(cfg.RenderCacheTTL))

	m.help = help.New()
	m.help.ShowAll = cfg.ShowHelp

	m.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(m.styles.Spinner),
	)

	m.input = textinput.New()
	m.input.Placeholder = "Ask about the patient (e.g. ECG results)"
	m.input.CharLimit = 500
	m.input.Prompt = "› "

	m.focus = paneModules
	m.refresh()
	return m
}

// Controller exposes the underlying controller.
func (m Model) Controller() *dashboard.Controller { return m.ctrl }

// post hands fn to the event loop. It gives up once the model has shut
// down so late timers do not block their goroutines forever.
func (m Model) post(fn func()) {
	select {
	case m.events <- fn:
	case <-m.done:
	}
}

// waitForEvent listens for the next posted timer callback.
func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case fn := <-m.events:
			return eventMsg(fn)
		case <-m.done:
			return nil
		}
	}
}

// Init starts the timer listener and asks Update to restore the saved view mode.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.waitForEvent(),
		func() tea.Msg { return startMsg{} },
	)
}

// Shutdown stops every pending timer and releases the event listener. Safe
// to call more than once.
func (m Model) Shutdown() {
	m.once.Do(func() {
		m.ctrl.Close()
		close(m.done)
		m.log.Debug("dashboard shut down")
	})
}

// Run starts an interactive program for cfg. extra is called with the
// program before it runs so callers can wire Program.Send.
func Run(cfg Config, extra func(*tea.Program)) error {
	m := New(cfg)
	defer m.Shutdown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if extra != nil {
		extra(p)
	}
	_, err := p.Run()
	return err
}

// cardView is the scrollable workspace column. It remembers where each card
// starts so the controller can scroll collapsed cards back into view.
type cardView struct {
	vp      viewport.Model
	offsets map[string]int
	// dropRow is the line of the drop marker while dragging, -1 otherwise.
	dropRow int
}

func newCardView() *cardView {
	return &cardView{
		vp:      viewport.New(ui.DefaultCenterWidth, 20),
		offsets: make(map[string]int),
		dropRow: -1,
	}
}

// CardOffset implements dashboard.Viewport.
func (cv *cardView) CardOffset(id string) (int, bool) {
	top, ok := cv.offsets[id]
	if !ok {
		return 0, false
	}
	return top - cv.vp.YOffset, true
}

// ScrollToCard implements dashboard.Viewport.
func (cv *cardView) ScrollToCard(id string) {
	if top, ok := cv.offsets[id]; ok {
		cv.vp.SetYOffset(top)
	}
}

// ensureVisible scrolls the minimum needed to show row.
func (cv *cardView) ensureVisible(row int) {
	switch {
	case row < cv.vp.YOffset:
		cv.vp.SetYOffset(row)
	case row >= cv.vp.YOffset+cv.vp.Height:
		cv.vp.SetYOffset(row - cv.vp.Height + 1)
	}
}

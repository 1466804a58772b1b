// Package dashboard owns the dashboard state and routes commands to it.
//
// The Controller is the only mutator of the workspace, view mode, generator,
// notifications and checklist. Every method must be called from the host
// event loop; timers reach it through the sched.Scheduler it was built with.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"medboard/internal/anim"
	"medboard/internal/checklist"
	"medboard/internal/genui"
	"medboard/internal/logging"
	"medboard/internal/metrics"
	"medboard/internal/modules"
	"medboard/internal/notify"
	"medboard/internal/prefs"
	"medboard/internal/sched"
	"medboard/internal/viewmode"
	"medboard/internal/workspace"

	"go.uber.org/zap"
)

// Fixed user-facing messages.
const (
	MsgDashboardUpdated = "Dashboard updated successfully!"
	MsgNewNotifications = "You have 3 new notifications"
)

// LeftPanelWidth is the animation key for the displayed left panel width.
var LeftPanelWidth = anim.Key{Element: "left-panel", Property: "width"}

// Viewport is the host's scrollable workspace view.
type Viewport interface {
	// CardOffset returns the card's top row relative to the visible top.
	// Negative values are above the viewport.
	CardOffset(id string) (row int, ok bool)
	ScrollToCard(id string)
}

// Deps are the controller's external collaborators. Only Scheduler is required.
type Deps struct {
	Scheduler   sched.Scheduler
	Registry    *modules.Registry
	Preferences *prefs.ViewModePreference
	Metrics     *metrics.Metrics
	Viewport    Viewport
}

// Controller wires the dashboard components together.
type Controller struct {
	s    sched.Scheduler
	opts Options
	log  *zap.Logger

	registry  *modules.Registry
	workspace *workspace.Workspace
	mode      *viewmode.Machine
	generator *genui.Generator
	toasts    *notify.Emitter
	announcer *notify.Announcer
	checklist *checklist.Checklist
	pref      *prefs.ViewModePreference
	metrics   *metrics.Metrics
	viewport  Viewport

	animator  *anim.Animator
	resize    *sched.ResizeDebouncer
	leftWidth float64

	prompt  string
	overlay bool
	width   int
	height  int
	started bool
}

// New builds a controller in the initial state: empty workspace with its
// dropzone, pre-visit mode, no toasts.
func New(deps Deps, opts Options) *Controller {
	if deps.Scheduler == nil {
		panic("dashboard: nil scheduler")
	}
	reg := deps.Registry
	if reg == nil {
		reg = modules.Default()
	}

	c := &Controller{
		s:         deps.Scheduler,
		opts:      opts,
		log:       logging.Get(logging.CategoryUI),
		registry:  reg,
		pref:      deps.Preferences,
		metrics:   deps.Metrics,
		viewport:  deps.Viewport,
		checklist: checklist.New(opts.ChecklistItems),
		animator:  anim.NewAnimator(deps.Scheduler, sched.FrameInterval),
		resize:    sched.NewResizeDebouncer(deps.Scheduler, opts.ResizeDebounce),
	}

	c.workspace = workspace.New(c.s, workspace.Options{
		RemoveDelay:   opts.CardRemove,
		EnterDuration: opts.CardEnter,
		Logger:        logging.Get(logging.CategoryWorkspace),
		OnRemoved: func(*workspace.Card) {
			c.metrics.CardRemoved(c.workspace.Len())
		},
	})
	c.mode = viewmode.New(c.s, c.workspace, opts.Layout, logging.Get(logging.CategoryViewMode))
	c.mode.OnSwitched(c.onModeSwitched)
	c.mode.OnLayout(c.onLayout)
	c.generator = genui.NewGenerator(c.s, opts.GenerationDelay, logging.Get(logging.CategoryGenUI))
	c.toasts = notify.NewEmitter(c.s, opts.NotifyDisplay, opts.NotifyExit, logging.Get(logging.CategoryNotify))
	c.announcer = notify.NewAnnouncer(c.s, opts.Announce)
	c.leftWidth = float64(c.mode.Layout().LeftWidth)

	return c
}

// SetViewport attaches the host viewport after construction.
func (c *Controller) SetViewport(v Viewport) { c.viewport = v }

// =============================================================================
// LIFECYCLE
// =============================================================================

// Start restores the saved view mode. The restored mode is not written back.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	if c.pref == nil {
		return
	}
	mode, ok := c.pref.Load()
	if !ok || mode == c.mode.Mode() {
		return
	}
	c.log.Info("restoring saved view mode", zap.String("mode", string(mode)))
	if c.mode.Request(mode) {
		c.metrics.ModeSwitched(string(mode))
	}
}

// Close cancels generation and stops every pending timer, toast and
// announcement expiries included.
func (c *Controller) Close() {
	c.generator.Cancel()
	c.mode.Close()
	c.workspace.Close()
	c.animator.CancelAll()
	c.resize.Cancel()
	c.toasts.Close()
	c.announcer.Close()
}

// =============================================================================
// CARDS
// =============================================================================

// AddModule drops a module card at index and ends any drag. The workspace is
// locked while a generation is in flight.
func (c *Controller) AddModule(t modules.Type, index int) (*workspace.Card, error) {
	c.workspace.SetDragActive(false)
	if err := c.checkIdle("add"); err != nil {
		return nil, err
	}
	if !c.registry.Has(t) {
		c.log.Debug("unknown module, using fallback card", zap.String("type", string(t)))
	}
	card := c.workspace.AddFromModule(t, c.registry.Lookup(t), index)
	c.metrics.CardAdded(string(workspace.SourceModule), c.workspace.Len())
	return card, nil
}

// checkIdle rejects workspace edits while the generation overlay is up.
func (c *Controller) checkIdle(op string) error {
	if !c.generator.Busy() {
		return nil
	}
	c.log.Debug("workspace locked while generating", zap.String("op", op))
	return genui.ErrBusy
}

// BeginDrag highlights the dropzone while a module is picked up.
func (c *Controller) BeginDrag() { c.workspace.SetDragActive(true) }

// CancelDrag ends a drag without adding anything.
func (c *Controller) CancelDrag() { c.workspace.SetDragActive(false) }

// RemoveCard starts removing id. Rejected with genui.ErrBusy while generating.
func (c *Controller) RemoveCard(id string) error {
	if err := c.checkIdle("remove"); err != nil {
		return err
	}
	if err := c.workspace.Remove(id); err != nil {
		c.log.Debug("remove ignored", zap.String("card", id), zap.Error(err))
		return err
	}
	return nil
}

// ToggleCard flips id's expansion. A card collapsing near or above the top of
// the viewport is scrolled back into view.
func (c *Controller) ToggleCard(id string) error {
	if err := c.checkIdle("toggle"); err != nil {
		return err
	}
	expanded, err := c.workspace.ToggleExpansion(id)
	if err != nil {
		c.log.Debug("toggle ignored", zap.String("card", id), zap.Error(err))
		return err
	}
	if expanded || c.viewport == nil {
		return nil
	}
	if row, ok := c.viewport.CardOffset(id); ok && row < c.opts.ScrollThreshold {
		c.viewport.ScrollToCard(id)
	}
	return nil
}

// =============================================================================
// PROMPT GENERATION
// =============================================================================

// SetPrompt updates the prompt input text.
func (c *Controller) SetPrompt(text string) {
	if c.overlay {
		return // input disabled while generating
	}
	c.prompt = text
}

// SubmitPrompt starts generation for text, or for the stored prompt when text
// is empty. Blank prompts and overlapping submits are rejected.
func (c *Controller) SubmitPrompt(text string) error {
	if text == "" {
		text = c.prompt
	}
	start := c.s.Now()
	_, err := c.generator.Start(text, func(out genui.Outcome) {
		c.finishGeneration(out, start)
	})
	switch {
	case errors.Is(err, genui.ErrEmptyPrompt):
		c.metrics.GenerationRejectedFor("empty")
		return err
	case errors.Is(err, genui.ErrBusy):
		c.metrics.GenerationRejectedFor("busy")
		return err
	case err != nil:
		return fmt.Errorf("failed to start generation: %w", err)
	}
	c.overlay = true
	return nil
}

// CancelGeneration aborts the in-flight prompt.
func (c *Controller) CancelGeneration() bool {
	return c.generator.Cancel()
}

func (c *Controller) finishGeneration(out genui.Outcome, start time.Time) {
	c.overlay = false
	c.prompt = ""
	if out.Cancelled {
		return
	}
	c.workspace.Prepend(out.Content.Title, out.Content.Content)
	c.metrics.CardAdded(string(workspace.SourcePrompt), c.workspace.Len())
	c.metrics.GenerationDone(string(out.Content.Kind), c.s.Now().Sub(start))
	c.notify(MsgDashboardUpdated, notify.Success)
}

// =============================================================================
// VIEW MODE
// =============================================================================

// SwitchMode requests mode and persists it when the request is accepted.
func (c *Controller) SwitchMode(mode viewmode.Mode) bool {
	if !c.mode.Request(mode) {
		if mode != c.mode.Mode() || c.mode.Transitioning() {
			c.metrics.ModeRequestDropped()
		}
		return false
	}
	c.metrics.ModeSwitched(string(mode))
	if c.pref != nil && c.pref.Save(mode) {
		c.metrics.PreferenceSaved(string(mode))
	}
	return true
}

// ToggleMode switches to the other mode.
func (c *Controller) ToggleMode() bool {
	if c.mode.Mode() == viewmode.Visit {
		return c.SwitchMode(viewmode.PreVisit)
	}
	return c.SwitchMode(viewmode.Visit)
}

// TogglePanel flips the left panel; a no-op outside visit mode.
func (c *Controller) TogglePanel() bool {
	if !c.mode.TogglePanel() {
		return false
	}
	c.metrics.PanelToggled()
	return true
}

// Resize records the terminal size immediately and reselects the layout tier
// once resizing settles.
func (c *Controller) Resize(width, height int) {
	c.width, c.height = width, height
	c.resize.Resize(width, height, func(w, _ int) {
		c.mode.Recompute(w)
	})
}

// ApplyOptions swaps in reloaded layout settings.
func (c *Controller) ApplyOptions(opts Options) {
	c.opts.Layout = opts.Layout
	c.opts.ScrollThreshold = opts.ScrollThreshold
	c.opts.PanelAnimation = opts.PanelAnimation
	c.mode.SetOptions(opts.Layout)
	c.log.Info("layout options reloaded")
}

func (c *Controller) onModeSwitched(mode viewmode.Mode) {
	c.notify("Switched to "+mode.DisplayName(), notify.Success)
	c.announcer.Announce(fmt.Sprintf("Dashboard view changed to %s mode", mode.Label()))
}

func (c *Controller) onLayout(_, next viewmode.Layout) {
	c.animator.Transition(LeftPanelWidth, c.leftWidth, float64(next.LeftWidth), c.opts.PanelAnimation, func(v float64) {
		c.leftWidth = v
	})
}

// =============================================================================
// CHECKLIST AND INTERACTIVE ELEMENTS
// =============================================================================

// ToggleChecklistItem flips row i of the pre-visit checklist.
func (c *Controller) ToggleChecklistItem(i int) error {
	_, err := c.checklist.Toggle(i)
	return err
}

// TriggerAction reports an action button press.
func (c *Controller) TriggerAction(label string) {
	c.notify("Action initiated: "+strings.TrimSpace(label), notify.Info)
}

// OpenDiagnosis reports a diagnosis selection.
func (c *Controller) OpenDiagnosis(name string) {
	c.notify("Opening details for: "+strings.TrimSpace(name), notify.Info)
}

// OpenNotifications reports a notification bell press.
func (c *Controller) OpenNotifications() {
	c.notify(MsgNewNotifications, notify.Info)
}

func (c *Controller) notify(msg string, kind notify.Kind) {
	c.toasts.Emit(msg, kind)
	c.metrics.Notified(string(kind))
}

// =============================================================================
// READ-ONLY STATE FOR RENDERING
// =============================================================================

// Snapshot is what the host needs to draw one frame.
type Snapshot struct {
	Mode          viewmode.Mode
	Panel         viewmode.PanelState
	Transitioning bool
	Layout        viewmode.Layout

	Cards      []workspace.Card
	Dropzone   bool
	DragActive bool

	Prompt  string
	Overlay bool

	Toasts        []notify.Notification
	Announcements []string

	Checklist        []checklist.Item
	ChecklistPercent int
	ChecklistText    string

	Width, Height int
}

// Snapshot returns the current state. Layout.LeftWidth is the animated width.
func (c *Controller) Snapshot() Snapshot {
	layout := c.mode.Layout()
	layout.LeftWidth = int(math.Round(c.leftWidth))

	cards := c.workspace.Cards()
	out := make([]workspace.Card, len(cards))
	for i, card := range cards {
		out[i] = *card
	}

	return Snapshot{
		Mode:             c.mode.Mode(),
		Panel:            c.mode.Panel(),
		Transitioning:    c.mode.Transitioning(),
		Layout:           layout,
		Cards:            out,
		Dropzone:         c.workspace.HasDropzone(),
		DragActive:       c.workspace.DragActive(),
		Prompt:           c.prompt,
		Overlay:          c.overlay,
		Toasts:           c.toasts.Active(),
		Announcements:    c.announcer.Messages(),
		Checklist:        c.checklist.Items(),
		ChecklistPercent: c.checklist.Percent(),
		ChecklistText:    c.checklist.ProgressText(),
		Width:            c.width,
		Height:           c.height,
	}
}

// Registry returns the module registry backing the source list.
func (c *Controller) Registry() *modules.Registry { return c.registry }

// Mode returns the current view mode.
func (c *Controller) Mode() viewmode.Mode { return c.mode.Mode() }

// Overlay reports whether a generation is in flight.
func (c *Controller) Overlay() bool { return c.overlay }

// Prompt returns the prompt input text.
func (c *Controller) Prompt() string { return c.prompt }

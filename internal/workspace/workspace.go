// Package workspace manages the ordered set of cards the user is composing.
//
// The workspace keeps one invariant: it shows the dropzone placeholder exactly
// when it holds no cards. Every insertion removes the placeholder; every
// completed removal re-checks emptiness and restores it.
package workspace

import (
	"errors"
	"time"

	"medboard/internal/modules"
	"medboard/internal/sched"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultRemoveDelay matches the card exit animation.
	DefaultRemoveDelay = 300 * time.Millisecond
	// DefaultEnterDuration matches the card entry animation.
	DefaultEnterDuration = 300 * time.Millisecond
)

var (
	// ErrCardNotFound is returned for ids that are not (or no longer) in the workspace.
	ErrCardNotFound = errors.New("workspace: card not found")
	// ErrCardRemoving is returned for cards that are already animating out.
	ErrCardRemoving = errors.New("workspace: card is being removed")
)

// Source records how a card entered the workspace.
type Source string

const (
	SourceModule Source = "module"
	SourcePrompt Source = "prompt"
)

// State is a card's lifecycle stage.
type State int

const (
	StatePresent State = iota
	StateRemoving
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateRemoving:
		return "removing"
	case StateAbsent:
		return "absent"
	}
	return "unknown"
}

// Card is a workspace card. Cards are owned by the workspace; callers should
// treat returned cards as read-only and go through Workspace methods to change them.
type Card struct {
	ID        string
	Module    modules.Type
	Source    Source
	Title     string
	Content   string
	Expanded  bool
	Entering  bool
	State     State
	CreatedAt time.Time
}

// Options tune workspace timing.
type Options struct {
	RemoveDelay   time.Duration
	EnterDuration time.Duration
	Logger        *zap.Logger
	// OnRemoved is called once a removed card has been detached.
	OnRemoved func(*Card)
}

// Workspace is the ordered card container.
type Workspace struct {
	s        sched.Scheduler
	timers   *sched.Group
	opts     Options
	log      *zap.Logger
	cards    []*Card
	dropzone bool
	dragging bool
}

// New creates an empty workspace showing its dropzone.
func New(s sched.Scheduler, opts Options) *Workspace {
	if opts.RemoveDelay <= 0 {
		opts.RemoveDelay = DefaultRemoveDelay
	}
	if opts.EnterDuration <= 0 {
		opts.EnterDuration = DefaultEnterDuration
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Workspace{s: s, timers: sched.NewGroup(s), opts: opts, log: log, dropzone: true}
}

// AddFromModule inserts an expanded card built from tpl at index. Indexes
// outside the card list are clamped, so any index ≥ Len appends.
func (w *Workspace) AddFromModule(t modules.Type, tpl modules.CardTemplate, index int) *Card {
	c := w.newCard(SourceModule, tpl.Title, tpl.Content)
	c.Module = t
	w.insert(c, index)
	w.log.Info("card added from module",
		zap.String("card", c.ID), zap.String("module", string(t)), zap.Int("index", w.IndexOf(c.ID)))
	return c
}

// Prepend inserts a generated card at the front of the workspace.
func (w *Workspace) Prepend(title, content string) *Card {
	c := w.newCard(SourcePrompt, title, content)
	w.insert(c, 0)
	w.log.Info("card added from prompt", zap.String("card", c.ID), zap.String("title", title))
	return c
}

func (w *Workspace) newCard(src Source, title, content string) *Card {
	return &Card{
		ID:        uuid.NewString(),
		Source:    src,
		Title:     title,
		Content:   content,
		Expanded:  true,
		State:     StatePresent,
		CreatedAt: w.s.Now(),
	}
}

func (w *Workspace) insert(c *Card, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(w.cards) {
		index = len(w.cards)
	}
	w.cards = append(w.cards, nil)
	copy(w.cards[index+1:], w.cards[index:])
	w.cards[index] = c
	w.dropzone = false

	c.Entering = true
	w.timers.Replace("enter:"+c.ID, w.opts.EnterDuration, func() {
		c.Entering = false
	})
}

// Remove starts the exit animation for id and detaches the card once it ends.
func (w *Workspace) Remove(id string) error {
	c, err := w.present(id)
	if err != nil {
		return err
	}
	c.State = StateRemoving
	w.log.Debug("card removing", zap.String("card", id))
	w.timers.Cancel("enter:" + id)
	c.Entering = false
	w.timers.Replace("remove:"+id, w.opts.RemoveDelay, func() {
		w.detach(c)
	})
	return nil
}

func (w *Workspace) detach(c *Card) {
	for i, cur := range w.cards {
		if cur == c {
			w.cards = append(w.cards[:i], w.cards[i+1:]...)
			break
		}
	}
	c.State = StateAbsent
	w.log.Info("card removed", zap.String("card", c.ID), zap.String("title", c.Title))
	w.checkEmpty()
	if w.opts.OnRemoved != nil {
		w.opts.OnRemoved(c)
	}
}

// checkEmpty restores the dropzone when the last card has gone.
func (w *Workspace) checkEmpty() {
	if len(w.cards) == 0 && !w.dropzone {
		w.dropzone = true
		w.log.Debug("workspace empty, dropzone restored")
	}
}

// ToggleExpansion flips a present card's expanded flag and returns the new value.
func (w *Workspace) ToggleExpansion(id string) (bool, error) {
	c, err := w.present(id)
	if err != nil {
		return false, err
	}
	c.Expanded = !c.Expanded
	return c.Expanded, nil
}

// SetAllExpanded sets the expanded flag on every card still in the workspace.
func (w *Workspace) SetAllExpanded(expanded bool) {
	for _, c := range w.cards {
		c.Expanded = expanded
	}
}

func (w *Workspace) present(id string) (*Card, error) {
	c := w.Get(id)
	if c == nil {
		return nil, ErrCardNotFound
	}
	if c.State == StateRemoving {
		return nil, ErrCardRemoving
	}
	return c, nil
}

// Get returns the card with id, or nil.
func (w *Workspace) Get(id string) *Card {
	for _, c := range w.cards {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// IndexOf returns the position of id, or -1.
func (w *Workspace) IndexOf(id string) int {
	for i, c := range w.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Cards returns the attached cards in order, including ones animating out.
func (w *Workspace) Cards() []*Card {
	out := make([]*Card, len(w.cards))
	copy(out, w.cards)
	return out
}

// Len returns the number of attached cards.
func (w *Workspace) Len() int { return len(w.cards) }

// HasDropzone reports whether the placeholder is shown.
func (w *Workspace) HasDropzone() bool { return w.dropzone }

// SetDragActive marks a drag in progress so the dropzone can highlight itself.
func (w *Workspace) SetDragActive(active bool) { w.dragging = active }

// DragActive reports whether a drag is in progress.
func (w *Workspace) DragActive() bool { return w.dragging }

// Close stops pending entry and removal timers. Cards mid-removal stay attached.
func (w *Workspace) Close() {
	w.timers.CancelAll()
}

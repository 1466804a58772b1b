// Package notify holds the transient toast notifications and the assistive
// status-line announcements.
package notify

import (
	"strconv"
	"time"

	"medboard/internal/sched"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultDisplay  = 3 * time.Second
	DefaultExit     = 300 * time.Millisecond
	DefaultAnnounce = time.Second
)

// Kind selects the toast styling.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
)

// Notification is one toast.
type Notification struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
	Leaving   bool
}

// Emitter keeps the visible toasts in insertion order.
type Emitter struct {
	s       sched.Scheduler
	timers  *sched.Group
	display time.Duration
	exit    time.Duration
	log     *zap.Logger
	items   []*Notification
}

// NewEmitter creates an emitter. Zero durations use the defaults.
func NewEmitter(s sched.Scheduler, display, exit time.Duration, log *zap.Logger) *Emitter {
	if display <= 0 {
		display = DefaultDisplay
	}
	if exit <= 0 {
		exit = DefaultExit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{s: s, timers: sched.NewGroup(s), display: display, exit: exit, log: log}
}

// Emit shows message for the display period, then lets it leave.
func (e *Emitter) Emit(message string, kind Kind) *Notification {
	n := &Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: e.s.Now(),
	}
	e.items = append(e.items, n)
	e.log.Info("notification", zap.String("kind", string(kind)), zap.String("message", message))

	e.timers.Replace(n.ID, e.display, func() {
		n.Leaving = true
		e.timers.Replace(n.ID, e.exit, func() {
			e.remove(n)
		})
	})
	return n
}

func (e *Emitter) remove(n *Notification) {
	for i, cur := range e.items {
		if cur == n {
			e.items = append(e.items[:i], e.items[i+1:]...)
			break
		}
	}
}

// Active returns the visible toasts, oldest first.
func (e *Emitter) Active() []Notification {
	out := make([]Notification, 0, len(e.items))
	for _, n := range e.items {
		out = append(out, *n)
	}
	return out
}

// Close stops every toast timer and drops the visible toasts.
func (e *Emitter) Close() {
	e.timers.CancelAll()
	e.items = nil
}

// Announcement is a status-line message for assistive output.
type Announcement struct {
	Text      string
	CreatedAt time.Time
}

// Announcer keeps short-lived status-line messages.
type Announcer struct {
	timers *sched.Group
	s      sched.Scheduler
	ttl    time.Duration
	items  []*Announcement
	seq    uint64
}

// NewAnnouncer creates an announcer; a zero ttl uses DefaultAnnounce.
func NewAnnouncer(s sched.Scheduler, ttl time.Duration) *Announcer {
	if ttl <= 0 {
		ttl = DefaultAnnounce
	}
	return &Announcer{timers: sched.NewGroup(s), s: s, ttl: ttl}
}

// Announce publishes text until the ttl elapses.
func (a *Announcer) Announce(text string) {
	ann := &Announcement{Text: text, CreatedAt: a.s.Now()}
	a.items = append(a.items, ann)
	a.seq++
	a.timers.Replace(strconv.FormatUint(a.seq, 10), a.ttl, func() {
		for i, cur := range a.items {
			if cur == ann {
				a.items = append(a.items[:i], a.items[i+1:]...)
				break
			}
		}
	})
}

// Messages returns the live announcement texts, oldest first.
func (a *Announcer) Messages() []string {
	out := make([]string, 0, len(a.items))
	for _, ann := range a.items {
		out = append(out, ann.Text)
	}
	return out
}

// Close stops every expiry timer and clears the status line.
func (a *Announcer) Close() {
	a.timers.CancelAll()
	a.items = nil
}

package genui

import (
	"errors"
	"strings"
	"time"

	"medboard/internal/sched"

	"go.uber.org/zap"
)

// DefaultDelay is the simulated processing time for a prompt.
const DefaultDelay = 1500 * time.Millisecond

var (
	// ErrEmptyPrompt is returned for prompts that are blank after trimming.
	ErrEmptyPrompt = errors.New("genui: empty prompt")
	// ErrBusy is returned while another generation is in flight.
	ErrBusy = errors.New("genui: generation already in progress")
)

// Outcome is passed to a task's completion callback.
type Outcome struct {
	Prompt    string
	Content   Content
	Cancelled bool
}

// Task is one in-flight generation.
type Task struct {
	ID     uint64
	Prompt string
	timer  sched.Timer
}

// Generator runs at most one simulated generation at a time.
type Generator struct {
	s       sched.Scheduler
	delay   time.Duration
	log     *zap.Logger
	seq     uint64
	current *Task
	done    func(Outcome)
}

// NewGenerator creates a generator with the given simulated delay.
func NewGenerator(s sched.Scheduler, delay time.Duration, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{s: s, delay: delay, log: log}
}

// Start trims prompt and schedules its resolution. done runs exactly once,
// either with the resolved content after the delay or with Cancelled set.
func (g *Generator) Start(prompt string, done func(Outcome)) (*Task, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if g.current != nil {
		g.log.Debug("generation rejected while busy", zap.Uint64("in_flight", g.current.ID))
		return nil, ErrBusy
	}

	g.seq++
	task := &Task{ID: g.seq, Prompt: prompt}
	g.current = task
	g.done = done
	task.timer = g.s.After(g.delay, func() {
		if g.current != task {
			return
		}
		g.finish(Outcome{Prompt: prompt, Content: Resolve(prompt)})
	})

	g.log.Debug("generation started", zap.Uint64("task", task.ID), zap.String("kind", string(Classify(prompt))))
	return task, nil
}

// Cancel aborts the in-flight task, if any. It reports whether a task was cancelled.
func (g *Generator) Cancel() bool {
	task := g.current
	if task == nil {
		return false
	}
	task.timer.Stop()
	g.log.Debug("generation cancelled", zap.Uint64("task", task.ID))
	g.finish(Outcome{Prompt: task.Prompt, Cancelled: true})
	return true
}

// Busy reports whether a generation is in flight.
func (g *Generator) Busy() bool {
	return g.current != nil
}

func (g *Generator) finish(out Outcome) {
	done := g.done
	g.current = nil
	g.done = nil
	if done != nil {
		done(out)
	}
}

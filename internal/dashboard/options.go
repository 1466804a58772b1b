package dashboard

import (
	"time"

	"medboard/internal/checklist"
	"medboard/internal/config"
	"medboard/internal/viewmode"
)

// Options carries every tunable the controller passes to its components.
type Options struct {
	Layout viewmode.Options

	GenerationDelay time.Duration
	CardEnter       time.Duration
	CardRemove      time.Duration
	PanelAnimation  time.Duration
	NotifyDisplay   time.Duration
	NotifyExit      time.Duration
	Announce        time.Duration
	ResizeDebounce  time.Duration

	// ScrollThreshold is the row offset from the workspace viewport top
	// below which a collapsed card is scrolled back into view.
	ScrollThreshold int

	ChecklistItems []string
}

// DefaultOptions mirrors config.DefaultConfig.
func DefaultOptions() Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// OptionsFromConfig converts a loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	t := cfg.Timings
	l := cfg.Layout

	items := cfg.Checklist.Items
	if len(items) == 0 {
		items = checklist.DefaultItems
	}

	return Options{
		Layout: viewmode.Options{
			PreVisitLeft:    l.PreVisitLeft,
			PreVisitRight:   l.PreVisitRight,
			CollapsedLeft:   l.CollapsedLeft,
			ExpandedLeft:    l.ExpandedLeft,
			RightNarrow:     l.RightNarrow,
			RightMedium:     l.RightMedium,
			RightWide:       l.RightWide,
			NarrowCutoff:    l.NarrowCutoff,
			MediumCutoff:    l.MediumCutoff,
			TransitionDelay: t.ModeTransitionDelay(),
		},
		GenerationDelay: t.GenerationDelay(),
		CardEnter:       t.CardEnterDuration(),
		CardRemove:      t.CardRemoveDelay(),
		PanelAnimation:  t.PanelAnimationDuration(),
		NotifyDisplay:   t.NotificationDisplayDuration(),
		NotifyExit:      t.NotificationExitDuration(),
		Announce:        t.AnnouncementDuration(),
		ResizeDebounce:  t.ResizeDebounceDuration(),
		ScrollThreshold: l.ScrollThreshold,
		ChecklistItems:  items,
	}
}

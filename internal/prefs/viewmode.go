package prefs

import (
	"medboard/internal/viewmode"

	"go.uber.org/zap"
)

// ViewModeKey is the store key for the persisted view mode.
const ViewModeKey = "medicalDashboardViewMode"

// ViewModePreference reads and writes the view mode. Failures are logged and
// swallowed; the dashboard works the same without persistence.
type ViewModePreference struct {
	store Store
	log   *zap.Logger
}

// NewViewModePreference wraps store.
func NewViewModePreference(store Store, log *zap.Logger) *ViewModePreference {
	if log == nil {
		log = zap.NewNop()
	}
	return &ViewModePreference{store: store, log: log}
}

// Save writes mode and reports whether the store accepted it. Failures are
// logged, not returned.
func (p *ViewModePreference) Save(mode viewmode.Mode) bool {
	if err := p.store.SetItem(ViewModeKey, string(mode)); err != nil {
		p.log.Warn("failed to save view mode preference", zap.String("mode", string(mode)), zap.Error(err))
		return false
	}
	p.log.Debug("view mode preference saved", zap.String("mode", string(mode)))
	return true
}

// Load returns the stored mode. Missing, invalid and unreadable values all
// report ok=false.
func (p *ViewModePreference) Load() (viewmode.Mode, bool) {
	raw, ok, err := p.store.GetItem(ViewModeKey)
	if err != nil {
		p.log.Warn("failed to load view mode preference", zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	mode, valid := viewmode.ParseMode(raw)
	if !valid {
		p.log.Warn("ignoring invalid view mode preference", zap.String("value", raw))
		return "", false
	}
	return mode, true
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the per-workspace state directory.
const DirName = ".medboard"

// Config holds all medboard configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Animation and simulated-processing timings
	Timings TimingsConfig `yaml:"timings"`

	// Panel widths in terminal columns
	Layout LayoutConfig `yaml:"layout"`

	// View mode persistence
	Preferences PreferencesConfig `yaml:"preferences"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Pre-visit checklist
	Checklist ChecklistConfig `yaml:"checklist"`

	// Prometheus endpoint
	Metrics MetricsConfig `yaml:"metrics"`
}

// TimingsConfig holds durations as Go duration strings.
type TimingsConfig struct {
	Generation          string `yaml:"generation"`
	CardEnter           string `yaml:"card_enter"`
	CardRemove          string `yaml:"card_remove"`
	ModeTransition      string `yaml:"mode_transition"`
	PanelAnimation      string `yaml:"panel_animation"`
	NotificationDisplay string `yaml:"notification_display"`
	NotificationExit    string `yaml:"notification_exit"`
	Announcement        string `yaml:"announcement"`
	ResizeDebounce      string `yaml:"resize_debounce"`
}

// LayoutConfig holds panel widths and the responsive cutoffs.
type LayoutConfig struct {
	PreVisitLeft  int `yaml:"pre_visit_left"`
	PreVisitRight int `yaml:"pre_visit_right"`

	CollapsedLeft int `yaml:"collapsed_left"`
	ExpandedLeft  int `yaml:"expanded_left"`

	RightNarrow  int `yaml:"right_narrow"`
	RightMedium  int `yaml:"right_medium"`
	RightWide    int `yaml:"right_wide"`
	NarrowCutoff int `yaml:"narrow_cutoff"`
	MediumCutoff int `yaml:"medium_cutoff"`

	// Rows from the top of the workspace viewport before a collapsed card is
	// scrolled back into view.
	ScrollThreshold int `yaml:"scroll_threshold"`
}

// PreferencesConfig selects the preference store.
type PreferencesConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, memory
	Dir     string `yaml:"dir"`     // empty = <workspace>/.medboard
}

// UIConfig configures the terminal UI.
type UIConfig struct {
	Theme          string `yaml:"theme"` // auto, light, dark
	RenderCacheTTL string `yaml:"render_cache_ttl"`
	ShowHelp       bool   `yaml:"show_help"`
}

// ChecklistConfig lists the pre-visit checklist rows.
type ChecklistConfig struct {
	Items []string `yaml:"items"`
}

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty = disabled
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "medboard",
		Version: "1.0.0",

		Timings: TimingsConfig{
			Generation:          "1500ms",
			CardEnter:           "300ms",
			CardRemove:          "300ms",
			ModeTransition:      "600ms",
			PanelAnimation:      "300ms",
			NotificationDisplay: "3s",
			NotificationExit:    "300ms",
			Announcement:        "1s",
			ResizeDebounce:      "250ms",
		},

		Layout: LayoutConfig{
			PreVisitLeft:    28,
			PreVisitRight:   36,
			CollapsedLeft:   6,
			ExpandedLeft:    36,
			RightNarrow:     32,
			RightMedium:     36,
			RightWide:       40,
			NarrowCutoff:    140,
			MediumCutoff:    160,
			ScrollThreshold: 3,
		},

		Preferences: PreferencesConfig{
			Backend: "file",
		},

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},

		UI: UIConfig{
			Theme:          "auto",
			RenderCacheTTL: "10m",
			ShowHelp:       true,
		},

		Checklist: ChecklistConfig{
			Items: []string{
				"Review recent lab results",
				"Reconcile medication list",
				"Check imaging reports",
				"Confirm allergies",
				"Update problem list",
			},
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if backend := os.Getenv("MEDBOARD_PREFS_BACKEND"); backend != "" {
		c.Preferences.Backend = strings.ToLower(strings.TrimSpace(backend))
	}
	if v, ok := envBool("MEDBOARD_DEBUG"); ok {
		c.Logging.DebugMode = v
		if v {
			c.Logging.Level = "debug"
		}
	}
	if v, ok := envBool("MEDBOARD_DARK_MODE"); ok {
		if v {
			c.UI.Theme = "dark"
		} else {
			c.UI.Theme = "light"
		}
	}
	if addr := os.Getenv("MEDBOARD_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}
}

func envBool(name string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

// GenerationDelay returns the simulated prompt processing time.
func (t TimingsConfig) GenerationDelay() time.Duration {
	return parseDuration(t.Generation, 1500*time.Millisecond)
}

// CardEnterDuration returns the card entry animation length.
func (t TimingsConfig) CardEnterDuration() time.Duration {
	return parseDuration(t.CardEnter, 300*time.Millisecond)
}

// CardRemoveDelay returns the card exit animation length.
func (t TimingsConfig) CardRemoveDelay() time.Duration {
	return parseDuration(t.CardRemove, 300*time.Millisecond)
}

// ModeTransitionDelay returns how long a view mode transition stays in flight.
func (t TimingsConfig) ModeTransitionDelay() time.Duration {
	return parseDuration(t.ModeTransition, 600*time.Millisecond)
}

// PanelAnimationDuration returns the left panel width transition length.
func (t TimingsConfig) PanelAnimationDuration() time.Duration {
	return parseDuration(t.PanelAnimation, 300*time.Millisecond)
}

// NotificationDisplayDuration returns how long a toast stays fully visible.
func (t TimingsConfig) NotificationDisplayDuration() time.Duration {
	return parseDuration(t.NotificationDisplay, 3*time.Second)
}

// NotificationExitDuration returns the toast exit animation length.
func (t TimingsConfig) NotificationExitDuration() time.Duration {
	return parseDuration(t.NotificationExit, 300*time.Millisecond)
}

// AnnouncementDuration returns how long a status-line announcement lives.
func (t TimingsConfig) AnnouncementDuration() time.Duration {
	return parseDuration(t.Announcement, time.Second)
}

// ResizeDebounceDuration returns the window resize debounce.
func (t TimingsConfig) ResizeDebounceDuration() time.Duration {
	return parseDuration(t.ResizeDebounce, 250*time.Millisecond)
}

// GetRenderCacheTTL returns how long rendered card markdown is cached.
func (c *Config) GetRenderCacheTTL() time.Duration {
	return parseDuration(c.UI.RenderCacheTTL, 10*time.Minute)
}

// ValidBackends lists all supported preference backends.
var ValidBackends = []string{"file", "sqlite", "memory"}

// ValidThemes lists all supported theme settings.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !contains(ValidBackends, c.Preferences.Backend) {
		return fmt.Errorf("invalid preferences backend: %s (valid: %v)", c.Preferences.Backend, ValidBackends)
	}
	if c.UI.Theme != "" && !contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("invalid ui theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	l := c.Layout
	for name, w := range map[string]int{
		"pre_visit_left":  l.PreVisitLeft,
		"pre_visit_right": l.PreVisitRight,
		"collapsed_left":  l.CollapsedLeft,
		"expanded_left":   l.ExpandedLeft,
		"right_narrow":    l.RightNarrow,
		"right_medium":    l.RightMedium,
		"right_wide":      l.RightWide,
	} {
		if w <= 0 {
			return fmt.Errorf("layout.%s must be positive, got %d", name, w)
		}
	}
	if l.ExpandedLeft <= l.CollapsedLeft {
		return fmt.Errorf("layout.expanded_left (%d) must exceed layout.collapsed_left (%d)", l.ExpandedLeft, l.CollapsedLeft)
	}
	if l.NarrowCutoff <= 0 || l.MediumCutoff <= l.NarrowCutoff {
		return fmt.Errorf("layout cutoffs must satisfy 0 < narrow_cutoff < medium_cutoff, got %d/%d", l.NarrowCutoff, l.MediumCutoff)
	}
	if l.ScrollThreshold < 0 {
		return fmt.Errorf("layout.scroll_threshold must not be negative, got %d", l.ScrollThreshold)
	}

	t := c.Timings
	for name, s := range map[string]string{
		"generation":           t.Generation,
		"card_enter":           t.CardEnter,
		"card_remove":          t.CardRemove,
		"mode_transition":      t.ModeTransition,
		"panel_animation":      t.PanelAnimation,
		"notification_display": t.NotificationDisplay,
		"notification_exit":    t.NotificationExit,
		"announcement":         t.Announcement,
		"resize_debounce":      t.ResizeDebounce,
	} {
		if s == "" {
			continue
		}
		if _, err := time.ParseDuration(s); err != nil {
			return fmt.Errorf("invalid timings.%s: %w", name, err)
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// WORKSPACE PATHS
// =============================================================================

// FindWorkspaceRoot attempts to find the project root by looking for .medboard or go.mod.
// If not found, returns the current working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DirName)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}

// Path returns <workspace>/.medboard/config.yaml.
func Path(workspace string) string {
	return filepath.Join(workspace, DirName, "config.yaml")
}

// LogsDir returns <workspace>/.medboard/logs.
func LogsDir(workspace string) string {
	return filepath.Join(workspace, DirName, "logs")
}

// PreferencesDir returns the directory holding the preference store.
func (c *Config) PreferencesDir(workspace string) string {
	if c.Preferences.Dir != "" {
		return c.Preferences.Dir
	}
	return filepath.Join(workspace, DirName)
}

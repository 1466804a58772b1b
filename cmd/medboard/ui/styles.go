// Package ui holds the visual styling shared by the dashboard views.
// Colors come in a light and a dark variant; DetectTheme picks one.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Clinical palette.
var (
	LightBackground = lipgloss.Color("#f7f9fb")
	LightForeground = lipgloss.Color("#1b2a3a")
	LightPrimary    = lipgloss.Color("#0b5cad") // Clinic blue
	LightAccent     = lipgloss.Color("#14a38b") // Teal
	LightSecondary  = lipgloss.Color("#e3e9ef")
	LightMuted      = lipgloss.Color("#8a97a5")
	LightBorder     = lipgloss.Color("#cdd6df")
	LightCard       = lipgloss.Color("#ffffff")

	DarkBackground = lipgloss.Color("#111a24")
	DarkForeground = lipgloss.Color("#eef2f6")
	DarkPrimary    = lipgloss.Color("#5aa9f5")
	DarkAccent     = lipgloss.Color("#3fd1b5")
	DarkSecondary  = lipgloss.Color("#1c2836")
	DarkMuted      = lipgloss.Color("#6c7a89")
	DarkBorder     = lipgloss.Color("#2b3a4b")
	DarkCard       = lipgloss.Color("#172230")

	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme resolves the configured theme name. "light" and "dark" are
// taken as-is; anything else asks the terminal for its background.
func DetectTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}
	if lipgloss.HasDarkBackground() {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles contains every lipgloss style the dashboard renders with.
type Styles struct {
	Theme Theme

	Header    lipgloss.Style
	ModeBadge lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Bold      lipgloss.Style

	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelFocus  lipgloss.Style
	ModuleItem  lipgloss.Style
	ModuleFocus lipgloss.Style

	Card         lipgloss.Style
	CardEntering lipgloss.Style
	CardRemoving lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style

	Dropzone       lipgloss.Style
	DropzoneActive lipgloss.Style

	Overlay lipgloss.Style
	Spinner lipgloss.Style
	Prompt  lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastLeaving lipgloss.Style

	CheckDone    lipgloss.Style
	CheckPending lipgloss.Style
	ProgressBar  lipgloss.Style

	StatusLine lipgloss.Style
	Error      lipgloss.Style
	Divider    lipgloss.Style
}

// NewStyles creates styles for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		ModeBadge: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, PanelPaddingH),

		PanelTitle: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		PanelFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, PanelPaddingH),

		ModuleItem: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(1),

		ModuleFocus: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),

		Card: lipgloss.NewStyle().
			Background(theme.Card).
			Foreground(theme.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		CardEntering: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(0, 1),

		CardRemoving: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Muted).
			Padding(0, 1),

		CardSelected: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary).
			Padding(0, 1),

		CardTitle: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Dropzone: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			Align(lipgloss.Center).
			Padding(1, 2),

		DropzoneActive: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(theme.Accent).
			Align(lipgloss.Center).
			Padding(1, 2),

		Overlay: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 3),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		ToastInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Info).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Success).
			Padding(0, 1),

		ToastLeaving: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true).
			Padding(0, 1),

		CheckDone: lipgloss.NewStyle().
			Foreground(Success).
			Strikethrough(true),

		CheckPending: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		ProgressBar: lipgloss.NewStyle().
			Foreground(theme.Accent),

		StatusLine: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme("auto"))
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}

// RenderProgress draws a fixed-width bar for percent in [0,100].
func (s Styles) RenderProgress(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return s.ProgressBar.Render(strings.Repeat("█", filled)) +
		s.Muted.Render(strings.Repeat("░", width-filled))
}

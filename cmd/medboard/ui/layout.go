package ui

// Layout constants for panel sizing, in terminal cells.
const (
	PanelBorderWidth = 1
	PanelPaddingH    = 1

	HeaderHeight    = 2
	StatusBarHeight = 1
	HelpHeight      = 1

	// Center column never shrinks below this; narrower terminals overflow
	// on the right rather than squeezing the workspace.
	MinCenterWidth = 30
	// Used before the first WindowSizeMsg arrives.
	DefaultCenterWidth = 80

	MinimumTerminalWidth  = 80
	MinimumTerminalHeight = 24
)

// Columns splits total into the left panel, the workspace and the right
// panel. A non-positive total means the terminal size is not known yet.
func Columns(total, left, right int) (l, center, r int) {
	left = max(left, 0)
	right = max(right, 0)
	if total <= 0 {
		return left, DefaultCenterWidth, right
	}
	center = total - left - right
	if center < MinCenterWidth {
		center = MinCenterWidth
	}
	return left, center, right
}

// PanelContentWidth returns the content width inside a bordered panel.
func PanelContentWidth(panelWidth int) int {
	return max(panelWidth-(PanelBorderWidth*2)-(PanelPaddingH*2), 0)
}

// BodyHeight returns the rows left for the three columns once the header,
// status line and help line are drawn.
func BodyHeight(total int) int {
	return max(total-HeaderHeight-StatusBarHeight-HelpHeight, 1)
}

// IsCramped reports whether the terminal is below the supported minimum.
func IsCramped(width, height int) bool {
	return width > 0 && height > 0 && (width < MinimumTerminalWidth || height < MinimumTerminalHeight)
}

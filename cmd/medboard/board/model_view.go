package board

import (
	"fmt"
	"strings"

	"medboard/cmd/medboard/ui"
	"medboard/internal/dashboard"
	"medboard/internal/notify"
	"medboard/internal/viewmode"
	"medboard/internal/workspace"

	"github.com/charmbracelet/lipgloss"
)

const (
	dropzoneText = "➕ Drop modules here to add to workspace"
	dropMarker   = "▶ drop here"
	overlayText  = "Generating UI components..."
)

// rightItem is one selectable row in the right panel.
type rightItem struct {
	label   string
	section string
	done    bool
	command dashboard.Command
}

// rightItems lists the right panel rows: the checklist in pre-visit mode,
// quick actions and diagnoses in visit mode.
func (m Model) rightItems(snap dashboard.Snapshot) []rightItem {
	var items []rightItem
	if snap.Mode == viewmode.PreVisit {
		for i, it := range snap.Checklist {
			items = append(items, rightItem{
				label:   it.Label,
				section: "Pre-Visit Checklist",
				done:    it.Done,
				command: dashboard.ToggleChecklistItem{Index: i},
			})
		}
		return items
	}
	for _, a := range QuickActions {
		items = append(items, rightItem{label: a, section: "Quick Actions", command: dashboard.TriggerAction{Label: a}})
	}
	for _, d := range Diagnoses {
		items = append(items, rightItem{label: d, section: "Diagnoses", command: dashboard.OpenDiagnosis{Name: d}})
	}
	return items
}

// View renders the whole dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	snap := m.ctrl.Snapshot()
	left, center, right := ui.Columns(m.width, snap.Layout.LeftWidth, snap.Layout.RightWidth)
	body := ui.BodyHeight(m.height)
	if m.height <= 0 {
		body = m.workspaceHeight() + promptHeight
	}

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderLeft(snap, left, body),
		m.renderCenter(snap, center, body),
		m.renderRight(snap, right, body),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap),
		columns,
		m.renderStatus(snap),
		m.help.View(m.keys),
	)
}

func (m Model) renderHeader(snap dashboard.Snapshot) string {
	title := m.styles.Header.Render("Medical Dashboard")
	badge := m.styles.ModeBadge.Render(snap.Mode.DisplayName())
	parts := []string{title, badge}
	if snap.Transitioning {
		parts = append(parts, m.styles.Subtitle.Render("switching…"))
	}
	if ui.IsCramped(m.width, m.height) {
		parts = append(parts, m.styles.Error.Render(
			fmt.Sprintf("terminal below %dx%d", ui.MinimumTerminalWidth, ui.MinimumTerminalHeight)))
	}
	return strings.Join(parts, "  ") + "\n" + m.styles.RenderDivider(max(m.width, 0))
}

func (m Model) panelStyle(p pane) lipgloss.Style {
	if m.focus == p {
		return m.styles.PanelFocus
	}
	return m.styles.Panel
}

func (m Model) renderLeft(snap dashboard.Snapshot, width, height int) string {
	if width <= 0 {
		return ""
	}
	inner := ui.PanelContentWidth(width)
	// Too narrow for labels: icons only.
	iconsOnly := inner < 12

	var b strings.Builder
	if !iconsOnly {
		b.WriteString(m.styles.PanelTitle.Render("Modules"))
		b.WriteString("\n")
	}
	for i, mod := range m.ctrl.Registry().Modules() {
		label := mod.Icon
		if !iconsOnly {
			label = fmt.Sprintf("%s %s", mod.Icon, mod.Title)
		}
		style := m.styles.ModuleItem
		if m.focus == paneModules && i == m.moduleCursor {
			style = m.styles.ModuleFocus
		}
		if m.picked == mod.Type {
			label += " ✋"
		}
		b.WriteString(style.MaxWidth(max(inner, 1)).Render(label))
		b.WriteString("\n")
	}
	if !iconsOnly && snap.Mode == viewmode.Visit {
		b.WriteString(m.styles.Muted.Render(snap.Panel.String()))
	}

	return m.panelStyle(paneModules).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		MaxHeight(height).
		Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderCenter(snap dashboard.Snapshot, width, height int) string {
	var top string
	if snap.Overlay {
		box := m.styles.Overlay.Render(m.spinner.View() + " " + overlayText + "\n" +
			m.styles.Muted.Render("esc to cancel"))
		top = lipgloss.Place(width, m.workspaceHeight(), lipgloss.Center, lipgloss.Center, box)
	} else {
		top = m.cards.vp.View()
	}

	input := m.input.View()
	prompt := m.panelStyle(panePrompt).
		Width(max(width-2, 0)).
		Render(lipgloss.NewStyle().MaxWidth(max(ui.PanelContentWidth(width), 1)).Render(input))

	return lipgloss.NewStyle().
		Width(width).
		MaxHeight(height).
		Render(lipgloss.JoinVertical(lipgloss.Left, top, prompt))
}

func (m Model) renderRight(snap dashboard.Snapshot, width, height int) string {
	if width <= 0 {
		return ""
	}
	inner := ui.PanelContentWidth(width)
	items := m.rightItems(snap)

	var b strings.Builder
	section := ""
	for i, it := range items {
		if it.section != section {
			if section != "" {
				b.WriteString("\n")
			}
			section = it.section
			b.WriteString(m.styles.PanelTitle.Render(section))
			b.WriteString("\n")
			if snap.Mode == viewmode.PreVisit {
				b.WriteString(m.styles.RenderProgress(snap.ChecklistPercent, max(inner-5, 1)))
				b.WriteString(fmt.Sprintf(" %3d%%\n", snap.ChecklistPercent))
				b.WriteString(m.styles.Muted.Render(snap.ChecklistText))
				b.WriteString("\n")
			}
		}

		label := it.label
		style := m.styles.Body
		if snap.Mode == viewmode.PreVisit {
			box := "[ ]"
			style = m.styles.CheckPending
			if it.done {
				box = "[x]"
				style = m.styles.CheckDone
			}
			label = box + " " + label
		}
		if m.focus == paneRight && i == m.rightCursor {
			style = m.styles.ModuleFocus
		}
		b.WriteString(style.MaxWidth(max(inner, 1)).Render(label))
		b.WriteString("\n")
	}

	return m.panelStyle(paneRight).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		MaxHeight(height).
		Render(strings.TrimRight(b.String(), "\n"))
}

// renderStatus shows the newest announcement and any live toasts.
func (m Model) renderStatus(snap dashboard.Snapshot) string {
	var parts []string
	if n := len(snap.Announcements); n > 0 {
		parts = append(parts, m.styles.StatusLine.Render(snap.Announcements[n-1]))
	}
	for _, t := range snap.Toasts {
		parts = append(parts, m.renderToast(t))
	}
	if len(parts) == 0 {
		parts = append(parts, m.styles.StatusLine.Render(fmt.Sprintf("%d cards · focus: %s", len(snap.Cards), m.focus)))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderToast(n notify.Notification) string {
	switch {
	case n.Leaving:
		return m.styles.ToastLeaving.Render(n.Message)
	case n.Kind == notify.Success:
		return m.styles.ToastSuccess.Render("✓ " + n.Message)
	default:
		return m.styles.ToastInfo.Render("ℹ " + n.Message)
	}
}

// renderWorkspace lays out the cards and records each card's first row.
func (m Model) renderWorkspace(snap dashboard.Snapshot, width int) string {
	clear(m.cards.offsets)
	m.cards.dropRow = -1

	if snap.Dropzone {
		style := m.styles.Dropzone
		if snap.DragActive {
			style = m.styles.DropzoneActive
			m.cards.dropRow = 0
		}
		return style.Width(max(width-2, 0)).Render(dropzoneText)
	}

	var blocks []string
	row := 0
	add := func(s string) {
		blocks = append(blocks, s)
		row += lipgloss.Height(s)
	}
	for i, card := range snap.Cards {
		if m.picked != "" && m.cardCursor == i {
			m.cards.dropRow = row
			add(m.styles.DropzoneActive.Padding(0, 1).Width(max(width-2, 0)).Render(dropMarker))
		}
		m.cards.offsets[card.ID] = row
		selected := m.focus == paneWorkspace && m.picked == "" && m.cardCursor == i
		add(m.renderCard(card, width, selected))
	}
	if m.picked != "" && m.cardCursor >= len(snap.Cards) {
		m.cards.dropRow = row
		add(m.styles.DropzoneActive.Padding(0, 1).Width(max(width-2, 0)).Render(dropMarker))
	}
	return strings.Join(blocks, "\n")
}

func (m Model) renderCard(card workspace.Card, width int, selected bool) string {
	style := m.styles.Card
	switch {
	case card.State == workspace.StateRemoving:
		style = m.styles.CardRemoving
	case selected:
		style = m.styles.CardSelected
	case card.Entering:
		style = m.styles.CardEntering
	}

	marker := "▸"
	if card.Expanded {
		marker = "▾"
	}
	body := m.styles.CardTitle.Render(marker + " " + card.Title)
	if card.Source == workspace.SourcePrompt {
		body += " " + m.styles.Muted.Render("· generated")
	}
	if card.Expanded {
		rendered := strings.Trim(m.md.Render(card.Content, ui.PanelContentWidth(width)), "\n")
		body += "\n" + rendered
	}
	return style.Width(max(width-2, 0)).Render(body)
}

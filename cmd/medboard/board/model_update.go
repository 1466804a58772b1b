package board

import (
	"medboard/cmd/medboard/ui"
	"medboard/internal/dashboard"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update routes one message. Every branch ends in refresh so the workspace
// viewport always reflects the controller state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case startMsg:
		m.dispatch(dashboard.Start{})

	case eventMsg:
		if msg != nil {
			msg()
		}
		cmds = append(cmds, m.waitForEvent())

	case OptionsMsg:
		m.ctrl.ApplyOptions(msg.Options)
		m.log.Debug("options applied")

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = max(msg.Width, 0)
		m.dispatch(dashboard.Resize{Width: msg.Width, Height: msg.Height})

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKeyMsg(msg)
		cmds = append(cmds, cmd)

	default:
		if m.focus == panePrompt {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.syncPrompt()
	m.clampCursors()
	m.refresh()
	return m, tea.Batch(cmds...)
}

// dispatch sends cmd to the controller. Guarded no-ops come back as
// sentinel errors; they are logged and otherwise ignored.
func (m Model) dispatch(cmd dashboard.Command) {
	if err := m.ctrl.Dispatch(cmd); err != nil {
		m.log.Debug("command ignored", zap.String("command", commandName(cmd)), zap.Error(err))
	}
}

// syncPrompt pulls the controller prompt into the text input. The
// controller clears it when a generation settles.
func (m *Model) syncPrompt() {
	if p := m.ctrl.Prompt(); p != m.input.Value() {
		m.input.SetValue(p)
	}
}

func (m *Model) clampCursors() {
	snap := m.ctrl.Snapshot()
	limit := len(snap.Cards) - 1
	if m.picked != "" {
		limit = len(snap.Cards) // drop slots sit between cards
	}
	m.cardCursor = max(0, min(m.cardCursor, limit))
	m.moduleCursor = max(0, min(m.moduleCursor, len(m.ctrl.Registry().Modules())-1))
	m.rightCursor = max(0, min(m.rightCursor, len(m.rightItems(snap))-1))
}

func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = (p + paneCount) % paneCount
	if m.focus == panePrompt {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// refresh re-renders the workspace column into its viewport.
func (m *Model) refresh() {
	snap := m.ctrl.Snapshot()
	_, center, _ := ui.Columns(m.width, snap.Layout.LeftWidth, snap.Layout.RightWidth)
	m.cards.vp.Width = center
	m.cards.vp.Height = m.workspaceHeight()

	content := m.renderWorkspace(snap, center)
	m.cards.vp.SetContent(content)
	if m.picked != "" && m.cards.dropRow >= 0 {
		m.cards.ensureVisible(m.cards.dropRow)
	} else if m.focus == paneWorkspace && m.cardCursor < len(snap.Cards) {
		if top, ok := m.cards.offsets[snap.Cards[m.cardCursor].ID]; ok {
			m.cards.ensureVisible(top)
		}
	}
}

// workspaceHeight leaves room for the prompt box under the cards.
func (m Model) workspaceHeight() int {
	if m.height <= 0 {
		return 20
	}
	return max(ui.BodyHeight(m.height)-promptHeight, 3)
}

const promptHeight = 3

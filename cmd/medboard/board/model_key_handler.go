package board

import (
	"fmt"

	"medboard/internal/dashboard"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func commandName(cmd dashboard.Command) string {
	return fmt.Sprintf("%T", cmd)
}

// handleKeyMsg processes all keyboard input. Global bindings are checked
// first, then the focused pane gets the key.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.quit()

	case key.Matches(msg, m.keys.ToggleMode):
		m.dispatch(dashboard.ToggleMode{})
		return m, nil

	case key.Matches(msg, m.keys.TogglePanel):
		m.dispatch(dashboard.TogglePanel{})
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		return m.cancel(), nil

	case key.Matches(msg, m.keys.FocusNext):
		cmd := m.setFocus(m.focus + 1)
		return m, cmd

	case key.Matches(msg, m.keys.FocusPrev):
		cmd := m.setFocus(m.focus - 1)
		return m, cmd
	}

	// The overlay blocks the panes; only esc, quit and the mode shortcuts
	// above get through.
	if m.ctrl.Overlay() {
		if m.focus != panePrompt && key.Matches(msg, m.keys.Quit) {
			return m.quit()
		}
		return m, nil
	}

	// The prompt owns every other key, including q and ?.
	if m.focus == panePrompt {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Notify):
		m.dispatch(dashboard.OpenNotifications{})
		return m, nil
	}

	switch m.focus {
	case paneModules:
		return m.handleModulesKey(msg), nil
	case paneWorkspace:
		return m.handleWorkspaceKey(msg), nil
	case paneRight:
		return m.handleRightKey(msg), nil
	}
	return m, nil
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	m.Shutdown()
	return m, tea.Quit
}

// cancel backs out of the innermost activity: a running generation, then a
// held module.
func (m Model) cancel() Model {
	switch {
	case m.ctrl.Overlay():
		m.dispatch(dashboard.CancelGeneration{})
	case m.picked != "":
		m.picked = ""
		m.dispatch(dashboard.CancelDrag{})
		m.focus = paneModules
	case m.focus == panePrompt:
		m.setFocus(paneWorkspace)
	}
	return m
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		m.dispatch(dashboard.SubmitPrompt{})
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.dispatch(dashboard.SetPrompt{Text: m.input.Value()})
	return m, cmd
}

func (m Model) handleModulesKey(msg tea.KeyMsg) Model {
	mods := m.ctrl.Registry().Modules()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moduleCursor--
	case key.Matches(msg, m.keys.Down):
		m.moduleCursor++
	case key.Matches(msg, m.keys.Pick):
		if m.moduleCursor < 0 || m.moduleCursor >= len(mods) {
			return m
		}
		m.picked = mods[m.moduleCursor].Type
		m.dispatch(dashboard.BeginDrag{})
		// Drop at the top by default; the user moves the slot with up/down.
		m.cardCursor = 0
		m.setFocus(paneWorkspace)
	}
	return m
}

func (m Model) handleWorkspaceKey(msg tea.KeyMsg) Model {
	snap := m.ctrl.Snapshot()

	if m.picked != "" {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cardCursor--
		case key.Matches(msg, m.keys.Down):
			m.cardCursor++
		case key.Matches(msg, m.keys.Drop):
			m.dispatch(dashboard.AddModule{Type: m.picked, Index: m.cardCursor})
			m.picked = ""
		}
		return m
	}

	var id string
	if m.cardCursor >= 0 && m.cardCursor < len(snap.Cards) {
		id = snap.Cards[m.cardCursor].ID
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cardCursor--
	case key.Matches(msg, m.keys.Down):
		m.cardCursor++
	case key.Matches(msg, m.keys.Remove):
		if id != "" {
			m.dispatch(dashboard.RemoveCard{ID: id})
		}
	case key.Matches(msg, m.keys.Expand), msg.Type == tea.KeyEnter:
		if id != "" {
			m.dispatch(dashboard.ToggleCard{ID: id})
		}
	}
	return m
}

func (m Model) handleRightKey(msg tea.KeyMsg) Model {
	items := m.rightItems(m.ctrl.Snapshot())
	switch {
	case key.Matches(msg, m.keys.Up):
		m.rightCursor--
	case key.Matches(msg, m.keys.Down):
		m.rightCursor++
	case key.Matches(msg, m.keys.Pick):
		if m.rightCursor >= 0 && m.rightCursor < len(items) {
			m.dispatch(items[m.rightCursor].command)
		}
	}
	return m
}

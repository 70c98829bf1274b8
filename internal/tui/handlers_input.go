package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.IsActive() {
		cmd := m.confirm.HandleKeypress(msg)
		return m, cmd
	}

	if m.sessionSelector.IsActive() {
		cmd := m.sessionSelector.HandleKeypress(msg)
		return m, cmd
	}

	if m.modelSelector.IsActive() {
		cmd := m.modelSelector.HandleKeypress(msg)
		return m, cmd
	}

	if m.selectMode {
		return m.handleSelectModeKey(msg)
	}

	// Any other key clears the last notice
	m.notice = ""

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.textarea.Value() != "" {
			m.textarea.Reset()
			m.updateTextareaHeight()
			m.historyIndex = -1
			return m, nil
		}
		m.cancel()
		return m, tea.Quit

	case tea.KeyCtrlN:
		return m.handleNewSession()

	case tea.KeyCtrlW:
		return m.handleDeleteSession()

	case tea.KeyTab:
		return m.handleSwitchRelative(1)

	case tea.KeyShiftTab:
		return m.handleSwitchRelative(-1)

	case tea.KeyCtrlB:
		m.store.ToggleSidebar()
		m.layout()
		m.refreshViewport(true)
		return m, nil

	case tea.KeyCtrlT:
		return m.handleToggleLanguage()

	case tea.KeyCtrlR:
		m.confirm.Show(m.strings().WipeConfirm, m.chatWidth())
		return m, nil

	case tea.KeyCtrlE:
		return m.enterSelectMode()

	case tea.KeyCtrlS:
		return m.handleExportSession()

	case tea.KeyCtrlO:
		return m.handleOpenSessionSelector()

	case tea.KeyCtrlL:
		return m.handleOpenModelSelector()

	case tea.KeyCtrlG:
		return m.handleSubmit(imageRequest)

	case tea.KeyPgUp:
		m.viewport.HalfPageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.HalfPageDown()
		return m, nil

	case tea.KeyUp:
		if m.textarea.Line() == 0 {
			return m.handleHistoryUp()
		}

	case tea.KeyDown:
		lines := strings.Count(m.textarea.Value(), "\n")
		if m.textarea.Line() == lines {
			return m.handleHistoryDown()
		}

	case tea.KeyEnter:
		if msg.Alt {
			m.textarea.InsertString("\n")
			m.updateTextareaHeight()
			return m, nil
		}
		return m.handleSubmit(textRequest)
	}

	// Return nil, nil to let textarea handle the input
	return nil, nil
}

func (m *model) handleHistoryUp() (tea.Model, tea.Cmd) {
	if len(m.inputHistory) == 0 {
		return m, nil
	}
	if m.historyIndex == -1 {
		m.tempInput = m.textarea.Value()
		m.historyIndex = len(m.inputHistory) - 1
	} else if m.historyIndex > 0 {
		m.historyIndex--
	}
	m.textarea.SetValue(m.inputHistory[m.historyIndex])
	m.textarea.CursorEnd()
	m.updateTextareaHeight()
	return m, nil
}

func (m *model) handleHistoryDown() (tea.Model, tea.Cmd) {
	if m.historyIndex == -1 {
		return m, nil
	}
	if m.historyIndex < len(m.inputHistory)-1 {
		m.historyIndex++
		m.textarea.SetValue(m.inputHistory[m.historyIndex])
	} else {
		m.historyIndex = -1
		m.textarea.SetValue(m.tempInput)
	}
	m.textarea.CursorEnd()
	m.updateTextareaHeight()
	return m, nil
}

// pushHistory records input for Up/Down recall, skipping repeats.
func (m *model) pushHistory(input string) {
	if n := len(m.inputHistory); n > 0 && m.inputHistory[n-1] == input {
		m.historyIndex = -1
		return
	}
	m.inputHistory = append(m.inputHistory, input)
	if len(m.inputHistory) > maxInputHistory {
		m.inputHistory = m.inputHistory[len(m.inputHistory)-maxInputHistory:]
	}
	m.historyIndex = -1
}

func (m *model) enterSelectMode() (tea.Model, tea.Cmd) {
	msgs := m.store.Active().Messages
	if len(msgs) == 0 {
		return m, nil
	}
	m.selectMode = true
	m.selectedMsgIdx = len(msgs) - 1
	m.refreshViewport(false)
	return m, nil
}

func (m *model) handleSelectModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	msgs := m.store.Active().Messages
	if len(msgs) == 0 {
		m.selectMode = false
		m.refreshViewport(true)
		return m, nil
	}
	m.selectedMsgIdx = clamp(m.selectedMsgIdx, 0, len(msgs)-1)

	switch msg.Type {
	case tea.KeyUp:
		if m.selectedMsgIdx > 0 {
			m.selectedMsgIdx--
		}
	case tea.KeyDown:
		if m.selectedMsgIdx < len(msgs)-1 {
			m.selectedMsgIdx++
		}
	case tea.KeyDelete, tea.KeyBackspace:
		m.store.DeleteMessage(msgs[m.selectedMsgIdx].ID)
		if remaining := len(msgs) - 1; remaining == 0 {
			m.selectMode = false
		} else {
			m.selectedMsgIdx = clamp(m.selectedMsgIdx, 0, remaining-1)
		}
	case tea.KeyEsc, tea.KeyCtrlE:
		m.selectMode = false
		m.refreshViewport(true)
		return m, nil
	case tea.KeyCtrlC:
		m.cancel()
		return m, tea.Quit
	case tea.KeyRunes:
		if msg.String() == "c" {
			m.copySelectedImage(msgs[m.selectedMsgIdx])
		}
	}
	m.refreshViewport(false)
	return m, nil
}

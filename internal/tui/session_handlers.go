package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/session"
	"github.com/yanmxa/cyberchat/internal/transcript"
)

func (m *model) handleNewSession() (tea.Model, tea.Cmd) {
	m.chat.NewSession()
	m.selectMode = false
	m.refreshViewport(true)
	return m, nil
}

func (m *model) handleDeleteSession() (tea.Model, tea.Cmd) {
	err := m.chat.DeleteSession(m.store.ActiveID())
	switch {
	case errors.Is(err, session.ErrLastSession):
		m.notice = m.strings().AtLeastOne
	case err != nil:
		m.notice = err.Error()
	}
	m.selectMode = false
	m.refreshViewport(true)
	return m, nil
}

func (m *model) handleSwitchRelative(delta int) (tea.Model, tea.Cmd) {
	m.store.SwitchRelative(delta)
	m.selectMode = false
	m.refreshViewport(true)
	return m, nil
}

func (m *model) handleToggleLanguage() (tea.Model, tea.Cmd) {
	m.store.ToggleLanguage()
	m.textarea.Placeholder = m.strings().InputPlaceholder
	m.refreshViewport(false)
	return m, nil
}

func (m *model) handleOpenSessionSelector() (tea.Model, tea.Cmd) {
	m.sessionSelector.EnterSessionSelect(m.width, m.height, m.store.Sessions(), m.store.ActiveID())
	return m, nil
}

// handleSessionSelected handles when a session is selected from the selector
func (m *model) handleSessionSelected(msg SessionSelectedMsg) (tea.Model, tea.Cmd) {
	if err := m.store.SwitchActive(msg.SessionID); err != nil {
		m.notice = err.Error()
	}
	m.selectMode = false
	m.refreshViewport(true)
	return m, nil
}

// handleConfirmResponse applies the answer to the reset confirmation.
func (m *model) handleConfirmResponse(msg ConfirmResponseMsg) (tea.Model, tea.Cmd) {
	if !msg.Approved {
		return m, nil
	}
	err := m.chat.Reset()
	switch {
	case errors.Is(err, chat.ErrBusy):
		m.notice = m.strings().Busy
		return m, nil
	case err != nil:
		log.Logger().Error("Failed to reset state", zap.Error(err))
		m.notice = err.Error()
		return m, nil
	}
	m.selectMode = false
	m.imagePaths = make(map[string]string)
	m.textarea.Placeholder = m.strings().InputPlaceholder
	m.refreshViewport(true)
	return m, nil
}

// handleExportSession writes the active session as a markdown transcript.
func (m *model) handleExportSession() (tea.Model, tea.Cmd) {
	if m.transcriptDir == "" {
		return m, nil
	}
	store, err := transcript.NewStore(m.transcriptDir)
	if err == nil {
		var path string
		path, err = store.Export(m.store.Active(), m.store.Language())
		if err == nil {
			m.notice = "Exported to " + path
			return m, nil
		}
	}
	log.Logger().Warn("Failed to export session", zap.Error(err))
	m.notice = "Export failed: " + err.Error()
	return m, nil
}

package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

const (
	textRequest  = chat.Text
	imageRequest = chat.Image
)

// handleSubmit starts a request of kind with the current input. Send
// controls stay disabled while another request is in flight.
func (m *model) handleSubmit(kind session.PendingKind) (tea.Model, tea.Cmd) {
	raw := m.textarea.Value()
	input := strings.TrimSpace(raw)
	if kind == textRequest && input == "" {
		return m, nil
	}
	if kind == textRequest && strings.ToLower(input) == "exit" {
		m.cancel()
		return m, tea.Quit
	}

	ticket, err := m.chat.Begin(kind, raw)
	switch {
	case errors.Is(err, chat.ErrBusy):
		m.notice = m.strings().Busy
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}

	if input != "" {
		m.pushHistory(raw)
	}
	m.textarea.Reset()
	m.updateTextareaHeight()
	m.pending = &ticket
	m.refreshViewport(true)

	return m, tea.Batch(m.spinner.Tick, m.executeCmd(ticket))
}

// executeCmd runs the remote call off the update loop.
func (m *model) executeCmd(t chat.Ticket) tea.Cmd {
	svc, ctx := m.chat, m.ctx
	return func() tea.Msg {
		return generationDoneMsg{ticket: t, outcome: svc.Execute(ctx, t)}
	}
}

func (m *model) handleGenerationDone(msg generationDoneMsg) (tea.Model, tea.Cmd) {
	m.pending = nil

	reply, err := m.chat.Finish(msg.ticket, msg.outcome)
	if err != nil {
		// The originating session was deleted while the request ran
		m.refreshViewport(true)
		return m, nil
	}
	if reply.HasImage() {
		m.saveImage(reply)
	}
	m.refreshViewport(msg.ticket.SessionID == m.store.ActiveID())
	return m, nil
}

// saveImage writes the image of msg to the image directory once and
// remembers its path for rendering.
func (m *model) saveImage(msg message.Message) {
	if m.imageDir == "" {
		return
	}
	if _, ok := m.imagePaths[msg.ID]; ok {
		return
	}
	info, err := image.ParseDataURI(msg.ImageURL)
	if err != nil {
		log.Logger().Warn("Failed to decode image", zap.String("message", msg.ID), zap.Error(err))
		return
	}
	path, err := info.Save(m.imageDir, msg.ID)
	if err != nil {
		log.Logger().Warn("Failed to save image", zap.String("message", msg.ID), zap.Error(err))
		return
	}
	m.imagePaths[msg.ID] = path
}

// copySelectedImage puts the image of msg on the system clipboard.
func (m *model) copySelectedImage(msg message.Message) {
	if !msg.HasImage() {
		return
	}
	info, err := image.ParseDataURI(msg.ImageURL)
	if err == nil {
		err = image.CopyToClipboard(info)
	}
	if err != nil {
		m.notice = "Copy failed: " + err.Error()
		return
	}
	m.notice = "Image copied to clipboard (" + image.FormatBytes(info.Size) + ")"
}

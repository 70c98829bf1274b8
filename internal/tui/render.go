package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/message"
)

func createMarkdownRenderer(width int) *glamour.TermRenderer {
	wrapWidth := max(width-4, minWrapWidth)

	var compactStyle ansi.StyleConfig
	if IsDarkBackground() {
		compactStyle = styles.DarkStyleConfig
	} else {
		compactStyle = styles.LightStyleConfig
	}

	uintPtr := func(u uint) *uint { return &u }
	compactStyle.Document.Margin = uintPtr(0)
	compactStyle.Paragraph.Margin = uintPtr(0)
	compactStyle.CodeBlock.Margin = uintPtr(0)

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStyles(compactStyle),
		glamour.WithWordWrap(wrapWidth),
	)
	return renderer
}

// renderMarkdown renders assistant content, falling back to plain text.
func (m *model) renderMarkdown(content string) string {
	width := m.chatWidth()
	if m.mdRenderer == nil || m.mdWidth != width {
		m.mdRenderer = createMarkdownRenderer(width)
		m.mdWidth = width
	}
	if m.mdRenderer == nil {
		return content
	}
	out, err := m.mdRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// renderMessages renders the active session for the viewport.
func (m *model) renderMessages() string {
	active := m.store.Active()
	var sb strings.Builder

	for i, msg := range active.Messages {
		block := m.renderMessage(msg)
		if m.selectMode && i == m.selectedMsgIdx {
			block = selectedMsgStyle.Render("▶") + " " + block
		}
		sb.WriteString(block)
		sb.WriteString("\n\n")
	}

	if m.pending != nil && m.pending.SessionID == active.ID {
		label := m.strings().Thinking
		if m.pending.Kind == imageRequest {
			label = m.strings().Rendering
		}
		sb.WriteString(m.spinner.View() + " " + thinkingStyle.Render(label) + "\n")
	}

	return sb.String()
}

func (m *model) renderMessage(msg message.Message) string {
	stamp := timestampStyle.Render(msg.Timestamp.Local().Format("15:04"))

	switch msg.Role {
	case message.RoleUser:
		return inputPromptStyle.Render("❯ ") + userMsgStyle.Render(msg.Content) + " " + stamp

	case message.RoleAssistant:
		var sb strings.Builder
		sb.WriteString(assistantTagStyle.Render("◆ CYBER") + " " + stamp + "\n")
		sb.WriteString(m.renderMarkdown(msg.Content))
		if msg.HasImage() {
			sb.WriteString("\n" + m.renderImageLine(msg))
		}
		return sb.String()

	default:
		return systemMsgStyle.Render(msg.Content)
	}
}

// renderImageLine describes a rendered image as a path and size line.
func (m *model) renderImageLine(msg message.Message) string {
	info, err := image.ParseDataURI(msg.ImageURL)
	if err != nil {
		return imageLineStyle.Render("🖼  " + truncateWithEllipsis(msg.ImageURL, m.chatWidth()-6))
	}
	where := "image"
	if path, ok := m.imagePaths[msg.ID]; ok {
		where = path
	}
	return imageLineStyle.Render(fmt.Sprintf("🖼  %s (%s)", where, image.FormatBytes(info.Size)))
}

func (m model) renderHeader() string {
	str := m.strings()
	left := headerStyle.Render("⚡ CYBER CHATBOT AI")
	right := headerLinkStyle.Render(str.SecureLink)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m model) renderSidebar() string {
	str := m.strings()
	inner := sidebarWidth - 2
	var sb strings.Builder

	sb.WriteString(sidebarTitleStyle.Render("▣ "+str.MissionLogs) + "\n")
	sb.WriteString(hintStyle.Render("Ctrl+N "+str.NewMission) + "\n\n")

	activeID := m.store.ActiveID()
	for _, sess := range m.store.Sessions() {
		title := truncateWithEllipsis(sess.Title, inner-2)
		if sess.ID == activeID {
			sb.WriteString(sidebarActiveStyle.Render("▸ "+title) + "\n")
		} else {
			sb.WriteString(sidebarItemStyle.Render("  "+title) + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(sidebarFooterStyle.Render(str.SystemIntegrity) + "\n")
	sb.WriteString(sidebarDangerStyle.Render("Ctrl+R "+str.ResetSystem) + "\n")

	height := max(m.height-2, 1)
	return sidebarStyle.Width(sidebarWidth).Height(height).MaxHeight(height).Render(sb.String())
}

func (m model) renderStatusLine() string {
	str := m.strings()
	var parts []string

	switch {
	case m.store.IsGeneratingImage():
		parts = append(parts, statusBusyStyle.Render(str.GPUActive))
	case m.store.IsLoading():
		parts = append(parts, statusBusyStyle.Render(str.Thinking))
	default:
		parts = append(parts, statusOnlineStyle.Render("● "+str.SystemStatus))
	}
	parts = append(parts, statusOnlineStyle.Render(str.LinkStable))
	parts = append(parts, hintStyle.Render(strings.ToUpper(string(m.store.Language()))))
	if m.client != nil {
		parts = append(parts, hintStyle.Render(m.client.ModelID()))
	}

	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	} else if m.selectMode {
		parts = append(parts, hintStyle.Render("↑/↓ select · Del remove · c copy image · Esc done"))
	} else {
		parts = append(parts, hintStyle.Render("Enter send · Ctrl+G "+str.RenderImage+" · Tab switch · Ctrl+T lang · Ctrl+E select"))
	}

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(line)
}

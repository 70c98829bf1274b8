package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmPrompt manages a yes/no confirmation UI
type ConfirmPrompt struct {
	active      bool
	question    string
	width       int
	selectedIdx int // 0 = Yes, 1 = No
}

// ConfirmResponseMsg is sent when the user answers the prompt
type ConfirmResponseMsg struct {
	Approved bool
}

// NewConfirmPrompt creates a new ConfirmPrompt
func NewConfirmPrompt() *ConfirmPrompt {
	return &ConfirmPrompt{}
}

// Show displays the prompt. It defaults to "No" since confirmed actions
// are destructive.
func (p *ConfirmPrompt) Show(question string, width int) {
	p.active = true
	p.question = question
	p.width = width
	p.selectedIdx = 1
}

// Hide hides the prompt
func (p *ConfirmPrompt) Hide() {
	p.active = false
	p.question = ""
}

// IsActive returns whether the prompt is visible
func (p *ConfirmPrompt) IsActive() bool {
	return p.active
}

// HandleKeypress handles keyboard input
func (p *ConfirmPrompt) HandleKeypress(msg tea.KeyMsg) tea.Cmd {
	if !p.active {
		return nil
	}

	switch msg.Type {
	case tea.KeyLeft, tea.KeyRight, tea.KeyTab:
		p.selectedIdx = 1 - p.selectedIdx
		return nil
	case tea.KeyEnter:
		return p.selectOption(p.selectedIdx == 0)
	case tea.KeyEsc, tea.KeyCtrlC:
		return p.selectOption(false)
	}

	switch msg.String() {
	case "y", "Y":
		return p.selectOption(true)
	case "n", "N":
		return p.selectOption(false)
	}
	return nil
}

func (p *ConfirmPrompt) selectOption(approved bool) tea.Cmd {
	p.Hide()
	return func() tea.Msg {
		return ConfirmResponseMsg{Approved: approved}
	}
}

// Render renders the prompt
func (p *ConfirmPrompt) Render() string {
	if !p.active {
		return ""
	}

	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Error).Bold(true)
	sb.WriteString(titleStyle.Render("⚠ " + p.question))
	sb.WriteString("\n")

	selectedStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Error).Bold(true)
	unselectedStyle := lipgloss.NewStyle().Foreground(CurrentTheme.TextDim)

	if p.selectedIdx == 0 {
		sb.WriteString(selectedStyle.Render("❯ [Yes]"))
		sb.WriteString("  ")
		sb.WriteString(unselectedStyle.Render("  No"))
	} else {
		sb.WriteString(unselectedStyle.Render("  Yes"))
		sb.WriteString("  ")
		sb.WriteString(selectedStyle.Render("❯ [No]"))
	}

	hint := lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Italic(true)
	sb.WriteString("   ")
	sb.WriteString(hint.Render("y/n · ←/→ · Enter · Esc"))
	return sb.String()
}

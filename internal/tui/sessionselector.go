package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

// SessionSelectedMsg is sent when a session is selected
type SessionSelectedMsg struct {
	SessionID string
}

// SessionSelectorCancelledMsg is sent when the session selector is cancelled
type SessionSelectorCancelledMsg struct{}

// SessionSelectorState holds the state for the session selector
type SessionSelectorState struct {
	active       bool
	sessions     []session.ChatSession
	filtered     []session.ChatSession
	activeID     string
	selectedIdx  int
	searchQuery  string
	scrollOffset int
	maxVisible   int
	width        int
	height       int
}

// NewSessionSelectorState creates a new SessionSelectorState
func NewSessionSelectorState() SessionSelectorState {
	return SessionSelectorState{maxVisible: 6}
}

// clamp constrains a value between min and max bounds
func clamp(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}

// calculateMaxVisible calculates how many sessions can fit on screen.
// Each session takes 3 lines (title + preview + blank separator).
func calculateMaxVisible(height int) int {
	const (
		fixedLines      = 7 // title(1) + search(1) + blank(1) + hint(2) + scroll indicators(2)
		linesPerSession = 3
	)
	return clamp((height-fixedLines)/linesPerSession, 3, 20)
}

// calculateMessagePreviewLength calculates message preview length based on terminal width.
func calculateMessagePreviewLength(width int) int {
	return clamp(width-10, 30, 120)
}

// calculateBoxWidth returns the constrained box width for selectors
func calculateBoxWidth(screenWidth int) int {
	return max(40, min(screenWidth-8, 70))
}

// EnterSessionSelect enters session selection mode with the active
// session preselected.
func (s *SessionSelectorState) EnterSessionSelect(width, height int, sessions []session.ChatSession, activeID string) {
	*s = SessionSelectorState{
		active:     true,
		sessions:   sessions,
		activeID:   activeID,
		width:      width,
		height:     height,
		maxVisible: calculateMaxVisible(height),
	}
	s.updateFilter()
	for i, sess := range s.filtered {
		if sess.ID == activeID {
			s.selectedIdx = i
			s.ensureVisible()
			break
		}
	}
}

// IsActive returns whether the selector is active
func (s *SessionSelectorState) IsActive() bool {
	return s.active
}

// Cancel cancels the selector
func (s *SessionSelectorState) Cancel() {
	*s = NewSessionSelectorState()
}

// MoveUp moves the selection up
func (s *SessionSelectorState) MoveUp() {
	if s.selectedIdx > 0 {
		s.selectedIdx--
		s.ensureVisible()
	}
}

// MoveDown moves the selection down
func (s *SessionSelectorState) MoveDown() {
	if s.selectedIdx < len(s.filtered)-1 {
		s.selectedIdx++
		s.ensureVisible()
	}
}

// ensureVisible adjusts scrollOffset to keep selectedIdx visible
func (s *SessionSelectorState) ensureVisible() {
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+s.maxVisible {
		s.scrollOffset = s.selectedIdx - s.maxVisible + 1
	}
}

// updateFilter filters sessions by title and message content
func (s *SessionSelectorState) updateFilter() {
	query := strings.ToLower(s.searchQuery)
	s.filtered = make([]session.ChatSession, 0, len(s.sessions))

	for _, sess := range s.sessions {
		if query != "" && !fuzzyMatch(strings.ToLower(sess.Title), query) &&
			!strings.Contains(strings.ToLower(lastUserMessage(sess)), query) {
			continue
		}
		s.filtered = append(s.filtered, sess)
	}

	s.selectedIdx = 0
	s.scrollOffset = 0
}

// fuzzyMatch reports whether pattern's characters appear in str in order.
func fuzzyMatch(str, pattern string) bool {
	pr := []rune(pattern)
	pi := 0
	for _, r := range str {
		if pi < len(pr) && r == pr[pi] {
			pi++
		}
	}
	return pi == len(pr)
}

// Select returns a command when a session is selected
func (s *SessionSelectorState) Select() tea.Cmd {
	if len(s.filtered) == 0 || s.selectedIdx >= len(s.filtered) {
		return nil
	}

	selected := s.filtered[s.selectedIdx]
	s.active = false

	return func() tea.Msg {
		return SessionSelectedMsg{SessionID: selected.ID}
	}
}

// HandleKeypress handles a keypress and returns a command if selection is made
func (s *SessionSelectorState) HandleKeypress(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		s.MoveUp()
	case tea.KeyDown, tea.KeyCtrlN:
		s.MoveDown()
	case tea.KeyEnter:
		return s.Select()
	case tea.KeyEsc:
		if s.searchQuery != "" {
			s.searchQuery = ""
			s.updateFilter()
			return nil
		}
		s.Cancel()
		return func() tea.Msg { return SessionSelectorCancelledMsg{} }
	case tea.KeyBackspace:
		if q := []rune(s.searchQuery); len(q) > 0 {
			s.searchQuery = string(q[:len(q)-1])
			s.updateFilter()
		}
	case tea.KeyRunes:
		if s.searchQuery == "" && (key.String() == "j" || key.String() == "k") {
			if key.String() == "j" {
				s.MoveDown()
			} else {
				s.MoveUp()
			}
			return nil
		}
		s.searchQuery += string(key.Runes)
		s.updateFilter()
	}
	return nil
}

// formatCompactMetadata formats message count and time inline
func formatCompactMetadata(sess session.ChatSession) string {
	updated := sess.CreatedAt
	if n := len(sess.Messages); n > 0 {
		updated = sess.Messages[n-1].Timestamp
	}
	return fmt.Sprintf("%d msgs · %s", len(sess.Messages), formatRelativeTime(updated))
}

// truncateToFirstLine extracts the first line and truncates to maxWidth cells
func truncateToFirstLine(content string, maxWidth int) string {
	content = strings.TrimSpace(content)
	if first, _, found := strings.Cut(content, "\n"); found {
		content = first
	}
	return truncateWithEllipsis(content, maxWidth)
}

// truncateWithEllipsis shortens s to maxWidth terminal cells.
func truncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// lastUserMessage returns the newest user message of a session.
func lastUserMessage(sess session.ChatSession) string {
	for i := len(sess.Messages) - 1; i >= 0; i-- {
		msg := sess.Messages[i]
		if msg.Role == message.RoleUser && msg.Content != "" {
			return msg.Content
		}
	}
	return ""
}

// renderSession renders a single session in compact 2-line format
func (s *SessionSelectorState) renderSession(sess session.ChatSession, isSelected bool, sb *strings.Builder, boxWidth int) {
	titleStyle, indent := selectorItemStyle, "  "
	if isSelected {
		titleStyle, indent = selectorSelectedStyle, "> "
	}
	marker := ""
	if sess.ID == s.activeID {
		marker = selectorStatusCurrent.Render(" ●")
	}

	metadata := formatCompactMetadata(sess)
	title := truncateWithEllipsis(sess.Title, boxWidth-len(indent)-len(" · ")-runewidth.StringWidth(metadata)-4)
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s%s · %s", indent, title, metadata)) + marker + "\n")

	if last := lastUserMessage(sess); last != "" {
		previewStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
		preview := truncateToFirstLine(last, calculateMessagePreviewLength(boxWidth))
		sb.WriteString(previewStyle.Render(fmt.Sprintf("    \"%s\"", preview)))
	}
	sb.WriteString("\n\n")
}

// Render renders the session selector
func (s *SessionSelectorState) Render() string {
	if !s.active {
		return ""
	}

	var sb strings.Builder

	title := fmt.Sprintf("Missions (%d/%d)", len(s.filtered), len(s.sessions))
	sb.WriteString(selectorTitleStyle.Render(title) + "\n")

	searchLine := "🔍 Type to filter..."
	searchStyle := selectorHintStyle
	if s.searchQuery != "" {
		searchLine = "> " + s.searchQuery + "_"
		searchStyle = selectorBreadcrumbStyle
	}
	sb.WriteString(searchStyle.Render(searchLine) + "\n\n")

	boxWidth := calculateBoxWidth(s.width)
	if len(s.filtered) == 0 {
		sb.WriteString(selectorHintStyle.Render("  No missions match the filter") + "\n")
	} else {
		endIdx := min(s.scrollOffset+s.maxVisible, len(s.filtered))
		s.renderScrollIndicator(&sb, s.scrollOffset > 0, "↑ more above")

		for i := s.scrollOffset; i < endIdx; i++ {
			s.renderSession(s.filtered[i], i == s.selectedIdx, &sb, boxWidth)
		}

		s.renderScrollIndicator(&sb, endIdx < len(s.filtered), "↓ more below")
	}

	sb.WriteString(selectorHintStyle.Render("↑/↓ navigate · Enter select · Esc clear/cancel"))

	box := selectorBorderStyle.Width(boxWidth).Render(sb.String())
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}

// renderScrollIndicator writes a scroll indicator if the condition is true
func (s *SessionSelectorState) renderScrollIndicator(sb *strings.Builder, show bool, text string) {
	if show {
		sb.WriteString(selectorHintStyle.Render("  "+text) + "\n")
	}
}

// formatRelativeTime formats a time as a relative string (e.g., "2h ago", "yesterday")
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "min") + " ago"
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour") + " ago"
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// pluralize returns "1 unit" or "n units" based on count
func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

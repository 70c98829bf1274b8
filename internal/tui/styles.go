package tui

import "github.com/charmbracelet/lipgloss"

// Message styles
var (
	userMsgStyle      lipgloss.Style
	assistantTagStyle lipgloss.Style
	inputPromptStyle  lipgloss.Style
	separatorStyle    lipgloss.Style
	thinkingStyle     lipgloss.Style
	systemMsgStyle    lipgloss.Style
	imageLineStyle    lipgloss.Style
	selectedMsgStyle  lipgloss.Style
	timestampStyle    lipgloss.Style
)

// Chrome styles
var (
	headerStyle        lipgloss.Style
	headerLinkStyle    lipgloss.Style
	statusOnlineStyle  lipgloss.Style
	statusBusyStyle    lipgloss.Style
	noticeStyle        lipgloss.Style
	hintStyle          lipgloss.Style
	sidebarStyle       lipgloss.Style
	sidebarTitleStyle  lipgloss.Style
	sidebarItemStyle   lipgloss.Style
	sidebarActiveStyle lipgloss.Style
	sidebarFooterStyle lipgloss.Style
	sidebarDangerStyle lipgloss.Style
)

// Selector styles
var (
	selectorBorderStyle     lipgloss.Style
	selectorTitleStyle      lipgloss.Style
	selectorItemStyle       lipgloss.Style
	selectorSelectedStyle   lipgloss.Style
	selectorStatusCurrent   lipgloss.Style
	selectorStatusNone      lipgloss.Style
	selectorHintStyle       lipgloss.Style
	selectorBreadcrumbStyle lipgloss.Style
)

func init() {
	// Message styles
	userMsgStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Text)

	assistantTagStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.AI).
		Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Primary).
		Bold(true)

	separatorStyle = lipgloss.NewStyle().
		Faint(true).
		Foreground(CurrentTheme.Separator)

	thinkingStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Accent)

	systemMsgStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextDim).
		PaddingLeft(2)

	imageLineStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Primary).
		PaddingLeft(2)

	selectedMsgStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextBright).
		Background(CurrentTheme.Border).
		Bold(true)

	timestampStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextDisabled)

	// Chrome styles
	headerStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Primary).
		Bold(true)

	headerLinkStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Muted).
		Italic(true)

	statusOnlineStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Success)

	statusBusyStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Warning).
		Bold(true)

	noticeStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Error)

	hintStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextDisabled)

	sidebarStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(CurrentTheme.Border).
		PaddingRight(1)

	sidebarTitleStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Accent).
		Bold(true)

	sidebarItemStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextDim)

	sidebarActiveStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Primary).
		Bold(true)

	sidebarFooterStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Success)

	sidebarDangerStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Error)

	// Selector styles
	selectorBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Primary).
		Padding(1, 2)

	selectorTitleStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Primary).
		Bold(true)

	selectorItemStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Muted).
		PaddingLeft(2)

	selectorSelectedStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextBright).
		Bold(true).
		PaddingLeft(2)

	selectorStatusCurrent = lipgloss.NewStyle().
		Foreground(CurrentTheme.Success)

	selectorStatusNone = lipgloss.NewStyle().
		Foreground(CurrentTheme.Muted)

	selectorHintStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.Muted).
		MarginTop(1)

	selectorBreadcrumbStyle = lipgloss.NewStyle().
		Foreground(CurrentTheme.TextDim).
		MarginBottom(1)
}

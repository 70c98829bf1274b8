package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds all color definitions for the UI
type Theme struct {
	// Base colors
	Muted     lipgloss.Color // muted text, placeholders
	Accent    lipgloss.Color // spinner, highlights
	Primary   lipgloss.Color // user prompt, links
	AI        lipgloss.Color // AI responses
	Separator lipgloss.Color // separator lines

	// Text colors
	Text         lipgloss.Color // normal text
	TextDim      lipgloss.Color // dimmed text
	TextBright   lipgloss.Color // bright/highlighted text
	TextDisabled lipgloss.Color // disabled text

	// Semantic colors
	Success lipgloss.Color // green - link stable, integrity nominal
	Error   lipgloss.Color // red - errors, terminate
	Warning lipgloss.Color // amber - in progress

	// UI element colors
	Border     lipgloss.Color // borders
	Background lipgloss.Color // backgrounds for badges/boxes
}

// DarkTheme is the neon palette for dark terminals
var DarkTheme = Theme{
	Muted:     lipgloss.Color("#64748B"),
	Accent:    lipgloss.Color("#F0ABFC"),
	Primary:   lipgloss.Color("#22D3EE"),
	AI:        lipgloss.Color("#A855F7"),
	Separator: lipgloss.Color("#334155"),

	Text:         lipgloss.Color("#E2E8F0"),
	TextDim:      lipgloss.Color("#94A3B8"),
	TextBright:   lipgloss.Color("#FFFFFF"),
	TextDisabled: lipgloss.Color("#475569"),

	Success: lipgloss.Color("#4ADE80"),
	Error:   lipgloss.Color("#F43F5E"),
	Warning: lipgloss.Color("#FACC15"),

	Border:     lipgloss.Color("#0E7490"),
	Background: lipgloss.Color("#0F172A"),
}

// LightTheme is the palette for light terminals
var LightTheme = Theme{
	Muted:     lipgloss.Color("#64748B"),
	Accent:    lipgloss.Color("#C026D3"),
	Primary:   lipgloss.Color("#0891B2"),
	AI:        lipgloss.Color("#7E22CE"),
	Separator: lipgloss.Color("#CBD5E1"),

	Text:         lipgloss.Color("#0F172A"),
	TextDim:      lipgloss.Color("#475569"),
	TextBright:   lipgloss.Color("#020617"),
	TextDisabled: lipgloss.Color("#94A3B8"),

	Success: lipgloss.Color("#16A34A"),
	Error:   lipgloss.Color("#E11D48"),
	Warning: lipgloss.Color("#CA8A04"),

	Border:     lipgloss.Color("#67E8F9"),
	Background: lipgloss.Color("#F1F5F9"),
}

// CurrentTheme holds the active theme based on terminal background
var CurrentTheme Theme

// isDarkBackground caches the result of background detection
var isDarkBackground bool

func init() {
	isDarkBackground = lipgloss.HasDarkBackground()
	if isDarkBackground {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}

// IsDarkBackground returns whether the terminal has a dark background
func IsDarkBackground() bool {
	return isDarkBackground
}

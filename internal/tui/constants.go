package tui

const (
	defaultWidth      = 80
	maxTextareaHeight = 6
	minTextareaHeight = 1
	minWrapWidth      = 30
	sidebarWidth      = 30
	minSidebarScreen  = 80 // narrower screens hide the sidebar
	maxInputHistory   = 100
)

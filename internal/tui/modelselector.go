package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yanmxa/cyberchat/internal/provider"
)

// ModelSelectedMsg is sent when a model is selected
type ModelSelectedMsg struct {
	ModelID string
}

// ModelSelectorCancelledMsg is sent when the model selector is cancelled
type ModelSelectorCancelledMsg struct{}

// ModelSelectorState holds the state for the model selector
type ModelSelectorState struct {
	active       bool
	loading      bool
	err          error
	current      string
	providerName string
	models       []provider.ModelInfo
	filtered     []provider.ModelInfo
	selectedIdx  int
	searchQuery  string
	scrollOffset int
	maxVisible   int
	width        int
	height       int
}

// EnterModelSelect opens the selector in loading state.
func (s *ModelSelectorState) EnterModelSelect(width, height int, providerName, current string) {
	*s = ModelSelectorState{
		active:       true,
		loading:      true,
		current:      current,
		providerName: providerName,
		width:        width,
		height:       height,
		maxVisible:   clamp(height-12, 5, 20),
	}
}

// SetModels fills the selector once the model list has loaded. The
// current model is listed first.
func (s *ModelSelectorState) SetModels(models []provider.ModelInfo, err error) {
	s.loading = false
	s.err = err
	s.models = append([]provider.ModelInfo(nil), models...)
	sort.SliceStable(s.models, func(i, j int) bool {
		if ci, cj := s.models[i].ID == s.current, s.models[j].ID == s.current; ci != cj {
			return ci
		}
		return s.models[i].ID < s.models[j].ID
	})
	s.updateFilter()
}

// IsActive returns whether the selector is active
func (s *ModelSelectorState) IsActive() bool {
	return s.active
}

// Cancel cancels the selector
func (s *ModelSelectorState) Cancel() {
	*s = ModelSelectorState{}
}

func (s *ModelSelectorState) ensureVisible() {
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+s.maxVisible {
		s.scrollOffset = s.selectedIdx - s.maxVisible + 1
	}
}

func (s *ModelSelectorState) updateFilter() {
	query := strings.ToLower(s.searchQuery)
	s.filtered = s.filtered[:0]
	for _, m := range s.models {
		if query == "" || fuzzyMatch(strings.ToLower(m.ID), query) ||
			fuzzyMatch(strings.ToLower(m.DisplayName), query) {
			s.filtered = append(s.filtered, m)
		}
	}
	s.selectedIdx = 0
	s.scrollOffset = 0
}

// HandleKeypress handles a keypress and returns a command if selection is made
func (s *ModelSelectorState) HandleKeypress(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyUp, tea.KeyCtrlP:
		if s.selectedIdx > 0 {
			s.selectedIdx--
			s.ensureVisible()
		}
	case tea.KeyDown, tea.KeyCtrlN:
		if s.selectedIdx < len(s.filtered)-1 {
			s.selectedIdx++
			s.ensureVisible()
		}
	case tea.KeyEnter:
		if s.loading || len(s.filtered) == 0 {
			return nil
		}
		selected := s.filtered[s.selectedIdx]
		s.Cancel()
		return func() tea.Msg { return ModelSelectedMsg{ModelID: selected.ID} }
	case tea.KeyEsc:
		if s.searchQuery != "" {
			s.searchQuery = ""
			s.updateFilter()
			return nil
		}
		s.Cancel()
		return func() tea.Msg { return ModelSelectorCancelledMsg{} }
	case tea.KeyBackspace:
		if q := []rune(s.searchQuery); len(q) > 0 {
			s.searchQuery = string(q[:len(q)-1])
			s.updateFilter()
		}
	case tea.KeyRunes:
		s.searchQuery += string(key.Runes)
		s.updateFilter()
	}
	return nil
}

// Render renders the model selection UI
func (s *ModelSelectorState) Render() string {
	if !s.active {
		return ""
	}

	var sb strings.Builder
	title := fmt.Sprintf("Select Model · %s (%d/%d)", s.providerName, len(s.filtered), len(s.models))
	sb.WriteString(selectorTitleStyle.Render(title) + "\n")

	if s.searchQuery == "" {
		sb.WriteString(selectorHintStyle.Render("🔍 Type to filter..."))
	} else {
		sb.WriteString(selectorBreadcrumbStyle.Render("🔍 " + s.searchQuery + "▏"))
	}
	sb.WriteString("\n\n")

	switch {
	case s.loading:
		sb.WriteString(thinkingStyle.Render("  Loading models...") + "\n")
	case s.err != nil:
		sb.WriteString(noticeStyle.Render("  "+s.err.Error()) + "\n")
	case len(s.filtered) == 0:
		sb.WriteString(selectorHintStyle.Render("  No models match the filter") + "\n")
	default:
		endIdx := min(s.scrollOffset+s.maxVisible, len(s.filtered))
		if s.scrollOffset > 0 {
			sb.WriteString(selectorHintStyle.Render("  ↑ more above") + "\n")
		}
		for i := s.scrollOffset; i < endIdx; i++ {
			m := s.filtered[i]
			indicator, indicatorStyle := "[ ]", selectorStatusNone
			if m.ID == s.current {
				indicator, indicatorStyle = "[*]", selectorStatusCurrent
			}
			name := m.ID
			if m.DisplayName != "" && m.DisplayName != m.ID {
				name = m.DisplayName + " (" + m.ID + ")"
			}
			line := indicatorStyle.Render(indicator) + " " + name
			if i == s.selectedIdx {
				sb.WriteString(selectorSelectedStyle.Render("> " + line))
			} else {
				sb.WriteString(selectorItemStyle.Render("  " + line))
			}
			sb.WriteString("\n")
		}
		if endIdx < len(s.filtered) {
			sb.WriteString(selectorHintStyle.Render("  ↓ more below") + "\n")
		}
	}

	sb.WriteString(selectorHintStyle.Render("↑/↓ navigate · Enter select · Esc clear/cancel"))

	box := selectorBorderStyle.Width(calculateBoxWidth(s.width)).Render(sb.String())
	return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *model) handleOpenModelSelector() (tea.Model, tea.Cmd) {
	if m.client == nil || m.listModels == nil {
		return m, nil
	}
	m.modelSelector.EnterModelSelect(m.width, m.height, m.client.Name(), m.client.ModelID())

	list, ctx := m.listModels, m.ctx
	return m, func() tea.Msg {
		models, err := list(ctx, false)
		return modelsLoadedMsg{models: models, err: err}
	}
}

func (m *model) handleModelsLoaded(msg modelsLoadedMsg) (tea.Model, tea.Cmd) {
	if m.modelSelector.IsActive() {
		m.modelSelector.SetModels(msg.models, msg.err)
	}
	return m, nil
}

// handleModelSelected switches the text model used for new requests.
func (m *model) handleModelSelected(msg ModelSelectedMsg) (tea.Model, tea.Cmd) {
	if m.client != nil && !m.store.Busy() {
		m.client.Model = msg.ModelID
		m.notice = "Model: " + msg.ModelID
	}
	return m, nil
}

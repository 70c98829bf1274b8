// Package tui implements the interactive terminal interface.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/yanmxa/cyberchat/internal/app"
	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/client"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/log"
	"github.com/yanmxa/cyberchat/internal/provider"
	"github.com/yanmxa/cyberchat/internal/session"
)

// Deps are the services the interface drives.
type Deps struct {
	Chat *chat.Service

	// Client is switched in place by the model selector. Optional.
	Client *client.Client

	// ListModels feeds the model selector. Optional.
	ListModels func(ctx context.Context, refresh bool) ([]provider.ModelInfo, error)

	// ImageDir receives rendered images as files.
	ImageDir string

	// TranscriptDir receives exported sessions (Ctrl+S).
	TranscriptDir string
}

type (
	// generationDoneMsg carries the result of an in-flight request.
	generationDoneMsg struct {
		ticket  chat.Ticket
		outcome chat.Outcome
	}

	// modelsLoadedMsg carries the model list for the selector.
	modelsLoadedMsg struct {
		models []provider.ModelInfo
		err    error
	}
)

type model struct {
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ctx    context.Context
	cancel context.CancelFunc

	chat       *chat.Service
	store      *session.Store
	client     *client.Client
	listModels func(ctx context.Context, refresh bool) ([]provider.ModelInfo, error)
	imageDir   string
	imagePaths map[string]string // message id -> saved file

	transcriptDir string

	// pending is the ticket of the request in flight, if any.
	pending *chat.Ticket

	width  int
	height int
	ready  bool

	inputHistory []string
	historyIndex int
	tempInput    string

	// notice is a transient line shown in the status bar.
	notice string

	// Message select mode (Ctrl+E)
	selectMode     bool
	selectedMsgIdx int

	confirm         *ConfirmPrompt
	sessionSelector SessionSelectorState
	modelSelector   ModelSelectorState

	mdRenderer *glamour.TermRenderer
	mdWidth    int
}

// Run starts the interactive interface over a wired application.
func Run(a *app.App) error {
	var imageDir, transcriptDir string
	if dir, err := log.DataDir(); err == nil {
		imageDir = filepath.Join(dir, "images")
		transcriptDir = filepath.Join(dir, "transcripts")
	}

	m := newModel(Deps{
		Chat:          a.Chat,
		Client:        a.Client,
		ListModels:    a.ListModels,
		ImageDir:      imageDir,
		TranscriptDir: transcriptDir,
	})
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newModel(deps Deps) model {
	ta := textarea.New()
	ta.Focus()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(minTextareaHeight)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		FPS:    80 * time.Millisecond,
	}
	sp.Style = thinkingStyle

	ctx, cancel := context.WithCancel(context.Background())

	m := model{
		textarea:      ta,
		spinner:       sp,
		ctx:           ctx,
		cancel:        cancel,
		chat:          deps.Chat,
		store:         deps.Chat.Store(),
		client:        deps.Client,
		listModels:    deps.ListModels,
		imageDir:      deps.ImageDir,
		imagePaths:    make(map[string]string),
		transcriptDir: deps.TranscriptDir,
		historyIndex:  -1,
		confirm:       NewConfirmPrompt(),
	}
	m.textarea.Placeholder = m.strings().InputPlaceholder
	return m
}

// strings returns the UI texts for the current language.
func (m model) strings() locale.Strings {
	return locale.For(m.store.Language())
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *model) updateTextareaHeight() {
	lines := strings.Count(m.textarea.Value(), "\n") + 1
	m.textarea.SetHeight(min(max(lines, minTextareaHeight), maxTextareaHeight))
	m.updateViewportHeight()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case generationDoneMsg:
		return m.handleGenerationDone(msg)

	case modelsLoadedMsg:
		return m.handleModelsLoaded(msg)

	case SessionSelectedMsg:
		return m.handleSessionSelected(msg)

	case ModelSelectedMsg:
		return m.handleModelSelected(msg)

	case ConfirmResponseMsg:
		return m.handleConfirmResponse(msg)

	case SessionSelectorCancelledMsg, ModelSelectorCancelledMsg:
		return m, nil

	case tea.KeyMsg:
		result, cmd := m.handleKeypress(msg)
		if result != nil {
			return result, cmd
		}

	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case spinner.TickMsg:
		if m.store.Busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshViewport(false)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	prevValue := m.textarea.Value()
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	if m.textarea.Value() != prevValue {
		m.updateTextareaHeight()
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if !m.ready {
		m.viewport = viewport.New(m.chatWidth(), 1)
		m.ready = true
	}
	m.layout()
	m.refreshViewport(true)
	return m, nil
}

// layout resizes the viewport and the input to the current screen.
func (m *model) layout() {
	m.viewport.Width = m.chatWidth()
	m.textarea.SetWidth(max(m.chatWidth()-2, 1))
	m.updateViewportHeight()
}

// sidebarVisible reports whether the sidebar fits and is toggled on.
func (m model) sidebarVisible() bool {
	return m.store.SidebarOpen() && m.width >= minSidebarScreen
}

func (m model) chatWidth() int {
	if m.sidebarVisible() {
		return max(m.width-sidebarWidth-2, minWrapWidth)
	}
	return max(m.width, 1)
}

func (m *model) updateViewportHeight() {
	if m.width == 0 || m.height == 0 {
		return
	}
	headerH := 1
	separatorH := 2
	statusH := 1
	chatH := m.height - headerH - separatorH - statusH - m.textarea.Height()
	m.viewport.Height = max(chatH, 1)
}

// refreshViewport re-renders the active session. bottom scrolls to the
// newest message.
func (m *model) refreshViewport(bottom bool) {
	if !m.ready {
		return
	}
	for _, msg := range m.store.Active().Messages {
		if msg.HasImage() {
			m.saveImage(msg)
		}
	}
	m.viewport.SetContent(m.renderMessages())
	if bottom {
		m.viewport.GotoBottom()
	}
}

func (m model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	if m.sessionSelector.IsActive() {
		return m.sessionSelector.Render()
	}
	if m.modelSelector.IsActive() {
		return m.modelSelector.Render()
	}

	header := m.renderHeader()
	separator := separatorStyle.Render(strings.Repeat("─", m.chatWidth()))

	var bottom string
	if m.confirm.IsActive() {
		bottom = m.confirm.Render()
	} else {
		bottom = inputPromptStyle.Render("❯ ") + m.textarea.View()
	}

	column := fmt.Sprintf("%s\n%s\n%s\n%s", m.viewport.View(), separator, bottom, separator)
	if m.sidebarVisible() {
		column = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), column)
	}

	return fmt.Sprintf("%s\n%s\n%s", header, column, m.renderStatusLine())
}

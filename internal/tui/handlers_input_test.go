package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yanmxa/cyberchat/internal/chat"
	"github.com/yanmxa/cyberchat/internal/client"
	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

func newTestModel(t *testing.T, fake *client.FakeClient) (*model, *session.Store) {
	t.Helper()
	store := session.New()
	m := newModel(Deps{
		Chat:     chat.New(store, fake),
		ImageDir: t.TempDir(),
	})
	t.Cleanup(m.cancel)
	m.handleWindowResize(tea.WindowSizeMsg{Width: 120, Height: 40})
	return &m, store
}

// runCmd executes cmd, descending into batches, and returns every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findMsg[T any](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %v", zero, msgs)
	return zero
}

func press(m *model, k tea.KeyType) tea.Cmd {
	_, cmd := m.handleKeypress(tea.KeyMsg{Type: k})
	return cmd
}

func typeAndPress(m *model, text string, k tea.KeyType) tea.Cmd {
	m.textarea.SetValue(text)
	return press(m, k)
}

func TestSubmitText(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{Replies: []string{"**Online**"}})

	cmd := typeAndPress(m, "status", tea.KeyEnter)
	if m.textarea.Value() != "" {
		t.Error("input should be cleared after submit")
	}
	if !store.IsLoading() || m.pending == nil {
		t.Fatal("request should be in flight")
	}

	done := findMsg[generationDoneMsg](t, runCmd(cmd))
	m.handleGenerationDone(done)

	msgs := store.Active().Messages
	if len(msgs) != 3 || msgs[2].Content != "**Online**" {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	if store.IsLoading() || m.pending != nil {
		t.Error("request should be finished")
	}
	if len(m.inputHistory) != 1 || m.inputHistory[0] != "status" {
		t.Errorf("unexpected history %v", m.inputHistory)
	}
}

func TestSubmitKeepsIndentation(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})
	raw := "    if ok {\n        return\n    }"

	cmd := typeAndPress(m, raw, tea.KeyEnter)
	m.handleGenerationDone(findMsg[generationDoneMsg](t, runCmd(cmd)))

	if got := store.Active().Messages[1].Content; got != raw {
		t.Errorf("stored %q, want %q", got, raw)
	}
}

func TestSubmitBlankIgnored(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})

	if cmd := typeAndPress(m, "   ", tea.KeyEnter); cmd != nil {
		t.Error("blank input should not start a request")
	}
	if store.Busy() || len(store.Active().Messages) != 1 {
		t.Error("blank input must not change state")
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})

	typeAndPress(m, "first", tea.KeyEnter)
	if cmd := typeAndPress(m, "second", tea.KeyEnter); cmd != nil {
		t.Error("second request should be rejected")
	}
	if m.notice != locale.For(locale.English).Busy {
		t.Errorf("expected busy notice, got %q", m.notice)
	}
	if press(m, tea.KeyCtrlG) != nil {
		t.Error("image request should be rejected while busy")
	}
	if n := store.Active().UserMessageCount(); n != 1 {
		t.Errorf("expected one user message, got %d", n)
	}
}

func TestReplyFollowsOriginatingSession(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{Replies: []string{"answer"}})
	origin := store.ActiveID()

	cmd := typeAndPress(m, "question", tea.KeyEnter)
	press(m, tea.KeyCtrlN)
	m.handleGenerationDone(findMsg[generationDoneMsg](t, runCmd(cmd)))

	if store.ActiveID() == origin {
		t.Fatal("new session should stay active")
	}
	sess, _ := store.Session(origin)
	if last := sess.Messages[len(sess.Messages)-1]; last.Content != "answer" {
		t.Errorf("reply should land in origin, got %q", last.Content)
	}
	if strings.Contains(m.renderMessages(), "answer") {
		t.Error("active view should not show the other session's reply")
	}
}

func TestDeleteLastSessionShowsNotice(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})

	press(m, tea.KeyCtrlW)
	if len(store.Sessions()) != 1 {
		t.Fatal("last session must not be deleted")
	}
	if m.notice != locale.For(locale.English).AtLeastOne {
		t.Errorf("expected notice, got %q", m.notice)
	}

	press(m, tea.KeyCtrlN)
	press(m, tea.KeyCtrlW)
	if len(store.Sessions()) != 1 || m.notice != "" {
		t.Errorf("deleting one of two sessions should succeed, notice %q", m.notice)
	}
}

func TestSwitchSessions(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})
	first := store.ActiveID()
	press(m, tea.KeyCtrlN)
	second := store.ActiveID()

	press(m, tea.KeyTab)
	if store.ActiveID() != first {
		t.Errorf("Tab should move to the next session")
	}
	press(m, tea.KeyShiftTab)
	if store.ActiveID() != second {
		t.Errorf("Shift+Tab should move back")
	}
}

func TestToggleLanguageAndSidebar(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})

	press(m, tea.KeyCtrlT)
	if store.Language() != locale.Vietnamese {
		t.Fatal("language should toggle")
	}
	if m.textarea.Placeholder != locale.For(locale.Vietnamese).InputPlaceholder {
		t.Error("placeholder should follow language")
	}

	wasOpen := store.SidebarOpen()
	press(m, tea.KeyCtrlB)
	if store.SidebarOpen() == wasOpen {
		t.Error("sidebar should toggle")
	}
}

func TestImageRequestSavesFile(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	uri := image.ToDataURI("image/png", png)
	m, store := newTestModel(t, &client.FakeClient{Images: []string{uri}})

	cmd := typeAndPress(m, "neon city", tea.KeyCtrlG)
	if !store.IsGeneratingImage() {
		t.Fatal("image flag should be set")
	}
	if !strings.Contains(m.renderMessages(), locale.For(locale.English).Rendering) {
		t.Error("view should show the rendering indicator")
	}
	m.handleGenerationDone(findMsg[generationDoneMsg](t, runCmd(cmd)))

	msgs := store.Active().Messages
	reply := msgs[len(msgs)-1]
	path, ok := m.imagePaths[reply.ID]
	if !ok {
		t.Fatal("image should be saved")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != string(png) {
		t.Errorf("unexpected image file %q, %v", data, err)
	}
	if !strings.Contains(m.renderMessages(), path) {
		t.Error("view should show the image path")
	}
}

func TestSelectModeDeletesMessage(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})

	press(m, tea.KeyCtrlE)
	if !m.selectMode {
		t.Fatal("select mode should be active")
	}
	press(m, tea.KeyDelete)
	if len(store.Active().Messages) != 0 {
		t.Fatal("welcome message should be deleted")
	}
	if m.selectMode {
		t.Error("select mode should end when no messages remain")
	}
	if press(m, tea.KeyCtrlE); m.selectMode {
		t.Error("select mode needs messages")
	}
}

func TestResetConfirmation(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{})
	press(m, tea.KeyCtrlN)

	press(m, tea.KeyCtrlR)
	if !m.confirm.IsActive() {
		t.Fatal("reset should ask for confirmation")
	}
	cmd := press(m, tea.KeyEnter) // defaults to No
	m.handleConfirmResponse(findMsg[ConfirmResponseMsg](t, runCmd(cmd)))
	if len(store.Sessions()) != 2 {
		t.Fatal("declined reset must keep state")
	}

	press(m, tea.KeyCtrlR)
	_, cmd = m.handleKeypress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m.handleConfirmResponse(findMsg[ConfirmResponseMsg](t, runCmd(cmd)))
	sessions := store.Sessions()
	if len(sessions) != 1 || sessions[0].Messages[0].Content != locale.For(locale.English).WelcomeMsg {
		t.Errorf("reset should start fresh, got %+v", sessions)
	}
}

func TestHistoryNavigation(t *testing.T) {
	m, _ := newTestModel(t, &client.FakeClient{})
	m.inputHistory = []string{"one", "two"}

	m.textarea.SetValue("draft")
	press(m, tea.KeyUp)
	if m.textarea.Value() != "two" {
		t.Errorf("expected newest entry, got %q", m.textarea.Value())
	}
	press(m, tea.KeyUp)
	if m.textarea.Value() != "one" {
		t.Errorf("expected older entry, got %q", m.textarea.Value())
	}
	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	if m.textarea.Value() != "draft" {
		t.Errorf("expected draft restored, got %q", m.textarea.Value())
	}
}

func TestGenerationErrorShownInChat(t *testing.T) {
	m, store := newTestModel(t, &client.FakeClient{ErrorAt: 1, ErrorValue: errors.New("offline")})

	cmd := typeAndPress(m, "hello", tea.KeyEnter)
	m.handleGenerationDone(findMsg[generationDoneMsg](t, runCmd(cmd)))

	msgs := store.Active().Messages
	last := msgs[len(msgs)-1]
	if last.Role != message.RoleAssistant || last.Content != locale.For(locale.English).ErrorConn {
		t.Errorf("expected connection error message, got %+v", last)
	}
}

func TestExportActiveSession(t *testing.T) {
	m, _ := newTestModel(t, &client.FakeClient{Replies: []string{"⚡ online"}})
	m.transcriptDir = filepath.Join(t.TempDir(), "transcripts")

	cmd := typeAndPress(m, "status report", tea.KeyEnter)
	m.handleGenerationDone(findMsg[generationDoneMsg](t, runCmd(cmd)))

	press(m, tea.KeyCtrlS)
	path, ok := strings.CutPrefix(m.notice, "Exported to ")
	if !ok {
		t.Fatalf("expected export notice, got %q", m.notice)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"status report", "⚡ online", "**Cyber**"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

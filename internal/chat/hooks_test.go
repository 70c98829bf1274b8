package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yanmxa/cyberchat/internal/client"
	"github.com/yanmxa/cyberchat/internal/config"
	"github.com/yanmxa/cyberchat/internal/hooks"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

func newEngine(t *testing.T, event hooks.EventType, matcher, command string) *hooks.Engine {
	t.Helper()
	dir := t.TempDir()
	settings := config.NewSettings(dir)
	settings.Hooks[string(event)] = []config.Hook{
		{Matcher: matcher, Hooks: []config.HookCmd{{Command: command}}},
	}
	return hooks.NewEngine(settings, dir)
}

// waitForFile polls for a file written by an async hook.
func waitForFile(t *testing.T, path string) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
			return string(data)
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("hook did not write %s", path)
	return ""
}

func TestPromptHookBlocksRequest(t *testing.T) {
	store := newStore()
	fake := &client.FakeClient{}
	engine := newEngine(t, hooks.UserPromptSubmit, "image", "echo 'images are disabled' >&2; exit 2")
	svc := New(store, fake, WithHooks(engine))

	msg, err := svc.Send(context.Background(), Image, "neon city")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Content != "⛔ images are disabled" || msg.HasImage() {
		t.Errorf("unexpected reply %+v", msg)
	}
	if fake.CallCount() != 0 {
		t.Error("blocked request must not reach the client")
	}
	if store.Busy() {
		t.Error("blocked request must clear the in-flight flag")
	}

	// The matcher only covers images
	if _, err := svc.Send(context.Background(), Text, "hello"); err != nil {
		t.Fatal(err)
	}
	if fake.CallCount() != 1 {
		t.Error("text request should pass the hook")
	}
}

func TestPromptHookNoticeRecorded(t *testing.T) {
	store := newStore()
	engine := newEngine(t, hooks.UserPromptSubmit, "", `echo '{"systemMessage":"logged for audit"}'`)
	svc := New(store, &client.FakeClient{Replies: []string{"⚡ ok"}}, WithHooks(engine))

	if _, err := svc.Send(context.Background(), Text, "hello"); err != nil {
		t.Fatal(err)
	}

	msgs := store.Active().Messages
	if len(msgs) != 4 {
		t.Fatalf("expected welcome, prompt, notice and reply, got %+v", msgs)
	}
	if msgs[2].Role != message.RoleSystem || msgs[2].Content != "logged for audit" {
		t.Errorf("unexpected notice %+v", msgs[2])
	}
	if msgs[3].Role != message.RoleAssistant || msgs[3].Content != "⚡ ok" {
		t.Errorf("unexpected reply %+v", msgs[3])
	}
}

func TestStopHookReceivesReply(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stop.json")
	engine := newEngine(t, hooks.Stop, "text", "cat > "+out+".tmp && mv "+out+".tmp "+out)
	svc := New(newStore(), &client.FakeClient{Replies: []string{"⚡ done"}}, WithHooks(engine))

	if _, err := svc.Send(context.Background(), Text, "run"); err != nil {
		t.Fatal(err)
	}

	got := waitForFile(t, out)
	for _, want := range []string{`"hook_event_name":"Stop"`, `"reply":"⚡ done"`, `"prompt":"run"`, `"kind":"text"`} {
		if !strings.Contains(got, want) {
			t.Errorf("hook input %s missing %s", got, want)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := newStore()
	svc := New(store, nil)

	first := store.ActiveID()
	sess := svc.NewSession()
	if store.ActiveID() != sess.ID {
		t.Fatal("new session should be active")
	}
	if err := svc.DeleteSession(sess.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteSession(first); !errors.Is(err, session.ErrLastSession) {
		t.Errorf("expected ErrLastSession, got %v", err)
	}

	store.TryBeginPending(Text)
	if err := svc.Reset(); !errors.Is(err, ErrBusy) {
		t.Errorf("reset while busy should fail with ErrBusy, got %v", err)
	}
	store.SetPending(Text, false)
	if err := svc.Reset(); err != nil {
		t.Fatal(err)
	}
	if store.ActiveID() == first {
		t.Error("reset should start a fresh session")
	}
}

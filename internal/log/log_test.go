package log

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/provider"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestLogRequestFormatsTurns(t *testing.T) {
	logs := observe(t)

	LogRequest("google:api_key", provider.CompletionRequest{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "be brief",
		Temperature:       0.9,
		Turns: []provider.Turn{
			{Role: provider.RoleUser, Text: "hi"},
			{Role: provider.RoleModel, Text: "hello\nthere"},
		},
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	msg := entries[0].Message
	for _, want := range []string{"gemini-2.5-flash", "System: be brief", "[0] User: hi", `[1] Model: hello\nthere`} {
		if !strings.Contains(msg, want) {
			t.Errorf("log missing %q:\n%s", want, msg)
		}
	}
}

func TestLogImageResponseSummarizesParts(t *testing.T) {
	logs := observe(t)

	LogImageResponse("google:api_key", provider.ImageResponse{Parts: []provider.Part{
		provider.TextPart{Text: "done"},
		provider.InlineImagePart{MIMEType: "image/png", Data: make([]byte, 42)},
		provider.UnknownPart{Kind: "executable_code"},
	}}, time.Second)

	msg := logs.All()[0].Message
	for _, want := range []string{"Text: done", "image/png 42 bytes", "Unknown: executable_code"} {
		if !strings.Contains(msg, want) {
			t.Errorf("log missing %q:\n%s", want, msg)
		}
	}
}

func TestLogErrorDisabled(t *testing.T) {
	SetLogger(nil)
	// Must not panic when logging is disabled.
	LogError("test", errors.New("boom"))
	if IsEnabled() {
		t.Error("logging should be disabled")
	}
}

func TestMessageField(t *testing.T) {
	logs := observe(t)
	msg := message.Message{ID: "m1", Role: message.RoleUser, Content: "hello", ImageURL: "data:x"}

	Logger().Info("appended", MessageField(msg))

	fields := logs.All()[0].ContextMap()
	obj, ok := fields["message"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected field %#v", fields["message"])
	}
	if obj["id"] != "m1" || obj["role"] != "user" || obj["content"] != "hello" {
		t.Errorf("unexpected message fields %v", obj)
	}
}

func TestDevDirWritesRecords(t *testing.T) {
	dir := t.TempDir()
	mu.Lock()
	devDir, devEnabled = dir, true
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		devDir, devEnabled = "", false
		mu.Unlock()
	})

	LogImageRequest("openai:api_key", provider.ImageRequest{Model: "gpt-image-1", Prompt: "city"})
	turn := CurrentTurn()

	data, err := os.ReadFile(filepath.Join(dir, GetTurnPrefix(turn)+"-request.json"))
	if err != nil {
		t.Fatal(err)
	}
	var rec DevRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Turn != turn || rec.Provider != "openai:api_key" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := truncateForLog("abcdef", 3); got != "abc…" {
		t.Errorf("got %q", got)
	}
	if got := truncateForLog("ab", 3); got != "ab" {
		t.Errorf("got %q", got)
	}
}

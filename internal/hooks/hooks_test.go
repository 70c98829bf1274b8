package hooks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yanmxa/cyberchat/internal/config"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newSettings(event EventType, matcher, command string) *config.Settings {
	settings := config.NewSettings(os.TempDir())
	settings.Hooks[string(event)] = []config.Hook{
		{Matcher: matcher, Hooks: []config.HookCmd{{Type: "command", Command: command}}},
	}
	return settings
}

func TestMatchesEvent(t *testing.T) {
	tests := []struct {
		name       string
		matcher    string
		matchValue string
		want       bool
	}{
		{"empty matcher matches everything", "", "anything", true},
		{"wildcard matcher matches everything", "*", "anything", true},
		{"exact match", "image", "image", true},
		{"exact match fails", "image", "text", false},
		{"regex or pattern", "text|image", "image", true},
		{"regex or pattern fails", "startup|new", "delete", false},
		{"regex is anchored", "im", "image", false},
		{"invalid regex falls back to exact", "[invalid", "[invalid", true},
		{"invalid regex fails", "[invalid", "other", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchesEvent(tt.matcher, tt.matchValue)
			if got != tt.want {
				t.Errorf("MatchesEvent(%q, %q) = %v, want %v", tt.matcher, tt.matchValue, got, tt.want)
			}
		})
	}
}

func TestGetMatchValue(t *testing.T) {
	tests := []struct {
		event EventType
		input HookInput
		want  string
	}{
		{UserPromptSubmit, HookInput{Kind: "text", Prompt: "hi"}, "text"},
		{Stop, HookInput{Kind: "image"}, "image"},
		{SessionStart, HookInput{Source: "startup"}, "startup"},
		{SessionEnd, HookInput{Reason: "reset"}, "reset"},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			got := GetMatchValue(tt.event, tt.input)
			if got != tt.want {
				t.Errorf("GetMatchValue(%v, %+v) = %q, want %q", tt.event, tt.input, got, tt.want)
			}
		})
	}
}

func TestEngineNoHooks(t *testing.T) {
	engine := NewEngine(config.NewSettings(os.TempDir()), "/tmp")

	outcome := engine.Execute(context.Background(), UserPromptSubmit, HookInput{Kind: "text"})
	if !outcome.ShouldContinue || outcome.ShouldBlock {
		t.Errorf("unexpected outcome without hooks: %+v", outcome)
	}
}

func TestEngineNil(t *testing.T) {
	var engine *Engine

	if engine.HasHooks(Stop) {
		t.Error("nil engine has no hooks")
	}
	if outcome := engine.Execute(context.Background(), Stop, HookInput{}); !outcome.ShouldContinue {
		t.Error("nil engine must let everything continue")
	}
	engine.ExecuteAsync(Stop, HookInput{})

	if outcome := NewEngine(nil, "/tmp").Execute(context.Background(), Stop, HookInput{}); !outcome.ShouldContinue {
		t.Error("nil settings must let everything continue")
	}
}

func TestEngineHasHooks(t *testing.T) {
	engine := NewEngine(newSettings(Stop, "", "echo done"), "/tmp")

	if !engine.HasHooks(Stop) {
		t.Error("Expected HasHooks(Stop)=true")
	}
	if engine.HasHooks(UserPromptSubmit) {
		t.Error("Expected HasHooks(UserPromptSubmit)=false")
	}
}

func TestEngineMatcherFiltering(t *testing.T) {
	tmpDir := t.TempDir()
	script := writeScript(t, tmpDir, "hook.sh", `echo '{"systemMessage":"hook executed"}'`)

	engine := NewEngine(newSettings(UserPromptSubmit, "image", script), tmpDir)

	outcome := engine.Execute(context.Background(), UserPromptSubmit, HookInput{Kind: "image"})
	if outcome.SystemMessage != "hook executed" {
		t.Errorf("Expected message from hook, got %q", outcome.SystemMessage)
	}

	outcome = engine.Execute(context.Background(), UserPromptSubmit, HookInput{Kind: "text"})
	if outcome.SystemMessage != "" {
		t.Errorf("Expected no message for non-matching kind, got %q", outcome.SystemMessage)
	}
}

func TestEngineBlocking(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"exit code 2", "echo 'Blocked by policy' >&2\nexit 2\n", "Blocked by policy"},
		{"exit code 2 without reason", "exit 2\n", "Hook blocked execution"},
		{"continue false", `echo '{"continue":false,"stopReason":"Denied by hook"}'`, "Denied by hook"},
		{"decision block", `echo '{"decision":"block","reason":"No images today"}'`, "No images today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			script := writeScript(t, tmpDir, "block.sh", tt.body)
			engine := NewEngine(newSettings(UserPromptSubmit, "", script), tmpDir)

			outcome := engine.Execute(context.Background(), UserPromptSubmit, HookInput{Kind: "text"})
			if outcome.ShouldContinue || !outcome.ShouldBlock {
				t.Fatalf("expected blocking outcome, got %+v", outcome)
			}
			if outcome.BlockReason != tt.reason {
				t.Errorf("BlockReason = %q, want %q", outcome.BlockReason, tt.reason)
			}
		})
	}
}

func TestEngineNonZeroExitContinues(t *testing.T) {
	tmpDir := t.TempDir()
	script := writeScript(t, tmpDir, "fail.sh", "exit 1\n")
	engine := NewEngine(newSettings(Stop, "", script), tmpDir)

	if outcome := engine.Execute(context.Background(), Stop, HookInput{}); !outcome.ShouldContinue {
		t.Error("non-blocking failures must not stop the chain")
	}
}

func TestEngineInputAndEnvironment(t *testing.T) {
	tmpDir := t.TempDir()
	out := filepath.Join(tmpDir, "input.json")
	script := writeScript(t, tmpDir, "capture.sh",
		`cat > `+out+`
echo "{\"systemMessage\":\"$CYBER_EVENT_TYPE $CYBER_SESSION_ID $CYBER_PROJECT_DIR\"}"
`)
	engine := NewEngine(newSettings(Stop, "text", script), tmpDir)

	outcome := engine.Execute(context.Background(), Stop, HookInput{
		SessionID: "s1",
		Kind:      "text",
		Prompt:    "hello",
		Reply:     "⚡ hi",
	})

	if want := "Stop s1 " + tmpDir; outcome.SystemMessage != want {
		t.Errorf("SystemMessage = %q, want %q", outcome.SystemMessage, want)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got HookInput
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.HookEventName != "Stop" || got.Cwd != tmpDir || got.Reply != "⚡ hi" || got.Prompt != "hello" {
		t.Errorf("unexpected hook input %+v", got)
	}
}

func TestEngineTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	settings := config.NewSettings(tmpDir)
	settings.Hooks[string(Stop)] = []config.Hook{
		{Hooks: []config.HookCmd{{Command: "sleep 5", Timeout: 1}}},
	}
	engine := NewEngine(settings, tmpDir)

	start := time.Now()
	outcome := engine.Execute(context.Background(), Stop, HookInput{})
	if time.Since(start) > 4*time.Second {
		t.Error("hook should be killed at its timeout")
	}
	if !outcome.ShouldContinue {
		t.Error("a timed out hook must not block")
	}
}

// Package hooks runs user-configured shell commands on chat events.
// Each command receives the event as JSON on stdin and may answer with
// JSON on stdout; exit code 2 blocks the triggering action.
package hooks

// EventType represents the type of hook event.
type EventType string

// Event types with their matcher support noted.
const (
	SessionStart     EventType = "SessionStart"     // matcher: startup, new
	UserPromptSubmit EventType = "UserPromptSubmit" // matcher: text, image
	Stop             EventType = "Stop"             // matcher: text, image
	SessionEnd       EventType = "SessionEnd"       // matcher: delete, reset
)

// HookInput is the JSON input passed to hook commands via stdin.
type HookInput struct {
	// Common fields
	SessionID     string `json:"session_id"`
	Cwd           string `json:"cwd"`
	HookEventName string `json:"hook_event_name"`
	Language      string `json:"language,omitempty"`

	// Request events
	Kind     string `json:"kind,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Reply    string `json:"reply,omitempty"`
	HasImage bool   `json:"has_image,omitempty"`
	Error    string `json:"error,omitempty"`

	// Session events
	Source string `json:"source,omitempty"`
	Reason string `json:"reason,omitempty"`
	Model  string `json:"model,omitempty"`
}

// HookOutput is the JSON output from hook commands.
type HookOutput struct {
	Continue      *bool  `json:"continue,omitempty"`
	StopReason    string `json:"stopReason,omitempty"`
	SystemMessage string `json:"systemMessage,omitempty"`
	Decision      string `json:"decision,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// HookOutcome is the processed result from hook execution.
type HookOutcome struct {
	ShouldContinue bool
	ShouldBlock    bool
	BlockReason    string
	SystemMessage  string
	Error          error
}

package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yanmxa/cyberchat/internal/image"
	"github.com/yanmxa/cyberchat/internal/locale"
	"github.com/yanmxa/cyberchat/internal/message"
	"github.com/yanmxa/cyberchat/internal/session"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestGenerateName(t *testing.T) {
	day := time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		title string
		want  string
	}{
		{"Help me build a gaming PC", "20260129-build-gaming-pc"},
		{"What is the best GPU for 4K gaming today", "20260129-best-gpu-4k-gaming"},
		{"Nhiệm vụ mới", "20260129-nhiệm-vụ-mới"},
		{"", "20260129-mission"},
		{"??? !!!", "20260129-mission"},
		{"go go go", "20260129-go"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := GenerateName(tt.title, day)
			if got != tt.want {
				t.Errorf("GenerateName(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if !ValidateID(got) {
				t.Errorf("generated name %q should be valid", got)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"20260209-neon-city", true},
		{"20260209-mission", true},
		{"abc-def-ghi", true},
		{"", false},
		{"single", false},
		{"ABC-DEF", false},
		{"-abc-def", false},
		{"abc-def-", false},
		{"abc--def", false},
		{"abc def", false},
		{"../etc-passwd", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidateID(tt.id); got != tt.valid {
				t.Errorf("ValidateID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "transcripts"))
	if err != nil {
		t.Fatal(err)
	}

	created := time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)
	in := &Transcript{
		SessionID: "s1",
		Title:     "Title: with --- colon",
		Language:  "vi",
		Messages:  2,
		CreatedAt: created,
		Content:   "# Heading\n\n---\n\nbody",
	}
	path, err := store.Save(in)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != in.ID+".md" || in.ExportedAt.IsZero() {
		t.Errorf("unexpected save result %s %+v", path, in)
	}

	out, err := store.Load(in.ID)
	if err != nil {
		t.Fatal(err)
	}
	if out.Title != in.Title || out.SessionID != "s1" || out.Language != "vi" || out.Messages != 2 {
		t.Errorf("unexpected frontmatter %+v", out)
	}
	if !out.CreatedAt.Equal(created) {
		t.Errorf("created_at lost: %v", out.CreatedAt)
	}
	if out.Content != in.Content {
		t.Errorf("content = %q, want %q", out.Content, in.Content)
	}

	if _, err := store.Save(&Transcript{ID: "Bad ID"}); err == nil {
		t.Error("invalid ids must be rejected")
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := store.Save(&Transcript{ID: "20260101-old", ExportedAt: older}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Save(&Transcript{ID: "20260102-new", ExportedAt: older.Add(24 * time.Hour)}); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("no frontmatter"), 0644); err != nil {
		t.Fatal(err)
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "20260102-new" || list[1].ID != "20260101-old" {
		t.Errorf("unexpected list %+v", list)
	}

	if err := store.Delete("20260101-old"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("20260101-old"); err == nil {
		t.Error("deleted transcript should be gone")
	}
}

func TestExport(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sess := session.ChatSession{
		ID:        "s1",
		Title:     "Neon city",
		CreatedAt: ts,
		Messages: []message.Message{
			{ID: "m1", Role: message.RoleUser, Content: "Draw a neon city", Timestamp: ts},
			{ID: "m2", Role: message.RoleAssistant, Content: "Rendered: neon city", ImageURL: image.ToDataURI("image/png", pngHeader), Timestamp: ts},
			{ID: "m3", Role: message.RoleAssistant, Content: "broken", ImageURL: "data:nope", Timestamp: ts},
			{ID: "m4", Role: message.RoleSystem, Content: "Link stable", Timestamp: ts},
		},
	}

	path, err := store.Export(sess, locale.English)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	id := strings.TrimSuffix(filepath.Base(path), ".md")
	for _, want := range []string{
		"session_id: s1",
		"# Neon city",
		"**You** · ",
		"Draw a neon city",
		"**Cyber** · ",
		"![m2](" + id + "-assets/m2.png)",
		"_(image not exported)_",
		"> Link stable",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("transcript missing %q:\n%s", want, content)
		}
	}

	saved, err := os.ReadFile(filepath.Join(store.AssetDir(id), "m2.png"))
	if err != nil || string(saved) != string(pngHeader) {
		t.Errorf("image not saved: %v", err)
	}
}

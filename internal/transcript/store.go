// Package transcript exports chat sessions as markdown files with YAML
// frontmatter. Rendered images are written next to the transcript.
package transcript

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Transcript is an exported session.
type Transcript struct {
	ID         string    `yaml:"id"`
	SessionID  string    `yaml:"session_id"`
	Title      string    `yaml:"title"`
	Language   string    `yaml:"language"`
	Messages   int       `yaml:"messages"`
	CreatedAt  time.Time `yaml:"created_at"`
	ExportedAt time.Time `yaml:"exported_at"`
	Content    string    `yaml:"-"` // markdown body (not in frontmatter)
}

// Store manages transcript files in a directory.
type Store struct {
	baseDir string
}

// NewStore creates a store writing to dir (e.g., ~/.cyber/transcripts).
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create transcripts directory: %w", err)
	}
	return &Store{baseDir: dir}, nil
}

// Save writes t to disk and returns the file path. An existing transcript
// with the same ID is overwritten.
func (s *Store) Save(t *Transcript) (string, error) {
	if t.ExportedAt.IsZero() {
		t.ExportedAt = time.Now()
	}
	if t.ID == "" {
		t.ID = GenerateName(t.Title, t.ExportedAt)
	}
	if !ValidateID(t.ID) {
		return "", fmt.Errorf("invalid transcript id %q", t.ID)
	}

	front, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(front)
	buf.WriteString("---\n\n")
	buf.WriteString(t.Content)

	path := s.GetPath(t.ID)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}
	return path, nil
}

// Load loads a transcript from disk by ID
func (s *Store) Load(id string) (*Transcript, error) {
	data, err := os.ReadFile(s.GetPath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	return parseFile(string(data))
}

// List returns all saved transcripts, newest export first.
func (s *Store) List() ([]*Transcript, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts directory: %w", err)
	}

	var list []*Transcript
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		t, err := s.Load(strings.TrimSuffix(entry.Name(), ".md"))
		if err != nil {
			continue // Skip foreign markdown files
		}
		list = append(list, t)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ExportedAt.After(list[j].ExportedAt)
	})
	return list, nil
}

// Delete removes a transcript and its image directory.
func (s *Store) Delete(id string) error {
	if err := os.Remove(s.GetPath(id)); err != nil {
		return err
	}
	return os.RemoveAll(s.AssetDir(id))
}

// GetPath returns the full path for a transcript ID
func (s *Store) GetPath(id string) string {
	return filepath.Join(s.baseDir, id+".md")
}

// AssetDir returns the directory holding the images of a transcript.
func (s *Store) AssetDir(id string) string {
	return filepath.Join(s.baseDir, id+"-assets")
}

// parseFile parses a transcript file with YAML frontmatter
func parseFile(content string) (*Transcript, error) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, errors.New("transcript missing frontmatter")
	}

	endIdx := strings.Index(content[4:], "\n---\n")
	if endIdx == -1 {
		return nil, errors.New("transcript has unclosed frontmatter")
	}

	var t Transcript
	if err := yaml.Unmarshal([]byte(content[4:4+endIdx]), &t); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	t.Content = strings.TrimPrefix(content[4+endIdx+5:], "\n")
	return &t, nil
}

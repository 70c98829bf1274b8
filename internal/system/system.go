// Package system assembles the system instruction sent with text requests:
// the chatbot persona followed by optional memory files that let users
// tune the bot per machine or per project.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/yanmxa/cyberchat/internal/client"
	"github.com/yanmxa/cyberchat/internal/log"
)

const (
	// maxImportDepth is the maximum recursion depth for @import resolution
	maxImportDepth = 5

	// MemoryFileName is the memory file looked up at each level.
	MemoryFileName = "CYBER.md"
	localFileName  = "CYBER.local.md"
)

var importRe = regexp.MustCompile(`(?m)^@([^\s@]+\.md)\s*$`)

// Instruction returns the persona followed by the memory found under
// userDir (e.g., ~/.cyber) and cwd.
func Instruction(userDir, cwd string) string {
	return BuildInstruction(client.Persona, LoadMemory(userDir, cwd))
}

// BuildInstruction joins the persona and memory content.
func BuildInstruction(persona, memory string) string {
	if strings.TrimSpace(memory) == "" {
		return persona
	}
	return persona + "\n\n" + formatMemory(memory)
}

// formatMemory wraps memory content in XML tags.
func formatMemory(m string) string {
	return "<memory>\n" + m + "\n</memory>"
}

// MemoryFile represents a loaded memory file with metadata.
type MemoryFile struct {
	Path    string // Full path to the file
	Size    int64  // File size in bytes
	Content string // File content
	Level   string // "global", "project", or "local"
	Source  string // "rules" for rules directory files, empty otherwise
}

// LoadMemory loads memory content from standard locations.
//
// User level:
//   - ~/.cyber/CYBER.md
//   - ~/.cyber/rules/*.md
//
// Project level (first found wins):
//  1. .cyber/CYBER.md
//  2. CYBER.md
//
// Project rules and local file (not committed to git):
//   - .cyber/rules/*.md
//   - .cyber/CYBER.local.md
//
// All sources are concatenated with @import resolution.
func LoadMemory(userDir, cwd string) string {
	files := LoadMemoryFiles(userDir, cwd)
	if len(files) == 0 {
		return ""
	}

	parts := make([]string, 0, len(files))
	for _, f := range files {
		parts = append(parts, f.Content)
	}
	return strings.Join(parts, "\n\n")
}

// LoadMemoryFiles loads all memory files with metadata.
// Returns files in order: global, global rules, project, project rules, local.
func LoadMemoryFiles(userDir, cwd string) []MemoryFile {
	paths := GetAllMemoryPaths(userDir, cwd)
	seen := make(map[string]bool) // Track imported files to prevent cycles

	var files []MemoryFile
	if f := loadMemoryFile(paths.Global, "global", "", seen); f != nil {
		files = append(files, *f)
	}
	files = append(files, loadRulesDirectory(paths.GlobalRules, "global", seen)...)

	if f := loadMemoryFile(paths.Project, "project", "", seen); f != nil {
		files = append(files, *f)
	}
	files = append(files, loadRulesDirectory(paths.ProjectRules, "project", seen)...)

	if f := loadMemoryFile(paths.Local, "local", "", seen); f != nil {
		files = append(files, *f)
	}
	return files
}

// loadMemoryFile loads the first existing file from sources with @import resolution.
func loadMemoryFile(sources []string, level, source string, seen map[string]bool) *MemoryFile {
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || seen[src] {
			continue
		}

		data, err := os.ReadFile(src)
		if err != nil {
			continue
		}

		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}

		seen[src] = true
		content = resolveImports(content, filepath.Dir(src), 0, seen)

		log.Logger().Info("Loaded memory file",
			zap.String("path", src),
			zap.Int64("bytes", info.Size()),
			zap.String("level", level))

		return &MemoryFile{
			Path:    src,
			Size:    info.Size(),
			Content: fmt.Sprintf("<!-- Source: %s -->\n%s", src, content),
			Level:   level,
			Source:  source,
		}
	}
	return nil
}

// loadRulesDirectory loads all .md files from a rules directory.
func loadRulesDirectory(dir string, level string, seen map[string]bool) []MemoryFile {
	var files []MemoryFile
	for _, path := range ListRulesFiles(dir) {
		if f := loadMemoryFile([]string{path}, level, "rules", seen); f != nil {
			files = append(files, *f)
		}
	}
	return files
}

// resolveImports processes @import statements in content.
// Syntax: a line holding only @path/to/file.md, relative to basePath.
// Max depth is limited to prevent infinite recursion.
func resolveImports(content string, basePath string, depth int, seen map[string]bool) string {
	if depth >= maxImportDepth {
		return content
	}

	return importRe.ReplaceAllStringFunc(content, func(match string) string {
		importPath := strings.TrimPrefix(strings.TrimSpace(match), "@")
		fullPath := filepath.Clean(filepath.Join(basePath, importPath))

		if seen[fullPath] {
			return fmt.Sprintf("<!-- Skipped (cycle): @%s -->", importPath)
		}

		data, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Sprintf("<!-- Import not found: @%s -->", importPath)
		}

		seen[fullPath] = true
		importedContent := strings.TrimSpace(string(data))

		log.Logger().Debug("Resolved import",
			zap.String("import", importPath),
			zap.String("fullPath", fullPath),
			zap.Int("depth", depth))

		importedContent = resolveImports(importedContent, filepath.Dir(fullPath), depth+1, seen)
		return fmt.Sprintf("<!-- Imported: %s -->\n%s", importPath, importedContent)
	})
}

// MemoryPaths holds categorized memory file paths.
type MemoryPaths struct {
	Global       []string // User-level memory files
	GlobalRules  string   // User-level rules directory
	Project      []string // Project-level memory files
	ProjectRules string   // Project-level rules directory
	Local        []string // Local memory files (not committed)
}

// GetAllMemoryPaths returns all memory paths organized by category.
func GetAllMemoryPaths(userDir, cwd string) MemoryPaths {
	return MemoryPaths{
		Global:      []string{filepath.Join(userDir, MemoryFileName)},
		GlobalRules: filepath.Join(userDir, "rules"),
		Project: []string{
			filepath.Join(cwd, ".cyber", MemoryFileName),
			filepath.Join(cwd, MemoryFileName),
		},
		ProjectRules: filepath.Join(cwd, ".cyber", "rules"),
		Local:        []string{filepath.Join(cwd, ".cyber", localFileName)},
	}
}

// ListRulesFiles returns all .md files under a rules directory, including
// nested ones, sorted.
func ListRulesFiles(rulesDir string) []string {
	matches, err := doublestar.Glob(os.DirFS(rulesDir), "**/*.{md,MD}", doublestar.WithFilesOnly())
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(rulesDir, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files
}

// FormatFileSize formats a file size for display.
func FormatFileSize(size int64) string {
	if size >= 1024*1024 {
		return fmt.Sprintf("%.1fMB", float64(size)/(1024*1024))
	}
	if size >= 1024 {
		return fmt.Sprintf("%.1fKB", float64(size)/1024)
	}
	return fmt.Sprintf("%dB", size)
}

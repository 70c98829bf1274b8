package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the settings file name inside each config directory.
const SettingsFile = "settings.yaml"

// Loader handles loading and merging settings from multiple sources.
type Loader struct {
	// userDir is the user-level config directory (e.g., ~/.cyber)
	userDir string

	// projectDir is the project-level config directory (e.g., .cyber)
	projectDir string

	// environ replaces the process environment when non-nil.
	environ map[string]string
}

// NewLoader creates a new settings loader.
// It defaults to:
//   - userDir: ~/.cyber
//   - projectDir: .cyber
func NewLoader() *Loader {
	homeDir, _ := os.UserHomeDir()
	return &Loader{
		userDir:    filepath.Join(homeDir, ".cyber"),
		projectDir: ".cyber",
	}
}

// NewLoaderWithOptions creates a loader with custom directories and an
// explicit environment (nil reads the process environment).
func NewLoaderWithOptions(userDir, projectDir string, environ map[string]string) *Loader {
	return &Loader{
		userDir:    userDir,
		projectDir: projectDir,
		environ:    environ,
	}
}

// Load loads and merges settings from all sources.
// Priority (lowest to highest):
//  1. defaults
//  2. ~/.cyber/settings.yaml
//  3. .cyber/settings.yaml
//  4. environment variables
//
// Missing files are skipped; a malformed file is an error so that a typo
// does not silently fall back to defaults.
func (l *Loader) Load() (*Settings, error) {
	settings := NewSettings(l.userDir)

	for _, src := range l.Sources() {
		s, err := l.LoadFile(src)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		settings = MergeSettings(settings, s)
	}

	opts := env.Options{}
	if l.environ != nil {
		opts.Environment = l.environ
	}
	if err := env.ParseWithOptions(settings, opts); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return settings, nil
}

// Sources returns the settings files in priority order (lowest first).
func (l *Loader) Sources() []string {
	return []string{
		filepath.Join(l.userDir, SettingsFile),
		filepath.Join(l.projectDir, SettingsFile),
	}
}

// LoadFile loads settings from a specific file.
func (l *Loader) LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return &settings, nil
}

// GetUserDir returns the user config directory path.
func (l *Loader) GetUserDir() string {
	return l.userDir
}

// GetProjectDir returns the project config directory path.
func (l *Loader) GetProjectDir() string {
	return l.projectDir
}

// SaveToUser saves settings to the user-level settings file.
// It merges with existing settings if the file exists.
func (l *Loader) SaveToUser(settings *Settings) (string, error) {
	path := filepath.Join(l.userDir, SettingsFile)
	return path, l.saveToFile(path, settings)
}

// SaveToProject saves settings to the project-level settings file.
// It merges with existing settings if the file exists.
func (l *Loader) SaveToProject(settings *Settings) (string, error) {
	path := filepath.Join(l.projectDir, SettingsFile)
	return path, l.saveToFile(path, settings)
}

// saveToFile saves settings to a specific file, merging with existing content.
func (l *Loader) saveToFile(path string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	toSave := settings
	if existing, err := l.LoadFile(path); err == nil {
		toSave = MergeSettings(existing, settings)
	}

	data, err := yaml.Marshal(toSave)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Load is a convenience function that loads settings using the default loader.
func Load() (*Settings, error) {
	return NewLoader().Load()
}

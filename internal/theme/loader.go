package theme

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnvVar names a theme to use when none is configured.
const EnvVar = "COLORBY_THEME"

// Loader handles loading themes from various sources.
type Loader struct {
	ConfigDir string
	SystemDir string
}

// NewLoader creates a new Loader with standard paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "colorby", "themes"),
		SystemDir: "/usr/share/colorby/themes",
	}
}

// Load attempts to load a theme by name or path.
// Order:
// 1. If it's a file path that exists, load it.
// 2. Check embedded themes.
// 3. Check ConfigDir.
// 4. Check SystemDir.
// An empty name falls back to $COLORBY_THEME, then Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		name = strings.TrimSpace(os.Getenv(EnvVar))
	}
	if name == "" {
		return Default(), nil
	}

	// 1. File path
	if _, err := os.Stat(name); err == nil {
		return l.parseFile(name)
	}

	filename := strings.ToLower(name)
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}

	// 2. Embedded
	if f, err := EmbeddedThemes.Open("defaults/" + filename); err == nil {
		defer f.Close()
		return Parse(f)
	}

	// 3. Config Dir, 4. System Dir
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			return l.parseFile(path)
		}
	}

	return nil, fmt.Errorf("theme '%s' not found", name)
}

func (l *Loader) parseFile(path string) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Names lists the themes Load can find by name, sorted.
func (l *Loader) Names() []string {
	seen := map[string]bool{}
	add := func(name string) {
		if strings.HasSuffix(name, ".theme") {
			seen[strings.TrimSuffix(name, ".theme")] = true
		}
	}
	if entries, err := fs.ReadDir(EmbeddedThemes, "defaults"); err == nil {
		for _, e := range entries {
			add(e.Name())
		}
	}
	for _, dir := range []string{l.ConfigDir, l.SystemDir} {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

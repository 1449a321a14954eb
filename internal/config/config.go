// Package config reads the user's rc file: default theme, sampling
// defaults, notification switches and inline theme definitions.
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Complete bool
	Save     bool
	Copy     bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string

	// Puzzle defaults; zero means the built-in value.
	ImageSize int
	GridStep  int
	Bucket    int
	Flatness  float64
	Workers   int

	Notify Notify
	Themes map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:  "", // Default to empty to allow fallback to Env/Default
		Themes: make(map[string]*theme.Theme),
	}
}

// Options converts the puzzle defaults into session options.
func (c *Config) Options() []puzzle.Option {
	var opts []puzzle.Option
	if c.ImageSize > 0 {
		opts = append(opts, puzzle.WithImageSize(c.ImageSize))
	}
	if c.GridStep > 0 {
		opts = append(opts, puzzle.WithGridStep(c.GridStep))
	}
	if c.Bucket > 0 {
		opts = append(opts, puzzle.WithBucket(c.Bucket))
	}
	if c.Flatness > 0 {
		opts = append(opts, puzzle.WithFlatness(c.Flatness))
	}
	if c.Workers > 0 {
		opts = append(opts, puzzle.WithWorkers(c.Workers))
	}
	return opts
}

// ResolveTheme picks the theme called name: an inline [theme.name] section
// wins, then the loader's search path. An empty name uses the configured
// theme.
func (c *Config) ResolveTheme(l *theme.Loader, name string) (*theme.Theme, error) {
	if name == "" {
		name = c.Theme
	}
	if t, ok := c.Themes[name]; ok && name != "" {
		return t, nil
	}
	if l == nil {
		l = theme.NewLoader()
	}
	return l.Load(name)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	for _, kv := range []struct {
		key string
		val int
	}{
		{"image_size", c.ImageSize},
		{"grid_step", c.GridStep},
		{"bucket", c.Bucket},
		{"workers", c.Workers},
	} {
		if kv.val != 0 {
			fmt.Fprintf(&sb, "%s = %d\n", kv.key, kv.val)
		}
	}
	if c.Flatness != 0 {
		fmt.Fprintf(&sb, "flatness = %s\n", strconv.FormatFloat(c.Flatness, 'g', -1, 64))
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "complete = %v\n", c.Notify.Complete)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Format(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}

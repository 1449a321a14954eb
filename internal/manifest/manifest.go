// Package manifest reads puzzle manifests: small TOML or YAML files naming a
// puzzle's outline document, its source image, and sampling settings.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/example/colorby/internal/puzzle"
)

// Format is a manifest encoding.
type Format int

const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "toml"
}

// FormatFor picks the format from a file extension. Unknown extensions
// are read as TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// Manifest describes one puzzle.
type Manifest struct {
	Name    string `toml:"name" yaml:"name"`
	Outline string `toml:"outline" yaml:"outline"`
	Image   string `toml:"image" yaml:"image"`
	// Optional overrides; zero means the built-in default.
	ImageSize int     `toml:"image_size,omitempty" yaml:"image_size,omitempty"`
	GridStep  int     `toml:"grid_step,omitempty" yaml:"grid_step,omitempty"`
	Bucket    int     `toml:"bucket,omitempty" yaml:"bucket,omitempty"`
	Flatness  float64 `toml:"flatness,omitempty" yaml:"flatness,omitempty"`
	Theme     string  `toml:"theme,omitempty" yaml:"theme,omitempty"`

	dir string
}

// Load reads a manifest file. Relative outline and image paths resolve
// against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: manifest %s does not exist", puzzle.ErrMissingAsset, path)
		}
		return nil, err
	}
	m, err := Parse(bytes.NewReader(data), FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes a manifest. Unknown keys are rejected so typos surface.
func Parse(r io.Reader, f Format) (*Manifest, error) {
	m := &Manifest{}
	var err error
	switch f {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(m)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(m)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s manifest: %w", f, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks required fields and value ranges.
func (m *Manifest) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Outline) == "" {
		errs = append(errs, fmt.Errorf("%w: manifest has no outline", puzzle.ErrMissingAsset))
	}
	if strings.TrimSpace(m.Image) == "" {
		errs = append(errs, fmt.Errorf("%w: manifest has no image", puzzle.ErrMissingAsset))
	}
	if m.ImageSize < 0 || m.GridStep < 0 || m.Bucket < 0 || m.Flatness < 0 {
		errs = append(errs, errors.New("manifest sizes must not be negative"))
	}
	if m.Bucket > 256 {
		errs = append(errs, fmt.Errorf("bucket %d is larger than a channel", m.Bucket))
	}
	return errors.Join(errs...)
}

// Dir is the directory relative paths resolve against.
func (m *Manifest) Dir() string { return m.dir }

// OutlinePath returns the resolved outline document path.
func (m *Manifest) OutlinePath() string { return m.resolve(m.Outline) }

// ImagePath returns the resolved source image path.
func (m *Manifest) ImagePath() string { return m.resolve(m.Image) }

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.dir == "" {
		return p
	}
	return filepath.Join(m.dir, p)
}

// Options converts the manifest overrides into session options.
func (m *Manifest) Options() []puzzle.Option {
	var opts []puzzle.Option
	if m.ImageSize > 0 {
		opts = append(opts, puzzle.WithImageSize(m.ImageSize))
	}
	if m.GridStep > 0 {
		opts = append(opts, puzzle.WithGridStep(m.GridStep))
	}
	if m.Bucket > 0 {
		opts = append(opts, puzzle.WithBucket(m.Bucket))
	}
	if m.Flatness > 0 {
		opts = append(opts, puzzle.WithFlatness(m.Flatness))
	}
	return opts
}

// Encode writes the manifest in format f.
func (m *Manifest) Encode(w io.Writer, f Format) error {
	if f == YAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}
	return toml.NewEncoder(w).Encode(m)
}

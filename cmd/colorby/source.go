package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/colorby/assets"
	"github.com/example/colorby/internal/asset"
	"github.com/example/colorby/internal/manifest"
	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/theme"
)

// sourceFlags are the puzzle source flags shared by every command that
// works on a single puzzle.
type sourceFlags struct {
	manifest      string
	outline       string
	image         string
	fromClipboard bool
	sample        string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.manifest, "puzzle", "", "puzzle manifest (.toml, .yaml)")
	fs.StringVar(&s.outline, "outline", "", "outline document (vector XML or SVG)")
	fs.StringVar(&s.image, "image", "", "source image")
	fs.BoolVar(&s.fromClipboard, "from-clipboard", false, "use the clipboard image as the source image")
	fs.StringVar(&s.sample, "sample", "", "built-in sample puzzle")
}

func (s *sourceFlags) validate() error {
	picked := 0
	if s.manifest != "" {
		picked++
	}
	if s.sample != "" {
		picked++
	}
	if s.outline != "" {
		picked++
		if s.image == "" && !s.fromClipboard {
			return errors.New("-outline needs -image or -from-clipboard")
		}
		if s.image != "" && s.fromClipboard {
			return errors.New("-image and -from-clipboard are mutually exclusive")
		}
	} else if s.image != "" || s.fromClipboard {
		return errors.New("-image and -from-clipboard need -outline")
	}
	switch picked {
	case 0:
		return errors.New("no puzzle given: use -sample, -puzzle or -outline")
	case 1:
		return nil
	}
	return errors.New("-sample, -puzzle and -outline are mutually exclusive")
}

// loaded is an initialized puzzle with what was needed to build it.
type loaded struct {
	name    string
	session *puzzle.Session
	source  image.Image
	skipped []*outline.ParseError
	theme   *theme.Theme
}

func (s *sourceFlags) load(ctx context.Context, r *root) (*loaded, error) {
	opts := r.config.Options()
	var (
		name, themeName string
		set             *outline.Set
		img             image.Image
		err             error
	)
	switch {
	case s.sample != "":
		name = s.sample
		set, err = assets.SampleOutlines(s.sample)
		if err != nil {
			return nil, err
		}
		img, err = assets.SampleImage(s.sample, puzzle.New(opts...).ImageSize())
	case s.manifest != "":
		m, merr := manifest.Load(s.manifest)
		if merr != nil {
			return nil, merr
		}
		opts = append(opts, m.Options()...)
		name, themeName = m.Name, m.Theme
		if name == "" {
			name = stem(s.manifest)
		}
		set, img, err = loadFiles(m.OutlinePath(), m.ImagePath(), false, puzzle.New(opts...).ImageSize())
	default:
		name = stem(s.outline)
		set, img, err = loadFiles(s.outline, s.image, s.fromClipboard, puzzle.New(opts...).ImageSize())
	}
	if err != nil {
		return nil, err
	}
	session := puzzle.New(opts...)
	if err := session.Initialize(ctx, set, img); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", name, err)
	}
	return &loaded{
		name:    name,
		session: session,
		source:  img,
		skipped: set.Skipped,
		theme:   r.resolveTheme(themeName),
	}, nil
}

func loadFiles(outlinePath, imagePath string, clip bool, size int) (*outline.Set, image.Image, error) {
	set, err := asset.LoadOutlines(outlinePath)
	if err != nil {
		return nil, nil, err
	}
	var img image.Image
	if clip {
		img, err = asset.FromClipboard(size)
	} else {
		img, err = asset.LoadImage(imagePath, size)
	}
	if err != nil {
		return nil, nil, err
	}
	return set, img, nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Package assets embeds the sample puzzles shipped with colorby. Each
// sample is an outline document plus a color list used to paint a matching
// source picture, so a puzzle can be played without any files on disk.
package assets

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/render"
	"github.com/example/colorby/internal/sampler"
)

//go:embed puzzles/*.xml puzzles/*.svg puzzles/*.colors
var embeddedPuzzles embed.FS

type sample struct {
	doc    []byte
	colors map[outline.ID]sampler.RGB
}

var (
	loadSamplesOnce sync.Once
	loadSamplesErr  error

	samples = map[string]*sample{}
)

func loadSamples() {
	entries, err := fs.ReadDir(embeddedPuzzles, "puzzles")
	if err != nil {
		loadSamplesErr = err
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		data, err := embeddedPuzzles.ReadFile(path.Join("puzzles", name))
		if err != nil {
			loadSamplesErr = err
			return
		}
		s := samples[base]
		if s == nil {
			s = &sample{}
			samples[base] = s
		}
		switch ext {
		case ".xml", ".svg":
			s.doc = data
		case ".colors":
			colors, err := parseColors(data)
			if err != nil {
				loadSamplesErr = fmt.Errorf("%s: %w", name, err)
				return
			}
			s.colors = colors
		}
	}
	for name, s := range samples {
		if s.doc == nil {
			delete(samples, name)
		}
	}
}

// parseColors reads "shape_N = #rrggbb" lines.
func parseColors(data []byte) (map[outline.ID]sampler.RGB, error) {
	colors := map[outline.ID]sampler.RGB{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key, val, ok := strings.Cut(text, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected shape = color", line)
		}
		id, err := outline.ParseID(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c, err := sampler.ParseHex(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		colors[id] = c
	}
	return colors, sc.Err()
}

func ensureSamples() error {
	loadSamplesOnce.Do(loadSamples)
	return loadSamplesErr
}

func lookup(name string) (*sample, error) {
	if err := ensureSamples(); err != nil {
		return nil, err
	}
	s, ok := samples[name]
	if !ok {
		return nil, fmt.Errorf("%w: no sample puzzle %q", puzzle.ErrMissingAsset, name)
	}
	return s, nil
}

// Samples lists the embedded sample puzzle names.
func Samples() []string {
	if err := ensureSamples(); err != nil {
		return nil
	}
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SampleDocument returns a copy of the sample's outline document.
func SampleDocument(name string) ([]byte, error) {
	s, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), s.doc...), nil
}

// SampleOutlines parses the sample's outline document.
func SampleOutlines(name string) (*outline.Set, error) {
	s, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return outline.Parse(bytes.NewReader(s.doc))
}

// SampleColors returns the colors the sample picture is painted with.
func SampleColors(name string) (map[outline.ID]sampler.RGB, error) {
	s, err := lookup(name)
	if err != nil {
		return nil, err
	}
	out := make(map[outline.ID]sampler.RGB, len(s.colors))
	for id, c := range s.colors {
		out[id] = c
	}
	return out, nil
}

// SampleImage paints the sample picture at size×size: every shape filled
// with its listed color, in document order.
func SampleImage(name string, size int) (image.Image, error) {
	s, err := lookup(name)
	if err != nil {
		return nil, err
	}
	set, err := outline.Parse(bytes.NewReader(s.doc))
	if err != nil {
		return nil, err
	}
	fills := make([]render.Fill, 0, set.Len())
	for _, o := range set.Outlines {
		f := render.Fill{Path: o.Path, FillRule: o.FillRule}
		if c, ok := s.colors[o.ID]; ok {
			f.Color = c
		}
		fills = append(fills, f)
	}
	if size <= 0 {
		size = puzzle.DefaultImageSize
	}
	return render.Paint(fills, puzzle.DefaultImageSize, size, color.White), nil
}

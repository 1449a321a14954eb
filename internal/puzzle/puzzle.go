// Package puzzle holds the state of one paint-by-number session: the shape
// index, each shape's dominant color, and which shapes have been revealed.
//
// A Session is not safe for concurrent use. Callers that share one across
// goroutines, such as the HTTP server, guard it with their own lock.
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/google/uuid"

	"github.com/example/colorby/internal/logging"
	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/region"
	"github.com/example/colorby/internal/sampler"
)

// DefaultImageSize is the side of the square canvas outlines are drawn in.
const DefaultImageSize = 1024

var (
	// ErrMissingAsset means the outline document or the source image is absent.
	ErrMissingAsset = errors.New("missing puzzle asset")
	// ErrUnknownShape is returned for shape ids the puzzle does not contain.
	ErrUnknownShape = errors.New("unknown shape")
	// ErrNotInitialized is returned by operations that need Initialize first.
	ErrNotInitialized = errors.New("puzzle not initialized")
)

// Option configures a Session.
type Option func(*Session)

// WithImageSize sets the canvas side. Non-positive values are ignored.
func WithImageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.imageSize = n
		}
	}
}

// WithGridStep sets the color sampling stride.
func WithGridStep(n int) Option {
	return func(s *Session) { s.sampling.GridStep = n }
}

// WithBucket sets the color quantization factor.
func WithBucket(n int) Option {
	return func(s *Session) { s.sampling.Bucket = n }
}

// WithWorkers bounds how many shapes are sampled at once.
func WithWorkers(n int) Option {
	return func(s *Session) { s.sampling.Workers = n }
}

// WithFlatness sets the curve flattening tolerance.
func WithFlatness(f float64) Option {
	return func(s *Session) { s.flatness = f }
}

// WithID sets the session id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// Session is one puzzle in play.
type Session struct {
	id        uuid.UUID
	imageSize int
	sampling  sampler.Options
	flatness  float64

	index    *region.Index
	colors   map[outline.ID]sampler.RGB
	revealed map[outline.ID]struct{}

	active    sampler.RGB
	hasActive bool
}

// New returns an empty session. It has no shapes until Initialize.
func New(opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		imageSize: DefaultImageSize,
		flatness:  outline.DefaultFlatness,
		colors:    map[outline.ID]sampler.RGB{},
		revealed:  map[outline.ID]struct{}{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id.String() }

// ImageSize returns the canvas side used for sampling.
func (s *Session) ImageSize() int { return s.imageSize }

// Initialize builds the shape index over an ImageSize×ImageSize canvas and
// samples img for every shape's dominant color. img should already be
// scaled to the canvas. Shapes whose sample comes up empty get no color but
// stay in the puzzle. On error the session is left unchanged.
func (s *Session) Initialize(ctx context.Context, set *outline.Set, img image.Image) error {
	if set == nil {
		return fmt.Errorf("%w: no outline document", ErrMissingAsset)
	}
	if img == nil {
		return fmt.Errorf("%w: no source image", ErrMissingAsset)
	}
	ix := region.NewIndex(set.Outlines, region.Options{Flatness: s.flatness})
	ix.Build(s.imageSize, s.imageSize)

	shapes := ix.Shapes()
	areas := make([]sampler.Area, len(shapes))
	for i, sh := range shapes {
		areas[i] = sh.Region
	}
	results, err := sampler.DominantColors(ctx, img, areas, s.sampling)
	if err != nil {
		return fmt.Errorf("sampling colors: %w", err)
	}
	colors := make(map[outline.ID]sampler.RGB, len(shapes))
	for i, r := range results {
		if r.OK {
			colors[shapes[i].ID] = r.Color
		}
	}

	s.index = ix
	s.colors = colors
	s.revealed = map[outline.ID]struct{}{}
	logging.Logger().Debug("puzzle initialized",
		"session", s.ID(), "shapes", len(shapes), "colored", len(colors), "palette", len(s.Palette()))
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (s *Session) Initialized() bool { return s.index != nil }

// Resize rebuilds the shape regions for a w×h canvas. Colors are kept.
func (s *Session) Resize(w, h int) {
	if s.index != nil {
		s.index.Build(w, h)
	}
}

// Tap is the outcome of HandleTap.
type Tap struct {
	Shape outline.ID
	// Hit is true when the point landed on a shape.
	Hit bool
	// Changed is true when the shape was newly revealed.
	Changed bool
}

// HandleTap reveals the top-most shape at (x, y). Tapping empty space or an
// already revealed shape changes nothing. The active color is not consulted.
func (s *Session) HandleTap(x, y float64) Tap {
	if s.index == nil {
		return Tap{}
	}
	id, ok := s.index.HitTest(x, y)
	if !ok {
		return Tap{}
	}
	return Tap{Shape: id, Hit: true, Changed: s.reveal(id)}
}

func (s *Session) reveal(id outline.ID) bool {
	if _, done := s.revealed[id]; done {
		return false
	}
	s.revealed[id] = struct{}{}
	return true
}

// Reveal reveals a shape by id.
func (s *Session) Reveal(id outline.ID) (bool, error) {
	if s.index == nil {
		return false, ErrNotInitialized
	}
	if !s.hasShape(id) {
		return false, fmt.Errorf("%w: %s", ErrUnknownShape, id)
	}
	return s.reveal(id), nil
}

// RevealAll reveals every shape and returns how many changed.
func (s *Session) RevealAll() int {
	if s.index == nil {
		return 0
	}
	n := 0
	for _, sh := range s.index.Shapes() {
		if s.reveal(sh.ID) {
			n++
		}
	}
	return n
}

func (s *Session) hasShape(id outline.ID) bool {
	for _, sh := range s.index.Shapes() {
		if sh.ID == id {
			return true
		}
	}
	return false
}

// IsRevealed reports whether a shape has been revealed.
func (s *Session) IsRevealed(id outline.ID) bool {
	_, ok := s.revealed[id]
	return ok
}

// Revealed returns the revealed shape ids in ascending order.
func (s *Session) Revealed() []outline.ID {
	ids := make([]outline.ID, 0, len(s.revealed))
	for id := range s.revealed {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Progress returns the number of revealed shapes and the total.
func (s *Session) Progress() (revealed, total int) {
	if s.index == nil {
		return 0, 0
	}
	return len(s.revealed), s.index.Len()
}

// Complete reports whether every shape has been revealed.
func (s *Session) Complete() bool {
	revealed, total := s.Progress()
	return total > 0 && revealed == total
}

// Palette returns the distinct shape colors, in the order their first shape
// appears. Use sampler.SortByHue for a display order.
func (s *Session) Palette() []sampler.RGB {
	if s.index == nil {
		return nil
	}
	seen := make(map[sampler.RGB]struct{}, len(s.colors))
	var out []sampler.RGB
	for _, sh := range s.index.Shapes() {
		c, ok := s.colors[sh.ID]
		if !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ColorOf returns a shape's dominant color.
func (s *Session) ColorOf(id outline.ID) (sampler.RGB, bool) {
	c, ok := s.colors[id]
	return c, ok
}

// ShapesWithColor returns the ids of shapes whose dominant color is c.
func (s *Session) ShapesWithColor(c sampler.RGB) []outline.ID {
	if s.index == nil {
		return nil
	}
	var ids []outline.ID
	for _, sh := range s.index.Shapes() {
		if got, ok := s.colors[sh.ID]; ok && got == c {
			ids = append(ids, sh.ID)
		}
	}
	return ids
}

// SetActiveColor records the palette entry the player has selected.
func (s *Session) SetActiveColor(c sampler.RGB) {
	s.active = c
	s.hasActive = true
}

// ActiveColor returns the selected palette entry, if any.
func (s *Session) ActiveColor() (sampler.RGB, bool) {
	return s.active, s.hasActive
}

// Instruction describes how to draw one shape.
type Instruction struct {
	ID       outline.ID
	Path     *outline.Path
	FillRule outline.FillRule
	Bounds   image.Rectangle
	// Revealed shapes show the source image clipped to the path; hidden
	// ones get the placeholder fill. Both get an outline stroke.
	Revealed bool
	Color    sampler.RGB
	HasColor bool
}

// Plan returns drawing instructions for every shape in draw order.
func (s *Session) Plan() []Instruction {
	if s.index == nil {
		return nil
	}
	shapes := s.index.Shapes()
	plan := make([]Instruction, len(shapes))
	for i, sh := range shapes {
		c, ok := s.colors[sh.ID]
		in := Instruction{
			ID:       sh.ID,
			Path:     sh.Path,
			FillRule: sh.FillRule,
			Revealed: s.IsRevealed(sh.ID),
			Color:    c,
			HasColor: ok,
		}
		if sh.Region != nil {
			in.Bounds = sh.Region.Bounds()
		}
		plan[i] = in
	}
	return plan
}

// BoundsOf returns a shape's bounding box on the current canvas.
func (s *Session) BoundsOf(id outline.ID) (image.Rectangle, bool) {
	if s.index == nil {
		return image.Rectangle{}, false
	}
	return s.index.BoundsOf(id)
}

// HitTest returns the top-most shape at (x, y) without revealing it.
func (s *Session) HitTest(x, y float64) (outline.ID, bool) {
	if s.index == nil {
		return 0, false
	}
	return s.index.HitTest(x, y)
}

package region

import (
	"image"

	"github.com/example/colorby/internal/logging"
	"github.com/example/colorby/internal/outline"
)

// Options tune region construction.
type Options struct {
	// Flatness is the curve flattening tolerance in pixels.
	Flatness float64
}

// Shape is one indexed outline with its region for the current canvas.
type Shape struct {
	ID       outline.ID
	FillRule outline.FillRule
	Path     *outline.Path
	Region   *Region
}

// Index holds every shape in draw order. Later shapes are on top.
type Index struct {
	shapes []Shape
	polys  [][][]outline.Point
	pos    map[outline.ID]int
	width  int
	height int
	built  bool
}

// NewIndex flattens the outlines once. Regions are not available until
// Build is called with the canvas size.
func NewIndex(outlines []*outline.Outline, opts Options) *Index {
	ix := &Index{
		shapes: make([]Shape, len(outlines)),
		polys:  make([][][]outline.Point, len(outlines)),
		pos:    make(map[outline.ID]int, len(outlines)),
	}
	for i, o := range outlines {
		ix.shapes[i] = Shape{ID: o.ID, FillRule: o.FillRule, Path: o.Path}
		ix.polys[i] = o.Path.Flatten(opts.Flatness)
		ix.pos[o.ID] = i
	}
	return ix
}

// Build computes every region clipped to a w×h canvas. It does nothing if
// the size is unchanged. A non-positive size leaves the index empty, so
// every query reports no shape.
func (ix *Index) Build(w, h int) {
	if ix.built && w == ix.width && h == ix.height {
		return
	}
	ix.width, ix.height = w, h
	if w <= 0 || h <= 0 {
		ix.built = false
		for i := range ix.shapes {
			ix.shapes[i].Region = nil
		}
		return
	}
	clip := image.Rect(0, 0, w, h)
	for i := range ix.shapes {
		ix.shapes[i].Region = New(ix.polys[i], ix.shapes[i].FillRule, clip)
	}
	ix.built = true
	logging.Logger().Debug("built regions", "shapes", len(ix.shapes), "width", w, "height", h)
}

// Built reports whether regions exist for a non-empty canvas.
func (ix *Index) Built() bool { return ix.built }

// Size returns the canvas size of the last Build.
func (ix *Index) Size() (w, h int) { return ix.width, ix.height }

// Len returns the number of shapes.
func (ix *Index) Len() int { return len(ix.shapes) }

// HitTest returns the top-most shape containing (x, y). Points outside the
// canvas, or any point before Build, hit nothing.
func (ix *Index) HitTest(x, y float64) (outline.ID, bool) {
	if !ix.built {
		return 0, false
	}
	// written so NaN fails the test
	if !(x >= 0 && x < float64(ix.width) && y >= 0 && y < float64(ix.height)) {
		return 0, false
	}
	px, py := int(x), int(y)
	for i := len(ix.shapes) - 1; i >= 0; i-- {
		if ix.shapes[i].Region.Contains(px, py) {
			return ix.shapes[i].ID, true
		}
	}
	return 0, false
}

// BoundsOf returns the bounding box of a shape's region.
func (ix *Index) BoundsOf(id outline.ID) (image.Rectangle, bool) {
	r, ok := ix.Region(id)
	if !ok {
		return image.Rectangle{}, false
	}
	return r.Bounds(), true
}

// Region returns a shape's region for the current canvas.
func (ix *Index) Region(id outline.ID) (*Region, bool) {
	i, ok := ix.pos[id]
	if !ok || !ix.built {
		return nil, false
	}
	return ix.shapes[i].Region, true
}

// Shapes returns the shapes in draw order. The slice must not be modified.
func (ix *Index) Shapes() []Shape {
	return ix.shapes
}

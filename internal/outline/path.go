package outline

import "math"

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Element is a single drawing command of a Path.
type Element interface {
	isElement()
}

// MoveTo starts a new subpath.
type MoveTo struct {
	Point Point
}

func (MoveTo) isElement() {}

// LineTo draws a straight segment.
type LineTo struct {
	Point Point
}

func (LineTo) isElement() {}

// QuadTo draws a quadratic Bézier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isElement() {}

// CubicTo draws a cubic Bézier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isElement() {}

// Path is an ordered list of absolute drawing commands.
type Path struct {
	elements []Element
	start    Point
	current  Point
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{elements: make([]Element, 0, 16)}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadTo adds a quadratic curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo adds a cubic curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{Control1: Pt(c1x, c1y), Control2: Pt(c2x, c2y), Point: pt})
	p.current = pt
}

// Close closes the current subpath; the current point returns to its start.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// Elements returns the recorded commands.
func (p *Path) Elements() []Element {
	return p.elements
}

// Len returns the number of commands.
func (p *Path) Len() int {
	return len(p.elements)
}

// CurrentPoint returns the pen position after the last command.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Bounds returns the control-point bounding box of the path. Curves never
// leave the hull of their control points, so the box is conservative.
func (p *Path) Bounds() (min, max Point) {
	min = Pt(math.Inf(1), math.Inf(1))
	max = Pt(math.Inf(-1), math.Inf(-1))
	add := func(q Point) {
		min.X = math.Min(min.X, q.X)
		min.Y = math.Min(min.Y, q.Y)
		max.X = math.Max(max.X, q.X)
		max.Y = math.Max(max.Y, q.Y)
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			add(e.Point)
		case LineTo:
			add(e.Point)
		case QuadTo:
			add(e.Control)
			add(e.Point)
		case CubicTo:
			add(e.Control1)
			add(e.Control2)
			add(e.Point)
		}
	}
	if len(p.elements) == 0 {
		return Point{}, Point{}
	}
	return min, max
}

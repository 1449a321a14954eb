package outline

import "math"

// DefaultFlatness is the maximum distance, in pixels, between a curve and
// the polyline that replaces it.
const DefaultFlatness = 0.25

const maxSubdivision = 16

// Flatten converts the path into closed polygons, one per subpath, with
// curves replaced by line segments no further than flatness from the curve.
// Open subpaths are treated as closed, matching how a fill interprets them.
// Subpaths with fewer than three vertices enclose nothing and are dropped.
func (p *Path) Flatten(flatness float64) [][]Point {
	if flatness <= 0 {
		flatness = DefaultFlatness
	}
	var (
		polys   [][]Point
		poly    []Point
		start   Point
		current Point
	)
	flush := func() {
		if len(poly) >= 3 {
			polys = append(polys, poly)
		}
		poly = nil
	}
	begin := func() {
		if poly == nil {
			poly = []Point{current}
			start = current
		}
	}
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			current = e.Point
			start = current
			poly = []Point{current}
		case LineTo:
			begin()
			current = e.Point
			poly = append(poly, current)
		case QuadTo:
			begin()
			c1 := current.lerp(e.Control, 2.0/3.0)
			c2 := e.Point.lerp(e.Control, 2.0/3.0)
			poly = flattenCubic(current, c1, c2, e.Point, flatness, 0, poly)
			current = e.Point
		case CubicTo:
			begin()
			poly = flattenCubic(current, e.Control1, e.Control2, e.Point, flatness, 0, poly)
			current = e.Point
		case Close:
			flush()
			current = start
		}
	}
	flush()
	return polys
}

// flattenCubic subdivides with de Casteljau until both control points lie
// within flatness of the chord, appending the end points to out.
func flattenCubic(p0, p1, p2, p3 Point, flatness float64, depth int, out []Point) []Point {
	if depth >= maxSubdivision ||
		(distToLine(p1, p0, p3) <= flatness && distToLine(p2, p0, p3) <= flatness) {
		return append(out, p3)
	}
	m01 := p0.lerp(p1, 0.5)
	m12 := p1.lerp(p2, 0.5)
	m23 := p2.lerp(p3, 0.5)
	m012 := m01.lerp(m12, 0.5)
	m123 := m12.lerp(m23, 0.5)
	mid := m012.lerp(m123, 0.5)
	out = flattenCubic(p0, m01, m012, mid, flatness, depth+1, out)
	return flattenCubic(mid, m123, m23, p3, flatness, depth+1, out)
}

func distToLine(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*(p.X-a.X)-dx*(p.Y-a.Y)) / math.Hypot(dx, dy)
}

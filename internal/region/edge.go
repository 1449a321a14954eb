package region

import (
	"math"
	"sort"

	"github.com/example/colorby/internal/outline"
)

// edge is a non-horizontal polygon segment with y0 < y1.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dir    int // +1 when the segment runs downwards in its polygon, -1 upwards
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// newEdge drops horizontal segments and segments with a non-finite end.
func newEdge(p0, p1 outline.Point) (edge, bool) {
	if !finite(p0.X) || !finite(p0.Y) || !finite(p1.X) || !finite(p1.Y) {
		return edge{}, false
	}
	if p0.Y == p1.Y {
		return edge{}, false
	}
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	return edge{x0: p0.X, y0: p0.Y, x1: p1.X, y1: p1.Y, dir: dir}, true
}

// xAt interpolates between the end points as a weighted sum, which stays
// finite for any finite ends. A slope would overflow when the ends are far
// apart, so differences are taken on halved values.
func (e edge) xAt(y float64) float64 {
	t := (y/2 - e.y0/2) / (e.y1/2 - e.y0/2)
	if !finite(t) {
		t = 0.5
	}
	t = math.Min(math.Max(t, 0), 1)
	return e.x0*(1-t) + e.x1*t
}

// buildEdges returns every edge of the polygons, closing each one, sorted by
// top y.
func buildEdges(polys [][]outline.Point) []edge {
	var edges []edge
	for _, poly := range polys {
		n := len(poly)
		for i := 0; i < n; i++ {
			if e, ok := newEdge(poly[i], poly[(i+1)%n]); ok {
				edges = append(edges, e)
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].y0 < edges[j].y0 })
	return edges
}

// crossing is where an active edge meets the current scanline.
type crossing struct {
	x   float64
	dir int
}

// activeEdges tracks the edges spanning the current scanline. Scanlines are
// visited top to bottom, so edges enter once and leave once.
type activeEdges struct {
	edges  []edge
	next   int
	active []edge
	xs     []crossing
}

// advance moves to scanline y and returns the crossings sorted by x. An edge
// covers y when y0 <= y < y1, so shared vertices are counted once.
func (a *activeEdges) advance(y float64) []crossing {
	for a.next < len(a.edges) && a.edges[a.next].y0 <= y {
		a.active = append(a.active, a.edges[a.next])
		a.next++
	}
	kept := a.active[:0]
	a.xs = a.xs[:0]
	for _, e := range a.active {
		if e.y1 <= y {
			continue
		}
		kept = append(kept, e)
		a.xs = append(a.xs, crossing{x: e.xAt(y), dir: e.dir})
	}
	a.active = kept
	sort.Slice(a.xs, func(i, j int) bool { return a.xs[i].x < a.xs[j].x })
	return a.xs
}

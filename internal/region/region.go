// Package region turns outlines into pixel regions with constant-time point
// containment, and keeps them in draw order for hit testing.
package region

import (
	"image"
	"math"
	"sort"

	"github.com/example/colorby/internal/outline"
)

// span is a half-open run of filled pixels [x0, x1) on one row.
type span struct {
	x0, x1 int
}

// Region is the set of pixels whose centres a filled outline covers.
type Region struct {
	bounds image.Rectangle
	rows   [][]span // rows[y-bounds.Min.Y]
	area   int
}

// New fills polys with rule and clips the result to clip. A pixel (x, y)
// belongs to the region when its centre (x+0.5, y+0.5) is inside.
func New(polys [][]outline.Point, rule outline.FillRule, clip image.Rectangle) *Region {
	r := &Region{}
	if clip.Empty() {
		return r
	}
	edges := buildEdges(polys)
	if len(edges) == 0 {
		return r
	}
	yMin := edges[0].y0
	yMax := edges[0].y1
	for _, e := range edges[1:] {
		yMax = math.Max(yMax, e.y1)
	}
	top := clamp(math.Floor(yMin), clip.Min.Y, clip.Max.Y)
	bottom := clamp(math.Ceil(yMax), clip.Min.Y, clip.Max.Y)
	if top >= bottom {
		return r
	}

	aet := &activeEdges{edges: edges}
	rows := make([][]span, bottom-top)
	minX, maxX := math.MaxInt, math.MinInt
	firstRow, lastRow := -1, -1
	for y := top; y < bottom; y++ {
		xs := aet.advance(float64(y) + 0.5)
		row := fillRow(xs, rule, clip.Min.X, clip.Max.X)
		if len(row) == 0 {
			continue
		}
		rows[y-top] = row
		if firstRow < 0 {
			firstRow = y
		}
		lastRow = y
		minX = min(minX, row[0].x0)
		maxX = max(maxX, row[len(row)-1].x1)
		for _, s := range row {
			r.area += s.x1 - s.x0
		}
	}
	if firstRow < 0 {
		return r
	}
	r.bounds = image.Rect(minX, firstRow, maxX, lastRow+1)
	r.rows = rows[firstRow-top : lastRow+1-top]
	return r
}

// fillRow converts sorted crossings into pixel spans clipped to [clipX0, clipX1).
// A span entered at xa and left at xb covers the pixels whose centres lie in
// [xa, xb).
func fillRow(xs []crossing, rule outline.FillRule, clipX0, clipX1 int) []span {
	var row []span
	winding := 0
	var enter float64
	for _, c := range xs {
		was := rule.Fills(winding)
		winding += c.dir
		now := rule.Fills(winding)
		switch {
		case !was && now:
			enter = c.x
		case was && !now:
			x0 := clamp(math.Ceil(enter-0.5), clipX0, clipX1)
			x1 := clamp(math.Ceil(c.x-0.5), clipX0, clipX1)
			if x0 >= x1 {
				continue
			}
			if n := len(row); n > 0 && row[n-1].x1 >= x0 {
				row[n-1].x1 = max(row[n-1].x1, x1)
				continue
			}
			row = append(row, span{x0, x1})
		}
	}
	return row
}

// clamp converts v to an int in [lo, hi] without overflowing on far-away
// coordinates. NaN maps to lo.
func clamp(v float64, lo, hi int) int {
	if !(v > float64(lo)) {
		return lo
	}
	if v >= float64(hi) {
		return hi
	}
	return int(v)
}

// Contains reports whether pixel (x, y) is inside the region.
func (r *Region) Contains(x, y int) bool {
	if !image.Pt(x, y).In(r.bounds) {
		return false
	}
	row := r.rows[y-r.bounds.Min.Y]
	i := sort.Search(len(row), func(i int) bool { return row[i].x1 > x })
	return i < len(row) && row[i].x0 <= x
}

// Bounds returns the tight bounding box of the region's pixels.
func (r *Region) Bounds() image.Rectangle { return r.bounds }

// Empty reports whether the region covers no pixels.
func (r *Region) Empty() bool { return r.area == 0 }

// Area returns the number of pixels in the region.
func (r *Region) Area() int { return r.area }

// Spans calls fn for every run of pixels [x0, x1) on row y, top to bottom.
func (r *Region) Spans(fn func(y, x0, x1 int)) {
	for i, row := range r.rows {
		for _, s := range row {
			fn(r.bounds.Min.Y+i, s.x0, s.x1)
		}
	}
}

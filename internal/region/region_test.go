package region

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/colorby/internal/outline"
)

func mustOutlines(t *testing.T, doc string) []*outline.Outline {
	t.Helper()
	set, err := outline.ParseString(doc)
	require.NoError(t, err)
	return set.Outlines
}

func polys(t *testing.T, d string) [][]outline.Point {
	t.Helper()
	p, err := outline.ParsePathData(d)
	require.NoError(t, err)
	return p.Flatten(outline.DefaultFlatness)
}

func TestRegionFullCanvasSquare(t *testing.T) {
	r := New(polys(t, "M0 0 L1024 0 L1024 1024 L0 1024 Z"), outline.NonZero, image.Rect(0, 0, 1024, 1024))
	assert.Equal(t, image.Rect(0, 0, 1024, 1024), r.Bounds())
	assert.Equal(t, 1024*1024, r.Area())
	assert.True(t, r.Contains(0, 0))
	assert.True(t, r.Contains(1023, 1023))
	assert.False(t, r.Contains(1024, 1024))
	assert.False(t, r.Contains(-1, 5))
}

func TestRegionSamplesPixelCentres(t *testing.T) {
	r := New(polys(t, "M10 10 H20 V20 H10 Z"), outline.NonZero, image.Rect(0, 0, 64, 64))
	assert.Equal(t, image.Rect(10, 10, 20, 20), r.Bounds())
	assert.Equal(t, 100, r.Area())
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(19, 19))
	assert.False(t, r.Contains(20, 15))
	assert.False(t, r.Contains(9, 15))

	// centres at x+0.5 are inside only from x=11 when the edge sits at 10.6
	r = New(polys(t, "M10.6 0 H20 V4 H10.6 Z"), outline.NonZero, image.Rect(0, 0, 64, 64))
	assert.False(t, r.Contains(10, 1))
	assert.True(t, r.Contains(11, 1))
}

func TestRegionTriangle(t *testing.T) {
	r := New(polys(t, "M0 0 L100 0 L0 100 Z"), outline.NonZero, image.Rect(0, 0, 100, 100))
	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(0, 98))
	assert.False(t, r.Contains(90, 90))
	assert.False(t, r.Contains(60, 60))
}

func TestRegionFillRules(t *testing.T) {
	ring := "M0 0 H100 V100 H0 Z M25 25 H75 V75 H25 Z"
	clip := image.Rect(0, 0, 100, 100)

	evenOdd := New(polys(t, ring), outline.EvenOdd, clip)
	assert.True(t, evenOdd.Contains(10, 10))
	assert.False(t, evenOdd.Contains(50, 50))
	assert.Equal(t, 100*100-50*50, evenOdd.Area())

	nonZero := New(polys(t, ring), outline.NonZero, clip)
	assert.True(t, nonZero.Contains(50, 50))
	assert.Equal(t, 100*100, nonZero.Area())

	// the inner square wound the other way is a hole under both rules
	hole := New(polys(t, "M0 0 H100 V100 H0 Z M25 25 V75 H75 V25 Z"), outline.NonZero, clip)
	assert.False(t, hole.Contains(50, 50))
}

func TestRegionClipped(t *testing.T) {
	r := New(polys(t, "M-50 -50 H2000 V2000 H-50 Z"), outline.NonZero, image.Rect(0, 0, 32, 32))
	assert.Equal(t, image.Rect(0, 0, 32, 32), r.Bounds())
	assert.Equal(t, 32*32, r.Area())

	outside := New(polys(t, "M100 100 H200 V200 Z"), outline.NonZero, image.Rect(0, 0, 32, 32))
	assert.True(t, outside.Empty())
	assert.False(t, outside.Contains(0, 0))

	far := New(polys(t, "M-1e300 0 H1e300 V10 H-1e300 Z"), outline.NonZero, image.Rect(0, 0, 32, 32))
	assert.Equal(t, 32*10, far.Area())
}

func TestRegionSpans(t *testing.T) {
	r := New(polys(t, "M0 0 H4 V2 H0 Z M6 0 H8 V1 H6 Z"), outline.NonZero, image.Rect(0, 0, 10, 10))
	var got [][3]int
	r.Spans(func(y, x0, x1 int) { got = append(got, [3]int{y, x0, x1}) })
	assert.Equal(t, [][3]int{{0, 0, 4}, {0, 6, 8}, {1, 0, 4}}, got)
}

const overlapDoc = `<svg>
  <path d="M0 0 H60 V60 H0 Z"/>
  <path d="M40 40 H100 V100 H40 Z"/>
</svg>`

func TestIndexHitTestLaterShapeWins(t *testing.T) {
	ix := NewIndex(mustOutlines(t, overlapDoc), Options{})
	ix.Build(100, 100)

	id, ok := ix.HitTest(50, 50)
	require.True(t, ok)
	assert.Equal(t, outline.ID(1), id)

	id, ok = ix.HitTest(10, 10)
	require.True(t, ok)
	assert.Equal(t, outline.ID(0), id)

	_, ok = ix.HitTest(10, 90)
	assert.False(t, ok)
}

func TestIndexHitTestDeterministic(t *testing.T) {
	ix := NewIndex(mustOutlines(t, overlapDoc), Options{})
	ix.Build(100, 100)
	first, ok := ix.HitTest(45.5, 41.2)
	require.True(t, ok)
	for i := 0; i < 100; i++ {
		id, ok := ix.HitTest(45.5, 41.2)
		assert.True(t, ok)
		assert.Equal(t, first, id)
	}
}

func TestIndexBoundaryQueries(t *testing.T) {
	ix := NewIndex(mustOutlines(t, `<svg><path d="M0 0 H100 V100 H0 Z"/></svg>`), Options{})

	_, ok := ix.HitTest(0, 0)
	assert.False(t, ok, "no shape before build")

	ix.Build(100, 100)
	id, ok := ix.HitTest(0, 0)
	assert.True(t, ok)
	assert.Equal(t, outline.ID(0), id)

	for _, p := range [][2]float64{{100, 100}, {-0.1, 5}, {5, 100}, {math.NaN(), 1}, {math.Inf(1), 1}} {
		_, ok := ix.HitTest(p[0], p[1])
		assert.False(t, ok, "point %v", p)
	}
}

func TestIndexRebuildsOnResize(t *testing.T) {
	ix := NewIndex(mustOutlines(t, `<svg><path d="M0 0 H100 V100 H0 Z"/></svg>`), Options{})
	ix.Build(50, 50)
	b, ok := ix.BoundsOf(0)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 50, 50), b)

	ix.Build(200, 200)
	b, _ = ix.BoundsOf(0)
	assert.Equal(t, image.Rect(0, 0, 100, 100), b)

	ix.Build(0, 200)
	assert.False(t, ix.Built())
	_, ok = ix.HitTest(10, 10)
	assert.False(t, ok)
	_, ok = ix.BoundsOf(0)
	assert.False(t, ok)
}

func TestIndexKeepsDocumentIDs(t *testing.T) {
	ix := NewIndex(mustOutlines(t, `<svg>
  <path d="M0 0 H10 V10 H0 Z"/>
  <path d=""/>
  <path d="M20 0 H30 V10 H20 Z"/>
</svg>`), Options{})
	ix.Build(32, 32)
	shapes := ix.Shapes()
	require.Len(t, shapes, 2)
	assert.Equal(t, outline.ID(0), shapes[0].ID)
	assert.Equal(t, outline.ID(2), shapes[1].ID)

	id, ok := ix.HitTest(25, 5)
	require.True(t, ok)
	assert.Equal(t, "shape_2", id.String())

	_, ok = ix.BoundsOf(1)
	assert.False(t, ok)
}

func TestRegionFarAwayCoordinatesStayClipped(t *testing.T) {
	clip := image.Rect(0, 0, 1024, 1024)
	r := New(polys(t, "M-1e308 0.5 L1e308 1000.5 L0 1000.5 Z"), outline.NonZero, clip)
	assert.True(t, r.Bounds().In(clip), "bounds %v escape the canvas", r.Bounds())
	assert.Greater(t, r.Area(), 0)
	assert.LessOrEqual(t, r.Area(), clip.Dx()*clip.Dy())
	assert.True(t, r.Contains(10, 999))
	assert.False(t, r.Contains(10, 100))
}

func TestEdgeInterpolationStaysFinite(t *testing.T) {
	e, ok := newEdge(outline.Pt(-1e308, 0.5), outline.Pt(1e308, 1000.5))
	require.True(t, ok)
	for _, y := range []float64{0.5, 500.5, 1000} {
		x := e.xAt(y)
		assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "xAt(%v) = %v", y, x)
	}
	assert.InDelta(t, -1e308, e.xAt(0.5), 1e293)

	_, ok = newEdge(outline.Pt(math.Inf(1), 0), outline.Pt(0, 10))
	assert.False(t, ok)
	_, ok = newEdge(outline.Pt(0, math.NaN()), outline.Pt(0, 10))
	assert.False(t, ok)
}

func TestClampNaN(t *testing.T) {
	assert.Equal(t, 0, clamp(math.NaN(), 0, 10))
	assert.Equal(t, 10, clamp(math.Inf(1), 0, 10))
	assert.Equal(t, 0, clamp(math.Inf(-1), 0, 10))
	assert.Equal(t, 4, clamp(4.7, 0, 10))
}

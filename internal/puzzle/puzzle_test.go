package puzzle

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/sampler"
)

func parse(t *testing.T, doc string) *outline.Set {
	t.Helper()
	set, err := outline.ParseString(doc)
	require.NoError(t, err)
	return set
}

func solid(size int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestFullCanvasRedSquare(t *testing.T) {
	s := New()
	set := parse(t, `<vector><path android:pathData="M0,0 L1024,0 L1024,1024 L0,1024 Z"/></vector>`)
	require.NoError(t, s.Initialize(context.Background(), set, solid(DefaultImageSize, color.NRGBA{R: 255, A: 255})))

	assert.Equal(t, []sampler.RGB{sampler.Quantize(sampler.RGB{R: 255}, 32)}, s.Palette())
	assert.False(t, s.IsRevealed(0))

	tap := s.HandleTap(512, 512)
	assert.Equal(t, Tap{Shape: 0, Hit: true, Changed: true}, tap)
	assert.True(t, s.IsRevealed(0))

	tap = s.HandleTap(512, 512)
	assert.True(t, tap.Hit)
	assert.False(t, tap.Changed)
	assert.Equal(t, []outline.ID{0}, s.Revealed())
	assert.True(t, s.Complete())
}

func TestTwoTriangles(t *testing.T) {
	set := parse(t, `<svg>
  <path d="M0 0 L500 0 L0 500 Z"/>
  <path d="M1024 1024 L524 1024 L1024 524 Z"/>
</svg>`)
	img := image.NewNRGBA(image.Rect(0, 0, DefaultImageSize, DefaultImageSize))
	for y := 0; y < DefaultImageSize; y++ {
		for x := 0; x < DefaultImageSize; x++ {
			c := color.NRGBA{R: 250, A: 255}
			if x+y >= DefaultImageSize {
				c = color.NRGBA{B: 250, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	s := New()
	require.NoError(t, s.Initialize(context.Background(), set, img))

	assert.ElementsMatch(t, []sampler.RGB{{R: 224}, {B: 224}}, s.Palette())
	c, ok := s.ColorOf(1)
	require.True(t, ok)
	assert.Equal(t, sampler.RGB{B: 224}, c)

	tap := s.HandleTap(100, 100)
	assert.True(t, tap.Changed)
	assert.Equal(t, outline.ID(0), tap.Shape)
	assert.True(t, s.IsRevealed(0))
	assert.False(t, s.IsRevealed(1))

	r, total := s.Progress()
	assert.Equal(t, 1, r)
	assert.Equal(t, 2, total)
	assert.False(t, s.Complete())
}

func TestTapBoundaries(t *testing.T) {
	s := New(WithImageSize(64))
	set := parse(t, `<svg><path d="M0 0 H64 V64 H0 Z"/></svg>`)
	require.NoError(t, s.Initialize(context.Background(), set, solid(64, color.White)))

	tap := s.HandleTap(0, 0)
	assert.True(t, tap.Hit)

	tap = s.HandleTap(64, 64)
	assert.Equal(t, Tap{}, tap)

	tap = s.HandleTap(-5, 1e9)
	assert.Equal(t, Tap{}, tap)
}

func TestEmptySpaceTapIsNoop(t *testing.T) {
	s := New(WithImageSize(100))
	set := parse(t, `<svg><path d="M10 10 H20 V20 H10 Z"/></svg>`)
	require.NoError(t, s.Initialize(context.Background(), set, solid(100, color.White)))
	assert.Equal(t, Tap{}, s.HandleTap(50, 50))
	assert.Empty(t, s.Revealed())
}

func TestTapBeforeInitialize(t *testing.T) {
	s := New()
	assert.Equal(t, Tap{}, s.HandleTap(1, 1))
	assert.Nil(t, s.Palette())
	assert.False(t, s.Complete())
	_, err := s.Reveal(0)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestInitializeMissingAssets(t *testing.T) {
	s := New()
	err := s.Initialize(context.Background(), nil, solid(4, color.White))
	assert.ErrorIs(t, err, ErrMissingAsset)
	err = s.Initialize(context.Background(), &outline.Set{}, nil)
	assert.ErrorIs(t, err, ErrMissingAsset)
	assert.False(t, s.Initialized())
}

func TestInitializeCancelledLeavesSessionUntouched(t *testing.T) {
	s := New(WithImageSize(32))
	set := parse(t, `<svg><path d="M0 0 H32 V32 H0 Z"/></svg>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, s.Initialize(ctx, set, solid(32, color.White)))
	assert.False(t, s.Initialized())
}

func TestActiveColorDoesNotGateTaps(t *testing.T) {
	s := New(WithImageSize(100))
	set := parse(t, `<svg><path d="M0 0 H100 V100 H0 Z"/></svg>`)
	require.NoError(t, s.Initialize(context.Background(), set, solid(100, color.NRGBA{G: 255, A: 255})))

	_, ok := s.ActiveColor()
	assert.False(t, ok)
	s.SetActiveColor(sampler.RGB{R: 224})
	got, ok := s.ActiveColor()
	assert.True(t, ok)
	assert.Equal(t, sampler.RGB{R: 224}, got)

	assert.True(t, s.HandleTap(5, 5).Changed)
}

func TestShapeWithoutColorStaysInPuzzle(t *testing.T) {
	s := New(WithImageSize(100))
	set := parse(t, `<svg>
  <path d="M0 0 H50 V100 H0 Z"/>
  <path d="M50 0 H100 V100 H50 Z"/>
</svg>`)
	img := solid(100, color.NRGBA{R: 255, A: 255})
	draw.Draw(img, image.Rect(50, 0, 100, 100), image.Transparent, image.Point{}, draw.Src)
	require.NoError(t, s.Initialize(context.Background(), set, img))

	assert.Len(t, s.Palette(), 1)
	_, ok := s.ColorOf(1)
	assert.False(t, ok)
	assert.True(t, s.HandleTap(75, 50).Changed)

	plan := s.Plan()
	require.Len(t, plan, 2)
	assert.True(t, plan[0].HasColor)
	assert.False(t, plan[1].HasColor)
	assert.True(t, plan[1].Revealed)
}

func TestPaletteDeduplicatesInShapeOrder(t *testing.T) {
	s := New(WithImageSize(90))
	set := parse(t, `<svg>
  <path d="M0 0 H30 V90 H0 Z"/>
  <path d="M30 0 H60 V90 H30 Z"/>
  <path d="M60 0 H90 V90 H60 Z"/>
</svg>`)
	img := solid(90, color.NRGBA{B: 255, A: 255})
	draw.Draw(img, image.Rect(30, 0, 60, 90), image.NewUniform(color.NRGBA{G: 255, A: 255}), image.Point{}, draw.Src)
	require.NoError(t, s.Initialize(context.Background(), set, img))

	assert.Equal(t, []sampler.RGB{{B: 224}, {G: 224}}, s.Palette())
	assert.Equal(t, []outline.ID{0, 2}, s.ShapesWithColor(sampler.RGB{B: 224}))
}

func TestRevealAndPlan(t *testing.T) {
	s := New(WithImageSize(100), WithID(uuid.MustParse("6f1c2a50-0d5e-4d1c-9b7a-6e1f6b0c9a11")))
	assert.Equal(t, "6f1c2a50-0d5e-4d1c-9b7a-6e1f6b0c9a11", s.ID())
	set := parse(t, `<svg>
  <path d="M0 0 H40 V40 H0 Z"/>
  <path d=""/>
  <path fill-rule="evenodd" d="M50 50 H90 V90 H50 Z"/>
</svg>`)
	require.NoError(t, s.Initialize(context.Background(), set, solid(100, color.White)))

	changed, err := s.Reveal(2)
	require.NoError(t, err)
	assert.True(t, changed)
	_, err = s.Reveal(1)
	assert.ErrorIs(t, err, ErrUnknownShape)

	plan := s.Plan()
	require.Len(t, plan, 2)
	assert.Equal(t, outline.ID(0), plan[0].ID)
	assert.False(t, plan[0].Revealed)
	assert.Equal(t, image.Rect(0, 0, 40, 40), plan[0].Bounds)
	assert.Equal(t, outline.ID(2), plan[1].ID)
	assert.True(t, plan[1].Revealed)
	assert.Equal(t, outline.EvenOdd, plan[1].FillRule)

	assert.Equal(t, 1, s.RevealAll())
	assert.True(t, s.Complete())
	assert.Equal(t, 0, s.RevealAll())
}

func TestResizeRebuildsRegions(t *testing.T) {
	s := New(WithImageSize(100))
	set := parse(t, `<svg><path d="M0 0 H100 V100 H0 Z"/></svg>`)
	require.NoError(t, s.Initialize(context.Background(), set, solid(100, color.White)))

	s.Resize(50, 50)
	_, ok := s.HitTest(75, 75)
	assert.False(t, ok)
	b, ok := s.BoundsOf(0)
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 50, 50), b)

	s.Resize(0, 0)
	assert.Equal(t, Tap{}, s.HandleTap(10, 10))
	_, ok = s.ColorOf(0)
	assert.True(t, ok, "colors survive a resize")
}

func TestInitializeFarAwayCoordinates(t *testing.T) {
	set := parse(t, `<svg><path d="M-1e308 0.5 L1e308 1000.5 L0 1000.5 Z"/></svg>`)
	s := New()
	done := make(chan error, 1)
	go func() {
		done <- s.Initialize(context.Background(), set, solid(DefaultImageSize, color.NRGBA{G: 200, A: 255}))
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Initialize did not finish")
	}
	b, ok := s.BoundsOf(0)
	require.True(t, ok)
	assert.True(t, b.In(image.Rect(0, 0, DefaultImageSize, DefaultImageSize)), "bounds %v", b)
	assert.Len(t, s.Palette(), 1)
	assert.True(t, s.HandleTap(10, 999).Hit)
}

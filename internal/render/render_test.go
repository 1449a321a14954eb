package render

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/sampler"
)

func session(t *testing.T, doc string, src image.Image) *puzzle.Session {
	t.Helper()
	set, err := outline.ParseString(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := puzzle.New(puzzle.WithImageSize(src.Bounds().Dx()))
	if err := s.Initialize(context.Background(), set, src); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func solid(size int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

const squareDoc = `<svg><path d="M20 20 H80 V80 H20 Z"/></svg>`

func TestBoardHiddenShapeUsesPlaceholder(t *testing.T) {
	src := solid(100, color.RGBA{R: 255, A: 255})
	s := session(t, squareDoc, src)
	out := Board(s.Plan(), src, BoardOptions{Canvas: 100})

	if got := out.Bounds(); got != image.Rect(0, 0, 100, 100) {
		t.Fatalf("bounds %v", got)
	}
	if got := out.RGBAAt(50, 50); got != (color.RGBA{0xcc, 0xcc, 0xcc, 0xff}) {
		t.Errorf("interior %v, want placeholder", got)
	}
	if got := out.RGBAAt(5, 5); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("background %v, want white", got)
	}
	if got := out.RGBAAt(20, 50); got.R > 0x80 {
		t.Errorf("border %v, want dark", got)
	}
}

func TestBoardRevealedShapeShowsSource(t *testing.T) {
	src := solid(100, color.RGBA{R: 255, A: 255})
	s := session(t, squareDoc, src)
	s.HandleTap(50, 50)
	out := Board(s.Plan(), src, BoardOptions{Canvas: 100})

	if got := out.RGBAAt(50, 50); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("interior %v, want source red", got)
	}
	// outside the clip the source must not show
	if got := out.RGBAAt(5, 5); got.G != 0xff {
		t.Errorf("outside %v, want background", got)
	}
}

func TestBoardScalesToOutputSize(t *testing.T) {
	src := solid(100, color.RGBA{G: 255, A: 255})
	s := session(t, squareDoc, src)
	out := Board(s.Plan(), src, BoardOptions{Canvas: 100, Size: 50})
	if got := out.Bounds().Dx(); got != 50 {
		t.Fatalf("width %d, want 50", got)
	}
	if got := out.RGBAAt(25, 25); got != (color.RGBA{0xcc, 0xcc, 0xcc, 0xff}) {
		t.Errorf("interior %v, want placeholder", got)
	}
}

func TestBoardHighlightAndNumbers(t *testing.T) {
	src := solid(100, color.RGBA{B: 255, A: 255})
	s := session(t, squareDoc, src)
	style := DefaultStyle()
	style.Text = color.RGBA{R: 255, A: 255}
	out := Board(s.Plan(), src, BoardOptions{
		Canvas:       100,
		Style:        style,
		Numbers:      true,
		Highlight:    sampler.RGB{B: 224},
		HasHighlight: true,
	})
	if got := out.RGBAAt(20, 50); got.R < 0x80 {
		t.Errorf("highlight border %v, want text color", got)
	}
	red := 0
	for y := 40; y < 60; y++ {
		for x := 40; x < 60; x++ {
			if c := out.RGBAAt(x, y); c.R > 0xe0 && c.G < 0x80 {
				red++
			}
		}
	}
	if red == 0 {
		t.Error("expected a number label near the centre")
	}
}

func TestNumberingFollowsFirstAppearance(t *testing.T) {
	plan := []puzzle.Instruction{
		{ID: 0, Color: sampler.RGB{B: 224}, HasColor: true},
		{ID: 1},
		{ID: 2, Color: sampler.RGB{R: 224}, HasColor: true},
		{ID: 3, Color: sampler.RGB{B: 224}, HasColor: true},
	}
	got := Numbering(plan)
	if len(got) != 2 || got[sampler.RGB{B: 224}] != 1 || got[sampler.RGB{R: 224}] != 2 {
		t.Fatalf("numbering %v", got)
	}
}

func TestPaletteStrip(t *testing.T) {
	pal := []sampler.RGB{{R: 224}, {G: 224}, {B: 224}}
	out := PaletteStrip(pal, 1, PaletteOptions{Swatch: 20, Gap: 4})
	if got := out.Bounds(); got != image.Rect(0, 0, 3*20+4*4, 28) {
		t.Fatalf("bounds %v", got)
	}
	rects := SwatchRects(3, 20, 4)
	for i, r := range rects {
		c := out.RGBAAt(r.Min.X+10, r.Min.Y+10)
		want := color.RGBAModel.Convert(pal[i]).(color.RGBA)
		if c != want {
			t.Errorf("swatch %d centre %v, want %v", i, c, want)
		}
	}
	if got := out.RGBAAt(rects[1].Min.X+3, rects[1].Min.Y+10); got != (color.RGBA{0xff, 0xd7, 0, 0xff}) {
		t.Errorf("selected frame %v", got)
	}
}

func TestMatAddsMarginAndShadow(t *testing.T) {
	board := solid(40, color.RGBA{R: 255, A: 255})
	opts := DefaultMatOptions()
	opts.Background = color.White
	out := Mat(board, opts)
	want := image.Rect(0, 0, 40+2*opts.Margin, 40+2*opts.Margin)
	if out.Bounds() != want {
		t.Fatalf("bounds %v, want %v", out.Bounds(), want)
	}
	if got := out.RGBAAt(opts.Margin+20, opts.Margin+20); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("board pixel %v", got)
	}
	corner := out.RGBAAt(2, 2)
	shadow := out.RGBAAt(opts.Margin+40+opts.ShadowOffset.X/2, opts.Margin+20)
	if corner != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("corner %v, want background", corner)
	}
	if shadow.R >= 0xff {
		t.Errorf("expected shadow to darken %v", shadow)
	}

	flat := Mat(board, MatOptions{Margin: 4})
	if got := flat.RGBAAt(1, 1); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("flat mat %v", got)
	}
	if Mat(nil, opts) != nil {
		t.Error("nil board should give nil")
	}
}

func TestPaintUsesFillRule(t *testing.T) {
	ring, err := outline.ParsePathData("M10 10 H90 V90 H10 Z M30 30 H70 V70 H30 Z")
	if err != nil {
		t.Fatal(err)
	}
	blue := color.RGBA{B: 0xff, A: 0xff}
	fills := []Fill{
		{Path: ring, FillRule: outline.EvenOdd, Color: blue},
		{Path: ring, FillRule: outline.EvenOdd},
	}
	out := Paint(fills, 100, 50, color.White)
	if out.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if got := out.RGBAAt(10, 25); got != blue {
		t.Errorf("ring %v, want blue", got)
	}
	if got := out.RGBAAt(25, 25); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("hole %v, want background", got)
	}
}

func TestSolutionPaintsSampledColors(t *testing.T) {
	src := solid(100, color.RGBA{G: 255, A: 255})
	s := session(t, squareDoc, src)
	out := Solution(s.Plan(), BoardOptions{Canvas: 100})
	want := color.RGBAModel.Convert(sampler.RGB{G: 224}).(color.RGBA)
	if got := out.RGBAAt(50, 50); got != want {
		t.Errorf("interior %v, want %v", got, want)
	}
}

func TestPaletteStripBackground(t *testing.T) {
	bg := color.RGBA{0x10, 0x10, 0x10, 0xff}
	out := PaletteStrip([]sampler.RGB{{R: 224}}, -1, PaletteOptions{Swatch: 10, Gap: 4, Background: bg})
	if got := out.RGBAAt(1, 1); got != bg {
		t.Errorf("gap %v, want %v", got, bg)
	}
}

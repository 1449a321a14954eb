package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/colorby/internal/render"
)

const (
	statusHeight = 24
	swatchMax    = 48
	swatchMin    = 12
	swatchGap    = 6
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 36, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// layout places the board, the palette bar and the status line in a window.
type layout struct {
	width, height int
	board         image.Rectangle
	zoom          float64
	bar           image.Rectangle
	swatch        int
	colors        int
}

func computeLayout(width, height, canvas, colors int) layout {
	l := layout{width: width, height: height, colors: colors}
	if canvas <= 0 || width <= 0 || height <= 0 {
		return l
	}
	l.swatch = swatchMax
	if colors > 0 {
		fit := (width - (colors+1)*swatchGap) / colors
		l.swatch = max(swatchMin, min(swatchMax, fit))
	}
	barH := l.swatch + 2*swatchGap
	barW := colors*l.swatch + (colors+1)*swatchGap
	side := min(width, height-barH-statusHeight)
	if side <= 0 {
		return l
	}
	x := (width - side) / 2
	l.board = image.Rect(x, 0, x+side, side)
	l.zoom = float64(side) / float64(canvas)
	bx := max(0, (width-barW)/2)
	l.bar = image.Rect(bx, side, bx+barW, side+barH)
	return l
}

// canvasPoint maps a window position to canvas coordinates.
func (l layout) canvasPoint(x, y float64) (float64, float64, bool) {
	if l.zoom <= 0 {
		return 0, 0, false
	}
	b := l.board
	if x < float64(b.Min.X) || y < float64(b.Min.Y) || x >= float64(b.Max.X) || y >= float64(b.Max.Y) {
		return 0, 0, false
	}
	return (x - float64(b.Min.X)) / l.zoom, (y - float64(b.Min.Y)) / l.zoom, true
}

// swatchAt returns the palette index under a window position, or -1.
func (l layout) swatchAt(p image.Point) int {
	if !p.In(l.bar) {
		return -1
	}
	rel := p.Sub(l.bar.Min)
	for i, r := range render.SwatchRects(l.colors, l.swatch, swatchGap) {
		if rel.In(r) {
			return i
		}
	}
	return -1
}

type paintState struct {
	layout       layout
	background   color.Color
	text         color.Color
	board        *image.RGBA
	strip        *image.RGBA
	status       string
	message      string
	messageUntil time.Time
}

// composeFrame draws one frame of the play window into dst.
func composeFrame(ctx context.Context, dst *image.RGBA, st paintState) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(st.background), image.Point{}, draw.Src)
	l := st.layout
	if st.board != nil && !l.board.Empty() {
		if st.board.Bounds().Size() == l.board.Size() {
			draw.Draw(dst, l.board, st.board, st.board.Bounds().Min, draw.Src)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, l.board, st.board, st.board.Bounds(), draw.Src, nil)
		}
	}
	if ctx.Err() != nil {
		return
	}
	if st.strip != nil {
		draw.Draw(dst, l.bar, st.strip, image.Point{}, draw.Over)
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.text), Face: basicfont.Face7x13}
	d.Dot = fixed.P(swatchGap, l.height-statusHeight/2+basicfont.Face7x13.Ascent/2)
	d.DrawString(st.status)
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.Black, Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (l.width - wmsg) / 2
		py := (l.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
		drawRect(dst, rect, color.Black, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	u := image.NewUniform(col)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+thick, rect.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(rect.Max.X-thick, rect.Min.Y, rect.Max.X, rect.Max.Y), u, image.Point{}, draw.Src)
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.layout.width, st.layout.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	composeFrame(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func statusLine(revealed, total int, active string, numbers bool) string {
	s := fmt.Sprintf("%d/%d revealed", revealed, total)
	if active != "" {
		s += "  color " + active
	}
	if numbers {
		s += "  [numbers]"
	}
	return s + "  q:quit s:save c:copy palette n:numbers 1-9:color"
}

package render

import (
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/example/colorby/internal/sampler"
)

// PaletteOptions configure PaletteStrip.
type PaletteOptions struct {
	Swatch   int
	Gap      int
	Numbers  bool
	Selected color.Color
	Border   color.Color

	// Background fills the strip behind the swatches. Nil leaves it clear.
	Background color.Color
}

// PaletteStrip draws the palette as a row of numbered swatches. The swatch
// at index active, if in range, gets a thick frame in the selected color.
func PaletteStrip(palette []sampler.RGB, active int, opts PaletteOptions) *image.RGBA {
	if opts.Swatch <= 0 {
		opts.Swatch = 48
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	if opts.Selected == nil {
		opts.Selected = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	}
	if opts.Border == nil {
		opts.Border = color.Black
	}
	n := len(palette)
	w := max(1, n*opts.Swatch+(n+1)*opts.Gap)
	h := opts.Swatch + 2*opts.Gap
	dc := gg.NewContext(w, h)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}
	dc.SetFontFace(basicfont.Face7x13)
	for i, r := range SwatchRects(n, opts.Swatch, opts.Gap) {
		x, y := float64(r.Min.X), float64(r.Min.Y)
		s := float64(opts.Swatch)
		dc.DrawRectangle(x, y, s, s)
		dc.SetColor(palette[i])
		dc.FillPreserve()
		dc.SetLineWidth(1)
		dc.SetColor(opts.Border)
		dc.Stroke()
		if i == active {
			dc.SetLineWidth(4)
			dc.SetColor(opts.Selected)
			dc.DrawRectangle(x+2, y+2, s-4, s-4)
			dc.Stroke()
		}
		if opts.Numbers {
			dc.SetColor(contrast(palette[i]))
			dc.DrawStringAnchored(strconv.Itoa(i+1), x+s/2, y+s/2, 0.5, 0.5)
		}
	}
	return imageRGBA(dc.Image())
}

// SwatchRects returns the swatch rectangles PaletteStrip uses, so callers can
// map a click back to a palette index.
func SwatchRects(n, swatch, gap int) []image.Rectangle {
	rects := make([]image.Rectangle, n)
	for i := range rects {
		x := gap + i*(swatch+gap)
		rects[i] = image.Rect(x, gap, x+swatch, gap+swatch)
	}
	return rects
}

// contrast picks black or white text for a swatch.
func contrast(c sampler.RGB) color.Color {
	if 299*int(c.R)+587*int(c.G)+114*int(c.B) > 128000 {
		return color.Black
	}
	return color.White
}

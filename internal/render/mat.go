package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
)

// MatOptions configure Mat.
type MatOptions struct {
	Margin     int
	Background color.Color
	// ShadowRadius blurs a drop shadow under the board. Zero disables it.
	ShadowRadius  int
	ShadowOffset  image.Point
	ShadowOpacity float64
}

// DefaultMatOptions frames a board with a soft shadow.
func DefaultMatOptions() MatOptions {
	return MatOptions{
		Margin:        32,
		Background:    color.RGBA{0xf4, 0xf1, 0xea, 0xff},
		ShadowRadius:  12,
		ShadowOffset:  image.Pt(8, 8),
		ShadowOpacity: 0.45,
	}
}

// Mat places a finished board on a margin with an optional drop shadow,
// for exported pictures. The result has a zero origin.
func Mat(board image.Image, opts MatOptions) *image.RGBA {
	if board == nil {
		return nil
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	b := board.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*opts.Margin, b.Dy()+2*opts.Margin))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	at := image.Rect(opts.Margin, opts.Margin, opts.Margin+b.Dx(), opts.Margin+b.Dy())
	opacity := min(opts.ShadowOpacity, 1)
	if opts.ShadowRadius > 0 && opacity > 0 {
		// the shadow is the board's alpha silhouette, blurred and tinted black
		mask := image.NewRGBA(dst.Bounds())
		sil := image.NewUniform(color.Alpha{A: uint8(opacity*255 + 0.5)})
		draw.DrawMask(mask, at.Add(opts.ShadowOffset), sil, image.Point{}, board, b.Min, draw.Src)
		soft := blur.Box(mask, float64(opts.ShadowRadius))
		draw.DrawMask(dst, dst.Bounds(), image.Black, image.Point{}, alphaOf(soft), image.Point{}, draw.Over)
	}
	draw.Draw(dst, at, board, b.Min, draw.Over)
	return dst
}

// alphaOf exposes an image's alpha channel as a mask.
func alphaOf(img *image.RGBA) *image.Alpha {
	b := img.Bounds()
	a := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a.Pix[a.PixOffset(x, y)] = img.Pix[img.PixOffset(x, y)+3]
		}
	}
	return a
}

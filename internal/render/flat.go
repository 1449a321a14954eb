package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
)

// Fill is one shape painted in a flat color.
type Fill struct {
	Path     *outline.Path
	FillRule outline.FillRule
	Color    color.Color
}

// Paint fills shapes in order on a size×size image, scaled from a
// canvas×canvas coordinate space. Shapes with a nil color are skipped.
func Paint(fills []Fill, canvas, size int, background color.Color) *image.RGBA {
	if canvas <= 0 {
		canvas = puzzle.DefaultImageSize
	}
	if size <= 0 {
		size = canvas
	}
	dc := gg.NewContext(size, size)
	if background != nil {
		dc.SetColor(background)
		dc.Clear()
	}
	s := float64(size) / float64(canvas)
	dc.Scale(s, s)
	for _, f := range fills {
		if f.Color == nil {
			continue
		}
		setFillRule(dc, f.FillRule)
		tracePath(dc, f.Path)
		dc.SetColor(f.Color)
		dc.Fill()
	}
	return imageRGBA(dc.Image())
}

// Solution paints every shape of plan in its sampled color, the way the
// board looks once it is fully colored in. Shapes without a color are left
// in the placeholder color.
func Solution(plan []puzzle.Instruction, opts BoardOptions) *image.RGBA {
	opts = opts.withDefaults()
	fills := make([]Fill, len(plan))
	for i, in := range plan {
		fills[i] = Fill{Path: in.Path, FillRule: in.FillRule, Color: opts.Style.Placeholder}
		if in.HasColor {
			fills[i].Color = in.Color
		}
	}
	return Paint(fills, opts.Canvas, opts.Size, opts.Style.Background)
}

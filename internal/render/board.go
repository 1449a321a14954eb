// Package render draws puzzle boards and palettes into images.
package render

import (
	"image"
	"image/color"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/sampler"
)

// Style holds the board colors.
type Style struct {
	Background  color.Color
	Placeholder color.Color
	Border      color.Color
	Text        color.Color
	BorderWidth float64
}

// DefaultStyle is a grey placeholder with black two pixel outlines.
func DefaultStyle() Style {
	return Style{
		Background:  color.White,
		Placeholder: color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		Border:      color.Black,
		Text:        color.RGBA{0x33, 0x33, 0x33, 0xff},
		BorderWidth: 2,
	}
}

// BoardOptions configure Board.
type BoardOptions struct {
	Style Style
	// Canvas is the side of the square coordinate space the plan uses.
	Canvas int
	// Size is the output side in pixels. Zero means Canvas.
	Size int
	// Numbers labels hidden shapes with their 1-based palette number.
	Numbers bool
	// Highlight outlines hidden shapes of this color in the text color.
	Highlight    sampler.RGB
	HasHighlight bool
}

func (o BoardOptions) withDefaults() BoardOptions {
	if o.Canvas <= 0 {
		o.Canvas = puzzle.DefaultImageSize
	}
	if o.Size <= 0 {
		o.Size = o.Canvas
	}
	def := DefaultStyle()
	if o.Style.Background == nil {
		o.Style.Background = def.Background
	}
	if o.Style.Placeholder == nil {
		o.Style.Placeholder = def.Placeholder
	}
	if o.Style.Border == nil {
		o.Style.Border = def.Border
	}
	if o.Style.Text == nil {
		o.Style.Text = def.Text
	}
	if o.Style.BorderWidth <= 0 {
		o.Style.BorderWidth = def.BorderWidth
	}
	return o
}

// Board draws plan in order: revealed shapes show source clipped to their
// outline, hidden shapes get the placeholder fill, and every shape is
// stroked. source is expected in canvas coordinates.
func Board(plan []puzzle.Instruction, source image.Image, opts BoardOptions) *image.RGBA {
	opts = opts.withDefaults()
	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetColor(opts.Style.Background)
	dc.Clear()

	scale := float64(opts.Size) / float64(opts.Canvas)
	dc.Scale(scale, scale)
	dc.SetLineJoin(gg.LineJoinRound)

	for _, in := range plan {
		setFillRule(dc, in.FillRule)
		tracePath(dc, in.Path)
		if in.Revealed && source != nil {
			dc.ClipPreserve()
			dc.DrawImage(source, 0, 0)
			dc.ResetClip()
		} else {
			dc.SetColor(opts.Style.Placeholder)
			dc.FillPreserve()
		}
		dc.SetColor(opts.Style.Border)
		dc.SetLineWidth(opts.Style.BorderWidth)
		dc.Stroke()
	}

	if opts.HasHighlight {
		dc.SetColor(opts.Style.Text)
		dc.SetLineWidth(opts.Style.BorderWidth * 2)
		for _, in := range plan {
			if in.Revealed || !in.HasColor || in.Color != opts.Highlight {
				continue
			}
			tracePath(dc, in.Path)
			dc.Stroke()
		}
	}

	if opts.Numbers {
		drawNumbers(dc, plan, opts.Style.Text, scale)
	}
	return imageRGBA(dc.Image())
}

// Numbering assigns 1-based numbers to the distinct shape colors in the
// order their first shape appears, matching Session.Palette.
func Numbering(plan []puzzle.Instruction) map[sampler.RGB]int {
	nums := map[sampler.RGB]int{}
	for _, in := range plan {
		if !in.HasColor {
			continue
		}
		if _, ok := nums[in.Color]; !ok {
			nums[in.Color] = len(nums) + 1
		}
	}
	return nums
}

func drawNumbers(dc *gg.Context, plan []puzzle.Instruction, text color.Color, scale float64) {
	nums := Numbering(plan)
	dc.Push()
	dc.Identity()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(text)
	for _, in := range plan {
		if in.Revealed || !in.HasColor || in.Bounds.Empty() {
			continue
		}
		c := in.Bounds.Min.Add(in.Bounds.Max).Div(2)
		dc.DrawStringAnchored(strconv.Itoa(nums[in.Color]), float64(c.X)*scale, float64(c.Y)*scale, 0.5, 0.5)
	}
	dc.Pop()
}

func setFillRule(dc *gg.Context, rule outline.FillRule) {
	if rule == outline.EvenOdd {
		dc.SetFillRule(gg.FillRuleEvenOdd)
		return
	}
	dc.SetFillRule(gg.FillRuleWinding)
}

func tracePath(dc *gg.Context, p *outline.Path) {
	dc.ClearPath()
	if p == nil {
		return
	}
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case outline.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case outline.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case outline.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case outline.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		case outline.Close:
			dc.ClosePath()
		}
	}
}

func imageRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

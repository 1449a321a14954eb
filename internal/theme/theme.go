// Package theme holds the colors used to draw boards and palettes.
package theme

import (
	"image/color"

	"github.com/example/colorby/internal/render"
)

// Theme defines the color palette for boards, palette bars and the play
// window.
type Theme struct {
	Name string

	// Board
	Background  color.RGBA // Canvas behind the shapes
	Placeholder color.RGBA // Fill of shapes not yet revealed
	Border      color.RGBA // Shape outlines
	Text        color.RGBA // Numbers and highlight outlines

	// Palette bar
	PaletteBar      color.RGBA
	PaletteSelected color.RGBA
	PaletteBorder   color.RGBA

	// Mat
	Mat color.RGBA

	BorderWidth float64
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:            "Default",
		Background:      color.RGBA{255, 255, 255, 255},
		Placeholder:     color.RGBA{204, 204, 204, 255},
		Border:          color.RGBA{0, 0, 0, 255},
		Text:            color.RGBA{51, 51, 51, 255},
		PaletteBar:      color.RGBA{240, 240, 240, 255},
		PaletteSelected: color.RGBA{255, 215, 0, 255},
		PaletteBorder:   color.RGBA{0, 0, 0, 255},
		Mat:             color.RGBA{232, 228, 220, 255},
		BorderWidth:     2,
	}
}

// Style converts the board colors for render.Board.
func (t *Theme) Style() render.Style {
	if t == nil {
		return render.DefaultStyle()
	}
	return render.Style{
		Background:      t.Background,
		Placeholder:     t.Placeholder,
		Border:          t.Border,
		Text:            t.Text,
		BorderWidth:     t.BorderWidth,
	}
}

// Palette converts the palette bar colors for render.PaletteStrip.
func (t *Theme) Palette(swatch, gap int) render.PaletteOptions {
	opts := render.PaletteOptions{Swatch: swatch, Gap: gap, Numbers: true}
	if t != nil {
		opts.Selected = t.PaletteSelected
		opts.Border = t.PaletteBorder
		opts.Background = t.PaletteBar
	}
	return opts
}

// MatOptions returns the default mat using the theme's mat color.
func (t *Theme) MatOptions() render.MatOptions {
	opts := render.DefaultMatOptions()
	if t != nil {
		opts.Background = t.Mat
	}
	return opts
}

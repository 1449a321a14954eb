package sampler

import (
	"fmt"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 24-bit color.
type RGB struct {
	R, G, B uint8
}

// FromPacked unpacks 0xRRGGBB.
func FromPacked(v uint32) RGB {
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Packed returns the color as 0xRRGGBB.
func (c RGB) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Hex returns "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string { return c.Hex() }

// RGBA implements color.Color. The color is always fully opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

// ParseHex accepts "#rrggbb", "rrggbb" and "#rgb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 3 && len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q", s)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Quantize reduces each channel to a multiple of bucket using floor
// division, e.g. 200 with bucket 32 becomes 192.
func Quantize(c RGB, bucket int) RGB {
	return RGB{
		R: quantizeChannel(c.R, bucket),
		G: quantizeChannel(c.G, bucket),
		B: quantizeChannel(c.B, bucket),
	}
}

func quantizeChannel(v uint8, bucket int) uint8 {
	if bucket <= 1 {
		return v
	}
	return uint8(int(v) / bucket * bucket)
}

// SortByHue returns a copy of colors ordered by hue, then saturation, then
// value, so palettes display in a stable rainbow order.
func SortByHue(colors []RGB) []RGB {
	type keyed struct {
		c       RGB
		h, s, v float64
	}
	ks := make([]keyed, len(colors))
	for i, c := range colors {
		cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
		h, s, v := cf.Hsv()
		// greys have no meaningful hue; keep them together at the end
		if s == 0 {
			h = 360
		}
		ks[i] = keyed{c: c, h: h, s: s, v: v}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		a, b := ks[i], ks[j]
		switch {
		case a.h != b.h:
			return a.h < b.h
		case a.s != b.s:
			return a.s > b.s
		case a.v != b.v:
			return a.v < b.v
		}
		return a.c.Packed() < b.c.Packed()
	})
	out := make([]RGB, len(ks))
	for i, k := range ks {
		out[i] = k.c
	}
	return out
}

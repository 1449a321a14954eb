// Package sampler picks a representative color for each region of an image
// by sampling a coarse grid and counting quantized colors.
package sampler

import (
	"context"
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/example/colorby/internal/logging"
)

const (
	// DefaultGridStep is the sampling stride in pixels along both axes.
	DefaultGridStep = 3
	// DefaultBucket is the quantization factor applied to each channel.
	DefaultBucket = 32
)

// Area is a pixel set in canvas coordinates. *region.Region satisfies it.
type Area interface {
	Bounds() image.Rectangle
	Contains(x, y int) bool
}

// Options control sampling. Zero values select the defaults.
type Options struct {
	GridStep int
	Bucket   int
	// Workers bounds DominantColors concurrency. Defaults to runtime.NumCPU().
	Workers int
}

func (o Options) withDefaults() Options {
	if o.GridStep <= 0 {
		o.GridStep = DefaultGridStep
	}
	if o.Bucket <= 0 {
		o.Bucket = DefaultBucket
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// DominantColor returns the most frequent quantized color among the grid
// points of area that fall inside the image and are not fully transparent.
// Canvas (0, 0) maps to img.Bounds().Min. Equal counts go to the smallest
// packed color. The second result is false when no point qualifies.
func DominantColor(img image.Image, area Area, opts Options) (RGB, bool) {
	if img == nil || area == nil {
		return RGB{}, false
	}
	opts = opts.withDefaults()
	return tally(img, gridPoints(area, opts.GridStep), opts.Bucket)
}

// gridPoints lists the stride-aligned points of area's bounding box that the
// area contains, column by column.
func gridPoints(area Area, step int) []image.Point {
	b := area.Bounds()
	var pts []image.Point
	for x := b.Min.X; x < b.Max.X; x += step {
		for y := b.Min.Y; y < b.Max.Y; y += step {
			if area.Contains(x, y) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

func tally(img image.Image, pts []image.Point, bucket int) (RGB, bool) {
	ib := img.Bounds()
	w, h := ib.Dx(), ib.Dy()
	counts := make(map[RGB]int)
	for _, p := range pts {
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
			continue
		}
		px := pixelAt(img, ib.Min.X+p.X, ib.Min.Y+p.Y)
		if px.A == 0 {
			continue
		}
		counts[Quantize(RGB{R: px.R, G: px.G, B: px.B}, bucket)]++
	}
	var (
		best  RGB
		bestN int
	)
	for c, n := range counts {
		if n > bestN || (n == bestN && c.Packed() < best.Packed()) {
			best, bestN = c, n
		}
	}
	return best, bestN > 0
}

// pixelAt reads a non-premultiplied pixel.
func pixelAt(img image.Image, x, y int) color.NRGBA {
	if m, ok := img.(*image.NRGBA); ok {
		return m.NRGBAAt(x, y)
	}
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// Result is the outcome for one area. OK is false when nothing was sampled.
type Result struct {
	Color RGB
	OK    bool
}

// DominantColors samples every area concurrently. Each area only reads the
// shared image and writes its own slot, so the results match calling
// DominantColor in a loop.
func DominantColors(ctx context.Context, img image.Image, areas []Area, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	results := make([]Result, len(areas))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, a := range areas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, ok := DominantColor(img, a, opts)
			results[i] = Result{Color: c, OK: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	logging.Logger().Debug("sampled dominant colors", "areas", len(areas), "workers", opts.Workers)
	return results, nil
}

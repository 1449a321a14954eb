package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/example/colorby/internal/clipboard"
	"github.com/example/colorby/internal/render"
	"github.com/example/colorby/internal/sampler"
)

type paletteCmd struct {
	*root
	fs     *flag.FlagSet
	src    sourceFlags
	copy   bool
	sortBy string
}

func parsePaletteCmd(args []string, r *root) (*paletteCmd, error) {
	child, fs := r.command("palette")
	cmd := &paletteCmd{root: child, fs: fs}
	cmd.src.register(fs)
	fs.BoolVar(&cmd.copy, "copy", false, "copy the palette to the clipboard as hex lines")
	fs.StringVar(&cmd.sortBy, "sort", "number", "display order: number or hue")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.sortBy != "number" && cmd.sortBy != "hue" {
		return nil, &UsageError{of: cmd, msg: fmt.Sprintf("unknown sort order %q", cmd.sortBy)}
	}
	if err := cmd.src.validate(); err != nil {
		return nil, &UsageError{of: cmd, msg: err.Error()}
	}
	return cmd, nil
}

func (c *paletteCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *paletteCmd) Run() error {
	p, err := c.src.load(context.Background(), c.root)
	if err != nil {
		return err
	}
	printPalette(c.stdout, p, c.sortBy == "hue")
	palette := p.session.Palette()
	if c.copy && len(palette) > 0 {
		if err := clipboard.WritePalette(palette); err != nil {
			return fmt.Errorf("copy palette: %w", err)
		}
		c.notifier.Copy(fmt.Sprintf("%d colors", len(palette)))
	}
	return nil
}

// printPalette lists each palette entry with its board number, a terminal
// swatch and the number of shapes using it.
func printPalette(w io.Writer, p *loaded, byHue bool) {
	palette := p.session.Palette()
	if len(palette) == 0 {
		fmt.Fprintln(w, "no colors")
		return
	}
	numbers := render.Numbering(p.session.Plan())
	if byHue {
		palette = sampler.SortByHue(palette)
	}
	active, hasActive := p.session.ActiveColor()
	out := termenv.NewOutput(w)
	for _, col := range palette {
		marker := " "
		if hasActive && col == active {
			marker = "*"
		}
		swatch := out.String("    ").Background(out.Color(col.Hex()))
		fmt.Fprintf(w, "%s%3d %s %s  %d shapes\n", marker, numbers[col], swatch, col.Hex(), len(p.session.ShapesWithColor(col)))
	}
}

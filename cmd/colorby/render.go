package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/colorby/internal/clipboard"
	"github.com/example/colorby/internal/outline"
	"github.com/example/colorby/internal/render"
)

type renderCmd struct {
	*root
	fs          *flag.FlagSet
	src         sourceFlags
	output      string
	reveal      string
	taps        pointList
	all         bool
	numbers     bool
	size        int
	mat         bool
	solution    bool
	toClipboard bool
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	child, fs := r.command("render")
	cmd := &renderCmd{root: child, fs: fs}
	cmd.src.register(fs)
	fs.StringVar(&cmd.output, "output", "", "output PNG, - for stdout (default <name>.png)")
	fs.StringVar(&cmd.reveal, "reveal", "", "comma separated shape ids to reveal first")
	fs.Var(&cmd.taps, "tap", "tap x,y before drawing (may be repeated)")
	fs.BoolVar(&cmd.all, "all", false, "reveal every shape")
	fs.BoolVar(&cmd.numbers, "numbers", true, "label hidden shapes with their palette number")
	fs.IntVar(&cmd.size, "size", 0, "output side in pixels (default canvas size)")
	fs.BoolVar(&cmd.mat, "mat", false, "frame the board on a mat with a drop shadow")
	fs.BoolVar(&cmd.solution, "solution", false, "fill every shape with its sampled color instead of the picture")
	fs.BoolVar(&cmd.toClipboard, "to-clipboard", false, "copy the image to the clipboard as well")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.size < 0 {
		return nil, &UsageError{of: cmd, msg: "-size must not be negative"}
	}
	if err := cmd.src.validate(); err != nil {
		return nil, &UsageError{of: cmd, msg: err.Error()}
	}
	return cmd, nil
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *renderCmd) Run() error {
	p, err := c.src.load(context.Background(), c.root)
	if err != nil {
		return err
	}
	if err := revealIDs(p, c.reveal); err != nil {
		return err
	}
	for _, pt := range c.taps {
		p.session.HandleTap(pt.x, pt.y)
	}
	if c.all {
		p.session.RevealAll()
	}

	img := c.draw(p)
	out := c.output
	if out == "" {
		out = c.defaultOutput(p.name)
	}
	if err := writePNG(out, img, c.stdout); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(c.stderr, "saved %s\n", out)
		c.notifier.Save(out)
	}
	if c.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy image: %w", err)
		}
		c.notifier.Copy("board")
	}
	return nil
}

func (c *renderCmd) draw(p *loaded) image.Image {
	opts := render.BoardOptions{
		Style:   p.theme.Style(),
		Canvas:  p.session.ImageSize(),
		Size:    c.size,
		Numbers: c.numbers,
	}
	var img image.Image
	if c.solution {
		img = render.Solution(p.session.Plan(), opts)
	} else {
		img = render.Board(p.session.Plan(), p.source, opts)
	}
	if c.mat {
		img = render.Mat(img, p.theme.MatOptions())
	}
	return img
}

func revealIDs(p *loaded, list string) error {
	for _, field := range strings.Split(list, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		id, err := outline.ParseID(field)
		if err != nil {
			return err
		}
		if _, err := p.session.Reveal(id); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, img image.Image, stdout io.Writer) error {
	if path == "-" {
		return png.Encode(stdout, img)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

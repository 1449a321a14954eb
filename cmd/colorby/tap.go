package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/colorby/internal/render"
)

type tapCmd struct {
	*root
	fs     *flag.FlagSet
	src    sourceFlags
	points []point
	output string
}

func parseTapCmd(args []string, r *root) (*tapCmd, error) {
	child, fs := r.command("tap")
	cmd := &tapCmd{root: child, fs: fs}
	cmd.src.register(fs)
	fs.StringVar(&cmd.output, "output", "", "also write the resulting board to this PNG")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 {
		return nil, &UsageError{of: cmd, msg: "no points to tap"}
	}
	for _, a := range fs.Args() {
		p, err := parsePoint(a)
		if err != nil {
			return nil, &UsageError{of: cmd, msg: err.Error()}
		}
		cmd.points = append(cmd.points, p)
	}
	if err := cmd.src.validate(); err != nil {
		return nil, &UsageError{of: cmd, msg: err.Error()}
	}
	return cmd, nil
}

func (c *tapCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *tapCmd) Run() error {
	p, err := c.src.load(context.Background(), c.root)
	if err != nil {
		return err
	}
	for _, pt := range c.points {
		t := p.session.HandleTap(pt.x, pt.y)
		switch {
		case !t.Hit:
			fmt.Fprintf(c.stdout, "%g,%g: no shape\n", pt.x, pt.y)
		case t.Changed:
			fmt.Fprintf(c.stdout, "%g,%g: %s revealed\n", pt.x, pt.y, t.Shape)
		default:
			fmt.Fprintf(c.stdout, "%g,%g: %s already revealed\n", pt.x, pt.y, t.Shape)
		}
	}
	revealed, total := p.session.Progress()
	fmt.Fprintf(c.stdout, "progress %d/%d\n", revealed, total)

	if c.output == "" && !p.session.Complete() {
		return nil
	}
	img := render.Board(p.session.Plan(), p.source, render.BoardOptions{
		Style:  p.theme.Style(),
		Canvas: p.session.ImageSize(),
	})
	if p.session.Complete() {
		fmt.Fprintln(c.stdout, "complete")
		c.notifier.Complete(p.name, img)
	}
	if c.output != "" {
		if err := writePNG(c.output, img, c.stdout); err != nil {
			return err
		}
		c.notifier.Save(c.output)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
)

type shapesCmd struct {
	*root
	fs  *flag.FlagSet
	src sourceFlags
}

func parseShapesCmd(args []string, r *root) (*shapesCmd, error) {
	child, fs := r.command("shapes")
	cmd := &shapesCmd{root: child, fs: fs}
	cmd.src.register(fs)
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if err := cmd.src.validate(); err != nil {
		return nil, &UsageError{of: cmd, msg: err.Error()}
	}
	return cmd, nil
}

func (c *shapesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *shapesCmd) Run() error {
	p, err := c.src.load(context.Background(), c.root)
	if err != nil {
		return err
	}
	printShapes(c.stdout, p)
	return nil
}

func printShapes(w io.Writer, p *loaded) {
	revealed, total := p.session.Progress()
	fmt.Fprintf(w, "%s: %d shapes, %d colors, %d/%d revealed\n", p.name, total, len(p.session.Palette()), revealed, total)
	for _, in := range p.session.Plan() {
		col := "-"
		if in.HasColor {
			col = in.Color.Hex()
		}
		b := in.Bounds
		fmt.Fprintf(w, "%-10s %-8s %4d,%-4d %4dx%-4d %s\n", in.ID, in.FillRule, b.Min.X, b.Min.Y, b.Dx(), b.Dy(), col)
	}
	for _, sk := range p.skipped {
		fmt.Fprintf(w, "skipped %s\n", sk)
	}
}

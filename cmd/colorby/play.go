package main

import (
	"context"
	"flag"

	"github.com/example/colorby/internal/appstate"
)

type playCmd struct {
	*root
	fs      *flag.FlagSet
	src     sourceFlags
	output  string
	numbers bool
}

func parsePlayCmd(args []string, r *root) (*playCmd, error) {
	child, fs := r.command("play")
	cmd := &playCmd{root: child, fs: fs}
	cmd.src.register(fs)
	fs.StringVar(&cmd.output, "output", "", "where the s key saves the board (default <name>.png in save_dir)")
	fs.BoolVar(&cmd.numbers, "numbers", true, "label hidden shapes with their palette number")
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

func (c *playCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *playCmd) Run() error {
	p, err := c.src.load(context.Background(), c.root)
	if err != nil {
		return err
	}
	out := c.output
	if out == "" {
		out = c.defaultOutput(p.name)
	}
	opts := []appstate.Option{
		appstate.WithSession(p.session),
		appstate.WithSource(p.source),
		appstate.WithName(p.name),
		appstate.WithTheme(p.theme),
		appstate.WithNumbers(c.numbers),
		appstate.WithOutput(out),
		appstate.WithNotifier(c.notifier),
	}
	return appstate.New(opts...).Run()
}

package main

import (
	"flag"
	"fmt"

	"github.com/example/colorby/assets"
)

type samplesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseSamplesCmd(args []string, r *root) (*samplesCmd, error) {
	child, fs := r.command("samples")
	cmd := &samplesCmd{root: child, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *samplesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *samplesCmd) Run() error {
	for _, name := range assets.Samples() {
		set, err := assets.SampleOutlines(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "%-10s %d shapes\n", name, set.Len())
	}
	return nil
}

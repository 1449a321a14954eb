package main

import (
	"flag"
	"fmt"

	"github.com/example/colorby/internal/config"
)

type configCmd struct {
	*root
	fs   *flag.FlagSet
	op   string
	path string
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	child, fs := r.command("config")
	cmd := &configCmd{root: child, fs: fs}
	fs.StringVar(&cmd.path, "file", "", "file to save to (default ~/.config/colorby/config.rc)")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.op = fs.Arg(0)
	if cmd.op != "print" && cmd.op != "save" {
		return nil, &UsageError{of: cmd, msg: fmt.Sprintf("unknown config action %q", cmd.op)}
	}
	return cmd, nil
}

func (c *configCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *configCmd) Run() error {
	if c.op == "print" {
		fmt.Fprint(c.stdout, c.config.String())
		return nil
	}
	path := c.path
	if path == "" {
		path = config.UserPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: home directory unknown")
	}
	if err := config.Save(c.config, path); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "saved %s\n", path)
	return nil
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/colorby/internal/server"
)

type serveCmd struct {
	*root
	fs          *flag.FlagSet
	addr        string
	maxSessions int
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	child, fs := r.command("serve")
	cmd := &serveCmd{root: child, fs: fs}
	fs.StringVar(&cmd.addr, "addr", "127.0.0.1:8080", "listen address")
	fs.IntVar(&cmd.maxSessions, "max-sessions", server.DefaultMaxSessions, "sessions kept before the oldest is evicted")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	if cmd.maxSessions <= 0 {
		return nil, &UsageError{of: cmd, msg: "-max-sessions must be positive"}
	}
	return cmd, nil
}

func (c *serveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *serveCmd) serverConfig() server.Config {
	return server.Config{
		Options:     c.root.config.Options(),
		Style:       c.activeTheme.Style(),
		MaxSessions: c.maxSessions,
	}
}

func (c *serveCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(c.serverConfig()).ListenAndServe(ctx, c.addr)
}

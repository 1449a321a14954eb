package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/colorby/internal/config"
	"github.com/example/colorby/internal/logging"
	"github.com/example/colorby/internal/notify"
	"github.com/example/colorby/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	completeAlerts bool
	saveAlerts     bool
	copyAlerts     bool
	verbose        bool
	themeName      string
	activeTheme    *theme.Theme
	stdout         io.Writer
	stderr         io.Writer
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:        program,
		notifier:       r.notifier,
		config:         r.config,
		completeAlerts: r.completeAlerts,
		saveAlerts:     r.saveAlerts,
		copyAlerts:     r.copyAlerts,
		verbose:        r.verbose,
		themeName:      r.themeName,
		activeTheme:    r.activeTheme,
		stdout:         r.stdout,
		stderr:         r.stderr,
	}
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

// command builds the flag set and program name for a subcommand.
func (r *root) command(name string) (*root, *flag.FlagSet) {
	child := r.subcommand(name)
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	child.fs = fs
	return child, fs
}

func newRoot() *root {
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	return newRootWithConfig(cfg, os.Stdout, os.Stderr)
}

func newRootWithConfig(cfg *config.Config, stdout, stderr io.Writer) *root {
	r := &root{
		fs:       flag.NewFlagSet("colorby", flag.ContinueOnError),
		program:  "colorby",
		notifier: notify.New(notify.LoadPreferences()),
		config:   cfg,
		stdout:   stdout,
		stderr:   stderr,
	}
	r.fs.SetOutput(stderr)
	r.fs.BoolVar(&r.completeAlerts, "notify-complete", cfg.Notify.Complete, "show a desktop notification when a puzzle is finished")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving a board")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.verbose, "v", false, "log debug details to stderr")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, print or a theme file)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventComplete, r.completeAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	r.installLogger()
	r.activeTheme = r.resolveTheme("")

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "shapes":
		cmd, err = parseShapesCmd(subArgs, r)
	case "palette":
		cmd, err = parsePaletteCmd(subArgs, r)
	case "render":
		cmd, err = parseRenderCmd(subArgs, r)
	case "tap":
		cmd, err = parseTapCmd(subArgs, r)
	case "play":
		cmd, err = parsePlayCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "interactive":
		cmd, err = parseInteractiveCmd(subArgs, r)
	case "samples":
		cmd, err = parseSamplesCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) installLogger() {
	level := slog.LevelInfo
	if r.verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: level})))
}

// resolveTheme applies the theme precedence: flag, then $COLORBY_THEME, then
// the manifest's theme, then the rc config.
func (r *root) resolveTheme(manifestTheme string) *theme.Theme {
	name := r.themeName
	if name == "" {
		name = strings.TrimSpace(os.Getenv(theme.EnvVar))
	}
	if name == "" {
		name = manifestTheme
	}
	t, err := r.config.ResolveTheme(theme.NewLoader(), name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// defaultOutput is where a board for puzzle name is saved when no path is
// given: <name>.png in the configured save_dir, or the working directory.
func (r *root) defaultOutput(name string) string {
	file := name + ".png"
	if r.config != nil && r.config.SaveDir != "" {
		return filepath.Join(r.config.SaveDir, file)
	}
	return file
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		switch {
		case errors.As(err, &uerr):
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		case errors.Is(err, flag.ErrHelp):
			return
		default:
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

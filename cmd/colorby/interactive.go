package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/example/colorby/internal/clipboard"
	"github.com/example/colorby/internal/render"
	"github.com/example/colorby/internal/sampler"
)

const interactiveHelp = `commands:
  load -sample <name> | -puzzle <file> | -outline <file> -image <file>
  shapes                     list shapes
  palette [hue]              list palette entries
  tap x,y [x,y...]           tap points
  reveal <id> [id...]        reveal shapes by id
  all                        reveal every shape
  color <n|#rrggbb>          select a palette entry
  progress                   show revealed/total
  render [file] [nonumbers]  write the board (default <name>.png)
  copy                       copy the palette to the clipboard
  samples                    list sample puzzles
  help                       show this list
  exit                       leave
`

type interactiveCmd struct {
	*root
	fs    *flag.FlagSet
	src   sourceFlags
	execs commandList
	in    io.Reader
	p     *loaded
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	child, fs := r.command("interactive")
	cmd := &interactiveCmd{root: child, fs: fs, in: os.Stdin}
	cmd.src.register(fs)
	fs.Var(&cmd.execs, "e", "execute a command and exit (may be specified multiple times)")
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *interactiveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *interactiveCmd) Run() error {
	if c.src != (sourceFlags{}) {
		if err := c.src.validate(); err != nil {
			return err
		}
		p, err := c.src.load(context.Background(), c.root)
		if err != nil {
			return err
		}
		c.p = p
	}
	if len(c.execs) > 0 {
		for _, line := range c.execs {
			done, err := c.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(c.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := c.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(c.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

var errNoPuzzle = errors.New("no puzzle loaded: use load")

// executeLine runs one command. done is true when the session should end.
func (c *interactiveCmd) executeLine(line string) (done bool, err error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	name, rest := strings.ToLower(args[0]), args[1:]
	switch name {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(c.stdout, interactiveHelp)
		return false, nil
	case "samples":
		return false, (&samplesCmd{root: c.root}).Run()
	case "load":
		return false, c.load(rest)
	}

	if c.p == nil {
		return false, errNoPuzzle
	}
	s := c.p.session
	switch name {
	case "shapes":
		printShapes(c.stdout, c.p)
	case "palette":
		printPalette(c.stdout, c.p, len(rest) > 0 && rest[0] == "hue")
	case "tap":
		if len(rest) == 0 {
			return false, errors.New("usage: tap x,y [x,y...]")
		}
		for _, a := range rest {
			pt, err := parsePoint(a)
			if err != nil {
				return false, err
			}
			t := s.HandleTap(pt.x, pt.y)
			switch {
			case !t.Hit:
				fmt.Fprintln(c.stdout, "no shape")
			case t.Changed:
				fmt.Fprintf(c.stdout, "%s revealed\n", t.Shape)
			default:
				fmt.Fprintf(c.stdout, "%s already revealed\n", t.Shape)
			}
		}
		c.checkComplete()
	case "reveal":
		if err := revealIDs(c.p, strings.Join(rest, ",")); err != nil {
			return false, err
		}
		c.checkComplete()
	case "all":
		fmt.Fprintf(c.stdout, "%d revealed\n", s.RevealAll())
		c.checkComplete()
	case "color":
		if len(rest) != 1 {
			return false, errors.New("usage: color <n|#rrggbb>")
		}
		col, err := c.paletteEntry(rest[0])
		if err != nil {
			return false, err
		}
		s.SetActiveColor(col)
		fmt.Fprintf(c.stdout, "active %s, %d shapes\n", col, len(s.ShapesWithColor(col)))
	case "progress":
		revealed, total := s.Progress()
		fmt.Fprintf(c.stdout, "%d/%d\n", revealed, total)
	case "render", "save":
		return false, c.render(rest)
	case "copy":
		if err := clipboard.WritePalette(s.Palette()); err != nil {
			return false, fmt.Errorf("copy palette: %w", err)
		}
		c.notifier.Copy("palette")
		fmt.Fprintln(c.stdout, "copied palette")
	default:
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}
	return false, nil
}

func (c *interactiveCmd) load(args []string) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	var src sourceFlags
	src.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := src.validate(); err != nil {
		return err
	}
	p, err := src.load(context.Background(), c.root)
	if err != nil {
		return err
	}
	c.p = p
	_, total := p.session.Progress()
	fmt.Fprintf(c.stdout, "loaded %s: %d shapes, %d colors\n", p.name, total, len(p.session.Palette()))
	return nil
}

// paletteEntry resolves a 1-based palette number or a hex color that is in
// the palette.
func (c *interactiveCmd) paletteEntry(arg string) (sampler.RGB, error) {
	palette := c.p.session.Palette()
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(palette) {
			return sampler.RGB{}, fmt.Errorf("palette has %d colors", len(palette))
		}
		return palette[n-1], nil
	}
	col, err := sampler.ParseHex(arg)
	if err != nil {
		return sampler.RGB{}, err
	}
	for _, p := range palette {
		if p == col {
			return col, nil
		}
	}
	return sampler.RGB{}, fmt.Errorf("%s is not in the palette", col)
}

func (c *interactiveCmd) render(args []string) error {
	out := c.defaultOutput(c.p.name)
	numbers := true
	for _, a := range args {
		if a == "nonumbers" {
			numbers = false
			continue
		}
		out = a
	}
	img := render.Board(c.p.session.Plan(), c.p.source, render.BoardOptions{
		Style:   c.p.theme.Style(),
		Canvas:  c.p.session.ImageSize(),
		Numbers: numbers,
	})
	if err := writePNG(out, img, c.stdout); err != nil {
		return err
	}
	if out != "-" {
		fmt.Fprintf(c.stdout, "saved %s\n", out)
		c.notifier.Save(out)
	}
	return nil
}

func (c *interactiveCmd) checkComplete() {
	if !c.p.session.Complete() {
		return
	}
	fmt.Fprintf(c.stdout, "%s complete\n", c.p.name)
	img := render.Board(c.p.session.Plan(), c.p.source, render.BoardOptions{
		Style:  c.p.theme.Style(),
		Canvas: c.p.session.ImageSize(),
	})
	c.notifier.Complete(c.p.name, img)
}

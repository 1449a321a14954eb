package main

import (
	"bytes"
	"embed"
	"flag"
	"fmt"
	"log"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

var (
	helpOnce sync.Once
	helpTmpl *template.Template
)

func parseHelpTemplates() {
	helpTmpl = template.Must(template.New("").Funcs(map[string]any{
		"flags": func(fs *flag.FlagSet) []flagInfo {
			result := []flagInfo{}
			if fs == nil {
				return result
			}
			fs.VisitAll(func(f *flag.Flag) {
				result = append(result, flagInfo{f.Name, f.DefValue, f.Usage})
			})
			return result
		},
	}).ParseFS(helpFS, "templates/*.txt"))
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type UsageError struct {
	of  HelpData
	msg string
}

func (e *UsageError) Error() string {
	help, err := e.renderHelp()
	if err != nil {
		return err.Error()
	}
	if e.msg != "" {
		return e.msg + "\n\n" + help
	}
	return help
}

func (e *UsageError) renderHelp() (string, error) {
	helpOnce.Do(parseHelpTemplates)
	var buf bytes.Buffer
	err := helpTmpl.ExecuteTemplate(&buf, e.of.Template(), e.of)
	if err != nil {
		log.Printf("error rendering help template: %v", err)
		return "", err
	}
	return buf.String(), nil
}

func usageFunc(h HelpData) func() {
	return func() {
		out := h.FlagSet().Output()
		help, err := (&UsageError{of: h}).renderHelp()
		if err != nil {
			fmt.Fprintln(out, err)
			return
		}
		fmt.Fprint(out, help)
	}
}

func (r *root) Template() string {
	return "root.txt"
}

func (c *shapesCmd) Template() string {
	return "shapes.txt"
}

func (c *paletteCmd) Template() string {
	return "palette.txt"
}

func (c *renderCmd) Template() string {
	return "render.txt"
}

func (c *tapCmd) Template() string {
	return "tap.txt"
}

func (c *playCmd) Template() string {
	return "play.txt"
}

func (c *serveCmd) Template() string {
	return "serve.txt"
}

func (c *interactiveCmd) Template() string {
	return "interactive.txt"
}

func (c *samplesCmd) Template() string {
	return "samples.txt"
}

func (c *configCmd) Template() string {
	return "config.txt"
}

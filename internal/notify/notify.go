// Package notify raises desktop notifications for puzzle completion,
// board saves and clipboard copies.
package notify

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"

	"github.com/example/colorby/internal/config"
	"github.com/example/colorby/internal/logging"
	"github.com/example/colorby/internal/platform"
)

// Event names something worth telling the user about.
type Event string

const (
	EventComplete Event = "complete"
	EventSave     Event = "save"
	EventCopy     Event = "copy"
)

var events = []Event{EventComplete, EventSave, EventCopy}

// thumbSize bounds the longer side of the completion thumbnail.
const thumbSize = 256

// Preferences holds the notification title and one body template per
// event. A template containing %s receives the event detail.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

func DefaultPreferences() Preferences {
	return Preferences{
		Title: "colorby",
		Templates: map[Event]string{
			EventComplete: "Finished %s",
			EventSave:     "Saved %s",
			EventCopy:     "Copied %s to clipboard",
		},
	}
}

func envKey(e Event) string {
	return "COLORBY_NOTIFY_" + strings.ToUpper(string(e)) + "_TEXT"
}

// LoadPreferences starts from DefaultPreferences and applies
// COLORBY_NOTIFY_TITLE and COLORBY_NOTIFY_<EVENT>_TEXT overrides.
func LoadPreferences() Preferences {
	p := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("COLORBY_NOTIFY_TITLE")); v != "" {
		p.Title = v
	}
	for _, e := range events {
		if v := strings.TrimSpace(os.Getenv(envKey(e))); v != "" {
			p.Templates[e] = v
		}
	}
	return p
}

var send = platform.Send

// Notifier turns app events into platform messages. A nil Notifier is
// valid and never sends anything.
type Notifier struct {
	prefs Preferences
	on    map[Event]bool
}

func New(p Preferences) *Notifier {
	n := &Notifier{
		prefs: Preferences{Title: p.Title, Templates: make(map[Event]string, len(p.Templates))},
		on:    make(map[Event]bool),
	}
	for e, t := range p.Templates {
		n.prefs.Templates[e] = t
	}
	return n
}

// FromConfig builds a Notifier from the environment with the events that
// cfg switches on.
func FromConfig(cfg config.Notify) *Notifier {
	n := New(LoadPreferences())
	n.Enable(EventComplete, cfg.Complete)
	n.Enable(EventSave, cfg.Save)
	n.Enable(EventCopy, cfg.Copy)
	return n
}

func (n *Notifier) Enable(e Event, on bool) {
	if n == nil {
		return
	}
	n.on[e] = on
}

func (n *Notifier) Enabled(e Event) bool {
	return n != nil && n.on[e]
}

// Complete announces a finished puzzle. board, when non-nil, is attached
// as a thumbnail that only lives for the duration of the send.
func (n *Notifier) Complete(name string, board image.Image) {
	if !n.Enabled(EventComplete) {
		return
	}
	if name = strings.TrimSpace(name); name == "" {
		name = "puzzle"
	}
	m := platform.Message{Subtitle: "All shapes revealed", Category: "transfer.complete", Sound: true}
	if board != nil {
		dir, err := os.MkdirTemp("", "colorby-notify-")
		if err != nil {
			logging.Logger().Warn("notification thumbnail", "err", err)
		} else {
			defer os.RemoveAll(dir)
			path := filepath.Join(dir, "board.png")
			if err := writeThumb(path, board); err != nil {
				logging.Logger().Warn("notification thumbnail", "err", err)
			} else {
				m.IconPath = path
			}
		}
	}
	n.deliver(EventComplete, name, m)
}

// Save announces a written board. The file doubles as the icon when it is
// a PNG that exists.
func (n *Notifier) Save(path string) {
	if !n.Enabled(EventSave) {
		return
	}
	m := platform.Message{Category: "transfer.complete"}
	detail := strings.TrimSpace(path)
	if abs, err := filepath.Abs(detail); err == nil {
		detail = abs
		if fi, err := os.Stat(abs); err == nil && fi.Mode().IsRegular() && strings.EqualFold(filepath.Ext(abs), ".png") {
			m.IconPath = abs
		}
	}
	n.deliver(EventSave, detail, m)
}

func (n *Notifier) Copy(detail string) {
	if !n.Enabled(EventCopy) {
		return
	}
	if detail = strings.TrimSpace(detail); detail == "" {
		detail = "palette"
	}
	n.deliver(EventCopy, detail, platform.Message{})
}

// compose fills the event template. Templates without %s are used as is.
func (n *Notifier) compose(e Event, detail string) string {
	t := strings.TrimSpace(n.prefs.Templates[e])
	if strings.Contains(t, "%s") {
		return strings.TrimSpace(fmt.Sprintf(t, detail))
	}
	return t
}

func (n *Notifier) deliver(e Event, detail string, m platform.Message) {
	m.Body = n.compose(e, detail)
	if m.Body == "" {
		return
	}
	m.Title = n.prefs.Title
	err := send(m)
	if err != nil && !errors.Is(err, platform.ErrUnsupported) {
		logging.Logger().Warn("notification failed", "event", string(e), "err", err)
	}
}

func writeThumb(path string, img image.Image) error {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > thumbSize || h > thumbSize {
		if w >= h {
			w, h = thumbSize, max(1, h*thumbSize/w)
		} else {
			w, h = max(1, w*thumbSize/h), thumbSize
		}
		img = transform.Resize(img, w, h, transform.Linear)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

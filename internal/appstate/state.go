// Package appstate runs the interactive play window: taps on the board
// reveal shapes, clicks on the palette bar pick the active color.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/colorby/internal/clipboard"
	"github.com/example/colorby/internal/notify"
	"github.com/example/colorby/internal/puzzle"
	"github.com/example/colorby/internal/render"
	"github.com/example/colorby/internal/theme"
)

// AppState holds the session being played and its presentation settings.
type AppState struct {
	Session *puzzle.Session
	Source  image.Image
	Name    string
	Output  string
	Theme   *theme.Theme
	Numbers bool

	notifier *notify.Notifier
	onClose  func()

	closeOnce sync.Once
	message   string
	until     time.Time
}

// Option configures AppState.
type Option func(*AppState)

// WithSession sets the initialized session to play.
func WithSession(s *puzzle.Session) Option { return func(a *AppState) { a.Session = s } }

// WithSource sets the picture revealed shapes show.
func WithSource(img image.Image) Option { return func(a *AppState) { a.Source = img } }

// WithName sets the puzzle name used in the title and notifications.
func WithName(name string) Option { return func(a *AppState) { a.Name = name } }

// WithOutput sets where the save shortcut writes.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithTheme sets the board colors.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNumbers starts with palette numbers shown on hidden shapes.
func WithNumbers(on bool) Option { return func(a *AppState) { a.Numbers = on } }

// WithNotifier sets the desktop notifier for complete, save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithOnClose registers a callback invoked once when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates a new AppState.
func New(opts ...Option) *AppState {
	a := &AppState{Name: "puzzle"}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Output == "" {
		a.Output = a.Name + ".png"
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *AppState) flash(msg string) {
	log.Print(msg)
	a.message = msg
	a.until = time.Now().Add(2 * time.Second)
}

// tap reveals the shape under a window position or, on the palette bar,
// makes that palette entry active. It reports whether anything changed.
func (a *AppState) tap(l layout, x, y float64) bool {
	if idx := l.swatchAt(image.Pt(int(x), int(y))); idx >= 0 {
		return a.selectColor(idx)
	}
	cx, cy, ok := l.canvasPoint(x, y)
	if !ok {
		return false
	}
	t := a.Session.HandleTap(cx, cy)
	if !t.Changed {
		return false
	}
	if a.Session.Complete() {
		a.flash("finished " + a.Name)
		a.notifier.Complete(a.Name, a.finished())
	}
	return true
}

func (a *AppState) selectColor(idx int) bool {
	pal := a.Session.Palette()
	if idx < 0 || idx >= len(pal) {
		return false
	}
	a.Session.SetActiveColor(pal[idx])
	return true
}

func (a *AppState) activeIndex() int {
	c, ok := a.Session.ActiveColor()
	if !ok {
		return -1
	}
	for i, p := range a.Session.Palette() {
		if p == c {
			return i
		}
	}
	return -1
}

// board renders the board at the layout's size.
func (a *AppState) board(l layout) *image.RGBA {
	if l.board.Empty() {
		return nil
	}
	opts := render.BoardOptions{
		Style:   a.Theme.Style(),
		Canvas:  a.Session.ImageSize(),
		Size:    l.board.Dx(),
		Numbers: a.Numbers,
	}
	if c, ok := a.Session.ActiveColor(); ok {
		opts.Highlight, opts.HasHighlight = c, true
	}
	return render.Board(a.Session.Plan(), a.Source, opts)
}

func (a *AppState) finished() image.Image {
	b := render.Board(a.Session.Plan(), a.Source, render.BoardOptions{
		Style:  a.Theme.Style(),
		Canvas: a.Session.ImageSize(),
	})
	return render.Mat(b, a.Theme.MatOptions())
}

func (a *AppState) save() {
	if err := os.MkdirAll(filepath.Dir(a.Output), 0o755); err != nil {
		log.Printf("save: %v", err)
		return
	}
	out, err := os.Create(a.Output)
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	if err := png.Encode(out, a.finished()); err != nil {
		log.Printf("save: %v", err)
		if cerr := out.Close(); cerr != nil {
			log.Printf("save: closing file: %v", cerr)
		}
		return
	}
	if err := out.Close(); err != nil {
		log.Printf("save: closing file: %v", err)
		return
	}
	a.flash(fmt.Sprintf("saved %s", a.Output))
	a.notifier.Save(a.Output)
}

func (a *AppState) copyPalette() {
	if err := clipboard.WritePalette(a.Session.Palette()); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	a.flash("palette copied to clipboard")
	a.notifier.Copy("palette")
}

// key applies a key press and reports whether to quit or repaint.
func (a *AppState) key(e key.Event) (quit, changed bool) {
	if e.Direction != key.DirPress {
		return false, false
	}
	if e.Code == key.CodeEscape {
		return true, false
	}
	switch r := e.Rune; {
	case r == 'q' || r == 'Q':
		return true, false
	case r == 's' || r == 'S':
		a.save()
		return false, true
	case r == 'c' || r == 'C':
		a.copyPalette()
		return false, true
	case r == 'n' || r == 'N':
		a.Numbers = !a.Numbers
		return false, true
	case r >= '1' && r <= '9':
		return false, a.selectColor(int(r - '1'))
	}
	return false, false
}

func (a *AppState) paintState(l layout, board *image.RGBA) paintState {
	active := ""
	if c, ok := a.Session.ActiveColor(); ok {
		active = c.Hex()
	}
	revealed, total := a.Session.Progress()
	pal := a.Session.Palette()
	var strip *image.RGBA
	if len(pal) > 0 {
		strip = render.PaletteStrip(pal, a.activeIndex(), a.Theme.Palette(l.swatch, swatchGap))
	}
	return paintState{
		layout:       l,
		background:   a.Theme.Background,
		text:         a.Theme.Text,
		board:        board,
		strip:        strip,
		status:       statusLine(revealed, total, active, a.Numbers),
		message:      a.message,
		messageUntil: a.until,
	}
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() error {
	if a.Session == nil || !a.Session.Initialized() {
		return puzzle.ErrNotInitialized
	}
	driver.Main(a.Main)
	return nil
}

func (a *AppState) Main(s screen.Screen) {
	canvas := a.Session.ImageSize()
	width, height := 720, 720+swatchMax+2*swatchGap+statusHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "colorby: " + a.Name})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer a.notifyClose()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	l := computeLayout(width, height, canvas, len(a.Session.Palette()))
	board := a.board(l)
	changed := func() {
		board = a.board(l)
		w.Send(paint.Event{})
	}

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			l = computeLayout(width, height, canvas, len(a.Session.Palette()))
			changed()
		case paint.Event:
			st := a.paintState(l, board)
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress {
				if a.tap(l, float64(e.X), float64(e.Y)) {
					changed()
				}
			}
		case key.Event:
			quit, ch := a.key(e)
			if quit {
				return
			}
			if ch {
				changed()
			}
		case error:
			log.Printf("window: %v", e)
		}
	}
}

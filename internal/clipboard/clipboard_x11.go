//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// x11Clipboard owns the CLIPBOARD selection through a hidden window and
// answers conversion requests from other clients.
type x11Clipboard struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet

	mu    sync.RWMutex
	text  []byte
	image []byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	utf8      xproto.Atom
	textPlain xproto.Atom
	png       xproto.Atom
	jpeg      xproto.Atom
	property  xproto.Atom
}

func newBackend() (backend, error) {
	if !hasDisplay() {
		return nil, ErrNoDisplay
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	c := &x11Clipboard{conn: conn, window: window, atoms: atoms}
	go c.serve()
	return c, nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "image/jpeg", "COLORBY_CLIPBOARD"}
	atoms := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, fmt.Errorf("intern %s: %w", name, err)
		}
		atoms[i] = reply.Atom
	}
	return atomSet{
		clipboard: atoms[0],
		targets:   atoms[1],
		utf8:      atoms[2],
		textPlain: atoms[3],
		png:       atoms[4],
		jpeg:      atoms[5],
		property:  atoms[6],
	}, nil
}

func (c *x11Clipboard) readImage() ([]byte, error) {
	data, err := c.convert(c.atoms.png)
	if err == nil && len(data) > 0 {
		return data, nil
	}
	return c.convert(c.atoms.jpeg)
}

func (c *x11Clipboard) readText() ([]byte, error) {
	data, err := c.convert(c.atoms.utf8)
	if err != nil {
		return c.convert(xproto.AtomString)
	}
	return data, nil
}

func (c *x11Clipboard) writeText(data []byte) error {
	c.mu.Lock()
	c.text = append([]byte(nil), data...)
	c.image = nil
	c.mu.Unlock()
	return c.own()
}

func (c *x11Clipboard) writeImage(data []byte) error {
	c.mu.Lock()
	c.image = append([]byte(nil), data...)
	c.text = nil
	c.mu.Unlock()
	return c.own()
}

func (c *x11Clipboard) own() error {
	return xproto.SetSelectionOwnerChecked(c.conn, c.window, c.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (c *x11Clipboard) serve() {
	for {
		ev, err := c.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			c.answer(e)
		case xproto.SelectionClearEvent:
			c.mu.Lock()
			c.text, c.image = nil, nil
			c.mu.Unlock()
		}
	}
}

// answer replies to a conversion request for data we own.
func (c *x11Clipboard) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	c.mu.RLock()
	text, img := c.text, c.image
	c.mu.RUnlock()

	var (
		kind    xproto.Atom
		format  byte = 8
		payload []byte
	)
	switch e.Target {
	case c.atoms.targets:
		targets := []xproto.Atom{c.atoms.targets}
		if len(text) > 0 {
			targets = append(targets, c.atoms.utf8, xproto.AtomString, c.atoms.textPlain)
		}
		if len(img) > 0 {
			targets = append(targets, c.atoms.png)
		}
		payload = make([]byte, len(targets)*4)
		for i, a := range targets {
			xgb.Put32(payload[i*4:], uint32(a))
		}
		kind, format = xproto.AtomAtom, 32
	case c.atoms.utf8, xproto.AtomString, c.atoms.textPlain:
		payload, kind = text, c.atoms.utf8
	case c.atoms.png:
		payload, kind = img, c.atoms.png
	}
	if len(payload) == 0 {
		property = xproto.AtomNone
	} else {
		length := uint32(len(payload))
		if format == 32 {
			length /= 4
		}
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, property, kind, format, length, payload)
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(c.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// convert asks the selection owner for target and waits for the reply on a
// throwaway connection, so it never races the serving loop.
func (c *x11Clipboard) convert(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, c.atoms.clipboard, target, c.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, xerr := conn.WaitForEvent()
		if xerr != nil {
			return nil, xerr
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, fmt.Errorf("%w: target unavailable", ErrEmpty)
		}
		reply, perr := xproto.GetProperty(conn, true, window, e.Property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}

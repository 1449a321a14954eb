// Package outline reads vector shape documents (Android vector drawables and
// SVG) into ordered, named outlines ready for region construction.
package outline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/colorby/internal/logging"
)

// ErrMalformedDocument is returned when the input cannot be read as a vector
// document at all.
var ErrMalformedDocument = errors.New("malformed outline document")

// ParseError records a path element whose geometry could not be interpreted.
// The element is dropped; parsing continues with the next one.
type ParseError struct {
	Index int
	Name  string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Outline is one parsed shape.
type Outline struct {
	ID       ID
	Data     string
	FillRule FillRule
	Path     *Path
}

// Name returns the stable shape name.
func (o *Outline) Name() string { return o.ID.String() }

// Viewport is the coordinate space declared by the document, if any.
type Viewport struct {
	Width, Height float64
}

// Set is the result of parsing a document.
type Set struct {
	// Outlines in document order. This is also draw order.
	Outlines []*Outline
	// Skipped holds elements whose path data failed to parse.
	Skipped []*ParseError
	// Elements counts every path element seen, including empty ones.
	Elements int
	Viewport Viewport
}

// Len returns the number of usable outlines.
func (s *Set) Len() int { return len(s.Outlines) }

// Lookup returns the outline with the given id.
func (s *Set) Lookup(id ID) (*Outline, bool) {
	for _, o := range s.Outlines {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Parse reads a vector document and returns its path elements as outlines.
// Every <path> element consumes an index in document order, so names stay
// stable when elements with empty data are skipped.
func Parse(r io.Reader) (*Set, error) {
	dec := xml.NewDecoder(r)
	set := &Set{}
	sawRoot := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			sawRoot = true
			set.Viewport = viewportOf(se)
		}
		if se.Name.Local != "path" {
			continue
		}
		index := set.Elements
		set.Elements++
		if o, perr := parseElement(index, se); perr != nil {
			logging.Logger().Warn("skipping path element", "shape", perr.Name, "index", index, "err", perr.Err)
			set.Skipped = append(set.Skipped, perr)
		} else if o != nil {
			set.Outlines = append(set.Outlines, o)
		}
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	logging.Logger().Debug("parsed outlines", "elements", set.Elements, "outlines", len(set.Outlines), "skipped", len(set.Skipped))
	return set, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(doc string) (*Set, error) {
	return Parse(strings.NewReader(doc))
}

func parseElement(index int, se xml.StartElement) (*Outline, *ParseError) {
	id := ID(index)
	var data, style string
	rule := NonZero
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "pathData", "d":
			data = a.Value
		case "fillType", "fill-rule":
			if r, ok := ParseFillRule(a.Value); ok {
				rule = r
			}
		case "style":
			style = a.Value
		}
	}
	if v, ok := styleValue(style, "fill-rule"); ok {
		if r, ok := ParseFillRule(v); ok {
			rule = r
		}
	}
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	p, err := ParsePathData(data)
	if err != nil {
		return nil, &ParseError{Index: index, Name: id.String(), Err: err}
	}
	return &Outline{ID: id, Data: data, FillRule: rule, Path: p}, nil
}

func styleValue(style, key string) (string, bool) {
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func viewportOf(se xml.StartElement) Viewport {
	var vp Viewport
	for _, a := range se.Attr {
		switch a.Name.Local {
		case "viewportWidth":
			vp.Width, _ = strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
		case "viewportHeight":
			vp.Height, _ = strconv.ParseFloat(strings.TrimSpace(a.Value), 64)
		case "viewBox":
			f := strings.FieldsFunc(a.Value, func(r rune) bool { return r == ' ' || r == ',' })
			if len(f) == 4 {
				vp.Width, _ = strconv.ParseFloat(f[2], 64)
				vp.Height, _ = strconv.ParseFloat(f[3], 64)
			}
		}
	}
	return vp
}

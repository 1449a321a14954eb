package outline

import (
	"fmt"
	"strconv"
	"strings"
)

const idPrefix = "shape_"

// ID identifies a shape by the position of its path element in the source
// document. IDs stay stable when neighbouring elements are skipped.
type ID int

// String returns the shape name, e.g. "shape_3".
func (id ID) String() string {
	return idPrefix + strconv.Itoa(int(id))
}

// ParseID accepts either a shape name ("shape_3") or a bare index ("3").
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(strings.TrimPrefix(s, idPrefix))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid shape id %q", s)
	}
	return ID(n), nil
}

// FillRule decides which points a path encloses.
type FillRule int

const (
	// NonZero fills points with a non-zero winding number. It is the default
	// for both Android vector drawables and SVG.
	NonZero FillRule = iota
	// EvenOdd fills points enclosed an odd number of times.
	EvenOdd
)

func (r FillRule) String() string {
	if r == EvenOdd {
		return "evenodd"
	}
	return "nonzero"
}

// Fills reports whether a point with the given winding count is inside.
func (r FillRule) Fills(winding int) bool {
	if r == EvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// ParseFillRule understands the spellings used by Android (nonZero, evenOdd)
// and SVG (nonzero, evenodd). Anything else yields NonZero and false.
func ParseFillRule(s string) (FillRule, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nonzero":
		return NonZero, true
	case "evenodd":
		return EvenOdd, true
	}
	return NonZero, false
}

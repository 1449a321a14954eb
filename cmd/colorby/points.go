package main

import (
	"fmt"
	"strconv"
	"strings"
)

type point struct{ x, y float64 }

// parsePoint reads "x,y".
func parsePoint(s string) (point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return point{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return point{x, y}, nil
}

// pointList is a repeatable flag of x,y points.
type pointList []point

func (l *pointList) String() string {
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = fmt.Sprintf("%g,%g", p.x, p.y)
	}
	return strings.Join(parts, " ")
}

func (l *pointList) Set(v string) error {
	p, err := parsePoint(v)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

// commandList is a repeatable string flag.
type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, "; ")
}

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

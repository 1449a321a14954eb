package outline

import (
	"errors"
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2/strconv"
)

var errNoMove = errors.New("path data must start with a move command")

// ParsePathData parses the path mini-language shared by SVG `d` attributes
// and Android `pathData`: M, L, H, V, C, S, Q, T, A and Z in absolute
// (upper case) and relative (lower case) form, with implicit repetition.
// Arcs are converted to cubic curves; all output coordinates are absolute.
func ParsePathData(d string) (*Path, error) {
	pp := &pathParser{s: scanner{b: []byte(d)}, path: NewPath()}
	if err := pp.run(); err != nil {
		return nil, err
	}
	return pp.path, nil
}

type pathParser struct {
	s    scanner
	path *Path

	cur, start Point
	// control point of the previous curve, for S/s and T/t reflection
	lastCtrl Point
	lastCmd  byte
}

func (pp *pathParser) run() error {
	first := true
	for {
		pp.s.skipSeparators()
		if pp.s.done() {
			break
		}
		c := pp.s.peek()
		if !isCommand(c) {
			return fmt.Errorf("unexpected %q at offset %d", c, pp.s.pos)
		}
		pp.s.pos++
		if first && c != 'M' && c != 'm' {
			return errNoMove
		}
		first = false
		if c == 'Z' || c == 'z' {
			pp.path.Close()
			pp.cur = pp.start
			pp.lastCmd = 'z'
			continue
		}
		for {
			if err := pp.segment(c); err != nil {
				return err
			}
			// extra coordinate pairs after a move are implicit lines
			switch c {
			case 'M':
				c = 'L'
			case 'm':
				c = 'l'
			}
			pp.s.skipSeparators()
			if !pp.s.atNumber() {
				break
			}
		}
	}
	if first {
		return errors.New("path data has no commands")
	}
	return nil
}

func (pp *pathParser) segment(cmd byte) error {
	rel := cmd >= 'a'
	var origin Point
	if rel {
		origin = pp.cur
	}
	nums := func(n int) ([]float64, error) {
		vals := make([]float64, n)
		for i := range vals {
			v, ok := pp.s.number()
			if !ok {
				return nil, fmt.Errorf("command %c expects %d numbers at offset %d", cmd, n, pp.s.pos)
			}
			vals[i] = v
		}
		return vals, nil
	}
	abs := func(x, y float64) Point { return Pt(origin.X+x, origin.Y+y) }

	lower := cmd | 0x20
	switch lower {
	case 'm':
		v, err := nums(2)
		if err != nil {
			return err
		}
		p := abs(v[0], v[1])
		pp.path.MoveTo(p.X, p.Y)
		pp.cur, pp.start = p, p
	case 'l':
		v, err := nums(2)
		if err != nil {
			return err
		}
		p := abs(v[0], v[1])
		pp.path.LineTo(p.X, p.Y)
		pp.cur = p
	case 'h':
		v, err := nums(1)
		if err != nil {
			return err
		}
		x := v[0]
		if rel {
			x += pp.cur.X
		}
		pp.path.LineTo(x, pp.cur.Y)
		pp.cur.X = x
	case 'v':
		v, err := nums(1)
		if err != nil {
			return err
		}
		y := v[0]
		if rel {
			y += pp.cur.Y
		}
		pp.path.LineTo(pp.cur.X, y)
		pp.cur.Y = y
	case 'c':
		v, err := nums(6)
		if err != nil {
			return err
		}
		c1, c2, p := abs(v[0], v[1]), abs(v[2], v[3]), abs(v[4], v[5])
		pp.path.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
		pp.lastCtrl, pp.cur = c2, p
	case 's':
		v, err := nums(4)
		if err != nil {
			return err
		}
		c1 := pp.cur
		if pp.lastCmd == 'c' || pp.lastCmd == 's' {
			c1 = reflect(pp.lastCtrl, pp.cur)
		}
		c2, p := abs(v[0], v[1]), abs(v[2], v[3])
		pp.path.CubicTo(c1.X, c1.Y, c2.X, c2.Y, p.X, p.Y)
		pp.lastCtrl, pp.cur = c2, p
	case 'q':
		v, err := nums(4)
		if err != nil {
			return err
		}
		c, p := abs(v[0], v[1]), abs(v[2], v[3])
		pp.path.QuadTo(c.X, c.Y, p.X, p.Y)
		pp.lastCtrl, pp.cur = c, p
	case 't':
		v, err := nums(2)
		if err != nil {
			return err
		}
		c := pp.cur
		if pp.lastCmd == 'q' || pp.lastCmd == 't' {
			c = reflect(pp.lastCtrl, pp.cur)
		}
		p := abs(v[0], v[1])
		pp.path.QuadTo(c.X, c.Y, p.X, p.Y)
		pp.lastCtrl, pp.cur = c, p
	case 'a':
		v, err := nums(3)
		if err != nil {
			return err
		}
		large, ok1 := pp.s.flag()
		sweep, ok2 := pp.s.flag()
		if !ok1 || !ok2 {
			return fmt.Errorf("command %c expects arc flags at offset %d", cmd, pp.s.pos)
		}
		end, err := nums(2)
		if err != nil {
			return err
		}
		p := abs(end[0], end[1])
		for _, seg := range arcToCubics(pp.cur, v[0], v[1], v[2], large, sweep, p) {
			pp.path.CubicTo(seg[0].X, seg[0].Y, seg[1].X, seg[1].Y, seg[2].X, seg[2].Y)
		}
		pp.cur = p
	}
	pp.lastCmd = lower
	return nil
}

func reflect(ctrl, about Point) Point {
	return Pt(2*about.X-ctrl.X, 2*about.Y-ctrl.Y)
}

func isCommand(c byte) bool {
	switch c | 0x20 {
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

// scanner walks path data, tolerating the compact forms seen in exported
// vectors: "1.5.5" is two numbers, "-1-2" is two numbers, commas optional.
type scanner struct {
	b   []byte
	pos int
}

func (s *scanner) done() bool { return s.pos >= len(s.b) }

func (s *scanner) peek() byte { return s.b[s.pos] }

func (s *scanner) skipSeparators() {
	for !s.done() {
		switch s.b[s.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) atNumber() bool {
	if s.done() {
		return false
	}
	c := s.b[s.pos]
	return c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

func (s *scanner) number() (float64, bool) {
	s.skipSeparators()
	if !s.atNumber() {
		return 0, false
	}
	v, n := strconv.ParseFloat(s.b[s.pos:])
	if n == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	s.pos += n
	return v, true
}

// flag reads an arc flag, which may be packed without separators ("01").
func (s *scanner) flag() (bool, bool) {
	s.skipSeparators()
	if s.done() {
		return false, false
	}
	switch s.b[s.pos] {
	case '0':
		s.pos++
		return false, true
	case '1':
		s.pos++
		return true, true
	}
	return false, false
}

// arcToCubics converts an SVG endpoint-parameterised elliptical arc into
// cubic segments of at most 90 degrees each.
func arcToCubics(p0 Point, rx, ry, rotation float64, large, sweep bool, p1 Point) [][3]Point {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return [][3]Point{{p0.lerp(p1, 1.0/3.0), p0.lerp(p1, 2.0/3.0), p1}}
	}
	phi := rotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx2 := (p0.X - p1.X) / 2
	dy2 := (p0.Y - p1.Y) / 2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den != 0 {
		coef = math.Sqrt(math.Max(0, num/den))
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx
	cx := cosPhi*cxp - sinPhi*cyp + (p0.X+p1.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p0.Y+p1.Y)/2

	ux, uy := (x1p-cxp)/rx, (y1p-cyp)/ry
	vx, vy := (-x1p-cxp)/rx, (-y1p-cyp)/ry
	theta := math.Atan2(uy, ux)
	delta := math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if n == 0 {
		return nil
	}
	step := delta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)
	toCanvas := func(x, y float64) Point {
		return Pt(cx+rx*cosPhi*x-ry*sinPhi*y, cy+rx*sinPhi*x+ry*cosPhi*y)
	}

	out := make([][3]Point, 0, n)
	for i := 0; i < n; i++ {
		a1 := theta + float64(i)*step
		a2 := a1 + step
		c1, s1 := math.Cos(a1), math.Sin(a1)
		c2, s2 := math.Cos(a2), math.Sin(a2)
		end := toCanvas(c2, s2)
		if i == n-1 {
			end = p1
		}
		out = append(out, [3]Point{
			toCanvas(c1-k*s1, s1+k*c1),
			toCanvas(c2+k*s2, s2-k*c2),
			end,
		})
	}
	return out
}

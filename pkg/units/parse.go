package units

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/lvcad/pkg/geom"
)

// Parse reads a length and returns it in canonical inches.
//
// Accepted forms are a number with an optional unit suffix ("100mm",
// "2.5 m", "3ft", "12.5\""), a number with a fraction ("6 3/4\"", "1/2 in")
// and architectural feet-inches ("10'-6 3/4\"", "10' 6\"", "10'6"). A
// number without a suffix is read in bare, except directly after a foot
// group where it is inches. A leading sign applies to the whole value.
func Parse(s string, bare Unit) (float64, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return 0, parseErr(s, "empty length")
	}

	p := &lengthParser{src: in}
	sign := 1.0
	switch in[0] {
	case '-':
		sign = -1
		p.pos++
	case '+':
		p.pos++
	}
	p.skipSpace()

	var groups []group
	for {
		if p.done() {
			break
		}
		if len(groups) > 0 {
			last := groups[len(groups)-1]
			if len(groups) == 2 || !p.isNumberStart() && !(p.peek() == '-' && last.marked && last.unit.Name == Foot.Name) {
				return 0, parseErr(s, "unexpected %q", p.rest())
			}
			if p.peek() == '-' {
				p.pos++
				p.skipSpace()
			}
		}
		g, err := p.group()
		if err != nil {
			return 0, parseErr(s, "%s", err.Error())
		}
		groups = append(groups, g)
		p.skipSpace()
	}

	switch len(groups) {
	case 0:
		return 0, parseErr(s, "no number")
	case 1:
		g := groups[0]
		u := bare
		if g.marked {
			u = g.unit
		}
		return sign * ToCanonical(g.value, u), nil
	}

	feet, inches := groups[0], groups[1]
	switch {
	case !feet.marked:
		return 0, parseErr(s, "unexpected %q after a plain number", inches.text)
	case feet.unit.Name == Inch.Name && inches.marked && inches.unit.Name == Foot.Name:
		return 0, parseErr(s, "foot marker after inch marker")
	case inches.marked && inches.unit.Name == feet.unit.Name:
		return 0, parseErr(s, "duplicate %s marker", feet.unit.Name)
	case feet.unit.Name != Foot.Name || inches.marked && inches.unit.Name != Inch.Name:
		return 0, parseErr(s, "cannot combine %s and %s", feet.text, inches.text)
	}
	return sign * (ToCanonical(feet.value, Foot) + inches.value), nil
}

func parseErr(in, format string, args ...any) error {
	return geom.Errorf(geom.UnitParseError, "units.Parse", "%q: "+format, append([]any{in}, args...)...)
}

// group is one number with an optional fraction and unit marker.
type group struct {
	text   string
	value  float64
	unit   Unit
	marked bool
}

type lengthParser struct {
	src string
	pos int
}

func (p *lengthParser) done() bool   { return p.pos >= len(p.src) }
func (p *lengthParser) rest() string { return p.src[p.pos:] }

func (p *lengthParser) peek() byte {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *lengthParser) skipSpace() {
	for !p.done() && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lengthParser) isNumberStart() bool {
	c := p.peek()
	return isDigit(c) || c == '.'
}

func (p *lengthParser) group() (group, error) {
	start := p.pos
	v, isFrac, err := p.number()
	if err != nil {
		return group{}, err
	}

	// A whole number may be followed by a fraction: "6 3/4".
	if !isFrac {
		save := p.pos
		p.skipSpace()
		if p.pos > save && isDigit(p.peek()) {
			f, ok, err := p.number()
			switch {
			case err != nil:
				return group{}, err
			case ok:
				v += f
			default:
				p.pos = save
			}
		} else {
			p.pos = save
		}
	}

	g := group{value: v}
	save := p.pos
	p.skipSpace()
	if sym := p.suffix(); sym != "" {
		u, ok := Lookup(sym)
		if !ok {
			return group{}, fmt.Errorf("unknown unit %q", sym)
		}
		g.unit, g.marked = u, true
	} else {
		p.pos = save
	}
	g.text = strings.TrimSpace(p.src[start:p.pos])
	return g, nil
}

// number reads digits with an optional decimal point, or an integer
// fraction n/d. The second result reports a fraction.
func (p *lengthParser) number() (float64, bool, error) {
	start := p.pos
	dots := 0
	for !p.done() && (isDigit(p.peek()) || p.peek() == '.') {
		if p.peek() == '.' {
			dots++
		}
		p.pos++
	}
	lit := p.src[start:p.pos]
	if lit == "" || lit == "." || dots > 1 {
		return 0, false, fmt.Errorf("expected a number at %q", p.src[start:])
	}

	if p.peek() != '/' {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return 0, false, fmt.Errorf("bad number %q", lit)
		}
		return v, false, nil
	}

	p.pos++
	denStart := p.pos
	for !p.done() && isDigit(p.peek()) {
		p.pos++
	}
	denLit := p.src[denStart:p.pos]
	if dots > 0 || denLit == "" {
		return 0, false, fmt.Errorf("bad fraction %q", p.src[start:p.pos])
	}
	num, err := strconv.ParseUint(lit, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("bad fraction %q", p.src[start:p.pos])
	}
	den, err := strconv.ParseUint(denLit, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("bad fraction %q", p.src[start:p.pos])
	}
	if den == 0 {
		return 0, false, fmt.Errorf("zero denominator in %q", p.src[start:p.pos])
	}
	return float64(num) / float64(den), true, nil
}

// suffix reads a quote marker or a run of letters.
func (p *lengthParser) suffix() string {
	switch c := p.peek(); {
	case c == '\'' || c == '"':
		p.pos++
		return string(c)
	case isLetter(c):
		start := p.pos
		for !p.done() && isLetter(p.peek()) {
			p.pos++
		}
		return p.src[start:p.pos]
	}
	return ""
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
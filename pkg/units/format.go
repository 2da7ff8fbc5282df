package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chazu/lvcad/pkg/geom"
)

// Style selects the text layout produced by Format.
type Style int

const (
	Decimal       Style = iota // 12.500in, 317.5mm
	Fractional                 // 6 3/4"
	Architectural              // 10'-6 3/4"
)

func (s Style) String() string {
	switch s {
	case Decimal:
		return "decimal"
	case Fractional:
		return "fractional"
	case Architectural:
		return "architectural"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle accepts the names returned by Style.String.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decimal", "":
		return Decimal, nil
	case "fractional", "fraction":
		return Fractional, nil
	case "architectural", "arch":
		return Architectural, nil
	}
	return 0, fmt.Errorf("unknown unit style %q", s)
}

// FormatOptions controls Format.
//
// Precision is the number of decimal places for Decimal and the largest
// denominator for the fractional styles, which must be a power of two
// between 1 and 256. Snap, when positive, is a grid increment in canonical
// inches applied before formatting.
type FormatOptions struct {
	Unit      Unit
	Style     Style
	Precision int
	Snap      float64
}

// DefaultFormat writes inches as feet-inches to the nearest 1/16.
var DefaultFormat = FormatOptions{Unit: Inch, Style: Architectural, Precision: 16}

// MaxDecimalPlaces bounds Precision for the Decimal style.
const MaxDecimalPlaces = 12

// Format writes the canonical value v as text. Fractions are reduced to
// lowest terms and zero numerators are dropped. Rounding carries into the
// next inch and, for Architectural, into the next foot.
func Format(v float64, opts FormatOptions) (string, error) {
	const op = "units.Format"

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", geom.Errorf(geom.UnitParseError, op, "cannot format %v", v)
	}
	if opts.Snap < 0 || math.IsNaN(opts.Snap) {
		return "", geom.Errorf(geom.UnitParseError, op, "snap increment %v must not be negative", opts.Snap)
	}
	if opts.Unit.Factor <= 0 {
		return "", geom.Errorf(geom.UnitParseError, op, "unit %q has no conversion factor", opts.Unit.Name)
	}
	v = Snap(v, opts.Snap)

	switch opts.Style {
	case Decimal:
		if opts.Precision < 0 || opts.Precision > MaxDecimalPlaces {
			return "", geom.Errorf(geom.UnitParseError, op, "decimal places %d out of range 0..%d", opts.Precision, MaxDecimalPlaces)
		}
		return formatDecimal(FromCanonical(v, opts.Unit), opts.Precision, opts.Unit), nil
	case Fractional, Architectural:
		if !validDenominator(opts.Precision) {
			return "", geom.Errorf(geom.UnitParseError, op, "denominator %d must be a power of two in 1..256", opts.Precision)
		}
		x := v
		if opts.Style == Fractional {
			x = FromCanonical(v, opts.Unit)
		}
		if math.Abs(x)*float64(opts.Precision) >= maxTicks {
			return "", geom.Errorf(geom.UnitParseError, op, "%v is too large to write in 1/%d steps", v, opts.Precision)
		}
		if opts.Style == Architectural {
			return formatArchitectural(x, opts.Precision), nil
		}
		return formatFractional(x, opts.Precision, opts.Unit), nil
	}
	return "", geom.Errorf(geom.UnitParseError, op, "unknown style %s", opts.Style)
}

// maxTicks bounds the number of fraction steps; ticks counts them in an
// int64.
const maxTicks = float64(math.MaxInt64)

func validDenominator(d int) bool {
	return d >= 1 && d <= 256 && d&(d-1) == 0
}

func formatDecimal(x float64, places int, u Unit) string {
	s := strconv.FormatFloat(x, 'f', places, 64)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s + u.Symbol
}

// marker is the suffix written after a fractional quantity.
func marker(u Unit) string {
	switch u.Name {
	case Inch.Name:
		return `"`
	case Foot.Name:
		return "'"
	}
	return " " + u.Symbol
}

// ticks rounds |x| to a whole number of 1/den steps.
func ticks(x float64, den int) (int64, string) {
	n := int64(math.Round(math.Abs(x) * float64(den)))
	sign := ""
	if n > 0 && x < 0 {
		sign = "-"
	}
	return n, sign
}

// mixed writes whole and n/den with the fraction reduced. The whole part is
// omitted when it is zero and a fraction remains.
func mixed(whole, num int64, den int) string {
	if num == 0 {
		return strconv.FormatInt(whole, 10)
	}
	g := gcd(num, int64(den))
	frac := fmt.Sprintf("%d/%d", num/g, int64(den)/g)
	if whole == 0 {
		return frac
	}
	return strconv.FormatInt(whole, 10) + " " + frac
}

func formatFractional(x float64, den int, u Unit) string {
	n, sign := ticks(x, den)
	d := int64(den)
	return sign + mixed(n/d, n%d, den) + marker(u)
}

func formatArchitectural(inches float64, den int) string {
	n, sign := ticks(inches, den)
	perFoot := int64(12 * den)
	feet := n / perFoot
	rem := n % perFoot
	d := int64(den)
	return fmt.Sprintf("%s%d'-%s\"", sign, feet, mixed(rem/d, rem%d, den))
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

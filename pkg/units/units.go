// Package units converts lengths between the canonical unit (the inch) and
// the units users type and read. It parses decimal and architectural
// notation and formats canonical values back to text.
package units

import (
	"math"
	"strings"

	"github.com/chazu/lvcad/pkg/geom"
)

// Unit is one row of the conversion table. Factor is the number of
// canonical inches in one unit and is always positive.
type Unit struct {
	Name    string
	Symbol  string
	Factor  float64
	Aliases []string
}

var (
	Inch       = Unit{Name: "inch", Symbol: "in", Factor: 1, Aliases: []string{"\"", "inch", "inches"}}
	Foot       = Unit{Name: "foot", Symbol: "ft", Factor: 12, Aliases: []string{"'", "foot", "feet"}}
	Millimeter = Unit{Name: "millimeter", Symbol: "mm", Factor: 1 / 25.4, Aliases: []string{"millimeter", "millimeters", "millimetre", "millimetres"}}
	Centimeter = Unit{Name: "centimeter", Symbol: "cm", Factor: 1 / 2.54, Aliases: []string{"centimeter", "centimeters", "centimetre", "centimetres"}}
	Meter      = Unit{Name: "meter", Symbol: "m", Factor: 1 / 0.0254, Aliases: []string{"meter", "meters", "metre", "metres"}}
	Point      = Unit{Name: "point", Symbol: "pt", Factor: 1.0 / 72, Aliases: []string{"point", "points"}}
)

// Canonical is the storage unit.
var Canonical = Inch

var table = []Unit{Inch, Foot, Millimeter, Centimeter, Meter, Point}

// All returns the unit table in a fixed order.
func All() []Unit {
	out := make([]Unit, len(table))
	copy(out, table)
	return out
}

// Lookup finds a unit by symbol, name or alias. Matching ignores case.
func Lookup(symbol string) (Unit, bool) {
	key := strings.ToLower(strings.TrimSpace(symbol))
	if key == "" {
		return Unit{}, false
	}
	for _, u := range table {
		if key == u.Symbol || key == u.Name {
			return u, true
		}
		for _, a := range u.Aliases {
			if key == a {
				return u, true
			}
		}
	}
	return Unit{}, false
}

// MustLookup is Lookup for symbols known to be in the table.
func MustLookup(symbol string) Unit {
	u, ok := Lookup(symbol)
	if !ok {
		panic("units: unknown unit " + symbol)
	}
	return u
}

// ToCanonical converts v from u to inches.
func ToCanonical(v float64, u Unit) float64 {
	return v * u.Factor
}

// FromCanonical converts v inches to u.
func FromCanonical(v float64, u Unit) float64 {
	return v / u.Factor
}

// Convert converts v between two units.
func Convert(v float64, from, to Unit) float64 {
	if from.Name == to.Name {
		return v
	}
	return FromCanonical(ToCanonical(v, from), to)
}

// Snap rounds v to the nearest multiple of increment. A non-positive
// increment leaves v alone.
func Snap(v, increment float64) float64 {
	if !(increment > 0) || math.IsInf(increment, 0) {
		return v
	}
	return math.Round(v/increment) * increment
}

// SnapPoint snaps both coordinates of p to the grid.
func SnapPoint(p geom.Point, increment float64) geom.Point {
	return geom.Point{X: Snap(p.X, increment), Y: Snap(p.Y, increment)}
}

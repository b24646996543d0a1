// Package domain defines core business entities and value objects for CADVoice.
//
// The domain layer is independent of infrastructure concerns and represents pure
// business logic and data structures. Dimensions are immutable values; all
// comparisons happen on the canonical (meter) form.
package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Unit enumerates the length units the assistant understands.
type Unit string

const (
	UnitInch       Unit = "in"
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
	UnitMeter      Unit = "m"
	UnitFoot       Unit = "ft"
)

// metersPer maps each unit to its canonical multiplier.
var metersPer = map[Unit]float64{
	UnitInch:       0.0254,
	UnitMillimeter: 0.001,
	UnitCentimeter: 0.01,
	UnitMeter:      1.0,
	UnitFoot:       0.3048,
}

// CompareTolerance is the absolute tolerance (in meters) for dimension equality.
const CompareTolerance = 1e-9

// ErrDimensionFormat signals an unparseable magnitude or unit.
var ErrDimensionFormat = errors.New("unrecognized dimension format")

// Dimension is an immutable physical length: magnitude plus unit.
type Dimension struct {
	Value float64
	Unit  Unit
}

// NewDimension constructs a dimension value.
func NewDimension(value float64, unit Unit) Dimension {
	return Dimension{Value: value, Unit: unit}
}

// Meters returns the canonical magnitude in meters.
func (d Dimension) Meters() float64 {
	return d.Value * metersPer[d.Unit]
}

// Convert returns the same physical length expressed in the given unit.
func (d Dimension) Convert(unit Unit) Dimension {
	factor, ok := metersPer[unit]
	if !ok || factor == 0 {
		return d
	}
	return Dimension{Value: d.Meters() / factor, Unit: unit}
}

// Equal compares canonical values within CompareTolerance.
func (d Dimension) Equal(other Dimension) bool {
	return math.Abs(d.Meters()-other.Meters()) <= CompareTolerance
}

// Less reports whether d is strictly shorter than other, beyond tolerance.
func (d Dimension) Less(other Dimension) bool {
	return other.Meters()-d.Meters() > CompareTolerance
}

// Add returns d + other in d's unit.
func (d Dimension) Add(other Dimension) Dimension {
	return Dimension{Value: d.Value + other.Convert(d.Unit).Value, Unit: d.Unit}
}

// Sub returns d - other in d's unit.
func (d Dimension) Sub(other Dimension) Dimension {
	return Dimension{Value: d.Value - other.Convert(d.Unit).Value, Unit: d.Unit}
}

// Scale returns d multiplied by a scalar.
func (d Dimension) Scale(factor float64) Dimension {
	return Dimension{Value: d.Value * factor, Unit: d.Unit}
}

// Div returns d divided by a scalar. Division by zero returns d unchanged.
func (d Dimension) Div(divisor float64) Dimension {
	if divisor == 0 {
		return d
	}
	return Dimension{Value: d.Value / divisor, Unit: d.Unit}
}

// String renders the canonical text form, which ParseDimension round-trips.
func (d Dimension) String() string {
	return fmt.Sprintf("%g %s", d.Value, d.Unit)
}

var (
	// "1 1/2 inch", "3/4 in", optional whole part, optional unit token.
	fractionPattern = regexp.MustCompile(`^\s*(?:(\d+)\s+)?(\d+)\s*/\s*(\d+)\s*([a-zA-Z"']*)\.?\s*$`)
	// "0.75in", "500 mm", "36 inches", "10".
	decimalPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*([a-zA-Z"']*)\.?\s*$`)
)

// ParseDimension extracts a dimension from free text. It tries, in order, a
// fraction or mixed-number form, then a decimal with optional unit, then a bare
// number carrying the supplied default unit. An unrecognized unit token falls
// back to the default unit rather than failing.
func ParseDimension(text string, defaultUnit Unit) (Dimension, error) {
	if m := fractionPattern.FindStringSubmatch(text); m != nil {
		den, err := strconv.ParseFloat(m[3], 64)
		if err != nil || den == 0 {
			return Dimension{}, fmt.Errorf("%w: %q", ErrDimensionFormat, text)
		}
		num, _ := strconv.ParseFloat(m[2], 64)
		value := num / den
		if m[1] != "" {
			whole, _ := strconv.ParseFloat(m[1], 64)
			value += whole
		}
		return Dimension{Value: value, Unit: NormalizeUnit(m[4], defaultUnit)}, nil
	}

	if m := decimalPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return Dimension{}, fmt.Errorf("%w: %q", ErrDimensionFormat, text)
		}
		return Dimension{Value: value, Unit: NormalizeUnit(m[2], defaultUnit)}, nil
	}

	return Dimension{}, fmt.Errorf("%w: %q", ErrDimensionFormat, text)
}

// TryParseDimension is the non-throwing variant of ParseDimension.
func TryParseDimension(text string, defaultUnit Unit) (Dimension, bool) {
	dim, err := ParseDimension(text, defaultUnit)
	if err != nil {
		return Dimension{}, false
	}
	return dim, true
}

// NormalizeUnit maps a free-text unit token to a Unit. Unknown tokens resolve
// to the supplied default.
func NormalizeUnit(token string, defaultUnit Unit) Unit {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.TrimSuffix(token, ".")
	switch token {
	case "in", "inch", "inches", `"`:
		return UnitInch
	case "mm", "millimeter", "millimeters":
		return UnitMillimeter
	case "cm", "centimeter", "centimeters":
		return UnitCentimeter
	case "m", "meter", "meters", "metre", "metres":
		return UnitMeter
	case "ft", "foot", "feet", "'":
		return UnitFoot
	default:
		return defaultUnit
	}
}

// IsKnownUnit reports whether the token names a recognized unit on its own.
func IsKnownUnit(token string) bool {
	// Sentinel default distinguishes "unknown" from a real match.
	return NormalizeUnit(token, Unit("")) != Unit("")
}

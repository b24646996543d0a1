package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

// numToken matches a mixed number, a simple fraction, or a decimal.
// Order matters: the mixed form must be tried before the bare fraction.
const numToken = `(\d+\s+\d+\s*/\s*\d+|\d+\s*/\s*\d+|\d+(?:\.\d+)?)`

// unitToken matches an optional unit word directly after a number.
const unitToken = `\s*(inches|inch|in\b|"|millimeters|millimeter|mm|centimeters|centimeter|cm|meters|meter|m\b|feet|foot|ft|')?`

var fractionToken = regexp.MustCompile(`^(?:(\d+)\s+)?(\d+)\s*/\s*(\d+)$`)

// parseNumber accepts decimals, simple fractions ("3/4") and mixed numbers
// ("1 1/2").
func parseNumber(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	if m := fractionToken.FindStringSubmatch(token); m != nil {
		den, err := strconv.ParseFloat(m[3], 64)
		if err != nil || den == 0 {
			return 0, false
		}
		num, _ := strconv.ParseFloat(m[2], 64)
		value := num / den
		if m[1] != "" {
			whole, _ := strconv.ParseFloat(m[1], 64)
			value += whole
		}
		return value, true
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// resolveUnit applies the per-number cascade: explicit token attached to the
// number, then the last unit token seen anywhere in the match, then the
// parser's default unit.
func resolveUnit(own, lastSeen string, defaultUnit domain.Unit) domain.Unit {
	if own != "" {
		return domain.NormalizeUnit(own, defaultUnit)
	}
	if lastSeen != "" {
		return domain.NormalizeUnit(lastSeen, defaultUnit)
	}
	return defaultUnit
}

// lastUnitIn returns the final non-empty unit token among the captures.
func lastUnitIn(tokens ...string) string {
	last := ""
	for _, tok := range tokens {
		if tok != "" {
			last = tok
		}
	}
	return last
}

// dimensionWords maps spoken dimension names to their types. Height synonyms
// include thickness words because sheet-stock phrasing uses them
// interchangeably.
var dimensionWords = map[string]domain.DimensionType{
	"width": domain.DimWidth, "wide": domain.DimWidth, "w": domain.DimWidth,
	"length": domain.DimLength, "long": domain.DimLength, "l": domain.DimLength,
	"height": domain.DimHeight, "tall": domain.DimHeight, "high": domain.DimHeight, "h": domain.DimHeight,
	"thick": domain.DimThickness, "thickness": domain.DimThickness, "deep": domain.DimThickness, "t": domain.DimThickness,
	"radius": domain.DimRadius,
	"diameter": domain.DimDiameter, "dia": domain.DimDiameter,
	"depth": domain.DimDepth,
}

func lookupDimensionType(word string) (domain.DimensionType, bool) {
	t, ok := dimensionWords[strings.ToLower(strings.TrimSpace(word))]
	return t, ok
}

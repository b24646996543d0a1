package parser

import (
	"regexp"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

var (
	cylKeyword = regexp.MustCompile(`(?i)\b(cylinder|cylindrical|rod|shaft|pin|dowel|tube)\b`)

	cylDiameter    = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:in\s+)?(?:diameter\b|dia\b|across\b|wide\b)`)
	cylDiameterOf  = regexp.MustCompile(`(?i)diameter\s*(?:of|=|:)?\s*` + numToken + unitToken)
	cylRadius      = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:in\s+)?radius\b`)
	cylRadiusOf    = regexp.MustCompile(`(?i)radius\s*(?:of|=|:)?\s*` + numToken + unitToken)
	cylHeightAfter = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:tall\b|high\b|long\b|height\b|length\b)`)
	cylHeightOf    = regexp.MustCompile(`(?i)(?:height|length)\s*(?:of|=|:)?\s*` + numToken + unitToken)
)

// extractCylinder requires the cylinder vocabulary plus a resolvable diameter
// (or radius, doubled) and height.
func (p *RuleParser) extractCylinder(text string) (domain.Command, bool) {
	if !cylKeyword.MatchString(text) {
		return nil, false
	}

	diaVal, diaUnit, haveDia := firstMeasure(cylDiameter, text)
	if !haveDia {
		diaVal, diaUnit, haveDia = firstMeasure(cylDiameterOf, text)
	}
	if !haveDia {
		if r, rUnit, haveRad := firstMeasure(cylRadius, text); haveRad {
			diaVal, diaUnit, haveDia = r*2, rUnit, true
		} else if r, rUnit, haveRad := firstMeasure(cylRadiusOf, text); haveRad {
			diaVal, diaUnit, haveDia = r*2, rUnit, true
		}
	}

	hVal, hUnit, haveHeight := firstMeasure(cylHeightAfter, text)
	if !haveHeight {
		hVal, hUnit, haveHeight = firstMeasure(cylHeightOf, text)
	}

	if !haveDia || !haveHeight {
		return nil, false
	}

	last := lastUnitIn(diaUnit, hUnit)
	return domain.CreateCylinder{
		Meta:     domain.NewMeta(),
		Name:     "Cylinder1",
		Diameter: domain.NewDimension(diaVal, resolveUnit(diaUnit, last, p.defaultUnit)),
		Height:   domain.NewDimension(hVal, resolveUnit(hUnit, last, p.defaultUnit)),
	}, true
}

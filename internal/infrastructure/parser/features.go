package parser

import (
	"regexp"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

var (
	filletKeyword = regexp.MustCompile(`(?i)\b(fillet|round(?:ed)?(?:\s+(?:the\s+)?(?:all\s+)?edges?)?)\b`)
	filletMeasure = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:radius\b|fillet\b|round\b)`)
	filletOf      = regexp.MustCompile(`(?i)(?:fillet|radius)\s*(?:of|=|:)?\s*` + numToken + unitToken)

	chamferKeyword = regexp.MustCompile(`(?i)\b(chamfer|bevel)\b`)
	chamferMeasure = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:chamfer\b|bevel\b|distance\b)`)
	chamferOf      = regexp.MustCompile(`(?i)(?:chamfer|bevel)\s*(?:of|=|:)?\s*` + numToken + unitToken)

	holeKeyword  = regexp.MustCompile(`(?i)\b(hole|drill|bore)\b`)
	holeMeasure  = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:(?:in\s+)?diameter\b|dia\b|hole\b|drill\b|bore\b)`)
	holeOf       = regexp.MustCompile(`(?i)(?:hole|diameter)\s*(?:of|=|:)?\s*` + numToken + unitToken)
	holeDepth    = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:deep\b|depth\b)`)
	holeDepthOf  = regexp.MustCompile(`(?i)depth\s*(?:of|=|:)?\s*` + numToken + unitToken)
	throughWords = regexp.MustCompile(`(?i)\b(through[\s-]?all|all\s+the\s+way|through\s+everything|thru)\b`)
	centerWords  = regexp.MustCompile(`(?i)\b(center(?:ed)?|middle)\b`)
	allEdgeWords = regexp.MustCompile(`(?i)\b(all(?:\s+the)?\s+edges?|every\s+edge|everywhere)\b`)
)

// extractFillet requires the fillet vocabulary and a radius.
func (p *RuleParser) extractFillet(text string) (domain.Command, bool) {
	if !filletKeyword.MatchString(text) {
		return nil, false
	}
	value, unit, ok := firstMeasure(filletMeasure, text)
	if !ok {
		value, unit, ok = firstMeasure(filletOf, text)
	}
	if !ok {
		return nil, false
	}
	return domain.AddFillet{
		Meta:     domain.NewMeta(),
		Radius:   domain.NewDimension(value, resolveUnit(unit, "", p.defaultUnit)),
		AllEdges: allEdgeWords.MatchString(text),
	}, true
}

// extractChamfer requires the chamfer vocabulary and a distance.
func (p *RuleParser) extractChamfer(text string) (domain.Command, bool) {
	if !chamferKeyword.MatchString(text) {
		return nil, false
	}
	value, unit, ok := firstMeasure(chamferMeasure, text)
	if !ok {
		value, unit, ok = firstMeasure(chamferOf, text)
	}
	if !ok {
		return nil, false
	}
	return domain.AddChamfer{
		Meta:     domain.NewMeta(),
		Distance: domain.NewDimension(value, resolveUnit(unit, "", p.defaultUnit)),
		AllEdges: allEdgeWords.MatchString(text),
	}, true
}

// extractHole requires the hole vocabulary and a diameter. Through-all
// defaults true when no depth was extracted, false otherwise.
func (p *RuleParser) extractHole(text string) (domain.Command, bool) {
	if !holeKeyword.MatchString(text) {
		return nil, false
	}
	diaVal, diaUnit, ok := firstMeasure(holeMeasure, text)
	if !ok {
		diaVal, diaUnit, ok = firstMeasure(holeOf, text)
	}
	if !ok {
		return nil, false
	}

	depthVal, depthUnit, haveDepth := firstMeasure(holeDepth, text)
	if !haveDepth {
		depthVal, depthUnit, haveDepth = firstMeasure(holeDepthOf, text)
	}

	hole := domain.AddHole{
		Meta:     domain.NewMeta(),
		Diameter: domain.NewDimension(diaVal, resolveUnit(diaUnit, "", p.defaultUnit)),
		Centered: centerWords.MatchString(text),
	}
	if haveDepth {
		hole.Depth = domain.NewDimension(depthVal, resolveUnit(depthUnit, diaUnit, p.defaultUnit))
		hole.ThroughAll = throughWords.MatchString(text)
	} else {
		hole.ThroughAll = true
	}
	return hole, true
}

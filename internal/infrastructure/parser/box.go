package parser

import (
	"regexp"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

var (
	boxKeyword = regexp.MustCompile(`(?i)\b(box|plate|block|cube|slab|brick|rectangle|rectangular)\b`)

	// Compact form "10 x 20 x 5 [in]", also "10 by 20 by 5".
	boxCompact = regexp.MustCompile(`(?i)` +
		numToken + unitToken + `\s*(?:x|by|\*)\s*` +
		numToken + unitToken + `\s*(?:x|by|\*)\s*` +
		numToken + unitToken)

	boxWidth  = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:wide\b|in\s+width\b|width\b)`)
	boxLength = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:long\b|in\s+length\b|length\b)`)
	boxHeight = regexp.MustCompile(`(?i)` + numToken + unitToken + `\s*(?:thick\b|thickness\b|tall\b|high\b|height\b|deep\b)`)
)

// extractBox tries the compact W x L x H form first, then the individually
// keyworded descriptive form. All three dimensions are required.
func (p *RuleParser) extractBox(text string) (domain.Command, bool) {
	if m := boxCompact.FindStringSubmatch(text); m != nil {
		wVal, ok1 := parseNumber(m[1])
		lVal, ok2 := parseNumber(m[3])
		hVal, ok3 := parseNumber(m[5])
		if !ok1 || !ok2 || !ok3 {
			return nil, false
		}
		last := lastUnitIn(m[2], m[4], m[6])
		return domain.CreateBox{
			Meta:   domain.NewMeta(),
			Name:   boxName(text),
			Width:  domain.NewDimension(wVal, resolveUnit(m[2], last, p.defaultUnit)),
			Length: domain.NewDimension(lVal, resolveUnit(m[4], last, p.defaultUnit)),
			Height: domain.NewDimension(hVal, resolveUnit(m[6], last, p.defaultUnit)),
		}, true
	}

	if !boxKeyword.MatchString(text) {
		return nil, false
	}

	w, wUnit, okW := firstMeasure(boxWidth, text)
	l, lUnit, okL := firstMeasure(boxLength, text)
	h, hUnit, okH := firstMeasure(boxHeight, text)
	if !okW || !okL || !okH {
		return nil, false
	}
	last := lastUnitIn(wUnit, lUnit, hUnit)
	return domain.CreateBox{
		Meta:   domain.NewMeta(),
		Name:   boxName(text),
		Width:  domain.NewDimension(w, resolveUnit(wUnit, last, p.defaultUnit)),
		Length: domain.NewDimension(l, resolveUnit(lUnit, last, p.defaultUnit)),
		Height: domain.NewDimension(h, resolveUnit(hUnit, last, p.defaultUnit)),
	}, true
}

// firstMeasure runs a number+unit+keyword pattern and decodes the number.
func firstMeasure(re *regexp.Regexp, text string) (float64, string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	value, ok := parseNumber(m[1])
	if !ok {
		return 0, "", false
	}
	return value, m[2], true
}

func boxName(text string) string {
	if m := boxKeyword.FindString(text); m != "" {
		lower := strings.ToLower(m)
		if lower == "rectangular" || lower == "rectangle" {
			lower = "box"
		}
		return strings.ToUpper(lower[:1]) + lower[1:] + "1"
	}
	return "Box1"
}

package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

// Resolver handles referential and incremental utterances against the
// conversation context. It never mutates the context; updates happen only
// after the resulting command executes successfully.
type Resolver struct {
	defaultUnit domain.Unit
}

// NewResolver builds a resolver with the session default unit.
func NewResolver(defaultUnit domain.Unit) *Resolver {
	if defaultUnit == "" {
		defaultUnit = domain.UnitInch
	}
	return &Resolver{defaultUnit: defaultUnit}
}

// comparative maps a spoken comparative to its target dimension and direction.
// An empty Type means "whatever dimension was mentioned most recently".
type comparative struct {
	Type domain.DimensionType
	Mod  domain.ModificationType
}

var comparatives = map[string]comparative{
	"thicker":   {domain.DimThickness, domain.ModIncreaseBy},
	"thinner":   {domain.DimThickness, domain.ModDecreaseBy},
	"wider":     {domain.DimWidth, domain.ModIncreaseBy},
	"narrower":  {domain.DimWidth, domain.ModDecreaseBy},
	"longer":    {domain.DimLength, domain.ModIncreaseBy},
	"shorter":   {domain.DimLength, domain.ModDecreaseBy},
	"taller":    {domain.DimHeight, domain.ModIncreaseBy},
	"deeper":    {domain.DimDepth, domain.ModIncreaseBy},
	"shallower": {domain.DimDepth, domain.ModDecreaseBy},
	"bigger":    {"", domain.ModIncreaseBy},
	"larger":    {"", domain.ModIncreaseBy},
	"smaller":   {"", domain.ModDecreaseBy},
}

var (
	makeItPattern = regexp.MustCompile(`(?i)\bmake\s+(?:it|that|this|the\s+\w+)\s+(?:a\s+(?:bit|little)\s+)?(\w+)\b`)
	bareCompare   = regexp.MustCompile(`(?i)^\s*(?:a\s+(?:bit|little)\s+)?(\w+)\s*$`)
	byAmount      = regexp.MustCompile(`(?i)\bby\s+` + numToken + unitToken)
	scalePattern  = regexp.MustCompile(`(?i)\b(double|triple|halve|half)\s+(?:the\s+)?(\w+)\b`)
	adjustPattern = regexp.MustCompile(`(?i)\b(increase|decrease|reduce|grow|shrink|enlarge)\s+(?:the\s+)?(\w+)\s+by\s+` + numToken + unitToken)
	multPattern   = regexp.MustCompile(`(?i)\b(multiply|divide)\s+(?:the\s+)?(\w+)\s+by\s+` + numToken)
	anotherWords  = regexp.MustCompile(`(?i)\b(another\s+one|add\s+another|one\s+more|another)\b`)
	repeatWords   = regexp.MustCompile(`(?i)^\s*(again|repeat|same(\s+again)?|do\s+(it|that)\s+again)\s*$`)
)

// Resolve maps an incremental utterance to a command. Utterances that match
// no incremental pattern return absent; the caller proceeds to the full
// interpretation path.
func (r *Resolver) Resolve(utterance string, conv *domain.ConversationContext) (domain.Command, bool) {
	text := strings.TrimSpace(utterance)
	if text == "" || conv == nil {
		return nil, false
	}

	if repeatWords.MatchString(text) {
		return r.repeatLast(conv)
	}
	if anotherWords.MatchString(text) {
		return r.cloneLast(conv)
	}
	if m := scalePattern.FindStringSubmatch(text); m != nil {
		return r.scaleDimension(m[1], m[2])
	}
	if m := adjustPattern.FindStringSubmatch(text); m != nil {
		return r.adjustDimension(m[1], m[2], m[3], m[4], conv)
	}
	if m := multPattern.FindStringSubmatch(text); m != nil {
		return r.multiplyDimension(m[1], m[2], m[3])
	}
	if m := makeItPattern.FindStringSubmatch(text); m != nil {
		return r.applyComparative(m[1], text, conv)
	}
	if m := bareCompare.FindStringSubmatch(text); m != nil {
		if _, known := comparatives[strings.ToLower(m[1])]; known {
			return r.applyComparative(m[1], text, conv)
		}
	}
	return nil, false
}

func (r *Resolver) applyComparative(word, text string, conv *domain.ConversationContext) (domain.Command, bool) {
	comp, ok := comparatives[strings.ToLower(word)]
	if !ok {
		return nil, false
	}

	target := comp.Type
	if target == "" {
		if recent := conv.RecentDimensions(); len(recent) > 0 {
			target = recent[0].Type
		} else {
			target = domain.DimWidth
		}
	}

	amount, explicit := r.explicitAmount(text)
	if !explicit {
		if ref, found := conv.RecentByType(target); found {
			amount = ref.Scale(domain.IncrementalDefaultFraction)
		} else {
			amount = domain.NewDimension(domain.IncrementalFallbackInches, domain.UnitInch)
		}
	}

	return domain.ModifyDimension{
		Meta:         domain.NewMeta(),
		Target:       target,
		Modification: comp.Mod,
		Amount:       amount,
	}, true
}

func (r *Resolver) explicitAmount(text string) (domain.Dimension, bool) {
	m := byAmount.FindStringSubmatch(text)
	if m == nil {
		return domain.Dimension{}, false
	}
	value, ok := parseNumber(m[1])
	if !ok {
		return domain.Dimension{}, false
	}
	return domain.NewDimension(value, resolveUnit(m[2], "", r.defaultUnit)), true
}

func (r *Resolver) scaleDimension(verb, word string) (domain.Command, bool) {
	target, ok := lookupDimensionType(word)
	if !ok {
		return nil, false
	}
	cmd := domain.ModifyDimension{Meta: domain.NewMeta(), Target: target}
	switch strings.ToLower(verb) {
	case "double":
		cmd.Modification = domain.ModMultiplyBy
		cmd.Factor = 2
	case "triple":
		cmd.Modification = domain.ModMultiplyBy
		cmd.Factor = 3
	case "halve", "half":
		cmd.Modification = domain.ModDivideBy
		cmd.Factor = 2
	default:
		return nil, false
	}
	return cmd, true
}

func (r *Resolver) adjustDimension(verb, word, num, unit string, conv *domain.ConversationContext) (domain.Command, bool) {
	target, ok := lookupDimensionType(word)
	if !ok {
		return nil, false
	}
	value, ok := parseNumber(num)
	if !ok {
		return nil, false
	}
	mod := domain.ModIncreaseBy
	switch strings.ToLower(verb) {
	case "decrease", "reduce", "shrink":
		mod = domain.ModDecreaseBy
	}
	return domain.ModifyDimension{
		Meta:         domain.NewMeta(),
		Target:       target,
		Modification: mod,
		Amount:       domain.NewDimension(value, resolveUnit(unit, "", r.defaultUnit)),
	}, true
}

func (r *Resolver) multiplyDimension(verb, word, num string) (domain.Command, bool) {
	target, ok := lookupDimensionType(word)
	if !ok {
		return nil, false
	}
	factor, err := strconv.ParseFloat(num, 64)
	if err != nil || factor == 0 {
		return nil, false
	}
	mod := domain.ModMultiplyBy
	if strings.EqualFold(verb, "divide") {
		mod = domain.ModDivideBy
	}
	return domain.ModifyDimension{
		Meta:         domain.NewMeta(),
		Target:       target,
		Modification: mod,
		Factor:       factor,
	}, true
}

// repeatLast re-issues the last command's parameters under a fresh identity.
func (r *Resolver) repeatLast(conv *domain.ConversationContext) (domain.Command, bool) {
	last, ok := conv.LastCommand()
	if !ok {
		return nil, false
	}
	return cloneCommand(last, false), true
}

// cloneLast duplicates the last creation command with an auto-suffixed name.
func (r *Resolver) cloneLast(conv *domain.ConversationContext) (domain.Command, bool) {
	last, ok := conv.LastCommand()
	if !ok {
		return nil, false
	}
	switch last.Kind() {
	case domain.KindCreateBox, domain.KindCreateCylinder, domain.KindCreatePart,
		domain.KindAddHole, domain.KindAddFillet, domain.KindAddChamfer:
		return cloneCommand(last, true), true
	default:
		return nil, false
	}
}

// cloneCommand copies a command under a new identity, optionally suffixing
// its name so the clone stays addressable.
func cloneCommand(cmd domain.Command, rename bool) domain.Command {
	switch c := cmd.(type) {
	case domain.CreateBox:
		c.Meta = domain.NewMeta()
		if rename {
			c.Name = nextName(c.Name)
		}
		return c
	case domain.CreateCylinder:
		c.Meta = domain.NewMeta()
		if rename {
			c.Name = nextName(c.Name)
		}
		return c
	case domain.CreatePart:
		c.Meta = domain.NewMeta()
		if rename {
			c.Name = nextName(c.Name)
		}
		return c
	case domain.AddExtrusion:
		c.Meta = domain.NewMeta()
		return c
	case domain.AddCut:
		c.Meta = domain.NewMeta()
		return c
	case domain.AddFillet:
		c.Meta = domain.NewMeta()
		return c
	case domain.AddChamfer:
		c.Meta = domain.NewMeta()
		return c
	case domain.AddHole:
		c.Meta = domain.NewMeta()
		return c
	case domain.AddPattern:
		c.Meta = domain.NewMeta()
		return c
	case domain.ModifyDimension:
		c.Meta = domain.NewMeta()
		return c
	case domain.SavePart:
		c.Meta = domain.NewMeta()
		return c
	case domain.ExportPart:
		c.Meta = domain.NewMeta()
		return c
	default:
		return cmd
	}
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// nextName increments a trailing counter ("Box1" -> "Box2"), or appends "2".
func nextName(name string) string {
	if name == "" {
		return "Copy2"
	}
	if m := trailingDigits.FindStringSubmatch(name); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return trailingDigits.ReplaceAllString(name, fmt.Sprintf("%d", n+1))
		}
	}
	return name + "2"
}

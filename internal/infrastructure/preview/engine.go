package preview

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// Rule-based confidence band: unambiguous extraction sits at the top,
// anything with competing shape vocabulary at the bottom.
const (
	confidenceUnambiguous = 0.9
	confidenceAmbiguous   = 0.7
)

// Engine implements ports.PreviewService. It classifies command kinds through
// a fixed table, layers keyword rules over the raw input, and retains a
// bounded history of completed previews.
type Engine struct {
	rules []compiledRule

	mu      sync.Mutex
	history []domain.CommandPreview
}

// NewEngine loads the risk rules (or defaults when the path is empty or missing).
func NewEngine(rulesPath string) (*Engine, error) {
	rules, err := loadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: rules}, nil
}

// kindRisk is the fixed classification table: creation and additive feature
// kinds are low risk, non-undoable file operations sit at medium.
var kindRisk = map[domain.CommandKind]domain.RiskLevel{
	domain.KindCreateBox:       domain.RiskLow,
	domain.KindCreateCylinder:  domain.RiskLow,
	domain.KindCreatePart:      domain.RiskLow,
	domain.KindAddExtrusion:    domain.RiskLow,
	domain.KindAddCut:          domain.RiskLow,
	domain.KindAddFillet:       domain.RiskLow,
	domain.KindAddChamfer:      domain.RiskLow,
	domain.KindAddHole:         domain.RiskLow,
	domain.KindAddPattern:      domain.RiskLow,
	domain.KindModifyDimension: domain.RiskLow,
	domain.KindSavePart:        domain.RiskMedium,
	domain.KindExportPart:      domain.RiskLow,
	domain.KindClosePart:       domain.RiskHigh,
	domain.KindUndo:            domain.RiskMedium,
	domain.KindRedo:            domain.RiskMedium,
	domain.KindHelp:            domain.RiskLow,
	domain.KindShowInfo:        domain.RiskLow,
}

var kindAction = map[domain.CommandKind]domain.ActionType{
	domain.KindCreateBox:       domain.ActionCreate,
	domain.KindCreateCylinder:  domain.ActionCreate,
	domain.KindCreatePart:      domain.ActionCreate,
	domain.KindAddExtrusion:    domain.ActionCreate,
	domain.KindAddCut:          domain.ActionModify,
	domain.KindAddFillet:       domain.ActionModify,
	domain.KindAddChamfer:      domain.ActionModify,
	domain.KindAddHole:         domain.ActionModify,
	domain.KindAddPattern:      domain.ActionCreate,
	domain.KindModifyDimension: domain.ActionModify,
	domain.KindSavePart:        domain.ActionSave,
	domain.KindExportPart:      domain.ActionExport,
	domain.KindClosePart:       domain.ActionDelete,
	domain.KindUndo:            domain.ActionUndo,
	domain.KindRedo:            domain.ActionRedo,
	domain.KindHelp:            domain.ActionQuery,
	domain.KindShowInfo:        domain.ActionQuery,
}

// shapeVocabulary detects competing extraction targets in one utterance; two
// or more distinct shape words lower the rule-based confidence.
var shapeVocabulary = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(box|plate|block|cube)\b`),
	regexp.MustCompile(`(?i)\b(cylinder|rod|shaft)\b`),
	regexp.MustCompile(`(?i)\b(hole|drill|bore)\b`),
	regexp.MustCompile(`(?i)\b(fillet|round)\b`),
	regexp.MustCompile(`(?i)\b(chamfer|bevel)\b`),
}

// Generate builds a preview for a candidate command. When a structured
// interpretation drove the command, its confidence and message are carried
// through; otherwise confidence comes from the rule-based heuristics.
func (e *Engine) Generate(input string, cmd domain.Command, structured *ports.InterpretResponse) domain.CommandPreview {
	p := domain.CommandPreview{
		ID:            uuid.New(),
		OriginalInput: input,
		Risk:          domain.RiskLow,
	}
	if cmd == nil {
		p.Confidence = 0
		p.Warnings = append(p.Warnings, domain.PreviewWarning{
			Severity: domain.SeverityCaution,
			Message:  "No command could be derived from the input",
		})
		return p
	}

	risk := kindRisk[cmd.Kind()]
	if risk == "" {
		risk = domain.RiskMedium
	}

	if structured != nil {
		p.Confidence = structured.Confidence
		if structured.Message != "" {
			p.Suggestions = append(p.Suggestions, structured.Message)
		}
	} else {
		p.Confidence = confidenceUnambiguous
		if countShapeWords(input) > 1 {
			p.Confidence = confidenceAmbiguous
			p.Warnings = append(p.Warnings, domain.PreviewWarning{
				Severity:   domain.SeverityCaution,
				Message:    "Input mentions more than one shape; only one was extracted",
				Resolution: "Split the request into one command per feature",
			})
		}
	}

	for _, rule := range e.rules {
		if !rule.re.MatchString(input) {
			continue
		}
		level := parseRiskLevel(rule.rule.Level)
		if domain.MoreSevere(level, risk) {
			risk = level
		}
		p.Warnings = append(p.Warnings, domain.PreviewWarning{
			Severity:   severityFor(level),
			Message:    rule.rule.Message,
			Resolution: rule.rule.Resolution,
		})
	}

	p.Risk = risk
	p.Actions = []domain.PreviewAction{{
		Sequence:        1,
		Type:            kindAction[cmd.Kind()],
		Description:     cmd.Describe(),
		Parameters:      commandParameters(cmd),
		CommandKindHint: string(cmd.Kind()),
		Reversible:      cmd.Undoable(),
		Confidence:      p.Confidence,
	}}
	for i := range p.Warnings {
		p.Warnings[i].RelatedActionSeq = 1
	}

	if risk == domain.RiskHigh || risk == domain.RiskCritical {
		p.Suggestions = append(p.Suggestions, "Review the preview and confirm explicitly before executing")
	}
	return p
}

// Record retains a completed preview, newest first, capped at
// domain.MaxPreviewHistory with the oldest evicted.
func (e *Engine) Record(p domain.CommandPreview) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append([]domain.CommandPreview{p}, e.history...)
	if len(e.history) > domain.MaxPreviewHistory {
		e.history = e.history[:domain.MaxPreviewHistory]
	}
}

// History returns a copy of the retained previews, most recent first.
func (e *Engine) History() []domain.CommandPreview {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.CommandPreview, len(e.history))
	copy(out, e.history)
	return out
}

func countShapeWords(input string) int {
	count := 0
	for _, re := range shapeVocabulary {
		if re.MatchString(input) {
			count++
		}
	}
	return count
}

func commandParameters(cmd domain.Command) map[string]string {
	params := map[string]string{}
	if carrier, ok := cmd.(domain.DimensionCarrier); ok {
		for _, td := range carrier.Dimensions() {
			params[string(td.Type)] = td.Dimension.String()
		}
	}
	switch c := cmd.(type) {
	case domain.ModifyDimension:
		params["modification"] = string(c.Modification)
		if c.Factor != 0 {
			params["factor"] = fmt.Sprintf("%g", c.Factor)
		}
	case domain.ExportPart:
		params["format"] = c.Format
	case domain.AddHole:
		if c.ThroughAll {
			params["through_all"] = "true"
		}
	}
	return params
}

var _ ports.PreviewService = (*Engine)(nil)

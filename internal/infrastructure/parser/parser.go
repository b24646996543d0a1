// Package parser implements deterministic, rule-based extraction of commands
// from raw utterances. Each command kind is an ordered cascade of regex
// sub-patterns, most specific first; a command is returned only when every
// required parameter resolves. Missing parameters yield absent, never a guess.
package parser

import (
	"regexp"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

// RuleParser extracts typed commands from natural language without any
// external model. It is the fallback path of the interpretation service and
// safe for concurrent use.
type RuleParser struct {
	defaultUnit domain.Unit
}

// NewRuleParser builds a parser with the session default unit.
func NewRuleParser(defaultUnit domain.Unit) *RuleParser {
	if defaultUnit == "" {
		defaultUnit = domain.UnitInch
	}
	return &RuleParser{defaultUnit: defaultUnit}
}

// DefaultUnit exposes the configured fallback unit.
func (p *RuleParser) DefaultUnit() domain.Unit {
	return p.defaultUnit
}

var (
	undoPattern = regexp.MustCompile(`(?i)^\s*undo(\s+(that|last|it))?\s*$`)
	redoPattern = regexp.MustCompile(`(?i)^\s*redo(\s+(that|last|it))?\s*$`)
	infoPattern = regexp.MustCompile(`(?i)\b(show|part|model)\s+(info|information|details|status)\b`)
	newPartPat  = regexp.MustCompile(`(?i)\b(new|create|start)\s+(a\s+)?(new\s+)?(empty\s+)?part\b(?:\s+(?:called|named)\s+["']?([\w .-]+?)["']?\s*$)?`)
)

// Parse tries command kinds in fixed priority order and returns the first
// extraction whose required parameters all resolved.
func (p *RuleParser) Parse(utterance string) (domain.Command, bool) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return nil, false
	}

	if undoPattern.MatchString(text) {
		return domain.UndoCommand{Meta: domain.NewMeta()}, true
	}
	if redoPattern.MatchString(text) {
		return domain.RedoCommand{Meta: domain.NewMeta()}, true
	}
	if infoPattern.MatchString(text) {
		return domain.ShowInfo{Meta: domain.NewMeta()}, true
	}

	extractors := []func(string) (domain.Command, bool){
		p.extractBox,
		p.extractCylinder,
		p.extractFillet,
		p.extractChamfer,
		p.extractHole,
		p.extractExport,
		p.extractSave,
		p.extractNewPart,
		extractHelp,
	}
	for _, extract := range extractors {
		if cmd, ok := extract(text); ok {
			return cmd, true
		}
	}
	return nil, false
}

func (p *RuleParser) extractNewPart(text string) (domain.Command, bool) {
	// Ordered after the shape extractors so "create a box..." never lands here.
	m := newPartPat.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	name := strings.TrimSpace(m[5])
	if name == "" {
		name = "Part1"
	}
	return domain.CreatePart{Meta: domain.NewMeta(), Name: name}, true
}

var helpPattern = regexp.MustCompile(`(?i)\b(help|what can (you|i)|usage|examples?|how do i)\b`)

func extractHelp(text string) (domain.Command, bool) {
	if helpPattern.MatchString(text) {
		return domain.HelpCommand{Meta: domain.NewMeta()}, true
	}
	return nil, false
}

// HelpExamples are surfaced when neither interpretation path produced a command.
func HelpExamples() []string {
	return []string{
		`create a box 10 x 20 x 5 inches`,
		`make a plate 36 inches wide, 96 inches long, 0.75 inches thick`,
		`create a cylinder 2 in diameter, 6 in tall`,
		`add a 1/4 inch fillet on all edges`,
		`drill a 5mm hole through all`,
		`double the width`,
		`make it thicker`,
		`export the part as STL`,
	}
}

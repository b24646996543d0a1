// Package preview converts candidate commands into planned actions with a
// risk classification, a confidence score, and warnings, and decides whether
// unattended execution is permitted.
package preview

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/pkg/filesystem"
)

// RiskRule describes one regex-based risk rule.
type RiskRule struct {
	Pattern    string `yaml:"pattern"`
	Level      string `yaml:"level"`
	Message    string `yaml:"message"`
	Resolution string `yaml:"resolution"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		RiskPatterns []RiskRule `yaml:"risk_patterns"`
	} `yaml:"rules"`
}

type compiledRule struct {
	re   *regexp.Regexp
	rule RiskRule
}

// loadRules reads risk rules from disk, falling back to the compiled-in
// defaults when the file is missing or empty.
func loadRules(path string) ([]compiledRule, error) {
	rules := defaultRules()
	if path != "" {
		data, err := os.ReadFile(expandPath(path))
		if err == nil {
			var file RulesFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, err
			}
			if len(file.Rules.RiskPatterns) > 0 {
				rules = file.Rules.RiskPatterns
			}
		}
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{re: re, rule: rule})
	}
	return compiled, nil
}

func defaultRules() []RiskRule {
	return []RiskRule{
		{Pattern: `(?i)\b(delete|remove|erase)\s+(the\s+)?(part|model|everything|all)\b`, Level: "critical", Message: "Deleting the whole model", Resolution: "Name the specific feature to remove instead"},
		{Pattern: `(?i)\b(delete|remove|erase)\b`, Level: "high", Message: "Removing geometry is hard to recover", Resolution: "Confirm the target feature before executing"},
		{Pattern: `(?i)\b(overwrite|replace)\b.*\b(file|part|save)\b`, Level: "high", Message: "Overwriting a saved file without versioning", Resolution: "Save to a new path to keep the original"},
		{Pattern: `(?i)\bsave\b.*\bwithout\s+(backup|version)`, Level: "high", Message: "Saving without a backup copy", Resolution: "Export a copy first"},
		{Pattern: `(?i)\b(scrap|discard|start\s+over|throw\s+away)\b`, Level: "medium", Message: "Discarding current work", Resolution: "Save before starting over"},
		{Pattern: `(?i)\b(all|every)\s+(feature|hole|fillet)s?\b`, Level: "medium", Message: "Operation touches every matching feature", Resolution: "Verify the feature list in the preview"},
	}
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskLow
	}
}

func severityFor(level domain.RiskLevel) domain.WarningSeverity {
	switch level {
	case domain.RiskHigh, domain.RiskCritical:
		return domain.SeverityDanger
	case domain.RiskMedium:
		return domain.SeverityCaution
	default:
		return domain.SeverityInfo
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		return filepath.Join(filesystem.UserHomeDir(), strings.TrimPrefix(path, "~"))
	}
	return path
}

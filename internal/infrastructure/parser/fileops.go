package parser

import (
	"regexp"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

var (
	exportKeyword = regexp.MustCompile(`(?i)\bexport\b`)
	exportFormat  = regexp.MustCompile(`(?i)\b(?:as|to|in)\s+(?:an?\s+)?(stl|step|stp|iges|igs|obj|3mf|dxf)\b`)
	exportBare    = regexp.MustCompile(`(?i)\b(stl|step|stp|iges|igs|obj|3mf|dxf)\b`)
	exportPath    = regexp.MustCompile(`(?i)\b(?:to|into|at)\s+((?:[\w~./\\-]+[/\\])?[\w.-]+\.\w{2,4})\b`)

	saveKeyword = regexp.MustCompile(`(?i)\bsave\b`)
	savePath    = regexp.MustCompile(`(?i)\b(?:as|to)\s+((?:[\w~./\\-]+[/\\])?[\w.-]+(?:\.\w{2,4})?)\s*$`)
)

// extractExport requires the export keyword plus a recognizable format token.
func (p *RuleParser) extractExport(text string) (domain.Command, bool) {
	if !exportKeyword.MatchString(text) {
		return nil, false
	}
	format := ""
	if m := exportFormat.FindStringSubmatch(text); m != nil {
		format = m[1]
	} else if m := exportBare.FindStringSubmatch(text); m != nil {
		format = m[1]
	}
	if format == "" {
		return nil, false
	}
	cmd := domain.ExportPart{
		Meta:   domain.NewMeta(),
		Format: strings.ToUpper(format),
	}
	if m := exportPath.FindStringSubmatch(text); m != nil {
		cmd.Path = m[1]
	}
	return cmd, true
}

// extractSave fires on the save keyword; the path is optional.
func (p *RuleParser) extractSave(text string) (domain.Command, bool) {
	if !saveKeyword.MatchString(text) {
		return nil, false
	}
	cmd := domain.SavePart{Meta: domain.NewMeta()}
	if m := savePath.FindStringSubmatch(text); m != nil {
		cmd.Path = m[1]
	}
	return cmd, true
}

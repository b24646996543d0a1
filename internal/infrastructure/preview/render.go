package preview

import (
	"fmt"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

// Render formats a preview for terminal display. Modes only change how much
// is shown; they carry no state of their own.
func Render(p domain.CommandPreview, mode domain.PreviewMode) string {
	var sb strings.Builder

	switch mode {
	case domain.PreviewCompact:
		for _, action := range p.Actions {
			fmt.Fprintf(&sb, "%d. %s\n", action.Sequence, action.Description)
		}
		fmt.Fprintf(&sb, "risk=%s confidence=%.2f", p.Risk, p.Confidence)
		if len(p.Warnings) > 0 {
			fmt.Fprintf(&sb, " warnings=%d", len(p.Warnings))
		}
		return sb.String()

	case domain.PreviewVerbose:
		fmt.Fprintf(&sb, "Preview %s\n", p.ID)
		fmt.Fprintf(&sb, "Input: %s\n", p.OriginalInput)
		renderBody(&sb, p)
		for _, action := range p.Actions {
			for key, value := range action.Parameters {
				fmt.Fprintf(&sb, "    %s = %s\n", key, value)
			}
		}
		for _, s := range p.Suggestions {
			fmt.Fprintf(&sb, "Suggestion: %s\n", s)
		}
		fmt.Fprintf(&sb, "Auto-execute: %v", p.CanAutoExecute())
		return sb.String()

	default: // detailed
		renderBody(&sb, p)
		for _, s := range p.Suggestions {
			fmt.Fprintf(&sb, "Suggestion: %s\n", s)
		}
		return strings.TrimRight(sb.String(), "\n")
	}
}

func renderBody(sb *strings.Builder, p domain.CommandPreview) {
	for _, action := range p.Actions {
		reversible := ""
		if !action.Reversible {
			reversible = " (not undoable)"
		}
		fmt.Fprintf(sb, "%d. [%s] %s%s\n", action.Sequence, action.Type, action.Description, reversible)
	}
	fmt.Fprintf(sb, "Risk: %s | Confidence: %.2f\n", strings.ToUpper(string(p.Risk)), p.Confidence)
	for _, w := range p.Warnings {
		fmt.Fprintf(sb, "  ! [%s] %s", w.Severity, w.Message)
		if w.Resolution != "" {
			fmt.Fprintf(sb, " -- %s", w.Resolution)
		}
		sb.WriteString("\n")
	}
}

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/preview"
)

// RenderResponse prints the pipeline outcome in a friendly, ASCII-only format.
func RenderResponse(out io.Writer, resp domain.Response, mode domain.PreviewMode) {
	if resp.NeedsClarification() {
		fmt.Fprintln(out, resp.Clarification)
		if len(resp.Examples) > 0 {
			fmt.Fprintln(out, "\nFor example:")
			for _, example := range resp.Examples {
				fmt.Fprintf(out, "  %s\n", example)
			}
		}
		return
	}

	if resp.FromCache {
		fmt.Fprintln(out, "Note: interpretation served from cache")
	}

	fmt.Fprintln(out, preview.Render(resp.Preview, mode))

	if resp.Result == nil {
		fmt.Fprintln(out, "\nNot executed (preview mode or confirmation pending).")
		return
	}
	if resp.Result.Success {
		fmt.Fprintf(out, "\n%s (%d ms)\n", resp.Result.Message, resp.Result.ExecutionTimeMS)
		return
	}
	fmt.Fprintf(out, "\n%s", resp.Result.Message)
	if resp.Result.Error != "" {
		fmt.Fprintf(out, ": %s", resp.Result.Error)
	}
	fmt.Fprintln(out)
}

// RenderHistoryEntry prints one history line for list and search output.
func RenderHistoryEntry(out io.Writer, entry domain.HistoryEntry) {
	status := "ok"
	if !entry.Success {
		status = "failed"
	}
	if entry.Undone {
		status = "undone"
	}
	fmt.Fprintf(out, "%s | %-8s | %-16s | %s\n",
		humanize.Time(entry.ExecutedAt),
		status,
		entry.CommandKind,
		entry.Description)
}

// RenderResult prints a bare execution result (undo/redo subcommands).
func RenderResult(out io.Writer, result domain.CommandResult) {
	if result.Success {
		fmt.Fprintln(out, result.Message)
		return
	}
	msg := result.Message
	if result.Error != "" {
		msg = msg + ": " + result.Error
	}
	fmt.Fprintln(out, strings.TrimSpace(msg))
}

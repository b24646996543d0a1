package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/cadvoice-go/internal/app"
	"github.com/doeshing/cadvoice-go/internal/domain"
)

const msgNoHistoryRecorded = "No history recorded yet."

func newHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect executed commands",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryStatsCommand(container),
		newHistoryExportCommand(container),
		newHistoryClearCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.HistoryStore.Search("", limit)
			if err != nil {
				return fmt.Errorf("failed to retrieve history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoHistoryRecorded)
				return nil
			}
			for _, entry := range entries {
				RenderHistoryEntry(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search history for a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.HistoryStore.Search(args[0], limit)
			if err != nil {
				return fmt.Errorf("failed to search history: %w", err)
			}
			for _, entry := range entries {
				RenderHistoryEntry(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show success rate and command kind distribution",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := container.HistoryStore.Records()
			if err != nil {
				return fmt.Errorf("failed to retrieve history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoHistoryRecorded)
				return nil
			}
			showHistoryStats(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, ok := container.HistoryStore.(interface{ ExportJSON(string) error })
			if !ok {
				return fmt.Errorf("configured history backend cannot export")
			}
			if err := exporter.ExportJSON(args[0]); err != nil {
				return fmt.Errorf("failed to export history to %s: %w", args[0], err)
			}
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the history store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			return nil
		},
	}
}

func showHistoryStats(out io.Writer, entries []domain.HistoryEntry) {
	succeeded := 0
	undone := 0
	kindCounts := make(map[domain.CommandKind]int)
	for _, entry := range entries {
		if entry.Success {
			succeeded++
		}
		if entry.Undone {
			undone++
		}
		kindCounts[entry.CommandKind]++
	}

	rate := float64(succeeded) / float64(len(entries)) * 100
	fmt.Fprintf(out, "Entries: %d\nSucceeded: %d (%.1f%%)\nUndone: %d\n", len(entries), succeeded, rate, undone)
	fmt.Fprintln(out, "By kind:")
	for kind, count := range kindCounts {
		fmt.Fprintf(out, "  %s: %d\n", kind, count)
	}
}

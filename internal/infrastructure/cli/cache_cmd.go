package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cadvoice-go/internal/app"
)

func newCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the interpretation cache",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached interpretations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Cache == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache is disabled.")
				return nil
			}
			if err := container.Cache.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
			return nil
		},
	})

	return cacheCmd
}

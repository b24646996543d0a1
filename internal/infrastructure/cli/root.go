// Package cli is the cobra front end.
package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/cadvoice-go/internal/app"
	"github.com/doeshing/cadvoice-go/internal/domain"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	ConfigPath string
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.Build(ctx, app.Options{
		Verbose:    opts.Verbose,
		ConfigPath: opts.ConfigPath,
		Prompter:   NewPrompter(nil, nil),
	})
	if err != nil {
		return nil, err
	}

	runCmd := newRunCommand(container)

	root := &cobra.Command{
		Use:   "cadvoice [request]",
		Short: "CADVoice - natural language CAD commands",
		Long:  "CADVoice turns plain-English modeling requests into previewed, undoable CAD commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			runCmd.SetArgs(args)
			return runCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd)
	root.AddCommand(newInteractiveCommand(container))
	root.AddCommand(newUndoCommand(container))
	root.AddCommand(newRedoCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newCacheCommand(container))
	root.AddCommand(newVersionCommand())
	return root, nil
}

func newRunCommand(container *app.Container) *cobra.Command {
	var (
		model       string
		previewOnly bool
		autoExecute bool
		noCache     bool
		debug       bool
		mode        string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:     "run [natural language]",
		Aliases: []string{"say"},
		Short:   "Interpret and execute a modeling request",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			req := domain.Request{
				Context:       ctx,
				Utterance:     strings.Join(args, " "),
				ModelOverride: model,
				PreviewOnly:   previewOnly,
				AutoExecute:   autoExecute,
				NoCache:       noCache,
				Debug:         debug,
			}
			resp, err := container.Session.Run(req)
			RenderResponse(cmd.OutOrStdout(), resp, previewMode(container, mode))
			return err
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().BoolVarP(&previewOnly, "preview-only", "p", false, "Only preview the command, do not execute")
	cmd.Flags().BoolVarP(&autoExecute, "auto-execute", "a", false, "Execute without confirmation when the preview qualifies")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Skip the interpretation cache")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose logging")
	cmd.Flags().StringVar(&mode, "preview-mode", "", "Preview detail: compact, detailed, or verbose")
	cmd.Flags().DurationVar(&timeout, "timeout", domain.DefaultHTTPClientTimeout, "Override request timeout")

	return cmd
}

func previewMode(container *app.Container, override string) domain.PreviewMode {
	if override != "" {
		switch domain.PreviewMode(override) {
		case domain.PreviewCompact, domain.PreviewDetailed, domain.PreviewVerbose:
			return domain.PreviewMode(override)
		}
	}
	return container.Config.Preferences.Mode()
}

func newUndoCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent command",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Modeling state lives only as long as the process, so a
			// one-shot invocation never has anything on the stack.
			if container.Executor.UndoDepth() == 0 {
				return errors.New("nothing to undo: modeling state lives inside a session, use 'cadvoice interactive' and say \"undo\" there")
			}
			result, err := container.Session.Undo(cmd.Context())
			if err != nil {
				return err
			}
			RenderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newRedoCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the most recently undone command",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Executor.RedoDepth() == 0 {
				return errors.New("nothing to redo: modeling state lives inside a session, use 'cadvoice interactive' and say \"redo\" there")
			}
			result, err := container.Session.Redo(cmd.Context())
			if err != nil {
				return err
			}
			RenderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

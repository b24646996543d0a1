package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/cadvoice-go/internal/app"
	"github.com/doeshing/cadvoice-go/internal/domain"
)

// newInteractiveCommand starts a conversational loop in which one process
// serves every request. The model, the conversation context, and the
// undo/redo stacks all live for the whole session, so "make it thicker",
// "undo", and "redo" have something to refer back to.
func newInteractiveCommand(container *app.Container) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"repl"},
		Short:   "Start a conversational modeling session",
		Long:    "Reads one modeling request per line, keeping the model and undo history alive between requests. Type 'exit' or press Ctrl-D to leave.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), container, cmd.InOrStdin(), cmd.OutOrStdout(), previewMode(container, mode))
		},
	}
	cmd.Flags().StringVar(&mode, "preview-mode", "", "Preview detail: compact, detailed, or verbose")
	return cmd
}

func runInteractive(ctx context.Context, container *app.Container, in io.Reader, out io.Writer, mode domain.PreviewMode) error {
	reader := bufio.NewReader(in)
	// Confirmations must share the loop's reader, or the two buffered
	// readers would steal input from each other.
	container.Session.Prompter = NewPrompter(reader, out)

	fmt.Fprintln(out, "CADVoice interactive session. One request per line; 'exit' leaves.")
	for {
		fmt.Fprint(out, "cadvoice> ")
		line, readErr := reader.ReadString('\n')

		utterance := strings.TrimSpace(line)
		if utterance != "" {
			switch strings.ToLower(utterance) {
			case "exit", "quit":
				fmt.Fprintln(out, "Bye.")
				return nil
			}
			resp, err := container.Session.Run(domain.Request{Context: ctx, Utterance: utterance})
			if err != nil {
				fmt.Fprintln(out, "error:", err)
			} else {
				RenderResponse(out, resp, mode)
			}
			fmt.Fprintln(out)
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				fmt.Fprintln(out)
				return nil
			}
			return readErr
		}
	}
}

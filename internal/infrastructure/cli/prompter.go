package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// Prompter implements ConfirmationPrompter using stdin/stdout.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter referencing stdio. With the default
// stdin, the prompter only reports itself interactive when stdin is a
// terminal, so piped invocations never hang waiting for a confirmation.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		fd := os.Stdin.Fd()
		interactive = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled indicates the prompter can actually collect an answer.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm shows the preview and asks the user to approve the command. High
// and critical risks require typing the word "yes" in full.
func (p *Prompter) Confirm(preview domain.CommandPreview, cmd domain.Command) (bool, error) {
	fmt.Fprintf(p.out, "\nAbout to: %s\n", cmd.Describe())
	for _, action := range preview.Actions {
		fmt.Fprintf(p.out, " %d. %s\n", action.Sequence, action.Description)
	}
	fmt.Fprintf(p.out, "Risk: %s (confidence %.0f%%)\n", strings.ToUpper(string(preview.Risk)), preview.Confidence*100)
	for _, warning := range preview.Warnings {
		fmt.Fprintf(p.out, " - %s\n", warning.Message)
	}

	switch preview.Risk {
	case domain.RiskHigh, domain.RiskCritical:
		return p.askExplicit()
	default:
		return p.ask("[y/N]: ")
	}
}

func (p *Prompter) ask(prompt string) (bool, error) {
	fmt.Fprint(p.out, "Continue? ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

func (p *Prompter) askExplicit() (bool, error) {
	fmt.Fprint(p.out, "Type 'yes' to confirm (or anything else to cancel): ")
	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(line) == "yes", nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)

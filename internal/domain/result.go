package domain

import "context"

// CommandResult is produced once per execution attempt and never mutated.
type CommandResult struct {
	Success         bool
	Message         string
	Error           string
	Data            map[string]interface{}
	ExecutionTimeMS int64
}

// Request captures one utterance arriving from the CLI or shell integration.
type Request struct {
	Context       context.Context
	Utterance     string
	ModelOverride string
	PreviewOnly   bool
	AutoExecute   bool
	NoCache       bool
	Debug         bool
}

// Response is the canonical response propagated back to the CLI.
type Response struct {
	Command       Command
	Preview       CommandPreview
	Result        *CommandResult
	Source        string
	Clarification string
	Examples      []string
	FromCache     bool
}

// NeedsClarification reports whether the pipeline could not settle on a command.
func (r Response) NeedsClarification() bool {
	return r.Command == nil
}

// SessionService exposes the use-case boundary for handling an utterance.
type SessionService interface {
	Run(Request) (Response, error)
	Undo(context.Context) (CommandResult, error)
	Redo(context.Context) (CommandResult, error)
}

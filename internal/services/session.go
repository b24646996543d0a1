// Package services wires the interpretation pipeline end-to-end: resolve or
// interpret the utterance, preview it, decide whether it may run, execute it,
// and fold the outcome back into the conversation.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// Session orchestrates one utterance lifecycle end-to-end.
type Session struct {
	ConfigProvider ports.ConfigProvider
	Interpreter    ports.UtteranceInterpreter
	Resolver       ports.IncrementalResolver
	Previewer      ports.PreviewService
	Executor       ports.CommandExecutor
	Prompter       ports.ConfirmationPrompter
	Conversation   *domain.ConversationContext
	Logger         ports.Logger
}

// Run processes a single natural-language utterance.
func (s *Session) Run(req domain.Request) (domain.Response, error) {
	if s.ConfigProvider == nil || s.Interpreter == nil || s.Previewer == nil ||
		s.Executor == nil || s.Conversation == nil || s.Logger == nil {
		return domain.Response{}, errors.New("services.Session dependencies not satisfied")
	}

	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	utterance := strings.TrimSpace(req.Utterance)
	if utterance == "" {
		return domain.Response{}, errors.New("empty request")
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.Response{}, fmt.Errorf("load config: %w", err)
	}

	outcome, err := s.settle(ctx, cfg, utterance, req)
	if err != nil {
		return domain.Response{}, err
	}

	if outcome.Command == nil {
		s.Conversation.SetPendingClarification(outcome.Clarification)
		return domain.Response{
			Source:        outcome.Source,
			Clarification: outcome.Clarification,
			Examples:      outcome.Examples,
			FromCache:     outcome.FromCache,
		}, nil
	}

	preview := s.Previewer.Generate(utterance, outcome.Command, outcome.Structured)

	resp := domain.Response{
		Command:   outcome.Command,
		Preview:   preview,
		Source:    outcome.Source,
		FromCache: outcome.FromCache,
	}

	if req.PreviewOnly {
		s.Previewer.Record(preview)
		return resp, nil
	}

	decision, err := s.decideExecution(req, cfg, preview, outcome.Command)
	if err != nil {
		s.Previewer.Record(preview)
		return resp, err
	}

	switch decision {
	case runCommand:
		result := s.Executor.Execute(ctx, outcome.Command, utterance)
		resp.Result = &result
		preview.Executed = true

		if result.Success {
			doc, _ := s.Executor.ActiveDocument()
			s.Conversation.NoteExecution(outcome.Command, doc, result.Message)
			s.noteEntity(outcome.Command, result)
		}
	case declineCommand:
		preview.Cancelled = true
	}

	// Record with the final executed/cancelled state so the preview history
	// reflects what actually happened to each proposal.
	s.Previewer.Record(preview)
	resp.Preview = preview
	return resp, nil
}

// settle produces a command (or a clarification) from the utterance. The
// incremental resolver sees it first; anything it cannot anchor to the
// conversation falls through to the interpreter.
func (s *Session) settle(ctx context.Context, cfg domain.Config, utterance string, req domain.Request) (ports.InterpretationOutcome, error) {
	if s.Resolver != nil {
		if cmd, ok := s.Resolver.Resolve(utterance, s.Conversation); ok {
			return ports.InterpretationOutcome{Command: cmd, Source: "incremental"}, nil
		}
	}

	task := ports.InterpretTask{
		Utterance:    utterance,
		Conversation: s.Conversation,
		SkipCache:    req.NoCache,
	}
	if req.ModelOverride != "" {
		model, ok := cfg.FindModel(req.ModelOverride)
		if !ok {
			return ports.InterpretationOutcome{}, fmt.Errorf("model %s not configured", req.ModelOverride)
		}
		task.Model = model
	}

	outcome, err := s.Interpreter.Interpret(ctx, task)
	if err != nil {
		return ports.InterpretationOutcome{}, fmt.Errorf("interpret: %w", err)
	}
	return outcome, nil
}

// executionDecision is the outcome of gating a preview: run it, leave it as a
// standing preview, or record it as declined by the user.
type executionDecision int

const (
	stagePreview executionDecision = iota
	runCommand
	declineCommand
)

// decideExecution gates the approved preview. Auto-execution is only ever
// offered to previews that qualify for it; everything else goes through the
// interactive prompter or stays a preview.
func (s *Session) decideExecution(req domain.Request, cfg domain.Config, preview domain.CommandPreview, cmd domain.Command) (executionDecision, error) {
	if preview.CanAutoExecute() && (req.AutoExecute || cfg.Preferences.AutoExecuteSafe) {
		return runCommand, nil
	}

	if s.Prompter == nil || !s.Prompter.Enabled() {
		// Non-interactive invocation and the preview did not qualify for
		// auto-execution: leave it as a preview.
		return stagePreview, nil
	}

	confirmed, err := s.Prompter.Confirm(preview, cmd)
	if err != nil {
		return stagePreview, fmt.Errorf("confirm: %w", err)
	}
	if confirmed {
		return runCommand, nil
	}
	return declineCommand, nil
}

// Undo reverses the most recent undoable command.
func (s *Session) Undo(ctx context.Context) (domain.CommandResult, error) {
	if s.Executor == nil {
		return domain.CommandResult{}, errors.New("services.Session dependencies not satisfied")
	}
	return s.Executor.Undo(ctx), nil
}

// Redo reapplies the most recently undone command.
func (s *Session) Redo(ctx context.Context) (domain.CommandResult, error) {
	if s.Executor == nil {
		return domain.CommandResult{}, errors.New("services.Session dependencies not satisfied")
	}
	return s.Executor.Redo(ctx), nil
}

// noteEntity registers freshly created, named features for later reference
// ("make the mounting hole bigger").
func (s *Session) noteEntity(cmd domain.Command, result domain.CommandResult) {
	name, _ := result.Data["feature_name"].(string)
	id, _ := result.Data["feature_id"].(string)
	if name == "" {
		return
	}
	s.Conversation.RegisterEntity(domain.EntityRef{
		Name:    name,
		Kind:    cmd.Kind(),
		Feature: domain.FeatureRef{ID: id, Name: name},
	})
}

var _ domain.SessionService = (*Session)(nil)

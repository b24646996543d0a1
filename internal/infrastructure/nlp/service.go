package nlp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/parser"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// Service is the utterance interpreter. It asks the external model for a
// structured interpretation and degrades to the rule-based parser on
// transport failure, malformed responses, unknown intents, or low confidence.
// With no model client configured it goes straight to the rules.
type Service struct {
	Client  ports.ModelClient
	Model   domain.ModelDefinition
	Parser  ports.IntentParser
	Cache   ports.InterpretationCache
	Logger  ports.Logger
	Timeout time.Duration

	DefaultUnit domain.Unit
}

// Interpret implements ports.UtteranceInterpreter.
func (s *Service) Interpret(ctx context.Context, task ports.InterpretTask) (ports.InterpretationOutcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if s.Client != nil {
		if outcome, ok := s.interpretStructured(ctx, task); ok {
			return outcome, nil
		}
	}

	if cmd, ok := s.Parser.Parse(task.Utterance); ok {
		return ports.InterpretationOutcome{Command: cmd, Source: "rules"}, nil
	}

	return ports.InterpretationOutcome{
		Source:        "rules",
		Clarification: "I couldn't work out what to build from that. Could you rephrase with dimensions?",
		Examples:      parser.HelpExamples(),
	}, nil
}

// interpretStructured runs the model path. A false return means "fall back";
// the reasons are logged but never surfaced as failures.
func (s *Service) interpretStructured(ctx context.Context, task ports.InterpretTask) (ports.InterpretationOutcome, bool) {
	model := s.Model
	if task.Model.Name != "" {
		model = task.Model
	}

	summary := ""
	if task.Conversation != nil {
		summary = task.Conversation.Summary()
	}

	resp, fromCache, err := s.fetch(ctx, model, task, summary)
	if err != nil {
		s.log(model, "structured interpretation unavailable", err)
		return ports.InterpretationOutcome{}, false
	}

	if resp.Confidence < domain.MinIntentConfidence {
		s.log(model, "intent confidence below threshold", nil)
		return ports.InterpretationOutcome{}, false
	}

	if resp.NeedsClarification && resp.ClarificationQuestion != "" {
		return ports.InterpretationOutcome{
			Structured:    &resp,
			Source:        "model",
			Clarification: resp.ClarificationQuestion,
			FromCache:     fromCache,
		}, true
	}

	unit := s.DefaultUnit
	if task.Conversation != nil {
		unit = task.Conversation.DefaultUnit()
	}
	cmd, ok := CommandFromResponse(resp, unit)
	if !ok {
		s.log(model, "structured intent not mappable", nil)
		return ports.InterpretationOutcome{}, false
	}

	if !fromCache {
		s.store(model, task.Utterance, summary, resp)
	}
	return ports.InterpretationOutcome{Command: cmd, Structured: &resp, Source: "model", FromCache: fromCache}, true
}

func (s *Service) fetch(ctx context.Context, model domain.ModelDefinition, task ports.InterpretTask, summary string) (ports.InterpretResponse, bool, error) {
	if s.Cache != nil && !task.SkipCache {
		key := CacheKey(model.Name, summary, task.Utterance)
		if entry, hit, err := s.Cache.Get(key); err == nil && hit {
			var resp ports.InterpretResponse
			if err := json.Unmarshal(entry.Payload, &resp); err == nil {
				return resp, true, nil
			}
		}
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = domain.DefaultInterpreterTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := s.Client.Interpret(callCtx, ports.InterpretRequest{
		SystemPrompt:   SystemPrompt,
		ContextSummary: summary,
		UserInput:      task.Utterance,
		Model:          model,
	})
	if err != nil {
		return ports.InterpretResponse{}, false, err
	}
	return resp, false, nil
}

func (s *Service) store(model domain.ModelDefinition, utterance, summary string, resp ports.InterpretResponse) {
	if s.Cache == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = s.Cache.Set(domain.InterpretationCacheEntry{
		Key:       CacheKey(model.Name, summary, utterance),
		Intent:    resp.Intent,
		Payload:   payload,
		Model:     model.Name,
		CreatedAt: time.Now(),
	})
}

func (s *Service) log(model domain.ModelDefinition, msg string, err error) {
	if s.Logger == nil {
		return
	}
	fields := map[string]interface{}{"model": model.Name}
	if err != nil {
		fields["error"] = err.Error()
	}
	s.Logger.Debug(msg, fields)
}

var _ ports.UtteranceInterpreter = (*Service)(nil)

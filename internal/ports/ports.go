// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The application depends on these abstractions rather
// than on concrete hosts, transports, or storage engines, so the interpretation
// pipeline can be exercised against stubs in tests and against real collaborators
// in production.
package ports

import (
	"context"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.cadvoice/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// InterpretRequest is the contract sent to the external language model.
type InterpretRequest struct {
	SystemPrompt   string
	ContextSummary string
	UserInput      string
	Model          domain.ModelDefinition
}

// ParameterValue is one extracted parameter inside a structured response.
type ParameterValue struct {
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Text     string  `json:"text,omitempty"`
	Original string  `json:"original"`
}

// InterpretResponse is the fixed JSON object expected back from the model.
// Any response that fails to parse as this schema is treated identically to a
// transport failure.
type InterpretResponse struct {
	Intent                string                    `json:"intent"`
	Confidence            float64                   `json:"confidence"`
	Parameters            map[string]ParameterValue `json:"parameters"`
	Message               string                    `json:"message"`
	NeedsClarification    bool                      `json:"needsClarification"`
	ClarificationQuestion string                    `json:"clarificationQuestion"`
}

// ModelClient issues one blocking structured-interpretation call. Transport,
// authentication and response decoding live behind this port; cancellation and
// timeout arrive through the context.
type ModelClient interface {
	Name() string
	Interpret(context.Context, InterpretRequest) (InterpretResponse, error)
}

// InterpretationOutcome is what the utterance interpreter settles on: either a
// command (with its provenance) or a clarification request.
type InterpretationOutcome struct {
	Command       domain.Command
	Structured    *InterpretResponse
	Source        string // "model", "rules", or "incremental"
	Clarification string
	Examples      []string
	FromCache     bool
}

// InterpretTask is one utterance handed to the interpreter, with per-call
// overrides. A zero Model means the interpreter's configured default.
type InterpretTask struct {
	Utterance    string
	Conversation *domain.ConversationContext
	Model        domain.ModelDefinition
	SkipCache    bool
}

// UtteranceInterpreter turns raw input into a command, consulting the external
// model first and degrading to rule-based parsing on any failure.
type UtteranceInterpreter interface {
	Interpret(ctx context.Context, task InterpretTask) (InterpretationOutcome, error)
}

// IntentParser is the deterministic rule-based extraction chain.
type IntentParser interface {
	Parse(utterance string) (domain.Command, bool)
}

// IncrementalResolver resolves referential utterances ("make it thicker",
// "another one") against conversation state without mutating it.
type IncrementalResolver interface {
	Resolve(utterance string, conv *domain.ConversationContext) (domain.Command, bool)
}

// ModelHost is the CAD-host collaborator: one operation per command kind.
// The core assumes nothing about the implementation beyond synchronous
// success/failure reporting. Implementations are a single logical session;
// callers must not overlap document-mutating operations.
type ModelHost interface {
	CreateDocument(ctx context.Context, name string) (domain.DocumentRef, error)
	CreateBox(ctx context.Context, doc domain.DocumentRef, cmd domain.CreateBox) (domain.FeatureRef, error)
	CreateCylinder(ctx context.Context, doc domain.DocumentRef, cmd domain.CreateCylinder) (domain.FeatureRef, error)
	AddExtrusion(ctx context.Context, doc domain.DocumentRef, cmd domain.AddExtrusion) (domain.FeatureRef, error)
	AddCut(ctx context.Context, doc domain.DocumentRef, cmd domain.AddCut) (domain.FeatureRef, error)
	AddFillet(ctx context.Context, doc domain.DocumentRef, cmd domain.AddFillet) (domain.FeatureRef, error)
	AddChamfer(ctx context.Context, doc domain.DocumentRef, cmd domain.AddChamfer) (domain.FeatureRef, error)
	AddHole(ctx context.Context, doc domain.DocumentRef, cmd domain.AddHole) (domain.FeatureRef, error)
	AddPattern(ctx context.Context, doc domain.DocumentRef, cmd domain.AddPattern) (domain.FeatureRef, error)
	ModifyDimension(ctx context.Context, doc domain.DocumentRef, cmd domain.ModifyDimension) error
	Save(ctx context.Context, doc domain.DocumentRef, path string) error
	Export(ctx context.Context, doc domain.DocumentRef, path, format string) error
	Close(ctx context.Context, doc domain.DocumentRef) error
	Undo(ctx context.Context, doc domain.DocumentRef) error
	Redo(ctx context.Context, doc domain.DocumentRef) error
	Info(ctx context.Context, doc domain.DocumentRef) (string, error)
}

// CommandExecutor dispatches approved commands to the model host, times them,
// and maintains undo/redo stacks plus the session history.
type CommandExecutor interface {
	Execute(ctx context.Context, cmd domain.Command, userInput string) domain.CommandResult
	Undo(ctx context.Context) domain.CommandResult
	Redo(ctx context.Context) domain.CommandResult
	UndoDepth() int
	RedoDepth() int
	History() []domain.HistoryEntry
	ActiveDocument() (domain.DocumentRef, bool)
}

// PreviewService converts a candidate command into planned actions with risk
// classification, and retains a bounded history of completed previews.
type PreviewService interface {
	Generate(input string, cmd domain.Command, structured *InterpretResponse) domain.CommandPreview
	Record(preview domain.CommandPreview)
	History() []domain.CommandPreview
}

// HistoryStore persists executed command records across sessions.
type HistoryStore interface {
	Save(domain.HistoryEntry) error
	Records() ([]domain.HistoryEntry, error)
	Search(term string, limit int) ([]domain.HistoryEntry, error)
	Clear() error
}

// InterpretationCache stores structured responses keyed by utterance+context hash.
type InterpretationCache interface {
	Get(key string) (domain.InterpretationCacheEntry, bool, error)
	Set(domain.InterpretationCacheEntry) error
	Clear() error
}

// ConfirmationPrompter handles interactive user confirmations for risky or
// low-confidence previews.
type ConfirmationPrompter interface {
	Confirm(preview domain.CommandPreview, cmd domain.Command) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}

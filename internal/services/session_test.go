package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

type stubConfig struct {
	cfg domain.Config
	err error
}

func (s *stubConfig) Load(context.Context) (domain.Config, error) {
	return s.cfg, s.err
}

type stubInterpreter struct {
	outcome ports.InterpretationOutcome
	err     error
	last    ports.InterpretTask
	calls   int
}

func (s *stubInterpreter) Interpret(_ context.Context, task ports.InterpretTask) (ports.InterpretationOutcome, error) {
	s.calls++
	s.last = task
	return s.outcome, s.err
}

type stubResolver struct {
	cmd domain.Command
}

func (s *stubResolver) Resolve(string, *domain.ConversationContext) (domain.Command, bool) {
	return s.cmd, s.cmd != nil
}

type stubPreviewer struct {
	preview  domain.CommandPreview
	recorded []domain.CommandPreview
}

func (s *stubPreviewer) Generate(input string, _ domain.Command, _ *ports.InterpretResponse) domain.CommandPreview {
	p := s.preview
	p.OriginalInput = input
	return p
}

func (s *stubPreviewer) Record(p domain.CommandPreview) {
	s.recorded = append(s.recorded, p)
}

func (s *stubPreviewer) History() []domain.CommandPreview { return s.recorded }

type stubExecutor struct {
	result   domain.CommandResult
	executed []domain.Command
	doc      domain.DocumentRef
	undone   int
	redone   int
}

func (s *stubExecutor) Execute(_ context.Context, cmd domain.Command, _ string) domain.CommandResult {
	s.executed = append(s.executed, cmd)
	return s.result
}

func (s *stubExecutor) Undo(context.Context) domain.CommandResult {
	s.undone++
	return domain.CommandResult{Success: true, Message: "undone"}
}

func (s *stubExecutor) Redo(context.Context) domain.CommandResult {
	s.redone++
	return domain.CommandResult{Success: true, Message: "redone"}
}

func (s *stubExecutor) UndoDepth() int                             { return 0 }
func (s *stubExecutor) RedoDepth() int                             { return 0 }
func (s *stubExecutor) History() []domain.HistoryEntry             { return nil }
func (s *stubExecutor) ActiveDocument() (domain.DocumentRef, bool) { return s.doc, s.doc != "" }

type stubPrompter struct {
	answer  bool
	err     error
	enabled bool
	asked   int
}

func (s *stubPrompter) Confirm(domain.CommandPreview, domain.Command) (bool, error) {
	s.asked++
	return s.answer, s.err
}

func (s *stubPrompter) Enabled() bool { return s.enabled }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func safePreview() domain.CommandPreview {
	return domain.CommandPreview{
		ID:         uuid.New(),
		Risk:       domain.RiskLow,
		Confidence: 0.95,
	}
}

func sessionBox() domain.CreateBox {
	return domain.CreateBox{
		Meta:   domain.NewMeta(),
		Name:   "Box1",
		Width:  domain.NewDimension(10, domain.UnitInch),
		Length: domain.NewDimension(20, domain.UnitInch),
		Height: domain.NewDimension(5, domain.UnitInch),
	}
}

type fixture struct {
	session     *Session
	interpreter *stubInterpreter
	previewer   *stubPreviewer
	executor    *stubExecutor
	prompter    *stubPrompter
	conv        *domain.ConversationContext
}

func newFixture(cfg domain.Config) *fixture {
	f := &fixture{
		interpreter: &stubInterpreter{},
		previewer:   &stubPreviewer{preview: safePreview()},
		executor:    &stubExecutor{result: domain.CommandResult{Success: true, Message: "done"}},
		prompter:    &stubPrompter{enabled: true, answer: true},
		conv:        domain.NewConversationContext(domain.UnitInch),
	}
	f.session = &Session{
		ConfigProvider: &stubConfig{cfg: cfg},
		Interpreter:    f.interpreter,
		Previewer:      f.previewer,
		Executor:       f.executor,
		Prompter:       f.prompter,
		Conversation:   f.conv,
		Logger:         nopLogger{},
	}
	return f
}

func TestRunAutoExecuteSafe(t *testing.T) {
	cfg := domain.Config{}
	cfg.Preferences.AutoExecuteSafe = true

	f := newFixture(cfg)
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "rules"}
	f.executor.doc = "doc-1"

	resp, err := f.session.Run(domain.Request{Utterance: "create a box 10 x 20 x 5"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Result == nil || !resp.Result.Success {
		t.Fatalf("Result = %+v", resp.Result)
	}
	if f.prompter.asked != 0 {
		t.Fatal("qualifying preview must not prompt")
	}
	if len(f.executor.executed) != 1 {
		t.Fatalf("executed %d commands", len(f.executor.executed))
	}
	if len(f.previewer.recorded) != 1 {
		t.Fatal("preview must be recorded")
	}
	if rec := f.previewer.recorded[0]; !rec.Executed || rec.Cancelled {
		t.Fatalf("recorded preview flags = executed %v cancelled %v", rec.Executed, rec.Cancelled)
	}
	if !resp.Preview.Executed {
		t.Fatal("response preview must be marked executed")
	}
	if _, ok := f.conv.LastCommand(); !ok {
		t.Fatal("successful execution must update the conversation")
	}
}

func TestRunPreviewOnly(t *testing.T) {
	f := newFixture(domain.Config{})
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "rules"}

	resp, err := f.session.Run(domain.Request{Utterance: "create a box", PreviewOnly: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Result != nil {
		t.Fatal("preview-only must not execute")
	}
	if len(f.executor.executed) != 0 {
		t.Fatal("executor must not be reached")
	}
	if len(f.previewer.recorded) != 1 {
		t.Fatal("preview must still be recorded")
	}
}

func TestRunPrompterDeclines(t *testing.T) {
	f := newFixture(domain.Config{})
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "rules"}
	f.prompter.answer = false

	resp, err := f.session.Run(domain.Request{Utterance: "create a box"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Result != nil || len(f.executor.executed) != 0 {
		t.Fatal("declined confirmation must not execute")
	}
	if f.prompter.asked != 1 {
		t.Fatalf("asked = %d", f.prompter.asked)
	}
	if len(f.previewer.recorded) != 1 {
		t.Fatal("declined preview must still be recorded")
	}
	if rec := f.previewer.recorded[0]; !rec.Cancelled || rec.Executed {
		t.Fatalf("recorded preview flags = executed %v cancelled %v", rec.Executed, rec.Cancelled)
	}
}

func TestRunNonInteractiveStaysPreview(t *testing.T) {
	f := newFixture(domain.Config{})
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "rules"}
	f.prompter.enabled = false

	resp, err := f.session.Run(domain.Request{Utterance: "create a box"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Result != nil {
		t.Fatal("non-interactive run without auto-execute must stay a preview")
	}
	if f.prompter.asked != 0 {
		t.Fatal("disabled prompter must not be asked")
	}
	if rec := f.previewer.recorded[0]; rec.Executed || rec.Cancelled {
		t.Fatalf("standing preview must record neither flag, got executed %v cancelled %v", rec.Executed, rec.Cancelled)
	}
}

func TestRunClarificationSetsPending(t *testing.T) {
	f := newFixture(domain.Config{})
	f.interpreter.outcome = ports.InterpretationOutcome{
		Source:        "model",
		Clarification: "How wide should it be?",
		Examples:      []string{"create a box 10 x 20 x 5 inches"},
	}

	resp, err := f.session.Run(domain.Request{Utterance: "make a box"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !resp.NeedsClarification() {
		t.Fatal("expected a clarification response")
	}
	if resp.Clarification != "How wide should it be?" || len(resp.Examples) == 0 {
		t.Fatalf("resp = %+v", resp)
	}
	if q, ok := f.conv.PendingClarification(); !ok || q != "How wide should it be?" {
		t.Fatalf("pending clarification = %q, %v", q, ok)
	}
	if len(f.previewer.recorded) != 0 {
		t.Fatal("no preview for a clarification")
	}
}

func TestRunIncrementalResolverWinsTheRace(t *testing.T) {
	f := newFixture(domain.Config{})
	mod := domain.ModifyDimension{
		Meta:         domain.NewMeta(),
		Target:       domain.DimWidth,
		Modification: domain.ModMultiplyBy,
		Factor:       2,
	}
	f.session.Resolver = &stubResolver{cmd: mod}

	resp, err := f.session.Run(domain.Request{Utterance: "double the width", PreviewOnly: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Source != "incremental" {
		t.Fatalf("Source = %q", resp.Source)
	}
	if f.interpreter.calls != 0 {
		t.Fatal("resolver hit must bypass the interpreter")
	}
}

func TestRunModelOverride(t *testing.T) {
	cfg := domain.Config{
		Models: []domain.ModelDefinition{
			{Name: "fast", Endpoint: "http://localhost/fast"},
		},
	}
	f := newFixture(cfg)
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "model"}

	if _, err := f.session.Run(domain.Request{
		Utterance:     "create a box",
		ModelOverride: "fast",
		PreviewOnly:   true,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.interpreter.last.Model.Name != "fast" {
		t.Fatalf("task model = %q", f.interpreter.last.Model.Name)
	}

	if _, err := f.session.Run(domain.Request{
		Utterance:     "create a box",
		ModelOverride: "missing",
	}); err == nil {
		t.Fatal("unknown model override must fail")
	}
}

func TestRunNoCachePropagates(t *testing.T) {
	f := newFixture(domain.Config{})
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "model"}

	if _, err := f.session.Run(domain.Request{
		Utterance:   "create a box",
		NoCache:     true,
		PreviewOnly: true,
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !f.interpreter.last.SkipCache {
		t.Fatal("NoCache must reach the interpreter")
	}
}

func TestRunFailedExecutionLeavesConversation(t *testing.T) {
	cfg := domain.Config{}
	cfg.Preferences.AutoExecuteSafe = true

	f := newFixture(cfg)
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "rules"}
	f.executor.result = domain.CommandResult{Success: false, Message: "host down"}

	resp, err := f.session.Run(domain.Request{Utterance: "create a box"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Result == nil || resp.Result.Success {
		t.Fatalf("Result = %+v", resp.Result)
	}
	if _, ok := f.conv.LastCommand(); ok {
		t.Fatal("failed execution must not update the conversation")
	}
	if rec := f.previewer.recorded[0]; !rec.Executed {
		t.Fatal("a dispatched command records its preview as executed even when the host fails")
	}
}

func TestRunEmptyUtterance(t *testing.T) {
	f := newFixture(domain.Config{})
	if _, err := f.session.Run(domain.Request{Utterance: "   "}); err == nil {
		t.Fatal("blank utterance must fail")
	}
}

func TestRunConfigLoadFailure(t *testing.T) {
	f := newFixture(domain.Config{})
	f.session.ConfigProvider = &stubConfig{err: errors.New("yaml broken")}

	if _, err := f.session.Run(domain.Request{Utterance: "create a box"}); err == nil {
		t.Fatal("config failure must surface")
	}
}

func TestRunRegistersCreatedEntity(t *testing.T) {
	cfg := domain.Config{}
	cfg.Preferences.AutoExecuteSafe = true

	f := newFixture(cfg)
	f.interpreter.outcome = ports.InterpretationOutcome{Command: sessionBox(), Source: "rules"}
	f.executor.result = domain.CommandResult{
		Success: true,
		Message: "created",
		Data:    map[string]interface{}{"feature_name": "Box1", "feature_id": "f-1"},
	}

	if _, err := f.session.Run(domain.Request{Utterance: "create a box"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	ref, ok := f.conv.LookupEntity("Box1")
	if !ok || ref.Feature.ID != "f-1" {
		t.Fatalf("entity = %+v, %v", ref, ok)
	}
}

func TestUndoRedoDelegate(t *testing.T) {
	f := newFixture(domain.Config{})

	if _, err := f.session.Undo(context.Background()); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, err := f.session.Redo(context.Background()); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if f.executor.undone != 1 || f.executor.redone != 1 {
		t.Fatalf("undone=%d redone=%d", f.executor.undone, f.executor.redone)
	}
}

// Package executor dispatches approved commands to the model host, one at a
// time, and maintains the session's undo/redo stacks and history.
//
// Undo does not synthesize a geometric inverse: it pops the command off the
// undo stack and delegates to the host's native Undo operation. A host that
// refuses leaves the stack exactly as it was.
package executor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/parser"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// Executor implements ports.CommandExecutor. The mutex serializes command
// execution against the single logical host session and guards the stacks
// and history against concurrent reads.
type Executor struct {
	host   ports.ModelHost
	store  ports.HistoryStore
	logger ports.Logger

	mu      sync.Mutex
	doc     domain.DocumentRef
	undo    []domain.Command
	redo    []domain.Command
	history []domain.HistoryEntry
}

// New builds an executor. The history store is optional; when present every
// executed command is also persisted, best-effort.
func New(host ports.ModelHost, store ports.HistoryStore, logger ports.Logger) *Executor {
	return &Executor{host: host, store: store, logger: logger}
}

// Execute runs one approved command against the host. Collaborator failures
// are wrapped into the result, never propagated as raw errors; a failed
// execution mutates neither the stacks nor the history.
func (e *Executor) Execute(ctx context.Context, cmd domain.Command, userInput string) domain.CommandResult {
	if cmd == nil {
		return failed("no command to execute", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Undo/redo arriving as parsed commands route to the stack operations.
	switch cmd.Kind() {
	case domain.KindUndo:
		return e.Undo(ctx)
	case domain.KindRedo:
		return e.Redo(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	message, data, err := e.dispatch(ctx, cmd)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		e.logWarn("command failed", cmd, err)
		result := failed(fmt.Sprintf("%s failed", cmd.Describe()), err)
		result.ExecutionTimeMS = elapsed
		return result
	}

	entry := domain.HistoryEntry{
		ID:              cmd.ID(),
		ExecutedAt:      time.Now(),
		UserInput:       userInput,
		CommandKind:     cmd.Kind(),
		Description:     cmd.Describe(),
		Success:         true,
		ResultMessage:   message,
		ExecutionTimeMS: elapsed,
		Undoable:        cmd.Undoable(),
	}
	e.history = append(e.history, entry)
	if e.store != nil {
		if err := e.store.Save(entry); err != nil {
			e.logWarn("history persist failed", cmd, err)
		}
	}

	if cmd.Undoable() {
		e.undo = append(e.undo, cmd)
		// New work invalidates prior redo history.
		e.redo = nil
	}

	return domain.CommandResult{
		Success:         true,
		Message:         message,
		Data:            data,
		ExecutionTimeMS: elapsed,
	}
}

// dispatch is the exhaustive mapping from command kinds to host operations.
// Callers hold the mutex.
func (e *Executor) dispatch(ctx context.Context, cmd domain.Command) (string, map[string]interface{}, error) {
	switch c := cmd.(type) {
	case domain.CreatePart:
		doc, err := e.host.CreateDocument(ctx, c.Name)
		if err != nil {
			return "", nil, err
		}
		e.doc = doc
		return fmt.Sprintf("Created part %q", c.Name), map[string]interface{}{"document": string(doc)}, nil

	case domain.CreateBox:
		doc, err := e.ensureDocument(ctx, "")
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.CreateBox(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Created %s (%s x %s x %s)", ref.Name, c.Width, c.Length, c.Height), featureData(ref), nil

	case domain.CreateCylinder:
		doc, err := e.ensureDocument(ctx, "")
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.CreateCylinder(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Created %s (%s diameter, %s tall)", ref.Name, c.Diameter, c.Height), featureData(ref), nil

	case domain.AddExtrusion:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.AddExtrusion(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Extruded %s", c.Depth), featureData(ref), nil

	case domain.AddCut:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.AddCut(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return c.Describe(), featureData(ref), nil

	case domain.AddFillet:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.AddFillet(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Added %s fillet", c.Radius), featureData(ref), nil

	case domain.AddChamfer:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.AddChamfer(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Added %s chamfer", c.Distance), featureData(ref), nil

	case domain.AddHole:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.AddHole(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return c.Describe(), featureData(ref), nil

	case domain.AddPattern:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		ref, err := e.host.AddPattern(ctx, doc, c)
		if err != nil {
			return "", nil, err
		}
		return c.Describe(), featureData(ref), nil

	case domain.ModifyDimension:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		if err := e.host.ModifyDimension(ctx, doc, c); err != nil {
			return "", nil, err
		}
		return c.Describe(), nil, nil

	case domain.SavePart:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		if err := e.host.Save(ctx, doc, c.Path); err != nil {
			return "", nil, err
		}
		return "Part saved", nil, nil

	case domain.ExportPart:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		if err := e.host.Export(ctx, doc, c.Path, c.Format); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Exported as %s", c.Format), nil, nil

	case domain.ClosePart:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		if err := e.host.Close(ctx, doc); err != nil {
			return "", nil, err
		}
		e.doc = ""
		e.undo = nil
		e.redo = nil
		return "Part closed", nil, nil

	case domain.ShowInfo:
		doc, err := e.requireDocument()
		if err != nil {
			return "", nil, err
		}
		info, err := e.host.Info(ctx, doc)
		if err != nil {
			return "", nil, err
		}
		return info, nil, nil

	case domain.HelpCommand:
		return "Try one of:\n  " + strings.Join(parser.HelpExamples(), "\n  "), nil, nil

	default:
		return "", nil, fmt.Errorf("unsupported command kind %s", cmd.Kind())
	}
}

// Undo pops the most recent undoable command and delegates to the host's
// native undo. An empty stack is reported, not fatal.
func (e *Executor) Undo(ctx context.Context) domain.CommandResult {
	if ctx == nil {
		ctx = context.Background()
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.undo) == 0 {
		return failed("nothing to undo", nil)
	}
	cmd := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	if err := e.host.Undo(ctx, e.doc); err != nil {
		// Host refused; restore the stack.
		e.undo = append(e.undo, cmd)
		return failed(fmt.Sprintf("undo of %s failed", cmd.Describe()), err)
	}

	e.redo = append(e.redo, cmd)
	e.markUndone(cmd.ID(), true)
	return domain.CommandResult{Success: true, Message: fmt.Sprintf("Undid: %s", cmd.Describe())}
}

// Redo reapplies the most recently undone command via the host's native redo.
func (e *Executor) Redo(ctx context.Context) domain.CommandResult {
	if ctx == nil {
		ctx = context.Background()
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.redo) == 0 {
		return failed("nothing to redo", nil)
	}
	cmd := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]

	if err := e.host.Redo(ctx, e.doc); err != nil {
		e.redo = append(e.redo, cmd)
		return failed(fmt.Sprintf("redo of %s failed", cmd.Describe()), err)
	}

	e.undo = append(e.undo, cmd)
	e.markUndone(cmd.ID(), false)
	return domain.CommandResult{Success: true, Message: fmt.Sprintf("Redid: %s", cmd.Describe())}
}

// UndoDepth reports the undo stack size.
func (e *Executor) UndoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undo)
}

// RedoDepth reports the redo stack size.
func (e *Executor) RedoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.redo)
}

// History returns a copy of the session's executed commands, oldest first.
func (e *Executor) History() []domain.HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.HistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// ActiveDocument returns the current document handle.
func (e *Executor) ActiveDocument() (domain.DocumentRef, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc, e.doc != ""
}

func (e *Executor) ensureDocument(ctx context.Context, name string) (domain.DocumentRef, error) {
	if e.doc != "" {
		return e.doc, nil
	}
	if name == "" {
		name = "Part1"
	}
	doc, err := e.host.CreateDocument(ctx, name)
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	e.doc = doc
	return doc, nil
}

func (e *Executor) requireDocument() (domain.DocumentRef, error) {
	if e.doc == "" {
		return "", fmt.Errorf("no active part; create one first")
	}
	return e.doc, nil
}

func (e *Executor) markUndone(id uuid.UUID, undone bool) {
	for i := len(e.history) - 1; i >= 0; i-- {
		if e.history[i].ID == id {
			e.history[i].Undone = undone
			return
		}
	}
}

func (e *Executor) logWarn(msg string, cmd domain.Command, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(msg, map[string]interface{}{
		"kind":  string(cmd.Kind()),
		"error": err.Error(),
	})
}

func failed(message string, err error) domain.CommandResult {
	result := domain.CommandResult{Success: false, Message: message}
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func featureData(ref domain.FeatureRef) map[string]interface{} {
	return map[string]interface{}{"feature_id": ref.ID, "feature_name": ref.Name}
}

var _ ports.CommandExecutor = (*Executor)(nil)

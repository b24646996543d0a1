package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

// stubHost records calls and fails on demand. Every feature operation hands
// back a numbered ref.
type stubHost struct {
	calls    []string
	failNext error
	undoErr  error
	redoErr  error
	refs     int
}

func (h *stubHost) note(op string) error {
	h.calls = append(h.calls, op)
	if h.failNext != nil {
		err := h.failNext
		h.failNext = nil
		return err
	}
	return nil
}

func (h *stubHost) nextRef(name string) domain.FeatureRef {
	h.refs++
	return domain.FeatureRef{ID: fmt.Sprintf("f-%d", h.refs), Name: name}
}

func (h *stubHost) CreateDocument(_ context.Context, name string) (domain.DocumentRef, error) {
	if err := h.note("create_document"); err != nil {
		return "", err
	}
	return domain.DocumentRef(name), nil
}

func (h *stubHost) CreateBox(_ context.Context, _ domain.DocumentRef, cmd domain.CreateBox) (domain.FeatureRef, error) {
	if err := h.note("create_box"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef(cmd.Name), nil
}

func (h *stubHost) CreateCylinder(_ context.Context, _ domain.DocumentRef, cmd domain.CreateCylinder) (domain.FeatureRef, error) {
	if err := h.note("create_cylinder"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef(cmd.Name), nil
}

func (h *stubHost) AddExtrusion(_ context.Context, _ domain.DocumentRef, _ domain.AddExtrusion) (domain.FeatureRef, error) {
	if err := h.note("add_extrusion"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef("Pad"), nil
}

func (h *stubHost) AddCut(_ context.Context, _ domain.DocumentRef, _ domain.AddCut) (domain.FeatureRef, error) {
	if err := h.note("add_cut"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef("Cut"), nil
}

func (h *stubHost) AddFillet(_ context.Context, _ domain.DocumentRef, _ domain.AddFillet) (domain.FeatureRef, error) {
	if err := h.note("add_fillet"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef("Fillet"), nil
}

func (h *stubHost) AddChamfer(_ context.Context, _ domain.DocumentRef, _ domain.AddChamfer) (domain.FeatureRef, error) {
	if err := h.note("add_chamfer"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef("Chamfer"), nil
}

func (h *stubHost) AddHole(_ context.Context, _ domain.DocumentRef, _ domain.AddHole) (domain.FeatureRef, error) {
	if err := h.note("add_hole"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef("Hole"), nil
}

func (h *stubHost) AddPattern(_ context.Context, _ domain.DocumentRef, _ domain.AddPattern) (domain.FeatureRef, error) {
	if err := h.note("add_pattern"); err != nil {
		return domain.FeatureRef{}, err
	}
	return h.nextRef("Pattern"), nil
}

func (h *stubHost) ModifyDimension(_ context.Context, _ domain.DocumentRef, _ domain.ModifyDimension) error {
	return h.note("modify_dimension")
}

func (h *stubHost) Save(_ context.Context, _ domain.DocumentRef, _ string) error {
	return h.note("save")
}

func (h *stubHost) Export(_ context.Context, _ domain.DocumentRef, _, _ string) error {
	return h.note("export")
}

func (h *stubHost) Close(_ context.Context, _ domain.DocumentRef) error {
	return h.note("close")
}

func (h *stubHost) Undo(_ context.Context, _ domain.DocumentRef) error {
	h.calls = append(h.calls, "undo")
	return h.undoErr
}

func (h *stubHost) Redo(_ context.Context, _ domain.DocumentRef) error {
	h.calls = append(h.calls, "redo")
	return h.redoErr
}

func (h *stubHost) Info(_ context.Context, _ domain.DocumentRef) (string, error) {
	if err := h.note("info"); err != nil {
		return "", err
	}
	return "Part1: empty", nil
}

type stubStore struct {
	saved []domain.HistoryEntry
	err   error
}

func (s *stubStore) Save(entry domain.HistoryEntry) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, entry)
	return nil
}

func (s *stubStore) Records() ([]domain.HistoryEntry, error) { return s.saved, nil }
func (s *stubStore) Search(string, int) ([]domain.HistoryEntry, error) {
	return nil, nil
}
func (s *stubStore) Clear() error { return nil }

func testBox() domain.CreateBox {
	return domain.CreateBox{
		Meta:   domain.NewMeta(),
		Name:   "Box1",
		Width:  domain.NewDimension(10, domain.UnitMillimeter),
		Length: domain.NewDimension(20, domain.UnitMillimeter),
		Height: domain.NewDimension(5, domain.UnitMillimeter),
	}
}

func TestExecuteAutoCreatesDocument(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	result := e.Execute(context.Background(), testBox(), "create a box")
	if !result.Success {
		t.Fatalf("Execute failed: %s / %s", result.Message, result.Error)
	}
	if doc, ok := e.ActiveDocument(); !ok || doc != "Part1" {
		t.Fatalf("ActiveDocument = %q, %v", doc, ok)
	}
	if result.Data["feature_name"] != "Box1" {
		t.Fatalf("Data = %v", result.Data)
	}
	want := []string{"create_document", "create_box"}
	if len(host.calls) != len(want) || host.calls[0] != want[0] || host.calls[1] != want[1] {
		t.Fatalf("calls = %v", host.calls)
	}
}

func TestExecuteFeatureRequiresDocument(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	result := e.Execute(context.Background(), domain.AddFillet{
		Meta:   domain.NewMeta(),
		Radius: domain.NewDimension(3, domain.UnitMillimeter),
	}, "fillet the edges")
	if result.Success {
		t.Fatal("feature op without a document must fail")
	}
	if len(host.calls) != 0 {
		t.Fatalf("host must not be reached: %v", host.calls)
	}
	if e.UndoDepth() != 0 || len(e.History()) != 0 {
		t.Fatal("failed execution must not touch stacks or history")
	}
}

func TestExecuteFailureMutatesNothing(t *testing.T) {
	host := &stubHost{}
	store := &stubStore{}
	e := New(host, store, nil)

	e.Execute(context.Background(), testBox(), "create a box")
	depth := e.UndoDepth()

	host.failNext = errors.New("host rejected geometry")
	result := e.Execute(context.Background(), domain.AddHole{
		Meta:     domain.NewMeta(),
		Diameter: domain.NewDimension(5, domain.UnitMillimeter),
	}, "drill a hole")
	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error == "" {
		t.Fatal("failure must carry the host error")
	}
	if e.UndoDepth() != depth {
		t.Fatalf("UndoDepth = %d, want %d", e.UndoDepth(), depth)
	}
	if len(store.saved) != 1 {
		t.Fatalf("store.saved = %d entries, want only the successful one", len(store.saved))
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	e.Execute(context.Background(), testBox(), "create a box")
	if e.UndoDepth() != 1 {
		t.Fatalf("UndoDepth = %d", e.UndoDepth())
	}

	result := e.Undo(context.Background())
	if !result.Success {
		t.Fatalf("Undo failed: %s", result.Message)
	}
	if e.UndoDepth() != 0 || e.RedoDepth() != 1 {
		t.Fatalf("depths after undo: undo=%d redo=%d", e.UndoDepth(), e.RedoDepth())
	}

	hist := e.History()
	if len(hist) != 1 || !hist[0].Undone {
		t.Fatalf("history entry not marked undone: %+v", hist)
	}

	result = e.Redo(context.Background())
	if !result.Success {
		t.Fatalf("Redo failed: %s", result.Message)
	}
	if e.UndoDepth() != 1 || e.RedoDepth() != 0 {
		t.Fatalf("depths after redo: undo=%d redo=%d", e.UndoDepth(), e.RedoDepth())
	}
	if hist = e.History(); hist[0].Undone {
		t.Fatal("redo must clear the undone flag")
	}
}

func TestUndoEmptyStack(t *testing.T) {
	e := New(&stubHost{}, nil, nil)

	if result := e.Undo(context.Background()); result.Success {
		t.Fatal("undo on empty stack must fail")
	}
	if result := e.Redo(context.Background()); result.Success {
		t.Fatal("redo on empty stack must fail")
	}
}

func TestUndoHostRefusalRestoresStack(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	e.Execute(context.Background(), testBox(), "create a box")

	host.undoErr = errors.New("undo unavailable")
	result := e.Undo(context.Background())
	if result.Success {
		t.Fatal("expected undo failure")
	}
	if e.UndoDepth() != 1 || e.RedoDepth() != 0 {
		t.Fatalf("stack not restored: undo=%d redo=%d", e.UndoDepth(), e.RedoDepth())
	}
	if hist := e.History(); hist[0].Undone {
		t.Fatal("failed undo must not mark the entry undone")
	}
}

func TestNewUndoableWorkClearsRedo(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	e.Execute(context.Background(), testBox(), "create a box")
	e.Undo(context.Background())
	if e.RedoDepth() != 1 {
		t.Fatalf("RedoDepth = %d", e.RedoDepth())
	}

	e.Execute(context.Background(), domain.AddHole{
		Meta:       domain.NewMeta(),
		Diameter:   domain.NewDimension(5, domain.UnitMillimeter),
		ThroughAll: true,
	}, "drill a hole")
	if e.RedoDepth() != 0 {
		t.Fatal("new undoable work must clear the redo stack")
	}
}

func TestExecuteRoutesUndoRedoKinds(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	e.Execute(context.Background(), testBox(), "create a box")

	result := e.Execute(context.Background(), domain.UndoCommand{Meta: domain.NewMeta()}, "undo")
	if !result.Success {
		t.Fatalf("routed undo failed: %s", result.Message)
	}
	if e.RedoDepth() != 1 {
		t.Fatalf("RedoDepth = %d", e.RedoDepth())
	}

	result = e.Execute(context.Background(), domain.RedoCommand{Meta: domain.NewMeta()}, "redo")
	if !result.Success {
		t.Fatalf("routed redo failed: %s", result.Message)
	}
}

func TestClosePartClearsSession(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	e.Execute(context.Background(), testBox(), "create a box")
	result := e.Execute(context.Background(), domain.ClosePart{Meta: domain.NewMeta()}, "close the part")
	if !result.Success {
		t.Fatalf("close failed: %s", result.Message)
	}
	if _, ok := e.ActiveDocument(); ok {
		t.Fatal("close must clear the active document")
	}
	if e.UndoDepth() != 0 || e.RedoDepth() != 0 {
		t.Fatal("close must clear both stacks")
	}
}

func TestExecuteNonUndoableSkipsStack(t *testing.T) {
	host := &stubHost{}
	e := New(host, nil, nil)

	e.Execute(context.Background(), testBox(), "create a box")
	depth := e.UndoDepth()

	result := e.Execute(context.Background(), domain.SavePart{Meta: domain.NewMeta(), Path: "p.fcstd"}, "save")
	if !result.Success {
		t.Fatalf("save failed: %s", result.Message)
	}
	if e.UndoDepth() != depth {
		t.Fatal("non-undoable command must not grow the undo stack")
	}

	hist := e.History()
	if len(hist) != 2 || hist[1].Undoable {
		t.Fatalf("history = %+v", hist)
	}
}

func TestExecuteHelpWithoutDocument(t *testing.T) {
	e := New(&stubHost{}, nil, nil)

	result := e.Execute(context.Background(), domain.HelpCommand{Meta: domain.NewMeta()}, "help")
	if !result.Success || result.Message == "" {
		t.Fatalf("help result = %+v", result)
	}
}

func TestHistoryPersistFailureIsNonFatal(t *testing.T) {
	store := &stubStore{err: errors.New("disk full")}
	e := New(&stubHost{}, store, nil)

	result := e.Execute(context.Background(), testBox(), "create a box")
	if !result.Success {
		t.Fatal("store failure must not fail the command")
	}
	if len(e.History()) != 1 {
		t.Fatal("in-memory history must still record the command")
	}
}

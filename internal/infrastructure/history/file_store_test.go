package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cadvoice-go/internal/domain"
)

func tempFileStore(t *testing.T) *FileStore {
	t.Helper()
	return &FileStore{path: filepath.Join(t.TempDir(), "history.jsonl")}
}

func entryAt(t *testing.T, when time.Time, input, description string) domain.HistoryEntry {
	t.Helper()
	return domain.HistoryEntry{
		ID:            uuid.New(),
		ExecutedAt:    when,
		UserInput:     input,
		CommandKind:   domain.KindCreateBox,
		Description:   description,
		Success:       true,
		ResultMessage: "ok",
		Undoable:      true,
	}
}

func TestFileStoreSaveAndRecords(t *testing.T) {
	store := tempFileStore(t)
	base := time.Now().Add(-time.Hour)

	first := entryAt(t, base, "create a box", "Create box Box1")
	second := entryAt(t, base.Add(time.Minute), "drill a hole", "Add hole")
	for _, e := range []domain.HistoryEntry{first, second} {
		if err := store.Save(e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := store.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d", len(records))
	}
	if records[0].ID != first.ID || records[1].ID != second.ID {
		t.Fatal("records must come back oldest first")
	}
	if records[0].UserInput != "create a box" || !records[0].Success {
		t.Fatalf("entry round trip: %+v", records[0])
	}
}

func TestFileStoreSearch(t *testing.T) {
	store := tempFileStore(t)
	base := time.Now().Add(-time.Hour)

	store.Save(entryAt(t, base, "create a box", "Create box"))
	store.Save(entryAt(t, base.Add(time.Minute), "drill a HOLE", "Add hole"))
	store.Save(entryAt(t, base.Add(2*time.Minute), "another hole please", "Add hole"))

	matches, err := store.Search("hole", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len = %d, want case-insensitive matches", len(matches))
	}
	if matches[0].UserInput != "another hole please" {
		t.Fatal("search results must come back newest first")
	}

	matches, _ = store.Search("hole", 1)
	if len(matches) != 1 {
		t.Fatalf("limit ignored: %d results", len(matches))
	}

	matches, _ = store.Search("", 0)
	if len(matches) != 3 {
		t.Fatalf("empty term must match everything, got %d", len(matches))
	}
}

func TestFileStoreEmptyAndClear(t *testing.T) {
	store := tempFileStore(t)

	records, err := store.Records()
	if err != nil || len(records) != 0 {
		t.Fatalf("fresh store: %v, %v", records, err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on missing file: %v", err)
	}

	store.Save(entryAt(t, time.Now(), "create a box", "Create box"))
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, _ = store.Records()
	if len(records) != 0 {
		t.Fatal("Clear must remove all entries")
	}
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	store := tempFileStore(t)
	store.Save(entryAt(t, time.Now(), "create a box", "Create box"))

	if err := appendRaw(store.path, "{not json}\n"); err != nil {
		t.Fatalf("appendRaw: %v", err)
	}
	store.Save(entryAt(t, time.Now(), "drill a hole", "Add hole"))

	records, err := store.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d, corrupt line must be skipped", len(records))
	}
}

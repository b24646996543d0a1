package history

import (
	"bufio"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func appendRaw(path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

func tempSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := tempSQLiteStore(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	first := entryAt(t, base, "create a box", "Create box Box1")
	second := entryAt(t, base.Add(time.Minute), "drill a hole", "Add hole")
	if err := store.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	records, err := store.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len = %d", len(records))
	}
	got := records[0]
	if got.ID != first.ID || got.UserInput != "create a box" || !got.Success || !got.Undoable {
		t.Fatalf("round trip: %+v", got)
	}
	if !got.ExecutedAt.Truncate(time.Second).Equal(base) {
		t.Fatalf("ExecutedAt = %v, want %v", got.ExecutedAt, base)
	}
}

func TestSQLiteStoreSaveIsUpsert(t *testing.T) {
	store := tempSQLiteStore(t)

	entry := entryAt(t, time.Now(), "create a box", "Create box")
	store.Save(entry)

	entry.Undone = true
	if err := store.Save(entry); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	records, _ := store.Records()
	if len(records) != 1 {
		t.Fatalf("len = %d, same id must replace", len(records))
	}
	if !records[0].Undone {
		t.Fatal("updated flags must persist")
	}
}

func TestSQLiteStoreSearch(t *testing.T) {
	store := tempSQLiteStore(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	store.Save(entryAt(t, base, "create a box", "Create box"))
	store.Save(entryAt(t, base.Add(time.Minute), "drill a hole", "Add hole"))
	store.Save(entryAt(t, base.Add(2*time.Minute), "one more hole", "Add hole"))

	matches, err := store.Search("hole", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len = %d", len(matches))
	}
	if matches[0].UserInput != "one more hole" {
		t.Fatal("search must return newest first")
	}

	matches, _ = store.Search("", 2)
	if len(matches) != 2 {
		t.Fatalf("limit ignored: %d", len(matches))
	}
}

func TestSQLiteStoreClearAndPrune(t *testing.T) {
	store := tempSQLiteStore(t)

	store.Save(entryAt(t, time.Now().AddDate(0, 0, -60), "old command", "Old"))
	store.Save(entryAt(t, time.Now(), "new command", "New"))

	if err := store.Prune(30); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	records, _ := store.Records()
	if len(records) != 1 || records[0].UserInput != "new command" {
		t.Fatalf("after prune: %+v", records)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	records, _ = store.Records()
	if len(records) != 0 {
		t.Fatal("Clear must empty the table")
	}
}

func TestSQLiteStoreExportJSON(t *testing.T) {
	store := tempSQLiteStore(t)
	store.Save(entryAt(t, time.Now(), "create a box", "Create box"))
	store.Save(entryAt(t, time.Now(), "drill a hole", "Add hole"))

	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	f, err := os.Open(dest)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if !strings.HasPrefix(scanner.Text(), "{") {
			t.Fatalf("line %d is not a JSON object: %q", lines, scanner.Text())
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("exported %d lines, want 2", lines)
	}
}

func TestSQLiteStoreFallbackWithoutDB(t *testing.T) {
	dir := t.TempDir()
	store := &SQLiteStore{path: filepath.Join(dir, "history.db")}

	entry := entryAt(t, time.Now(), "create a box", "Create box")
	if err := store.Save(entry); err != nil {
		t.Fatalf("fallback Save: %v", err)
	}
	records, err := store.Records()
	if err != nil || len(records) != 1 {
		t.Fatalf("fallback Records: %v, %v", records, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "history.jsonl")); err != nil {
		t.Fatalf("jsonl fallback file missing: %v", err)
	}
}

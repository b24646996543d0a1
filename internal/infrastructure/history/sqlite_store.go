package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/pkg/filesystem"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// SQLiteStore persists history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.cadvoice/history/history.db
// database. Open or schema failures degrade to the jsonl file store.
func NewSQLiteStore() *SQLiteStore {
	path := filepath.Join(filesystem.SettingsDir(), "history", "history.db")
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS commands (
		id TEXT PRIMARY KEY,
		executed_at TEXT,
		user_input TEXT,
		command_kind TEXT,
		description TEXT,
		success INTEGER,
		result_message TEXT,
		execution_time_ms INTEGER,
		undoable INTEGER,
		undone INTEGER
	);`)
	return err
}

// Save inserts a new entry.
func (s *SQLiteStore) Save(entry domain.HistoryEntry) error {
	if s.db == nil {
		return s.fallback().Save(entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO commands
		(id, executed_at, user_input, command_kind, description, success, result_message, execution_time_ms, undoable, undone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.ExecutedAt.Format(time.RFC3339),
		entry.UserInput,
		string(entry.CommandKind),
		entry.Description,
		boolToInt(entry.Success),
		entry.ResultMessage,
		entry.ExecutionTimeMS,
		boolToInt(entry.Undoable),
		boolToInt(entry.Undone),
	)
	return err
}

// Records returns all entries, oldest first.
func (s *SQLiteStore) Records() ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return s.fallback().Records()
	}
	return s.query("", 0, false)
}

// Search returns entries matching term, newest first, at most limit.
func (s *SQLiteStore) Search(term string, limit int) ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return s.fallback().Search(term, limit)
	}
	return s.query(term, limit, true)
}

func (s *SQLiteStore) query(term string, limit int, newestFirst bool) ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	builder := strings.Builder{}
	builder.WriteString("SELECT id, executed_at, user_input, command_kind, description, success, result_message, execution_time_ms, undoable, undone FROM commands")
	var args []interface{}
	if term != "" {
		builder.WriteString(" WHERE user_input LIKE ? OR description LIKE ?")
		args = append(args, "%"+term+"%", "%"+term+"%")
	}
	if newestFirst {
		builder.WriteString(" ORDER BY datetime(executed_at) DESC")
	} else {
		builder.WriteString(" ORDER BY datetime(executed_at) ASC")
	}
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var id, ts, kind string
		var success, undoable, undone int
		if err := rows.Scan(&id, &ts, &e.UserInput, &kind, &e.Description, &success, &e.ResultMessage, &e.ExecutionTimeMS, &undoable, &undone); err != nil {
			return nil, err
		}
		if parsed, err := uuid.Parse(id); err == nil {
			e.ID = parsed
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.ExecutedAt = t
		}
		e.CommandKind = domain.CommandKind(kind)
		e.Success = success == 1
		e.Undoable = undoable == 1
		e.Undone = undone == 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback().Clear()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM commands")
	return err
}

// Prune removes entries older than the retention window.
func (s *SQLiteStore) Prune(retainDays int) error {
	if s.db == nil || retainDays <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().AddDate(0, 0, -retainDays).Format(time.RFC3339)
	_, err := s.db.Exec("DELETE FROM commands WHERE datetime(executed_at) < datetime(?)", cutoff)
	return err
}

// ExportJSON writes the command table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	entries, err := s.Records()
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, e := range entries {
		b, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) fallback() *FileStore {
	return &FileStore{path: strings.TrimSuffix(s.path, ".db") + ".jsonl"}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryStore = (*SQLiteStore)(nil)

package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry captures executed command metadata for undo bookkeeping and display.
type HistoryEntry struct {
	ID              uuid.UUID   `json:"id"`
	ExecutedAt      time.Time   `json:"executed_at"`
	UserInput       string      `json:"user_input"`
	CommandKind     CommandKind `json:"command_kind"`
	Description     string      `json:"description"`
	Success         bool        `json:"success"`
	ResultMessage   string      `json:"result_message"`
	ExecutionTimeMS int64       `json:"execution_time_ms"`
	Undoable        bool        `json:"undoable"`
	Undone          bool        `json:"undone"`
}

// InterpretationCacheEntry stores cached structured-interpretation responses.
type InterpretationCacheEntry struct {
	Key       string    `json:"key"`
	Intent    string    `json:"intent"`
	Payload   []byte    `json:"payload"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultInterpreterTimeout bounds one structured-interpretation call
	DefaultInterpreterTimeout = 15 * time.Second
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultHostTimeout bounds one model-host operation
	DefaultHostTimeout = 30 * time.Second
)

// Conversation limits
const (
	// MaxRecentDimensions bounds the recently-mentioned dimension stack
	MaxRecentDimensions = 10
	// MaxContextTurns bounds the turns included in an interpreter summary
	MaxContextTurns = 5
	// MaxPreviewHistory bounds the retained completed previews per session
	MaxPreviewHistory = 10
)

// Resolution fallbacks
const (
	// IncrementalDefaultFraction scales the reference dimension when a
	// comparative utterance carries no explicit amount (10 percent)
	IncrementalDefaultFraction = 0.10
	// IncrementalFallbackInches applies when the dimension stack is empty
	IncrementalFallbackInches = 0.5
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 30
)

// Interpreter constants
const (
	// MinIntentConfidence is the floor below which a structured response is
	// treated as unusable and the rule parser takes over
	MinIntentConfidence = 0.5
	// DefaultMaxTokens is the default maximum number of completion tokens
	DefaultMaxTokens = 1024
	// DefaultMaxCacheEntries bounds the interpretation response cache
	DefaultMaxCacheEntries = 100
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)

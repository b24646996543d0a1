package filesystem

import (
	"os"
	"path/filepath"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// SettingsDir is the root for everything CADVoice persists: configuration,
// history, the interpretation cache, and risk rules.
func SettingsDir() string {
	return filepath.Join(UserHomeDir(), ".cadvoice")
}

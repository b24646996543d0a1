// Package config loads YAML configuration from disk.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/pkg/filesystem"
	"github.com/doeshing/cadvoice-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.cadvoice/config.yaml
// (overridable via CADVOICE_CONFIG). A missing file is seeded with defaults.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path reports the file the loader will read.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the configuration back to the loader's file.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return err
	}
	return writeDefault(path, cfg)
}

// Default returns the configuration seeded on first run.
func Default() domain.Config {
	return defaultConfig()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("CADVOICE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.SettingsDir(), "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Preferences: domain.Preferences{
			DefaultUnit:     string(domain.UnitInch),
			DefaultModel:    "gpt-4o-mini",
			AutoExecuteSafe: false,
			PreviewMode:     string(domain.PreviewDetailed),
			TimeoutSeconds:  30,
		},
		Models: []domain.ModelDefinition{
			{
				Name:       "gpt-4o-mini",
				Endpoint:   "https://api.openai.com/v1/chat/completions",
				AuthEnvVar: "OPENAI_API_KEY",
				ModelID:    "gpt-4o-mini",
				MaxTokens:  domain.DefaultMaxTokens,
			},
		},
		Interpreter: domain.InterpreterSettings{
			Enabled:      true,
			ContextTurns: domain.MaxContextTurns,
			CacheEnabled: true,
		},
		Risk: domain.RiskSettings{
			Enabled:   true,
			RulesFile: filepath.Join(filesystem.SettingsDir(), "risk.yaml"),
		},
		History: domain.HistorySettings{
			Backend:    "sqlite",
			RetainDays: domain.DefaultHistoryRetainDays,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Preferences.DefaultUnit == "" {
		cfg.Preferences.DefaultUnit = string(domain.UnitInch)
	}
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	if cfg.Preferences.PreviewMode == "" {
		cfg.Preferences.PreviewMode = string(domain.PreviewDetailed)
	}
	if cfg.Preferences.TimeoutSeconds == 0 {
		cfg.Preferences.TimeoutSeconds = 30
	}
	if cfg.Interpreter.ContextTurns == 0 {
		cfg.Interpreter.ContextTurns = domain.MaxContextTurns
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = "sqlite"
	}
	if cfg.History.RetainDays == 0 {
		cfg.History.RetainDays = domain.DefaultHistoryRetainDays
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

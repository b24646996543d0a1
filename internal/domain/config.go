package domain

import "fmt"

// Config mirrors ~/.cadvoice/config.yaml.
type Config struct {
	ConfigFormatVersion string              `yaml:"config_format_version"`
	Preferences         Preferences         `yaml:"preferences"`
	Models              []ModelDefinition   `yaml:"models"`
	Interpreter         InterpreterSettings `yaml:"interpreter"`
	Risk                RiskSettings        `yaml:"risk"`
	History             HistorySettings     `yaml:"history"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultUnit     string `yaml:"default_unit"`
	DefaultModel    string `yaml:"default_model"`
	AutoExecuteSafe bool   `yaml:"auto_execute_safe"`
	PreviewMode     string `yaml:"preview_mode"`
	TimeoutSeconds  int    `yaml:"timeout"`
}

// InterpreterSettings configures the structured-interpretation path.
type InterpreterSettings struct {
	Enabled      bool `yaml:"enabled"`
	ContextTurns int  `yaml:"context_turns"`
	CacheEnabled bool `yaml:"cache_enabled"`
}

// RiskSettings defines preview-engine rule loading.
type RiskSettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// HistorySettings controls how executed commands are persisted.
type HistorySettings struct {
	Backend    string `yaml:"backend"` // "sqlite" or "file"
	RetainDays int    `yaml:"retain_days"`
}

// Unit returns the configured default unit, inches when unset.
func (p Preferences) Unit() Unit {
	return NormalizeUnit(p.DefaultUnit, UnitInch)
}

// Mode returns the configured preview mode, detailed when unset.
func (p Preferences) Mode() PreviewMode {
	switch PreviewMode(p.PreviewMode) {
	case PreviewCompact, PreviewDetailed, PreviewVerbose:
		return PreviewMode(p.PreviewMode)
	default:
		return PreviewDetailed
	}
}

// GetDefaultModel resolves the configured default model definition.
func (c Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		return ModelDefinition{}, fmt.Errorf("no default model configured")
	}
	if model, ok := c.FindModel(c.Preferences.DefaultModel); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("model %s not configured", c.Preferences.DefaultModel)
}

// FindModel looks a model definition up by name.
func (c Config) FindModel(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// Package app wires application services with infrastructure adapters.
package app

import (
	"context"
	"time"

	"github.com/doeshing/cadvoice-go/internal/domain"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/config"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/executor"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/history"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/host"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/nlp"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/parser"
	"github.com/doeshing/cadvoice-go/internal/infrastructure/preview"
	"github.com/doeshing/cadvoice-go/internal/pkg/logger"
	"github.com/doeshing/cadvoice-go/internal/ports"
	"github.com/doeshing/cadvoice-go/internal/services"
)

// Options adjust container construction from CLI flags.
type Options struct {
	Verbose    bool
	ConfigPath string
	Prompter   ports.ConfirmationPrompter
	Host       ports.ModelHost
}

// Container holds the wired dependency graph for one CLI invocation.
type Container struct {
	Session        *services.Session
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	ConfigProvider ports.ConfigProvider
	Conversation   *domain.ConversationContext
	Executor       ports.CommandExecutor
	Previewer      ports.PreviewService
	HistoryStore   ports.HistoryStore
	Cache          ports.InterpretationCache
	Logger         ports.Logger
}

// Build constructs the dependency graph. A model without a resolvable default
// definition leaves the model client unset, so interpretation runs purely on
// the rule parser.
func Build(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(opts.Verbose)
	unit := cfg.Preferences.Unit()
	conv := domain.NewConversationContext(unit)

	var store ports.HistoryStore
	switch cfg.History.Backend {
	case "file":
		store = history.NewFileStore()
	default:
		store = history.NewSQLiteStore()
	}

	modelHost := opts.Host
	if modelHost == nil {
		modelHost = host.NewMemoryHost()
	}
	exec := executor.New(modelHost, store, log)

	rulesPath := ""
	if cfg.Risk.Enabled {
		rulesPath = cfg.Risk.RulesFile
	}
	previewer, err := preview.NewEngine(rulesPath)
	if err != nil {
		// Unreadable rule files degrade to the built-in table.
		previewer, err = preview.NewEngine("")
		if err != nil {
			return nil, err
		}
	}

	interpreter := &nlp.Service{
		Parser:      parser.NewRuleParser(unit),
		Logger:      log,
		Timeout:     time.Duration(cfg.Preferences.TimeoutSeconds) * time.Second,
		DefaultUnit: unit,
	}
	var cache ports.InterpretationCache
	if cfg.Interpreter.Enabled {
		if model, err := cfg.GetDefaultModel(); err == nil {
			interpreter.Client = nlp.NewHTTPClient()
			interpreter.Model = model
		} else {
			log.Debug("no usable model configured, rule parser only", nil)
		}
		if cfg.Interpreter.CacheEnabled {
			cache = nlp.NewFileCache()
			interpreter.Cache = cache
		}
	}

	session := &services.Session{
		ConfigProvider: cfgLoader,
		Interpreter:    interpreter,
		Resolver:       parser.NewResolver(unit),
		Previewer:      previewer,
		Executor:       exec,
		Prompter:       opts.Prompter,
		Conversation:   conv,
		Logger:         log,
	}

	return &Container{
		Session:        session,
		Config:         cfg,
		ConfigLoader:   cfgLoader,
		ConfigProvider: cfgLoader,
		Conversation:   conv,
		Executor:       exec,
		Previewer:      previewer,
		HistoryStore:   store,
		Cache:          cache,
		Logger:         log,
	}, nil
}

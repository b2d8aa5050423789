package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/parley-ai/parley/internal/config"
	"github.com/parley-ai/parley/internal/history"
	"github.com/parley-ai/parley/internal/llm"
	"github.com/parley-ai/parley/internal/llm/providers"
	"github.com/parley-ai/parley/internal/observability"
	"github.com/parley-ai/parley/internal/orchestrator"
	"github.com/parley-ai/parley/internal/session"
)

// pipeline bundles everything a command needs to run turns: the session
// store, the orchestrator with its three decision roles, the history
// summarizer, and the provider registry behind them.
type pipeline struct {
	store      *session.Store
	orch       *orchestrator.Orchestrator
	summarizer *history.Summarizer
	registry   *llm.Registry
	logger     *slog.Logger

	providerName string
	model        string
}

// newLogger builds the slog logger from the logging section.
func newLogger(cfg *config.Config) *slog.Logger {
	level := observability.ParseLevel(cfg.Logging.Level)
	if globalFlags.IsVerbose() {
		level = slog.LevelDebug
	}
	if globalFlags.IsQuiet() {
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = observability.NewJSONHandler(os.Stderr, level)
	} else {
		handler = observability.NewTextHandler(os.Stderr, level)
	}
	return slog.New(handler)
}

// buildPipeline constructs the turn pipeline from configuration. All
// configured providers are registered; providerName selects which one
// drives the three roles (empty means the configured default).
func buildPipeline(cfg *config.Config, providerName string) (*pipeline, error) {
	logger := newLogger(cfg)

	registry := llm.NewRegistry()
	for name, pc := range cfg.LLM.Providers {
		provider, err := providers.NewProvider(pc)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", name, err)
		}
		if err := registry.Register(name, provider); err != nil {
			return nil, err
		}
	}

	if providerName == "" {
		providerName = cfg.LLM.DefaultProvider
	}
	provider, err := registry.Get(providerName)
	if err != nil {
		return nil, err
	}
	model := cfg.LLM.Providers[llm.NormalizeProviderName(providerName)].DefaultModel

	window := cfg.Dialogue.Window
	roleOpts := []orchestrator.RoleOption{
		orchestrator.WithDialogueWindow(window),
		orchestrator.WithRoleLogger(logger),
	}

	store := session.NewStore()
	orch := orchestrator.New(
		store,
		orchestrator.NewLLMCritic(provider, model, roleOpts...),
		orchestrator.NewLLMStrategist(provider, model, roleOpts...),
		orchestrator.NewLLMExecutor(provider, model, roleOpts...),
		orchestrator.WithLogger(logger),
	)

	return &pipeline{
		store:        store,
		orch:         orch,
		summarizer:   history.NewSummarizer(provider, model, history.WithLogger(logger)),
		registry:     registry,
		logger:       logger,
		providerName: providerName,
		model:        model,
	}, nil
}

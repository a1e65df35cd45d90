package main

import (
	"context"
	"fmt"
	"time"

	"github.com/inspiredoc/inspiredoc/internal/config"
	"github.com/inspiredoc/inspiredoc/internal/generate"
	"github.com/inspiredoc/inspiredoc/internal/llm"
	"github.com/inspiredoc/inspiredoc/internal/pipeline"
	"github.com/inspiredoc/inspiredoc/internal/prompt"
	"github.com/inspiredoc/inspiredoc/internal/render"
	"github.com/inspiredoc/inspiredoc/internal/store"
)

// loadConfig merges an optional config file with the built-in defaults.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path == "" {
		return cfg, nil
	}
	loaded, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if err := loaded.Validate(); err != nil {
		return cfg, err
	}
	return loaded.MergeWithDefaults(cfg), nil
}

// buildService wires the model client, generator, renderer, and artifact
// store from configuration.
func buildService(ctx context.Context, cfg config.Config) (*pipeline.Service, store.Store, error) {
	client, err := llm.NewClient(ctx, &llm.Config{
		Provider: llm.Provider(cfg.Provider),
		Model:    cfg.Model,
		APIKey:   cfg.APIKeyFromEnv(),
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating model client: %w", err)
	}

	genCfg := generate.DefaultConfig()
	if cfg.MaxAttempts > 0 {
		genCfg.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.Fallback != "" {
		genCfg.Fallback = generate.FallbackPolicy(cfg.Fallback)
	}

	renderer := render.New(render.Options{
		DocumentTitle: "Generated Document",
		PDFTimeout:    60 * time.Second,
	})

	// Artifacts always land in a store so /api/artifacts and repeated
	// exports work: the sqlite cache when configured, otherwise a
	// run-private scratch directory.
	var artifacts store.Store
	if cfg.SQLitePath != "" {
		artifacts, err = store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening artifact cache: %w", err)
		}
	} else {
		artifacts, err = store.NewFSStore("")
		if err != nil {
			return nil, nil, fmt.Errorf("creating artifact directory: %w", err)
		}
	}

	return pipeline.NewService(generate.New(client, genCfg), renderer, artifacts), artifacts, nil
}

// budgetFromConfig translates the character budgets, keeping the
// defaults for anything unset.
func budgetFromConfig(cfg config.Config) prompt.Budget {
	budget := prompt.DefaultBudget()
	if cfg.ContextBudget > 0 {
		budget.ContextMax = cfg.ContextBudget
	}
	if cfg.ExemplarBudget > 0 {
		budget.ExemplarMax = cfg.ExemplarBudget
	}
	if cfg.InstructionBudget > 0 {
		budget.InstructionMax = cfg.InstructionBudget
	}
	if cfg.WindowBudget > 0 {
		budget.WindowMax = cfg.WindowBudget
	}
	return budget
}

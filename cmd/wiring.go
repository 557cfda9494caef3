package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/brandlens/brandlens/internal/analyze"
	"github.com/brandlens/brandlens/internal/classify"
	"github.com/brandlens/brandlens/internal/config"
	"github.com/brandlens/brandlens/internal/task"
	"github.com/brandlens/brandlens/pkg/llm"
	"github.com/brandlens/brandlens/pkg/profile"
)

func openStore(ctx context.Context, cfg config.StoreConfig) (task.Store, error) {
	var (
		store task.Store
		err   error
	)
	switch cfg.Driver {
	case "memory":
		store = task.NewMemory()
	case "sqlite":
		store, err = task.NewSQLite(cfg.DatabaseURL)
	case "postgres":
		store, err = task.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func buildOrchestrator(cfg *config.Config) (*analyze.Orchestrator, error) {
	client, err := llm.New(llm.Config{
		Provider:  cfg.LLM.Provider,
		Key:       cfg.LLM.Key,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	profiles := profile.NewClient(cfg.Profile.Key,
		profile.WithBaseURL(cfg.Profile.BaseURL),
		profile.WithHost(cfg.Profile.Host),
		profile.WithTimeout(cfg.Profile.Timeout()),
	)

	engine := classify.NewEngine(client, classify.DefaultPolicy())

	return analyze.New(engine, profiles, analyze.Config{
		BatchSize:   cfg.Analyze.BatchSize,
		MaxWorkers:  cfg.Analyze.MaxWorkers,
		SubmitDelay: cfg.Analyze.SubmitDelay(),
		RatePerSec:  cfg.Analyze.RatePerSec,
		RateBurst:   cfg.Analyze.RateBurst,
	}), nil
}

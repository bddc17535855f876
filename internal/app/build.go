package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/napatsn/riko/internal/agent"
	"github.com/napatsn/riko/internal/brain"
	"github.com/napatsn/riko/internal/chat"
	"github.com/napatsn/riko/internal/config"
	"github.com/napatsn/riko/internal/httpapi"
	"github.com/napatsn/riko/internal/memory"
	"github.com/napatsn/riko/internal/observability"
	"github.com/napatsn/riko/internal/policy"
	"github.com/napatsn/riko/internal/telegram"
)

// BuildResult holds the wired service. Everything is constructed once at
// process start and passed explicitly; nothing lives in package globals.
type BuildResult struct {
	Config  config.Config
	Store   memory.Store
	Bot     *telegram.Bot
	API     *httpapi.Server
	Metrics *observability.Metrics

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	store, err := memory.NewStore(ctx, cfg.DatabaseURL, cfg.TablePrefix)
	if err != nil {
		return nil, fmt.Errorf("message store init failed: %w", err)
	}

	// Idempotent bootstrap: safe to run on every start.
	if err := store.CreateTable(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("message table bootstrap failed: %w", err)
	}

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:    cfg.BrainMode,
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.ModelTimeout,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("brain adapter init failed: %w", err)
	}

	client, err := telegram.NewClient(cfg.BotToken)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("telegram client init failed: %w", err)
	}

	loc := agent.ForLanguage(cfg.Language)
	gate := policy.NewGate(cfg.AllowedUserIDs, cfg.ProtectedBot)

	orchestrator := chat.NewOrchestrator(
		store,
		adapter,
		gate,
		client,
		metrics,
		loc,
		cfg.WindowSize,
		cfg.NaturalPacing,
		cfg.PaceDelay,
	)

	bot := telegram.NewBot(client, orchestrator, loc)
	api := httpapi.New(cfg, bot, metrics)

	return &BuildResult{
		Config:  cfg,
		Store:   store,
		Bot:     bot,
		API:     api,
		Metrics: metrics,
		Cleanup: store.Close,
	}, nil
}

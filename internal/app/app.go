// Package app wires the application together: configuration, database,
// catalog client, LLM, resolver and the Telegram bot.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealgram/nutrition-bot/internal/catalog"
	"github.com/mealgram/nutrition-bot/internal/core/llm"
	"github.com/mealgram/nutrition-bot/internal/platform/config"
	"github.com/mealgram/nutrition-bot/internal/platform/observability"
	"github.com/mealgram/nutrition-bot/internal/resolver"
	db "github.com/mealgram/nutrition-bot/internal/storage"
	"github.com/mealgram/nutrition-bot/internal/telegrambot"
)

const llmAPIKeyMock = "mock"

// App holds the application dependencies.
type App struct {
	cfg      *config.Config
	database *db.DB
	logger   *zerolog.Logger
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	return &App{
		cfg:      cfg,
		database: database,
		logger:   logger,
	}
}

// StartHealthServer starts the health check and metrics server. Blocks until
// the context is canceled.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.database, a.cfg.HealthPort, a.logger).Start(ctx)
}

// RunBot builds the meal logging pipeline and runs the Telegram bot until
// the context is canceled.
func (a *App) RunBot(ctx context.Context) error {
	location, err := time.LoadLocation(a.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", a.cfg.Timezone, err)
	}

	catalogClient := catalog.New(catalog.Options{
		BaseURL:   a.cfg.CatalogBaseURL,
		UserAgent: a.cfg.CatalogUserAgent,
		Timeout:   a.cfg.CatalogTimeout,
		RPS:       a.cfg.CatalogRPS,
		PageSize:  a.cfg.CatalogPageSize,
	}, a.logger)

	itemResolver := resolver.New(catalogClient, a.database, resolver.Options{
		BrandGateEnforced: a.cfg.BrandGateEnforced,
		HardBlocks:        a.cfg.HardBlocksEnabled,
		MatchBoost:        a.cfg.CategoryMatchBoost,
		ConflictPenalty:   a.cfg.CategoryConflictPenalty,
		CacheMaxItems:     a.cfg.ResolverCacheMaxItems,
		CacheTTL:          a.cfg.ResolverCacheTTL,
	}, a.logger)

	mealService := resolver.NewService(a.newLLMClient(), itemResolver, a.database, resolver.ServiceOptions{
		SimilarMealEnabled:   a.cfg.SimilarMealEnabled,
		SimilarMealThreshold: a.cfg.SimilarMealThreshold,
		SimilarMealLookback:  a.cfg.SimilarMealLookback,
	}, a.logger)

	bot, err := telegrambot.New(a.cfg.BotToken, a.database, mealService, location, a.logger)
	if err != nil {
		return fmt.Errorf("bot initialization failed: %w", err)
	}

	a.logger.Info().Msg("Starting nutrition bot")

	return bot.Run(ctx)
}

func (a *App) newLLMClient() llm.Client {
	if a.cfg.LLMAPIKey == llmAPIKeyMock {
		a.logger.Warn().Msg("using mock LLM client")

		return &llm.MockClient{}
	}

	return llm.NewOpenAI(a.cfg.LLMAPIKey, a.cfg.LLMModel, a.cfg.RateLimitRPS, a.logger)
}

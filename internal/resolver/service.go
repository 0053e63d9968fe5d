package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
	"github.com/mealgram/nutrition-bot/internal/core/llm"
	"github.com/mealgram/nutrition-bot/internal/platform/observability"
)

// MealStore is the persistence surface the meal service depends on.
type MealStore interface {
	SaveMeal(ctx context.Context, meal *domain.Meal) error
	FindSimilarMeal(ctx context.Context, chatID int64, embedding []float32, threshold float32, since time.Time) (*domain.Meal, error)
}

// ServiceOptions configures the meal logging pipeline.
type ServiceOptions struct {
	SimilarMealEnabled   bool
	SimilarMealThreshold float32
	SimilarMealLookback  time.Duration
}

// Service logs meals end to end: embed, reuse a similar past meal when one
// exists, otherwise extract items and resolve each against the catalog.
type Service struct {
	llm      llm.Client
	resolver *Resolver
	store    MealStore
	opts     ServiceOptions
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewService(llmClient llm.Client, r *Resolver, store MealStore, opts ServiceOptions, logger *zerolog.Logger) *Service {
	return &Service{
		llm:      llmClient,
		resolver: r,
		store:    store,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// LogResult is the outcome of logging one meal.
type LogResult struct {
	Meal *domain.Meal
	// Reused is true when the meal's items were copied from a previously
	// logged similar meal instead of being re-resolved.
	Reused bool
	// Unresolved lists item names that found no acceptable catalog product.
	Unresolved []string
}

// LogMeal parses, resolves and stores one meal described in free text.
func (s *Service) LogMeal(ctx context.Context, chatID int64, text string) (*LogResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, coreerrors.ErrInvalidInput
	}

	loggedAt := s.now()
	embedding := s.embed(ctx, text)

	if reused := s.reuseSimilar(ctx, chatID, text, embedding, loggedAt); reused != nil {
		return reused, nil
	}

	items, err := s.llm.ExtractFoodItems(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract food items: %w", err)
	}

	if len(items) == 0 {
		return nil, coreerrors.ErrInvalidInput
	}

	meal := &domain.Meal{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		LoggedAt:  loggedAt,
		RawText:   text,
		Embedding: embedding,
	}

	var unresolved []string

	for _, item := range items {
		resolved, err := s.resolver.Resolve(ctx, item)
		if err != nil {
			if errors.Is(err, coreerrors.ErrNoResults) || errors.Is(err, coreerrors.ErrNoMatch) {
				unresolved = append(unresolved, item.Name)
				continue
			}

			return nil, fmt.Errorf("resolve %q: %w", item.Name, err)
		}

		meal.Items = append(meal.Items, scaleItem(item, resolved.Entry))
	}

	if len(meal.Items) == 0 {
		observability.MealsLogged.WithLabelValues("unresolved").Inc()

		return nil, coreerrors.ErrNoMatch
	}

	if err := s.store.SaveMeal(ctx, meal); err != nil {
		observability.MealsLogged.WithLabelValues("error").Inc()

		return nil, fmt.Errorf("save meal: %w", err)
	}

	observability.MealsLogged.WithLabelValues("ok").Inc()

	return &LogResult{Meal: meal, Unresolved: unresolved}, nil
}

// embed returns the text embedding or nil. Embedding failures degrade the
// similar-meal feature, they never fail the meal.
func (s *Service) embed(ctx context.Context, text string) []float32 {
	if !s.opts.SimilarMealEnabled {
		return nil
	}

	embedding, err := s.llm.GetEmbedding(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to embed meal text")

		return nil
	}

	return embedding
}

// reuseSimilar stores a copy of a previously logged near-identical meal,
// skipping extraction and resolution entirely. Returns nil when no similar
// meal qualifies or when persisting the copy fails.
func (s *Service) reuseSimilar(ctx context.Context, chatID int64, text string, embedding []float32, loggedAt time.Time) *LogResult {
	if !s.opts.SimilarMealEnabled || len(embedding) == 0 {
		return nil
	}

	previous, err := s.store.FindSimilarMeal(ctx, chatID, embedding, s.opts.SimilarMealThreshold, loggedAt.Add(-s.opts.SimilarMealLookback))
	if err != nil {
		s.logger.Warn().Err(err).Msg("similar meal lookup failed")

		return nil
	}

	if previous == nil || len(previous.Items) == 0 {
		return nil
	}

	meal := &domain.Meal{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		LoggedAt:  loggedAt,
		RawText:   text,
		Items:     previous.Items,
		Embedding: embedding,
	}

	if err := s.store.SaveMeal(ctx, meal); err != nil {
		s.logger.Error().Err(err).Msg("failed to save reused meal")

		return nil
	}

	observability.SimilarMealShortCircuits.Inc()
	observability.MealsLogged.WithLabelValues("ok").Inc()
	s.logger.Info().Str("previous_meal", previous.ID).Msg("reused similar meal")

	return &LogResult{Meal: meal, Reused: true}
}

// scaleItem converts per-100g nutriments to the consumed quantity.
func scaleItem(item domain.FoodItem, entry domain.CatalogEntry) domain.MealItem {
	grams := item.QuantityGrams
	if grams <= 0 {
		grams = 100
	}

	factor := grams / 100

	return domain.MealItem{
		ProductCode:   entry.Code,
		ProductName:   entry.ProductName,
		Brand:         entry.Brands,
		QuantityGrams: grams,
		Kcal:          entry.Nutriments.EnergyKcal100g * factor,
		Proteins:      entry.Nutriments.Proteins100g * factor,
		Fat:           entry.Nutriments.Fat100g * factor,
		Carbs:         entry.Nutriments.Carbs100g * factor,
	}
}

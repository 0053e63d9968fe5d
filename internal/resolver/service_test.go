package resolver

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
)

type stubLLM struct {
	items        []domain.FoodItem
	embedding    []float32
	extractCalls int
}

func (s *stubLLM) ExtractFoodItems(_ context.Context, _ string) ([]domain.FoodItem, error) {
	s.extractCalls++

	return s.items, nil
}

func (s *stubLLM) GetEmbedding(_ context.Context, _ string) ([]float32, error) {
	return s.embedding, nil
}

type fakeStore struct {
	saved   []*domain.Meal
	similar *domain.Meal
}

func (f *fakeStore) SaveMeal(_ context.Context, meal *domain.Meal) error {
	f.saved = append(f.saved, meal)

	return nil
}

func (f *fakeStore) FindSimilarMeal(_ context.Context, _ int64, _ []float32, _ float32, _ time.Time) (*domain.Meal, error) {
	return f.similar, nil
}

func newTestService(llmClient *stubLLM, catalog *fakeCatalog, store *fakeStore, opts ServiceOptions) *Service {
	logger := zerolog.Nop()
	r := New(catalog, nil, Options{
		BrandGateEnforced: true,
		HardBlocks:        true,
		CacheMaxItems:     10,
		CacheTTL:          time.Minute,
	}, &logger)

	return NewService(llmClient, r, store, opts, &logger)
}

func TestLogMealResolvesAndScales(t *testing.T) {
	llmClient := &stubLLM{items: []domain.FoodItem{
		{Name: "chocolate bar", Brand: "Lindt", QuantityGrams: 50},
	}}
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{
			Code:        "2",
			ProductName: "Lindt chocolate bar",
			Brands:      "Lindt",
			BrandsTags:  []string{"lindt"},
			Nutriments:  domain.Nutriments{EnergyKcal100g: 540, Proteins100g: 6, Fat100g: 30, Carbs100g: 58},
		},
	}}
	store := &fakeStore{}

	svc := newTestService(llmClient, catalog, store, ServiceOptions{})

	result, err := svc.LogMeal(context.Background(), 100, "a lindt chocolate bar, about 50g")
	require.NoError(t, err)

	require.Len(t, store.saved, 1)
	require.Len(t, result.Meal.Items, 1)

	item := result.Meal.Items[0]
	assert.Equal(t, "2", item.ProductCode)
	assert.InDelta(t, 50.0, item.QuantityGrams, 0.001)
	assert.InDelta(t, 270.0, item.Kcal, 0.001)
	assert.InDelta(t, 3.0, item.Proteins, 0.001)

	assert.False(t, result.Reused)
	assert.Empty(t, result.Unresolved)
	assert.NotEmpty(t, result.Meal.ID)
}

func TestLogMealEmptyText(t *testing.T) {
	svc := newTestService(&stubLLM{}, &fakeCatalog{}, &fakeStore{}, ServiceOptions{})

	_, err := svc.LogMeal(context.Background(), 100, "   ")
	require.ErrorIs(t, err, coreerrors.ErrInvalidInput)
}

func TestLogMealNoExtractedItems(t *testing.T) {
	svc := newTestService(&stubLLM{}, &fakeCatalog{}, &fakeStore{}, ServiceOptions{})

	_, err := svc.LogMeal(context.Background(), 100, "hello bot")
	require.ErrorIs(t, err, coreerrors.ErrInvalidInput)
}

func TestLogMealReusesSimilarMeal(t *testing.T) {
	previous := &domain.Meal{
		ID:      "prev",
		RawText: "my usual breakfast",
		Items: []domain.MealItem{
			{ProductCode: "9", ProductName: "Oatmeal", QuantityGrams: 60, Kcal: 220},
		},
	}

	llmClient := &stubLLM{embedding: []float32{0.1, 0.2}}
	store := &fakeStore{similar: previous}

	svc := newTestService(llmClient, &fakeCatalog{}, store, ServiceOptions{
		SimilarMealEnabled:   true,
		SimilarMealThreshold: 0.92,
		SimilarMealLookback:  30 * 24 * time.Hour,
	})

	result, err := svc.LogMeal(context.Background(), 100, "my usual breakfast")
	require.NoError(t, err)

	assert.True(t, result.Reused)
	assert.Equal(t, previous.Items, result.Meal.Items)
	assert.NotEqual(t, previous.ID, result.Meal.ID)
	assert.Zero(t, llmClient.extractCalls, "extraction must be skipped on reuse")
	require.Len(t, store.saved, 1)
}

func TestLogMealCollectsUnresolved(t *testing.T) {
	llmClient := &stubLLM{items: []domain.FoodItem{
		{Name: "chocolate bar", Brand: "Lindt", QuantityGrams: 50},
		{Name: "mystery snack", Brand: "Milka"},
	}}
	// Only the Lindt bar survives brand gating for both queries.
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{
			Code:        "2",
			ProductName: "Lindt chocolate bar",
			Brands:      "Lindt",
			BrandsTags:  []string{"lindt"},
			Nutriments:  domain.Nutriments{EnergyKcal100g: 540},
		},
	}}
	store := &fakeStore{}

	svc := newTestService(llmClient, catalog, store, ServiceOptions{})

	result, err := svc.LogMeal(context.Background(), 100, "a lindt bar and a mystery snack")
	require.NoError(t, err)

	require.Len(t, result.Meal.Items, 1)
	assert.Equal(t, []string{"mystery snack"}, result.Unresolved)
}

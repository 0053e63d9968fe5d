package llm

import (
	"context"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// MockClient is a canned-response client for tests and local development
// without an API key.
type MockClient struct {
	Items     []domain.FoodItem
	Embedding []float32
	Err       error
}

func (m *MockClient) ExtractFoodItems(_ context.Context, _ string) ([]domain.FoodItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return m.Items, nil
}

func (m *MockClient) GetEmbedding(_ context.Context, _ string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	return m.Embedding, nil
}

var _ Client = (*MockClient)(nil)

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
)

func newTestClient(baseURL string) *Client {
	logger := zerolog.Nop()

	return New(Options{
		BaseURL:   baseURL,
		UserAgent: "nutrition-bot-test/1.0",
		Timeout:   time.Second,
		RPS:       100,
		PageSize:  20,
	}, &logger)
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, searchPath, r.URL.Path)
		assert.Equal(t, "coca cola zero", r.URL.Query().Get("search_terms"))
		assert.Equal(t, "nutrition-bot-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 1,
			"products": [{
				"code": "5449000131836",
				"product_name": "Coca-Cola Zero",
				"brands": "Coca-Cola",
				"brands_tags": ["coca-cola"],
				"categories_tags": ["en:beverages", "en:sodas"],
				"nutriments": {"energy-kcal_100g": 0.3}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	entries, err := client.Search(context.Background(), "coca cola zero")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "5449000131836", entries[0].Code)
	assert.Equal(t, "Coca-Cola Zero", entries[0].ProductName)
	assert.Equal(t, []string{"coca-cola"}, entries[0].BrandsTags)
	assert.InDelta(t, 0.3, entries[0].Nutriments.EnergyKcal100g, 0.001)
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"count": 0, "products": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Search(context.Background(), "unobtainium wafer")
	require.ErrorIs(t, err, coreerrors.ErrNoResults)
}

func TestSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Search(context.Background(), "anything")
	require.ErrorIs(t, err, coreerrors.ErrRateLimited)
}

func TestGetByCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, productPath+"12345.json", r.URL.Path)

		_, _ = w.Write([]byte(`{"status": 1, "product": {"code": "12345", "product_name": "Oatmeal"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	entry, err := client.GetByCode(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", entry.ProductName)
}

func TestGetByCodeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status": 0}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetByCode(context.Background(), "missing")
	require.ErrorIs(t, err, coreerrors.ErrProductNotFound)
}

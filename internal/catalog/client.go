// Package catalog is the HTTP client for the product search backend. The
// backend is lexical/fuzzy: results regularly include wrong brands and wrong
// product forms, which is exactly why the match gate exists downstream.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
	"github.com/mealgram/nutrition-bot/internal/platform/observability"
)

const (
	searchPath  = "/cgi/search.pl"
	productPath = "/api/v2/product/"

	rateLimiterBurst = 2
)

// Client queries the product search backend.
type Client struct {
	baseURL     string
	userAgent   string
	pageSize    int
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *zerolog.Logger
}

// Options configures the catalog client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	RPS       float64
	PageSize  int
}

// New creates a catalog client.
func New(opts Options, logger *zerolog.Logger) *Client {
	rps := opts.RPS
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		baseURL:     opts.BaseURL,
		userAgent:   opts.UserAgent,
		pageSize:    opts.PageSize,
		httpClient:  &http.Client{Timeout: opts.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), rateLimiterBurst),
		logger:      logger,
	}
}

type searchResponse struct {
	Count    int                   `json:"count"`
	Products []domain.CatalogEntry `json:"products"`
}

// Search returns raw candidates for a free-text query. The caller gates and
// ranks them; this client applies no filtering of its own.
func (c *Client) Search(ctx context.Context, query string) ([]domain.CatalogEntry, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("search_terms", query)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(c.pageSize))
	params.Set("fields", "code,product_name,brands,brands_tags,categories_tags,labels_tags,quantity,nutriments")

	var resp searchResponse

	start := time.Now()
	err := c.getJSON(ctx, c.baseURL+searchPath+"?"+params.Encode(), &resp)
	observability.CatalogRequestDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("catalog search %q: %w", query, err)
	}

	observability.CandidatesPerQuery.Observe(float64(len(resp.Products)))

	if len(resp.Products) == 0 {
		return nil, coreerrors.ErrNoResults
	}

	c.logger.Debug().Str("query", query).Int("candidates", len(resp.Products)).Msg("catalog search")

	return resp.Products, nil
}

type productResponse struct {
	Status  int                  `json:"status"`
	Product *domain.CatalogEntry `json:"product"`
}

// GetByCode fetches a single product by its catalog code.
func (c *Client) GetByCode(ctx context.Context, code string) (*domain.CatalogEntry, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("catalog rate limiter: %w", err)
	}

	var resp productResponse

	start := time.Now()
	err := c.getJSON(ctx, c.baseURL+productPath+url.PathEscape(code)+".json", &resp)
	observability.CatalogRequestDuration.WithLabelValues("product").Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("catalog product %q: %w", code, err)
	}

	if resp.Status != 1 || resp.Product == nil {
		return nil, coreerrors.ErrProductNotFound
	}

	return resp.Product, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return coreerrors.ErrRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

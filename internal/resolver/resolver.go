// Package resolver turns extracted food items into concrete catalog products.
// The search backend is lexical and noisy, so every candidate list runs
// through the brand gate and the category/form guard before scoring.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mealgram/nutrition-bot/internal/core/cache"
	"github.com/mealgram/nutrition-bot/internal/core/domain"
	coreerrors "github.com/mealgram/nutrition-bot/internal/core/errors"
	"github.com/mealgram/nutrition-bot/internal/core/match"
	"github.com/mealgram/nutrition-bot/internal/platform/observability"
)

// CatalogSearcher is the search surface the resolver depends on.
type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]domain.CatalogEntry, error)
}

// Options configures a Resolver.
type Options struct {
	BrandGateEnforced bool
	HardBlocks        bool
	MatchBoost        float64
	ConflictPenalty   float64
	CacheMaxItems     int
	CacheTTL          time.Duration
}

// Resolver resolves one food item at a time. Safe for concurrent use; the
// memoization cache is shared across resolutions.
type Resolver struct {
	catalog CatalogSearcher
	sink    DecisionSink
	logger  *zerolog.Logger
	opts    Options
	cache   *cache.Cache[domain.ResolvedProduct]
}

func New(catalog CatalogSearcher, sink DecisionSink, opts Options, logger *zerolog.Logger) *Resolver {
	return &Resolver{
		catalog: catalog,
		sink:    sink,
		logger:  logger,
		opts:    opts,
		cache:   cache.New[domain.ResolvedProduct](opts.CacheMaxItems),
	}
}

// Resolve picks the best catalog product for the item. The result is
// memoized under the comparison-normalized brand and name, so retyping
// "Coca-Cola zero" and "coca cola Zero" hit the same entry.
func (r *Resolver) Resolve(ctx context.Context, item domain.FoodItem) (*domain.ResolvedProduct, error) {
	key := cacheKey(item)

	if cached, ok := r.cache.Get(key); ok {
		observability.ResolverCacheHits.WithLabelValues("hit").Inc()

		cached.FromCache = true

		return &cached, nil
	}

	observability.ResolverCacheHits.WithLabelValues("miss").Inc()

	resolved, err := r.resolveUncached(ctx, item)
	if err != nil {
		observability.ItemsResolved.WithLabelValues("failed").Inc()

		return nil, err
	}

	observability.ItemsResolved.WithLabelValues("resolved").Inc()
	r.cache.Set(key, *resolved, r.opts.CacheTTL)

	return resolved, nil
}

func (r *Resolver) resolveUncached(ctx context.Context, item domain.FoodItem) (*domain.ResolvedProduct, error) {
	query := searchQuery(item)

	candidates, err := r.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	obs := &gateObserver{ctx: ctx, query: query, sink: r.sink, logger: r.logger}
	gate := match.NewGate(match.GateOptions{
		MatchBoost:      r.opts.MatchBoost,
		ConflictPenalty: r.opts.ConflictPenalty,
		HardBlocks:      r.opts.HardBlocks,
		Observer:        obs,
	})

	brandResult := gate.ApplyBrandGate(candidates, item.Brand, item.BrandSynonyms, r.opts.BrandGateEnforced)
	if len(brandResult.Valid) == 0 {
		r.logger.Info().Str("query", query).Int("blocked", len(brandResult.Blocked)).Msg("all candidates blocked by brand gate")

		return nil, coreerrors.ErrNoMatch
	}

	// Salvaged entries passed on weak evidence only; the category guard must
	// not treat their brand as confirmed when deciding hard blocks.
	salvaged := make(map[string]struct{}, len(brandResult.Salvaged))
	for _, code := range brandResult.Salvaged {
		salvaged[code] = struct{}{}
	}

	var confirmed, weak []domain.CatalogEntry

	brandEnforced := r.opts.BrandGateEnforced && strings.TrimSpace(item.Brand) != ""

	for _, entry := range brandResult.Valid {
		if _, ok := salvaged[entry.Code]; ok || !brandEnforced {
			weak = append(weak, entry)
			continue
		}

		confirmed = append(confirmed, entry)
	}

	expectedForm := match.FormLabel(item.ExpectedForm)

	guarded := gate.ApplyCategoryGuard(confirmed, item.ExpectedCategory, expectedForm, true)
	weakGuarded := gate.ApplyCategoryGuard(weak, item.ExpectedCategory, expectedForm, false)
	guarded.Valid = append(guarded.Valid, weakGuarded.Valid...)

	if len(guarded.Valid) == 0 {
		r.logger.Info().Str("query", query).Msg("all candidates blocked by category guard")

		return nil, coreerrors.ErrNoMatch
	}

	best := r.pickBest(item, guarded.Valid, brandEnforced)
	if best == nil {
		return nil, coreerrors.ErrNoMatch
	}

	if _, ok := salvaged[best.Entry.Code]; ok {
		best.Salvaged = true
	}

	r.logger.Debug().
		Str("query", query).
		Str("code", best.Entry.Code).
		Str("product", best.Entry.ProductName).
		Float64("score", best.Score).
		Str("brand_source", best.BrandSource).
		Msg("resolved item")

	return best, nil
}

// pickBest scores the guarded candidates and returns the highest scorer.
// The score is lexical name overlap plus the guard's boost/penalty plus the
// brand match confidence, so a tag-confirmed brand outranks a salvage at
// equal name overlap.
func (r *Resolver) pickBest(item domain.FoodItem, candidates []match.ScoredCandidate, brandEnforced bool) *domain.ResolvedProduct {
	var best *domain.ResolvedProduct

	for _, candidate := range candidates {
		score := match.ApplyCategoryScoring(lexicalScore(item.Name, candidate.Entry.ProductName), candidate)

		brandSource := string(match.BrandSourceNone)
		brandKnown := false

		if brandEnforced {
			m := match.MatchBrand(candidate.Entry, item.Brand, item.BrandSynonyms)
			score += m.Confidence
			brandSource = string(m.Source)
			brandKnown = m.Source == match.BrandSourceTags || m.Source == match.BrandSourceField
		}

		if best != nil && score <= best.Score {
			continue
		}

		best = &domain.ResolvedProduct{
			Entry:       candidate.Entry,
			Score:       score,
			BrandSource: brandSource,
			BrandKnown:  brandKnown,
			Boosted:     candidate.CategoryBoost > 0,
			Penalized:   candidate.CategoryPenalty > 0,
		}
	}

	return best
}

func cacheKey(item domain.FoodItem) string {
	return match.NormalizeForComparison(item.Brand) + "|" + match.NormalizeForComparison(item.Name)
}

func searchQuery(item domain.FoodItem) string {
	return strings.TrimSpace(strings.TrimSpace(item.Brand) + " " + strings.TrimSpace(item.Name))
}

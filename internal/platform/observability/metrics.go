package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MealsLogged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutrition_meals_logged_total",
		Help: "The total number of logged meals",
	}, []string{"status"})

	ItemsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutrition_items_resolved_total",
		Help: "The total number of food items resolved against the catalog",
	}, []string{"outcome"})

	GateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutrition_gate_decisions_total",
		Help: "Disambiguation gate decisions by action and reason",
	}, []string{"action", "reason"})

	CandidatesPerQuery = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nutrition_catalog_candidates_per_query",
		Help:    "Number of raw candidates returned by the catalog per search",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	ResolverCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nutrition_resolver_cache_total",
		Help: "Resolver memoization cache lookups by result",
	}, []string{"result"})

	CatalogRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nutrition_catalog_request_duration_seconds",
		Help:    "Duration of catalog search backend requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nutrition_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	SimilarMealShortCircuits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nutrition_similar_meal_short_circuits_total",
		Help: "Resolutions answered from a previously logged similar meal",
	})
)

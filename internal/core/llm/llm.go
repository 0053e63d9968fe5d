// Package llm provides the LLM client used to extract structured food items
// from free-text meal descriptions and to embed meal text for similarity
// lookups.
package llm

import (
	"context"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// Client is the LLM surface the resolver and bot depend on.
type Client interface {
	// ExtractFoodItems parses a free-text meal description into structured
	// food items with brand/category/form hints for candidate gating.
	ExtractFoodItems(ctx context.Context, text string) ([]domain.FoodItem, error)

	// GetEmbedding embeds text for similar-meal lookups.
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

const extractPrompt = `You are a nutrition extraction assistant.
Given a free-text meal description, extract every distinct food item.
Return ONLY a JSON array; each element has keys:
  name (string, the food item without brand),
  brand (string, empty if none mentioned),
  brand_synonyms (array of strings, known alternate spellings of the brand, empty if unsure),
  quantity_grams (number, best estimate of consumed grams),
  expected_category (one of: snack-sweet, cookie-biscuit, dairy, beverage, dessert, spread, snack-salty, breakfast-cereal, or empty),
  expected_form (one of: bar, candy, spread, drink, whipped, spray, jar, frozen, tablet, beverage, loaf, soup, raw, unknown, or empty).

Rules:
- Keep brand names exactly as written by the user.
- Estimate sensible default portions when the user gives none.
- If the category or form is unclear, use "unknown" rather than guessing.
`

package domain

import (
	"strings"
	"time"
)

// CatalogEntry represents a product record returned by the search backend.
// The backend is lexical/fuzzy, so entries regularly arrive with wrong brands
// or wrong product forms and must be gated before scoring. The struct is
// read-only to the matching core; derived gate metadata is attached to a
// ScoredCandidate wrapper, never written back here.
type CatalogEntry struct {
	Code           string     `json:"code"`
	ProductName    string     `json:"product_name"`
	Brands         string     `json:"brands"`
	BrandsTags     []string   `json:"brands_tags"`
	CategoriesTags []string   `json:"categories_tags"`
	LabelsTags     []string   `json:"labels_tags"`
	Quantity       string     `json:"quantity"`
	Nutriments     Nutriments `json:"nutriments"`
}

// BrandFieldValues returns the entry's brand field as a list. The backend
// serves brands either as a single name or as a comma-separated list in the
// same scalar field.
func (e CatalogEntry) BrandFieldValues() []string {
	if strings.TrimSpace(e.Brands) == "" {
		return nil
	}

	parts := strings.Split(e.Brands, ",")
	values := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		values = append(values, trimmed)
	}

	return values
}

// Nutriments holds the per-100g nutrition facts subset the bot reports.
type Nutriments struct {
	EnergyKcal100g float64 `json:"energy-kcal_100g"`
	Proteins100g   float64 `json:"proteins_100g"`
	Fat100g        float64 `json:"fat_100g"`
	Carbs100g      float64 `json:"carbohydrates_100g"`
	Sugars100g     float64 `json:"sugars_100g"`
}

// FoodItem is one food item extracted by the LLM from a free-text meal
// description. Brand, category and form are hints for candidate gating and
// may be empty when the extractor could not tell.
type FoodItem struct {
	Name             string   `json:"name"`
	Brand            string   `json:"brand"`
	BrandSynonyms    []string `json:"brand_synonyms"`
	QuantityGrams    float64  `json:"quantity_grams"`
	ExpectedCategory string   `json:"expected_category"`
	ExpectedForm     string   `json:"expected_form"`
}

// ResolvedProduct is the final pick for one food item after gating and
// scoring, together with diagnostics about how it was chosen.
type ResolvedProduct struct {
	Entry        CatalogEntry
	Score        float64
	BrandSource  string
	BrandKnown   bool
	Salvaged     bool
	Boosted      bool
	Penalized    bool
	FromCache    bool
	FromPrevious bool
}

// MealItem is one resolved item of a logged meal with scaled nutrition facts.
type MealItem struct {
	ProductCode   string
	ProductName   string
	Brand         string
	QuantityGrams float64
	Kcal          float64
	Proteins      float64
	Fat           float64
	Carbs         float64
}

// Meal is a logged meal: the raw user text plus its resolved items.
type Meal struct {
	ID        string
	ChatID    int64
	LoggedAt  time.Time
	RawText   string
	Items     []MealItem
	Embedding []float32
}

// TotalKcal sums calories across the meal's items.
func (m Meal) TotalKcal() float64 {
	var total float64
	for _, item := range m.Items {
		total += item.Kcal
	}

	return total
}

// DailySummary aggregates a user's meals for one day.
type DailySummary struct {
	Day      time.Time
	Meals    int
	Kcal     float64
	Proteins float64
	Fat      float64
	Carbs    float64
	GoalKcal int
}

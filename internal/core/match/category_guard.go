package match

import (
	"strings"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// CategoryMapping defines, for one canonical expected-category key, which
// catalog category tags count as a match, which count as a conflict, an
// optional boost override, and the forms preferred for that category. The
// table is hand-authored from observed false positives; treat it as
// replaceable configuration, not as an algorithm.
type CategoryMapping struct {
	Match          []string
	Conflict       []string
	Boost          float64
	PreferredForms []FormLabel
}

var categoryMappings = map[string]CategoryMapping{
	"snack-sweet": {
		Match:          []string{"chocolate", "candies", "confectioner", "sweet-snack", "bars", "gummi"},
		Conflict:       []string{"ice-cream", "sorbet", "frozen-dessert", "beverage"},
		PreferredForms: []FormLabel{FormBar, FormCandy, "tablet"},
	},
	"cookie-biscuit": {
		Match:          []string{"biscuit", "cookie", "cakes", "wafer"},
		Conflict:       []string{"ice-cream", "beverage"},
		PreferredForms: []FormLabel{FormBar},
	},
	"dairy": {
		Match:          []string{"dairy", "dairies", "milk", "yogurt", "cheese", "cream"},
		Conflict:       []string{"confectioner", "candies"},
		PreferredForms: []FormLabel{FormDrink, FormWhipped, FormSpray},
	},
	"beverage": {
		Match:          []string{"beverage", "drink", "soda", "juice", "water"},
		Conflict:       []string{"candies", "chocolate-bars"},
		PreferredForms: []FormLabel{FormDrink},
	},
	"dessert": {
		Match:          []string{"dessert", "ice-cream", "sorbet", "pudding", "frozen"},
		Conflict:       []string{"beverage"},
		Boost:          2,
		PreferredForms: []FormLabel{FormFrozen, FormJar},
	},
	"spread": {
		Match:          []string{"spread", "nut-butter", "jam", "honey", "tartiner"},
		Conflict:       []string{"beverage", "candies"},
		PreferredForms: []FormLabel{FormSpread, FormJar},
	},
	"snack-salty": {
		Match:          []string{"chips", "crisps", "salty-snack", "crackers", "popcorn"},
		Conflict:       []string{"sweet-snack", "candies"},
	},
	"breakfast-cereal": {
		Match:    []string{"cereals", "muesli", "granola", "oat-flakes"},
		Conflict: []string{"cereal-bars"},
	},
}

// CategoryCheck is the per-entry outcome of category matching. Match and
// conflict are not mutually exclusive; callers must give conflict precedence
// when hard-blocking.
type CategoryCheck struct {
	Match             bool
	Conflict          bool
	Boost             float64
	Penalty           float64
	MatchedCategories []string
}

// CheckCategoryMatch tests the entry's categories against the mapping for
// expectedCategory. An unknown category key returns the zero CategoryCheck,
// so unknown expectations degrade to "no opinion" rather than failing.
func (g *Gate) CheckCategoryMatch(entry domain.CatalogEntry, expectedCategory string) CategoryCheck {
	mapping, ok := categoryMappings[expectedCategory]
	if !ok {
		return CategoryCheck{}
	}

	categories := extractCategories(entry)

	var check CategoryCheck

	for _, category := range categories {
		for _, fragment := range mapping.Match {
			if containsEitherDirection(category, fragment) {
				check.Match = true
				check.MatchedCategories = append(check.MatchedCategories, category)

				break
			}
		}
	}

	for _, category := range categories {
		for _, fragment := range mapping.Conflict {
			if containsEitherDirection(category, fragment) {
				check.Conflict = true

				break
			}
		}

		if check.Conflict {
			break
		}
	}

	if check.Match {
		check.Boost = mapping.Boost
		if check.Boost <= 0 {
			check.Boost = g.matchBoost
		}
	}

	if check.Conflict {
		check.Penalty = g.conflictPenalty
	}

	return check
}

func extractCategories(entry domain.CatalogEntry) []string {
	categories := make([]string, 0, len(entry.CategoriesTags))

	for _, tag := range entry.CategoriesTags {
		lower := strings.ToLower(strings.TrimSpace(stripLangPrefix(tag)))
		if lower == "" {
			continue
		}

		categories = append(categories, lower)
	}

	return categories
}

func containsEitherDirection(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Form compatibility confidence tiers. Family-level signals are the most
// reliable evidence; the strict pair table covers common well-understood
// pairs; everything else is incompatible with near-zero confidence.
const (
	confidenceFamilyForms = 0.9
	confidencePairTable   = 0.8
	confidenceUncertain   = 0.3
	confidenceNoEvidence  = 0.1
)

const reasonNoCompatibility = "no_compatibility"
const reasonExtractorUncertainty = "extractor_uncertainty"

// uncertainExpectedForms are forms the upstream extractor is known to guess
// unreliably. Expecting one of these must not cause false hard-blocks.
var uncertainExpectedForms = map[FormLabel]struct{}{
	"unknown": {},
	"raw":     {},
	"soup":    {},
	"loaf":    {},
}

// familyForms lists the forms considered cross-compatible within a family.
var familyForms = map[Family][]FormLabel{
	FamilyConfectionery: {FormBar, FormCandy, "tablet"},
	FamilyDairy:         {FormDrink, FormWhipped, FormSpray, FormFrozen},
	FamilyBeverages:     {FormDrink, "beverage", "shake"},
	FamilySpreads:       {FormSpread, FormJar},
}

// compatiblePairs is the residual strict table, consulted when neither the
// family signal nor extractor uncertainty applies. Pairs match in either
// direction.
var compatiblePairs = [][2]FormLabel{
	{FormCandy, FormBar},
	{FormCandy, "tablet"},
	{FormBar, "tablet"},
	{FormSpread, FormJar},
	{FormDrink, "beverage"},
	{FormWhipped, FormSpray},
}

// FormCompatibility is the outcome of the tiered compatibility calculation.
type FormCompatibility struct {
	Compatible bool
	Confidence float64
	Reason     string
	Fallback   bool
}

// AreFormsCompatible decides whether the expected and actual forms can
// describe the same product. Equal or unset forms are trivially compatible.
// Otherwise the decision is tiered: family membership first, then the
// extractor-uncertainty fallback, then the strict pair table.
func AreFormsCompatible(expected, actual FormLabel, categoryTags []string) FormCompatibility {
	if expected == FormNone || actual == FormNone || expected == actual {
		return FormCompatibility{Compatible: true, Confidence: 1, Reason: "equal_or_unset"}
	}

	family := DetectFamily(categoryTags)
	if forms, ok := familyForms[family]; ok {
		if containsForm(forms, expected) && containsForm(forms, actual) {
			return FormCompatibility{Compatible: true, Confidence: confidenceFamilyForms, Reason: "family_" + string(family)}
		}
	}

	if _, ok := uncertainExpectedForms[expected]; ok {
		return FormCompatibility{Compatible: true, Confidence: confidenceUncertain, Reason: reasonExtractorUncertainty, Fallback: true}
	}

	for _, pair := range compatiblePairs {
		if (pair[0] == expected && pair[1] == actual) || (pair[0] == actual && pair[1] == expected) {
			return FormCompatibility{Compatible: true, Confidence: confidencePairTable, Reason: "pair_table"}
		}
	}

	return FormCompatibility{Compatible: false, Confidence: confidenceNoEvidence, Reason: reasonNoCompatibility}
}

func containsForm(forms []FormLabel, form FormLabel) bool {
	for _, f := range forms {
		if f == form {
			return true
		}
	}

	return false
}

// ScoredCandidate wraps an accepted entry with the gate's derived metadata.
type ScoredCandidate struct {
	Entry            domain.CatalogEntry
	Form             FormLabel
	CategoryBoost    float64
	CategoryPenalty  float64
	CategoryMatch    bool
	CategoryConflict bool
}

// CategoryGateResult partitions candidates after the category/form guard.
// len(Valid) + len(Blocked) == Total; Boosted and Penalized hold codes of
// valid entries and may overlap when an entry both matches and conflicts.
type CategoryGateResult struct {
	Valid     []ScoredCandidate
	Blocked   []BlockedEntry
	Boosted   []string
	Penalized []string
	Total     int
}

// ApplyCategoryGuard evaluates each entry's category and form against the
// expectation. When expectedCategory is empty or the input is empty, the
// guard is a no-op and every entry passes unannotated.
//
// brandKnown tells the guard the expected brand was confirmed through
// structured evidence. A category conflict on a brand-confirmed entry means
// the search returned the right maker's wrong product (ice cream instead of
// the chocolate bar), which is strong enough evidence to remove the
// candidate outright when hard blocks are enabled instead of merely
// penalizing it.
func (g *Gate) ApplyCategoryGuard(entries []domain.CatalogEntry, expectedCategory string, expectedForm FormLabel, brandKnown bool) CategoryGateResult {
	result := CategoryGateResult{Total: len(entries)}

	if strings.TrimSpace(expectedCategory) == "" || len(entries) == 0 {
		for _, entry := range entries {
			result.Valid = append(result.Valid, ScoredCandidate{Entry: entry})
		}

		return result
	}

	for _, entry := range entries {
		check := g.CheckCategoryMatch(entry, expectedCategory)
		form := DetectForm(entry)

		if g.hardBlocks && brandKnown && check.Conflict {
			result.Blocked = append(result.Blocked, BlockedEntry{
				Code:   entry.Code,
				Name:   entry.ProductName,
				Brands: entry.Brands,
				Reason: ReasonCategoryConflict,
				Detail: expectedCategory,
			})
			g.obs.Observe(Decision{
				Code:   entry.Code,
				Name:   entry.ProductName,
				Action: ActionBlocked,
				Reason: ReasonCategoryConflict,
				Detail: expectedCategory,
				Tags:   entry.CategoriesTags,
			})

			continue
		}

		if expectedForm != FormNone && form != FormNone {
			compat := AreFormsCompatible(expectedForm, form, entry.CategoriesTags)
			if !compat.Compatible {
				result.Blocked = append(result.Blocked, BlockedEntry{
					Code:       entry.Code,
					Name:       entry.ProductName,
					Brands:     entry.Brands,
					Reason:     ReasonFormIncompatible,
					Detail:     compat.Reason,
					Confidence: compat.Confidence,
				})
				g.obs.Observe(Decision{
					Code:       entry.Code,
					Name:       entry.ProductName,
					Action:     ActionBlocked,
					Reason:     ReasonFormIncompatible,
					Detail:     string(expectedForm) + " vs " + string(form),
					Confidence: compat.Confidence,
					Tags:       entry.CategoriesTags,
				})

				continue
			}
		}

		candidate := ScoredCandidate{
			Entry:            entry,
			Form:             form,
			CategoryBoost:    check.Boost,
			CategoryPenalty:  check.Penalty,
			CategoryMatch:    check.Match,
			CategoryConflict: check.Conflict,
		}
		result.Valid = append(result.Valid, candidate)

		if check.Boost > 0 {
			result.Boosted = append(result.Boosted, entry.Code)
			g.obs.Observe(Decision{
				Code:   entry.Code,
				Name:   entry.ProductName,
				Action: ActionBoosted,
				Reason: ReasonCategoryMatch,
				Detail: expectedCategory,
				Tags:   entry.CategoriesTags,
			})
		}

		if check.Penalty > 0 {
			result.Penalized = append(result.Penalized, entry.Code)
			g.obs.Observe(Decision{
				Code:   entry.Code,
				Name:   entry.ProductName,
				Action: ActionPenalized,
				Reason: ReasonCategoryConflict,
				Detail: expectedCategory,
				Tags:   entry.CategoriesTags,
			})
		}
	}

	return result
}

// ApplyCategoryScoring folds the guard's annotations into a base score.
// Zero-valued fields contribute nothing.
func ApplyCategoryScoring(baseScore float64, candidate ScoredCandidate) float64 {
	return baseScore + candidate.CategoryBoost - candidate.CategoryPenalty
}

package match

import (
	"strings"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// BrandMatchSource names the evidence a brand match came from. Tag and field
// matches are strong evidence; a product-name salvage is weak and carries a
// discounted confidence so scoring can treat it accordingly.
type BrandMatchSource string

const (
	// BrandSourceTags means a structured brand tag matched a synonym.
	BrandSourceTags BrandMatchSource = "brands_tags"
	// BrandSourceField means the free-form brand field matched a synonym.
	BrandSourceField BrandMatchSource = "brands_array"
	// BrandSourceSalvage means only the product name matched; the entry had
	// no structured brand tags at all.
	BrandSourceSalvage BrandMatchSource = "product_name_salvage"
	// BrandSourceNone means no match on any path.
	BrandSourceNone BrandMatchSource = "none"
)

const (
	confidenceTagMatch   = 1.0
	confidenceFieldMatch = 0.9
	confidenceSalvage    = 0.4
)

// BrandMatch is the per-entry outcome of brand matching.
type BrandMatch struct {
	Match      bool
	Source     BrandMatchSource
	Confidence float64
	Synonyms   map[string]struct{}
}

// BlockedEntry records an entry removed by a gate, with enough context to
// debug why.
type BlockedEntry struct {
	Code       string
	Name       string
	Brands     string
	Reason     string
	Detail     string
	Confidence float64
}

// BrandGateResult partitions the input candidates. No entry is discarded
// silently: len(Valid) + len(Blocked) == Total always holds, and Salvaged
// holds the codes of valid entries accepted only via the product-name
// fallback.
type BrandGateResult struct {
	Valid    []domain.CatalogEntry
	Blocked  []BlockedEntry
	Salvaged []string
	Total    int
	Passed   int
}

// MatchBrand decides whether the entry matches the expected brand through
// its synonym set. Precedence, first hit wins: structured brand tags, then
// the scalar/list brand field, then product-name salvage. Salvage is only
// attempted when the entry carries no brand tags, because some catalog
// entries hold brand information exclusively in free text.
func MatchBrand(entry domain.CatalogEntry, brandName string, hints []string) BrandMatch {
	synonyms := ExpandSynonyms(brandName, hints)
	if len(synonyms) == 0 {
		return BrandMatch{Source: BrandSourceNone}
	}

	for _, tag := range entry.BrandsTags {
		normalized := NormalizeForComparison(stripLangPrefix(tag))
		if normalized == "" {
			continue
		}

		if anySynonymMatches(synonyms, normalized) {
			return BrandMatch{Match: true, Source: BrandSourceTags, Confidence: confidenceTagMatch, Synonyms: synonyms}
		}
	}

	for _, value := range entry.BrandFieldValues() {
		normalized := NormalizeForComparison(value)
		if normalized == "" {
			continue
		}

		if anySynonymMatches(synonyms, normalized) {
			return BrandMatch{Match: true, Source: BrandSourceField, Confidence: confidenceFieldMatch, Synonyms: synonyms}
		}
	}

	if len(entry.BrandsTags) == 0 {
		name := NormalizeForComparison(entry.ProductName)
		if name != "" && anySynonymMatches(synonyms, name) {
			return BrandMatch{Match: true, Source: BrandSourceSalvage, Confidence: confidenceSalvage, Synonyms: synonyms}
		}
	}

	return BrandMatch{Source: BrandSourceNone, Synonyms: synonyms}
}

// anySynonymMatches tests substring containment in either direction between
// the candidate text and any synonym.
func anySynonymMatches(synonyms map[string]struct{}, text string) bool {
	for syn := range synonyms {
		if strings.Contains(text, syn) || strings.Contains(syn, text) {
			return true
		}
	}

	return false
}

// ApplyBrandGate partitions entries by brand match. When enforce is false or
// brandName is empty or the input is empty, the gate is a no-op and every
// entry passes unblocked. Enforcement policy itself is the caller's call;
// the gate only executes deterministically when told to.
func (g *Gate) ApplyBrandGate(entries []domain.CatalogEntry, brandName string, hints []string, enforce bool) BrandGateResult {
	result := BrandGateResult{Total: len(entries)}

	if !enforce || strings.TrimSpace(brandName) == "" || len(entries) == 0 {
		result.Valid = append(result.Valid, entries...)
		result.Passed = len(entries)

		return result
	}

	for _, entry := range entries {
		m := MatchBrand(entry, brandName, hints)
		if !m.Match {
			result.Blocked = append(result.Blocked, BlockedEntry{
				Code:   entry.Code,
				Name:   entry.ProductName,
				Brands: entry.Brands,
				Reason: ReasonBrandMismatch,
			})
			g.obs.Observe(Decision{
				Code:   entry.Code,
				Name:   entry.ProductName,
				Action: ActionBlocked,
				Reason: ReasonBrandMismatch,
				Detail: brandName,
				Tags:   entry.BrandsTags,
			})

			continue
		}

		result.Valid = append(result.Valid, entry)
		result.Passed++

		if m.Source == BrandSourceSalvage {
			result.Salvaged = append(result.Salvaged, entry.Code)
			g.obs.Observe(Decision{
				Code:       entry.Code,
				Name:       entry.ProductName,
				Action:     ActionSalvaged,
				Reason:     string(BrandSourceSalvage),
				Confidence: m.Confidence,
			})
		}
	}

	return result
}

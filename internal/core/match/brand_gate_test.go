package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

func TestMatchBrandPrecedence(t *testing.T) {
	tests := []struct {
		name       string
		entry      domain.CatalogEntry
		brand      string
		wantMatch  bool
		wantSource BrandMatchSource
	}{
		{
			name: "tag_match_wins",
			entry: domain.CatalogEntry{
				BrandsTags:  []string{"en:coca-cola"},
				Brands:      "Coca-Cola",
				ProductName: "Coca-Cola Zero",
			},
			brand:      "Coca Cola",
			wantMatch:  true,
			wantSource: BrandSourceTags,
		},
		{
			name: "field_match_when_tags_miss",
			entry: domain.CatalogEntry{
				BrandsTags:  []string{"en:nestle"},
				Brands:      "Nestlé, KitKat",
				ProductName: "KitKat Chunky",
			},
			brand:      "Kit Kat",
			wantMatch:  true,
			wantSource: BrandSourceField,
		},
		{
			name: "salvage_only_without_tags",
			entry: domain.CatalogEntry{
				ProductName: "Feastables MrBeast Milk Chocolate",
			},
			brand:      "MrBeast",
			wantMatch:  true,
			wantSource: BrandSourceSalvage,
		},
		{
			name: "no_salvage_when_tags_present",
			entry: domain.CatalogEntry{
				BrandsTags:  []string{"en:lindt"},
				ProductName: "Feastables MrBeast Milk Chocolate",
			},
			brand:      "MrBeast",
			wantMatch:  false,
			wantSource: BrandSourceNone,
		},
		{
			name: "accented_tag_matches_plain_brand",
			entry: domain.CatalogEntry{
				BrandsTags: []string{"en:häagen-dazs"},
			},
			brand:      "Haagen Dazs",
			wantMatch:  true,
			wantSource: BrandSourceTags,
		},
		{
			name:       "empty_brand_never_matches",
			entry:      domain.CatalogEntry{BrandsTags: []string{"en:milka"}},
			brand:      "",
			wantMatch:  false,
			wantSource: BrandSourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchBrand(tt.entry, tt.brand, nil)

			assert.Equal(t, tt.wantMatch, got.Match)
			assert.Equal(t, tt.wantSource, got.Source)
		})
	}
}

func TestMatchBrandSalvageConfidenceIsWeaker(t *testing.T) {
	tagged := MatchBrand(domain.CatalogEntry{BrandsTags: []string{"en:milka"}}, "Milka", nil)
	salvaged := MatchBrand(domain.CatalogEntry{ProductName: "Milka Alpine Milk"}, "Milka", nil)

	require.True(t, tagged.Match)
	require.True(t, salvaged.Match)
	assert.Greater(t, tagged.Confidence, salvaged.Confidence)
}

func TestApplyBrandGateNoOp(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Code: "1", ProductName: "Milka Alpine Milk", BrandsTags: []string{"en:milka"}},
		{Code: "2", ProductName: "Generic Chocolate"},
	}
	gate := NewGate(GateOptions{})

	tests := []struct {
		name    string
		brand   string
		enforce bool
	}{
		{name: "enforce_disabled", brand: "Milka", enforce: false},
		{name: "empty_brand", brand: "", enforce: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := gate.ApplyBrandGate(entries, tt.brand, nil, tt.enforce)

			assert.Len(t, result.Valid, 2)
			assert.Empty(t, result.Blocked)
			assert.Equal(t, 2, result.Total)
			assert.Equal(t, 2, result.Passed)
		})
	}

	result := gate.ApplyBrandGate(nil, "Milka", nil, true)
	assert.Empty(t, result.Valid)
	assert.Empty(t, result.Blocked)
	assert.Zero(t, result.Total)
}

func TestApplyBrandGatePartition(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Code: "1", ProductName: "Milka Alpine Milk", BrandsTags: []string{"en:milka"}},
		{Code: "2", ProductName: "Alpine Milk Chocolate", BrandsTags: []string{"en:ritter-sport"}, Brands: "Ritter Sport"},
		{Code: "3", ProductName: "Milka Oreo Bar"},
	}
	gate := NewGate(GateOptions{})

	result := gate.ApplyBrandGate(entries, "Milka", nil, true)

	require.Len(t, result.Valid, 2)
	require.Len(t, result.Blocked, 1)
	assert.Equal(t, result.Total, result.Passed+len(result.Blocked))
	assert.LessOrEqual(t, len(result.Salvaged), result.Passed)

	assert.Equal(t, "2", result.Blocked[0].Code)
	assert.Equal(t, ReasonBrandMismatch, result.Blocked[0].Reason)
	assert.Equal(t, "Ritter Sport", result.Blocked[0].Brands)

	// Entry 3 has no brand tags and matches only through its product name.
	require.Len(t, result.Salvaged, 1)
	assert.Equal(t, "3", result.Salvaged[0])
}

type recordingObserver struct {
	decisions []Decision
}

func (r *recordingObserver) Observe(d Decision) {
	r.decisions = append(r.decisions, d)
}

func TestApplyBrandGateReportsDecisions(t *testing.T) {
	obs := &recordingObserver{}
	gate := NewGate(GateOptions{Observer: obs})

	entries := []domain.CatalogEntry{
		{Code: "1", ProductName: "Snickers Bar", BrandsTags: []string{"en:mars"}},
	}

	gate.ApplyBrandGate(entries, "Snickers", nil, true)

	require.Len(t, obs.decisions, 1)
	assert.Equal(t, ActionBlocked, obs.decisions[0].Action)
	assert.Equal(t, ReasonBrandMismatch, obs.decisions[0].Reason)
	assert.Equal(t, "1", obs.decisions[0].Code)
}

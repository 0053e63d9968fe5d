package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSynonymsEmptyBrand(t *testing.T) {
	assert.Empty(t, ExpandSynonyms("", nil))
	assert.Empty(t, ExpandSynonyms("   ", nil))
}

func TestExpandSynonymsIdempotent(t *testing.T) {
	first := ExpandSynonyms("Coca-Cola", []string{"coke zero"})
	second := ExpandSynonyms("Coca-Cola", []string{"coke zero"})

	assert.Equal(t, first, second)
}

func TestExpandSynonymsAliasGroupSymmetry(t *testing.T) {
	// Differently punctuated spellings normalize to the same alias key, so
	// both expansions must reach the shared group.
	for _, brand := range []string{"coca cola", "coca-cola", "Coca-Cola"} {
		set := ExpandSynonyms(brand, nil)

		assert.Contains(t, set, "coke", "brand %q", brand)
		assert.Contains(t, set, "cocacola", "brand %q", brand)
	}
}

func TestExpandSynonymsHints(t *testing.T) {
	set := ExpandSynonyms("Feastables", []string{"MrBeast", ""})

	assert.Contains(t, set, "feastables")
	assert.Contains(t, set, "mrbeast")
	assert.NotContains(t, set, "")
}

func TestExpandSynonymsSpacingVariants(t *testing.T) {
	set := ExpandSynonyms("mr beast", nil)
	assert.Contains(t, set, "mrbeast")

	// Camel-case brands longer than the split threshold gain a spaced variant.
	set = ExpandSynonyms("MrBeast", nil)
	assert.Contains(t, set, "mr beast")
	assert.Contains(t, set, "mrbeast")
}

func TestExpandSynonymsDropsShortMembers(t *testing.T) {
	set := ExpandSynonyms("X", nil)
	require.NotNil(t, set)
	assert.Empty(t, set)

	for member := range ExpandSynonyms("M&M's", nil) {
		assert.Greater(t, len([]rune(member)), 1, "member %q", member)
	}
}

package resolver

import (
	"strings"

	"github.com/mealgram/nutrition-bot/internal/core/match"
)

// lexicalScoreScale maps the token overlap fraction onto the same scale as
// the gate's boost and penalty values, so a full-overlap name (10) clearly
// outranks a boosted partial match.
const lexicalScoreScale = 10.0

// lexicalScore measures how much of the query survives in the product name.
// Both sides go through comparison normalization first, so punctuation and
// accents never break a token match. Returns 0 when either side is empty.
func lexicalScore(query, productName string) float64 {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}

	nameTokens := tokenize(productName)
	if len(nameTokens) == 0 {
		return 0
	}

	nameSet := make(map[string]struct{}, len(nameTokens))
	for _, token := range nameTokens {
		nameSet[token] = struct{}{}
	}

	matched := 0

	for _, token := range queryTokens {
		if _, ok := nameSet[token]; ok {
			matched++
		}
	}

	return float64(matched) / float64(len(queryTokens)) * lexicalScoreScale
}

func tokenize(text string) []string {
	return strings.Fields(match.NormalizeForComparison(text))
}

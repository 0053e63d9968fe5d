// Package match implements the catalog entry disambiguation gate: brand
// matching via synonym sets, category/form classification, and the
// compatibility guard that blocks, boosts or penalizes search candidates
// before final scoring.
//
// All functions here are pure and total: absent or malformed input degrades
// to empty values, never to an error. The gate's philosophy is "when in
// doubt, pass everything through" so the pipeline is never starved of
// candidates by an over-eager filter.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFolder decomposes to NFD, drops combining marks and recomposes, so
// "Häagen-Dazs" folds to "Haagen-Dazs".
var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}

	return folded
}

// NormalizeForComparison canonicalizes text for brand and category
// comparison: lowercase, accent fold, "&" folded to the word "and", all
// remaining punctuation folded to spaces, whitespace collapsed. This is the
// aggressive profile: "M&M's" and "Coca-Cola" become "m and m s" and
// "coca cola" so differently punctuated spellings collide.
func NormalizeForComparison(text string) string {
	folded := foldAccents(strings.ToLower(text))
	folded = strings.ReplaceAll(folded, "&", " and ")

	var b strings.Builder

	b.Grow(len(folded))

	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// NormalizeForDisplay canonicalizes text for user-facing output and for the
// extractor round-trip: lowercase, accent fold, whitespace collapsed, but
// ampersands, apostrophes, hyphens and digits survive so brand names stay
// recognizable ("Häagen-Dazs" -> "haagen-dazs").
func NormalizeForDisplay(text string) string {
	folded := foldAccents(strings.ToLower(text))

	var b strings.Builder

	b.Grow(len(folded))

	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '&' || r == '\'' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// stripLangPrefix removes a two-letter language namespace like "en:" from a
// catalog tag.
func stripLangPrefix(tag string) string {
	if len(tag) > 3 && tag[2] == ':' && isASCIILetter(tag[0]) && isASCIILetter(tag[1]) {
		return tag[3:]
	}

	return tag
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const camelSplitMinLen = 6

// brandAliases maps a comparison-normalized brand name to known alternate
// spellings. The table is built once at init and never mutated afterwards;
// differently punctuated spellings of the same brand normalize to the same
// key, so "coca cola" and "coca-cola" share one alias group.
var brandAliases = buildAliasTable(map[string][]string{
	"coca-cola":      {"coke", "cocacola", "coca cola"},
	"pepsi":          {"pepsi-cola", "pepsi cola"},
	"dr pepper":      {"dr. pepper", "drpepper"},
	"m&m's":          {"m&ms", "m and ms", "mms"},
	"kit kat":        {"kitkat", "kit-kat"},
	"haagen-dazs":    {"haagen dazs", "haagendazs", "häagen-dazs"},
	"ben & jerry's":  {"ben and jerrys", "ben&jerrys", "ben jerrys"},
	"reese's":        {"reeses", "reese"},
	"hershey's":      {"hersheys", "hershey"},
	"red bull":       {"redbull"},
	"mcdonald's":     {"mcdonalds", "mc donalds"},
	"nutella":        {"ferrero nutella"},
	"mr beast":       {"mrbeast", "feastables"},
	"lay's":          {"lays"},
	"haribo":         {"hari bo"},
	"milka":          {"milka oreo"},
	"danone":         {"dannon"},
	"president":      {"président"},
	"nesquik":        {"nestle nesquik"},
	"chupa chups":    {"chupachups"},
	"tic tac":        {"tictac", "tic-tac"},
	"monster":        {"monster energy"},
	"philadelphia":   {"kraft philadelphia"},
	"la laitiere":    {"la laitière"},
	"weight watchers": {"ww"},
})

func buildAliasTable(raw map[string][]string) map[string][]string {
	table := make(map[string][]string, len(raw))

	for key, aliases := range raw {
		normKey := NormalizeForComparison(key)
		if normKey == "" {
			continue
		}

		group := make([]string, 0, len(aliases)+1)
		group = append(group, key)
		group = append(group, aliases...)
		table[normKey] = group
	}

	return table
}

// ExpandSynonyms produces every string considered equivalent to brandName
// for matching: the normalized and lowercased brand itself, caller-supplied
// hints, the static alias group, and auto-derived spacing variants. Members
// of length <= 1 are dropped so single letters never cause substring hits.
// The function is idempotent and returns an empty set for an empty brand.
func ExpandSynonyms(brandName string, hints []string) map[string]struct{} {
	set := make(map[string]struct{})

	trimmed := strings.TrimSpace(brandName)
	if trimmed == "" {
		return set
	}

	add := func(s string) {
		if utf8.RuneCountInString(s) > 1 {
			set[s] = struct{}{}
		}
	}

	normalized := NormalizeForComparison(trimmed)
	add(normalized)
	add(strings.ToLower(trimmed))

	for _, hint := range hints {
		hint = strings.TrimSpace(hint)
		if hint == "" {
			continue
		}

		add(NormalizeForComparison(hint))
		add(strings.ToLower(hint))
	}

	if aliases, ok := brandAliases[normalized]; ok {
		for _, alias := range aliases {
			add(NormalizeForComparison(alias))
			add(strings.ToLower(alias))
		}
	}

	if strings.Contains(normalized, " ") {
		add(strings.ReplaceAll(normalized, " ", ""))
	} else if utf8.RuneCountInString(normalized) > camelSplitMinLen {
		if spaced := splitCamelCase(trimmed); spaced != trimmed {
			add(NormalizeForComparison(spaced))
		}
	}

	return set
}

// splitCamelCase inserts a space at every lower-to-upper letter boundary, so
// "MrBeast" becomes "Mr Beast". Operates on the raw brand since case
// information is gone after normalization.
func splitCamelCase(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 2)

	var prev rune

	for i, r := range s {
		if i > 0 && unicode.IsLower(prev) && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}

		b.WriteRune(r)
		prev = r
	}

	return b.String()
}

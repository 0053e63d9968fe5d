package match

import "testing"

func TestNormalizeForComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "accents_folded",
			input: "Häagen-Dazs",
			want:  "haagen dazs",
		},
		{
			name:  "ampersand_becomes_and",
			input: "Ben & Jerry's",
			want:  "ben and jerry s",
		},
		{
			name:  "hyphen_folds_to_space",
			input: "Coca-Cola",
			want:  "coca cola",
		},
		{
			name:  "whitespace_collapsed",
			input: "  kit   kat  ",
			want:  "kit kat",
		},
		{
			name:  "digits_preserved",
			input: "7 Days",
			want:  "7 days",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "punctuation_only",
			input: "!?.,-",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeForComparison(tt.input); got != tt.want {
				t.Errorf("NormalizeForComparison(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeForDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "hyphen_preserved",
			input: "Häagen-Dazs",
			want:  "haagen-dazs",
		},
		{
			name:  "ampersand_preserved",
			input: "M&M's",
			want:  "m&m's",
		},
		{
			name:  "other_punctuation_dropped",
			input: "Oreo (Original), 154g!",
			want:  "oreo original 154g",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeForDisplay(tt.input); got != tt.want {
				t.Errorf("NormalizeForDisplay(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStripLangPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en:chocolates", "chocolates"},
		{"fr:tablettes", "tablettes"},
		{"chocolates", "chocolates"},
		{"e:odd", "e:odd"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := stripLangPrefix(tt.input); got != tt.want {
			t.Errorf("stripLangPrefix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

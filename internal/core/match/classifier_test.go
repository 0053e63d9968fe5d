package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

func TestDetectFormFromTags(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.CatalogEntry
		want  FormLabel
	}{
		{
			name:  "chocolate_bar_tag",
			entry: domain.CatalogEntry{CategoriesTags: []string{"en:chocolates", "en:chocolate-bars"}},
			want:  FormBar,
		},
		{
			name:  "ice_cream_tag",
			entry: domain.CatalogEntry{CategoriesTags: []string{"en:ice-creams-and-sorbets"}},
			want:  FormFrozen,
		},
		{
			name:  "spread_tag",
			entry: domain.CatalogEntry{CategoriesTags: []string{"en:sweet-spreads"}},
			want:  FormSpread,
		},
		{
			name:  "label_tag_counts_too",
			entry: domain.CatalogEntry{LabelsTags: []string{"en:aerosol-packaging"}},
			want:  FormSpray,
		},
		{
			name:  "spray_beats_whipped_by_priority",
			entry: domain.CatalogEntry{CategoriesTags: []string{"en:whipped-creams", "en:food-sprays"}},
			want:  FormSpray,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectForm(tt.entry))
		})
	}
}

func TestDetectFormFromName(t *testing.T) {
	tests := []struct {
		name  string
		entry domain.CatalogEntry
		want  FormLabel
	}{
		{
			name:  "whipped_keyword",
			entry: domain.CatalogEntry{ProductName: "Nata Montada"},
			want:  FormWhipped,
		},
		{
			name:  "bar_keyword",
			entry: domain.CatalogEntry{ProductName: "Milk Chocolate Bar"},
			want:  FormBar,
		},
		{
			name:  "bar_requires_whole_word",
			entry: domain.CatalogEntry{ProductName: "Barbecue Sauce"},
			want:  FormNone,
		},
		{
			name:  "spray_keyword_beats_whipped",
			entry: domain.CatalogEntry{ProductName: "Whipped Cream Spray"},
			want:  FormSpray,
		},
		{
			name:  "frozen_phrase",
			entry: domain.CatalogEntry{ProductName: "Vanilla Ice Cream"},
			want:  FormFrozen,
		},
		{
			name:  "nothing_matches",
			entry: domain.CatalogEntry{ProductName: "Plain Flour"},
			want:  FormNone,
		},
		{
			name:  "empty_entry",
			entry: domain.CatalogEntry{},
			want:  FormNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectForm(tt.entry))
		})
	}
}

func TestDetectFamily(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		want Family
	}{
		{
			name: "confectionery",
			tags: []string{"en:snacks", "en:chocolates"},
			want: FamilyConfectionery,
		},
		{
			name: "confectionery_beats_dairy_by_priority",
			tags: []string{"en:milk-chocolates", "en:dairy-desserts"},
			want: FamilyConfectionery,
		},
		{
			name: "dairy",
			tags: []string{"en:dairies", "en:yogurts"},
			want: FamilyDairy,
		},
		{
			name: "beverages",
			tags: []string{"en:carbonated-drinks"},
			want: FamilyBeverages,
		},
		{
			name: "spreads",
			tags: []string{"en:nut-butters"},
			want: FamilySpreads,
		},
		{
			name: "unknown",
			tags: []string{"en:breakfast-cereals"},
			want: FamilyNone,
		},
		{
			name: "empty",
			tags: nil,
			want: FamilyNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFamily(tt.tags))
		})
	}
}

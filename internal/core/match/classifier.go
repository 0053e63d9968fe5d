package match

import (
	"strings"

	"github.com/mealgram/nutrition-bot/internal/core/domain"
)

// FormLabel is the inferred physical form of a product. The extractor side
// may also supply forms outside this enumeration (tablet, beverage, raw,
// soup, loaf); the compatibility tables handle those as plain strings.
type FormLabel string

const (
	FormBar     FormLabel = "bar"
	FormCandy   FormLabel = "candy"
	FormSpread  FormLabel = "spread"
	FormDrink   FormLabel = "drink"
	FormWhipped FormLabel = "whipped"
	FormSpray   FormLabel = "spray"
	FormJar     FormLabel = "jar"
	FormFrozen  FormLabel = "frozen"
	FormNone    FormLabel = ""
)

// Family is a coarse grouping of forms that share cross-compatibility.
type Family string

const (
	FamilyConfectionery Family = "confectionery"
	FamilyDairy         Family = "dairy"
	FamilyBeverages     Family = "beverages"
	FamilySpreads       Family = "spreads"
	FamilyNone          Family = ""
)

// formTagRule maps tag fragments to a form. Rules are ordered: the first
// fragment found in any category or label tag wins.
type formTagRule struct {
	form      FormLabel
	fragments []string
}

var formTagRules = []formTagRule{
	{FormSpray, []string{"sprays", "aerosol"}},
	{FormWhipped, []string{"whipped", "chantilly"}},
	{FormFrozen, []string{"ice-cream", "sorbet", "frozen"}},
	{FormBar, []string{"chocolate-bars", "cereal-bars", "candy-bars", "bars", "tablets"}},
	{FormSpread, []string{"spreads", "nut-butters", "pates-a-tartiner"}},
	{FormJar, []string{"jarred", "preserves"}},
	{FormDrink, []string{"beverages", "drinks", "sodas", "juices", "waters"}},
	{FormCandy, []string{"candies", "gummi", "bonbons", "lollipops", "chewing-gum"}},
}

// formNameRule maps product-name keywords to a form, checked only when no
// tag signaled one. Order is a fixed priority: the first matching keyword
// wins, so "whipped cream spray" reads as spray, not whipped.
type formNameRule struct {
	form     FormLabel
	keywords []string
}

var formNameRules = []formNameRule{
	{FormSpray, []string{"spray", "aerosol"}},
	{FormWhipped, []string{"whipped", "montada", "chantilly"}},
	{FormFrozen, []string{"ice cream", "sorbet", "frozen", "popsicle"}},
	{FormBar, []string{"bar", "tablet", "tableta"}},
	{FormSpread, []string{"spread", "tartiner"}},
	{FormJar, []string{"jar"}},
	{FormDrink, []string{"drink", "beverage", "juice", "soda", "smoothie"}},
	{FormCandy, []string{"candy", "candies", "bonbon", "gummy", "gummies", "lollipop"}},
}

// DetectForm infers the entry's physical form from its category and label
// tags, falling back to keyword search in the product name. Returns FormNone
// when nothing matches.
func DetectForm(entry domain.CatalogEntry) FormLabel {
	tags := make([]string, 0, len(entry.CategoriesTags)+len(entry.LabelsTags))
	tags = append(tags, entry.CategoriesTags...)
	tags = append(tags, entry.LabelsTags...)

	for _, rule := range formTagRules {
		for _, tag := range tags {
			lower := strings.ToLower(stripLangPrefix(tag))

			for _, fragment := range rule.fragments {
				if strings.Contains(lower, fragment) {
					return rule.form
				}
			}
		}
	}

	name := NormalizeForComparison(entry.ProductName)
	if name == "" {
		return FormNone
	}

	for _, rule := range formNameRules {
		for _, keyword := range rule.keywords {
			if containsWordOrPhrase(name, keyword) {
				return rule.form
			}
		}
	}

	return FormNone
}

// containsWordOrPhrase matches a keyword against whole words of the
// normalized name, so "bar" does not fire on "barbecue". Multi-word keywords
// match as substrings since normalization already collapsed whitespace.
func containsWordOrPhrase(name, keyword string) bool {
	if strings.Contains(keyword, " ") {
		return strings.Contains(name, keyword)
	}

	for _, word := range strings.Fields(name) {
		if word == keyword {
			return true
		}
	}

	return false
}

// familyRule maps family-indicative substrings to a family, checked in fixed
// priority order against the joined category text.
type familyRule struct {
	family    Family
	fragments []string
}

var familyRules = []familyRule{
	{FamilyConfectionery, []string{"chocolate", "confectioner", "candies", "sweet-snack", "gummi", "biscuits-and-cakes"}},
	{FamilyDairy, []string{"dairy", "dairies", "milk", "yogurt", "cheese", "cream"}},
	{FamilyBeverages, []string{"beverage", "drink", "soda", "juice", "water"}},
	{FamilySpreads, []string{"spread", "nut-butter", "jam", "honey", "tartiner"}},
}

// DetectFamily infers the broad category family from the entry's category
// tags. Confectionery terms are checked before dairy so "chocolate milk
// drink" style tag sets resolve deterministically; first match wins.
func DetectFamily(categoryTags []string) Family {
	if len(categoryTags) == 0 {
		return FamilyNone
	}

	parts := make([]string, 0, len(categoryTags))
	for _, tag := range categoryTags {
		parts = append(parts, strings.ToLower(stripLangPrefix(tag)))
	}

	blob := strings.Join(parts, " ")

	for _, rule := range familyRules {
		for _, fragment := range rule.fragments {
			if strings.Contains(blob, fragment) {
				return rule.family
			}
		}
	}

	return FamilyNone
}

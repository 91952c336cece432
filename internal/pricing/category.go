package pricing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPremiumCategories are the category names that always get the premium tier.
var DefaultPremiumCategories = []string{
	"Perfumería",
	"Joyería",
	"Relojería",
	"Cosmética de lujo",
}

// NormalizeCategory folds case, strips accents and collapses whitespace so that
// "  PERFUMERIA " and "Perfumería" compare equal.
func NormalizeCategory(name string) string {
	// Transformers keep internal state; build a fresh chain per call.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	folded = cases.Fold().String(folded)
	return strings.Join(strings.Fields(folded), " ")
}

type categorySet map[string]struct{}

func newCategorySet(names []string) categorySet {
	set := make(categorySet, len(names))
	for _, name := range names {
		key := NormalizeCategory(name)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}
	return set
}

func (s categorySet) contains(name string) bool {
	if len(s) == 0 {
		return false
	}
	key := NormalizeCategory(name)
	if key == "" {
		return false
	}
	_, ok := s[key]
	return ok
}

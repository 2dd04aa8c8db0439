package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// accents folds the Spanish-derived letters common in Filipino product and
// place names, plus the French ones found on imported goods, to ASCII.
var accents = strings.NewReplacer(
	"ñ", "n", "ç", "c",
	"á", "a", "à", "a", "â", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "î", "i", "ï", "i",
	"ó", "o", "ô", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "Fresh Red Onions" → "fresh-red-onions"
//   - "Piña Juice (1L)" → "pina-juice-1l"
//   - "Kakanin ni Aling Niña" → "kakanin-ni-aling-nina"
func Generate(name string) string {
	slug := accents.Replace(strings.ToLower(strings.TrimSpace(name)))

	// Any run of non-alphanumerics becomes one hyphen.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

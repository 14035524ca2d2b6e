package importer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes characters and drops the combining marks, so
// "Zürich" slugs as "zurich".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe slug from a document title.
func Slugify(title string) string {
	folded := cases.Lower(language.Und).String(title)

	flattened, _, err := transform.String(deaccent, folded)
	if err != nil {
		flattened = folded
	}

	var b strings.Builder
	lastDash := true // suppress leading dashes
	for _, r := range flattened {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}

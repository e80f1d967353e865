package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a name into a lower-case, hyphen-separated ASCII slug.
// Accents are folded and apostrophes dropped.
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r == '\'' || r == '’':
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// Plural returns the English plural of a name, inflecting its last word.
func Plural(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return inflection.Plural(s)
}

// IndexSlug is the slug of an Index: its pluralized name.
func IndexSlug(name string) string {
	return Slugify(Plural(name))
}

// NameWithSeries places the series before the cultivar name, or after it
// when the series says so and the name is not a mix.
func NameWithSeries(name, series string, afterCultivar bool) string {
	if series == "" {
		return name
	}
	if afterCultivar && !strings.Contains(name, "Mix") {
		return name + " " + series
	}
	return series + " " + name
}

// FullName appends the common name to a cultivar's name with series unless
// the cultivar is named after its common name.
func FullName(name, series string, afterCultivar bool, commonName string) string {
	parts := make([]string, 0, 2)
	if nws := NameWithSeries(name, series, afterCultivar); nws != "" {
		parts = append(parts, nws)
	}
	if commonName != "" && commonName != name {
		parts = append(parts, commonName)
	}
	return strings.Join(parts, " ")
}

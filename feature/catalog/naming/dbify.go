package naming

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// allCaps are words that stay upper case, mostly roman numerals.
var allCaps = map[string]struct{}{
	"I": {}, "II": {}, "III": {}, "IV": {}, "V": {}, "XP": {}, "BLBP": {},
}

// smallWords stay lower case unless they open or close the name.
var smallWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {}, "en": {},
	"for": {}, "if": {}, "in": {}, "of": {}, "on": {}, "or": {}, "the": {}, "to": {},
	"via": {}, "vs": {}, "vs.": {},
}

var (
	digitLetter = regexp.MustCompile(`[0-9][A-Za-z]`)
	dPrefix     = regexp.MustCompile(`^[dD]'[A-Za-z]+`)
	oPrefix     = regexp.MustCompile(`^[oO]'[A-Za-z]+`)
)

// Dbify normalizes a name for storage: the string is trimmed, lower-cased and
// title-cased with catalog exceptions.
//
//	forget-me-not      -> Forget-me-not
//	texas 1015y onion  -> Texas 1015Y Onion
//	DWARF SWEET PEA    -> Dwarf Sweet Pea
//	rose d'avignon     -> Rose d'Avignon
//	o'hara             -> O'Hara
//
// An empty or blank input returns "".
func Dbify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	title := cases.Title(language.English)
	words := strings.Fields(s)
	for i, w := range words {
		if fixed, ok := exception(w, title); ok {
			words[i] = fixed
			continue
		}
		if _, small := smallWords[w]; small && i > 0 && i < len(words)-1 {
			continue
		}
		words[i] = title.String(w)
	}
	return strings.Join(words, " ")
}

// exception applies the catalog's overrides of plain title casing.
func exception(word string, title cases.Caser) (string, bool) {
	switch {
	case strings.Contains(word, "-"):
		return strings.ToUpper(word[:1]) + strings.ToLower(word[1:]), true
	case isAllCaps(word):
		return strings.ToUpper(word), true
	case digitLetter.MatchString(word):
		return strings.ToUpper(word), true
	case word == "w/":
		return word, true
	case dPrefix.MatchString(word):
		prefix, rest, _ := strings.Cut(word, "'")
		return strings.ToLower(prefix) + "'" + title.String(rest), true
	case oPrefix.MatchString(word):
		prefix, rest, _ := strings.Cut(word, "'")
		return strings.ToUpper(prefix) + "'" + title.String(rest), true
	}
	return "", false
}

func isAllCaps(word string) bool {
	_, ok := allCaps[strings.ToUpper(word)]
	return ok
}

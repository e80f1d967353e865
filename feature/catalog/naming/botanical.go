package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"seed-catalog/core/reconcile"
)

// ValidBotanical reports whether name looks like a binomen: the first word is
// capitalized then lower case and the second word is lower case. Words past
// the second are not checked ("Digitalis interspecies hybrid" is valid).
func ValidBotanical(name string) bool {
	words := strings.Fields(name)
	if len(words) < 2 {
		return false
	}
	genus, epithet := words[0], words[1]

	first, size := utf8.DecodeRuneInString(genus)
	if !unicode.IsUpper(first) {
		return false
	}
	return isLower(genus[size:]) && isLower(epithet)
}

// isLower reports whether s has at least one letter and no upper-case letters.
func isLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// ValidateBotanical returns a *reconcile.ValidationError when name is not a
// well-formed botanical name.
func ValidateBotanical(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return reconcile.NewValidationError("BotanicalName", field, name, "name is required")
	}
	if !ValidBotanical(name) {
		return reconcile.NewValidationError("BotanicalName", field, name,
			"expected a capitalized genus followed by a lower-case species")
	}
	return nil
}

// FixBotanical capitalizes the genus and lower-cases the rest of it, leaving
// the other words alone. It is the repair attempted for cultivar rows.
func FixBotanical(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}
	genus := strings.ToLower(words[0])
	r, size := utf8.DecodeRuneInString(genus)
	words[0] = string(unicode.ToUpper(r)) + genus[size:]
	return strings.Join(words, " ")
}

// ValidateBotanicalSynonyms checks every synonym and reports all bad ones at once.
func ValidateBotanicalSynonyms(synonyms []string) error {
	var bad []string
	for _, syn := range synonyms {
		if !ValidBotanical(syn) {
			bad = append(bad, syn)
		}
	}
	if len(bad) > 0 {
		return reconcile.NewValidationError("BotanicalName", "synonyms", strings.Join(bad, ", "),
			"one or more synonyms are not valid botanical names")
	}
	return nil
}

// BotanicalExpander expands abbreviated genera ("D. purpurea") using genera
// seen earlier in the same document.
type BotanicalExpander struct {
	genera map[string]string
}

// NewBotanicalExpander creates an empty expander.
func NewBotanicalExpander() *BotanicalExpander {
	return &BotanicalExpander{genera: map[string]string{}}
}

// Expand learns the genus of full names and replaces abbreviations with the
// last genus learned for that initial. A leading "syn. " is dropped.
func (e *BotanicalExpander) Expand(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "syn. ", ""))
	words := strings.Fields(name)
	if len(words) == 0 {
		return name
	}
	first := words[0]
	r, _ := utf8.DecodeRuneInString(first)
	abbr := string(r) + "."

	if first != abbr {
		if _, known := e.genera[abbr]; !known && utf8.RuneCountInString(first) > 2 {
			e.genera[abbr] = first
		}
		return strings.Join(words, " ")
	}
	if genus, ok := e.genera[abbr]; ok {
		words[0] = genus
	}
	return strings.Join(words, " ")
}

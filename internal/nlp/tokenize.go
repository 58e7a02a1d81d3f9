package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokenize splits text into lowercased word tokens, dropping punctuation.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	return strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Fold strips diacritics so "análisis" and "analisis" compare equal. Used by
// the intent classifier to keep accent variance from splitting features.
func Fold(text string) string {
	folded, _, err := transform.String(foldTransformer, text)
	if err != nil {
		return text
	}
	return folded
}

// FoldTokens applies Fold to every token.
func FoldTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = Fold(token)
	}
	return out
}

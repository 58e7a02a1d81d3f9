package nlp

import (
	"strings"
	"unicode"
)

// SplitSentences divides text into sentences at .?! boundaries followed by a
// capitalized word or an inverted question/exclamation opener.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)
		if r != '.' && r != '?' && r != '!' {
			continue
		}
		// Peek past whitespace; only break when the next rune opens a new
		// sentence, mirroring the punctuation-then-capital heuristic.
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j >= len(runes) {
			break
		}
		next := runes[j]
		if unicode.IsUpper(next) || next == '¿' || next == '¡' {
			flush()
			i = j - 1
		}
	}
	flush()
	return sentences
}

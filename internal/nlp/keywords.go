package nlp

import "sort"

// Keyword is a salient term with its score.
type Keyword struct {
	Term  string
	Score float64
}

var stopwords = map[string]struct{}{
	// Spanish
	"el": {}, "la": {}, "los": {}, "las": {}, "un": {}, "una": {}, "unos": {},
	"unas": {}, "ante": {}, "bajo": {}, "con": {}, "de": {}, "desde": {},
	"en": {}, "entre": {}, "hacia": {}, "hasta": {}, "para": {}, "por": {},
	"según": {}, "sin": {}, "sobre": {}, "tras": {}, "que": {}, "como": {},
	"cuando": {}, "donde": {}, "si": {}, "no": {}, "es": {}, "son": {},
	"está": {}, "están": {}, "nos": {}, "del": {}, "al": {},
	// English
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"are": {}, "was": {}, "were": {}, "have": {}, "has": {}, "will": {},
	"not": {}, "but": {}, "our": {}, "your": {},
}

// Keywords extracts the most salient terms of a document by frequency,
// ignoring stopwords and words of two characters or fewer.
func Keywords(text string, limit int) []Keyword {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	order := make(map[string]int)
	for i, token := range Tokenize(text) {
		if len([]rune(token)) <= 2 {
			continue
		}
		if _, ok := stopwords[token]; ok {
			continue
		}
		if _, seen := counts[token]; !seen {
			order[token] = i
		}
		counts[token]++
	}

	keywords := make([]Keyword, 0, len(counts))
	for term, count := range counts {
		keywords = append(keywords, Keyword{Term: term, Score: float64(count)})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return order[keywords[i].Term] < order[keywords[j].Term]
	})

	if len(keywords) > limit {
		keywords = keywords[:limit]
	}
	return keywords
}

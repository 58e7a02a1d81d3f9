package nlp

// Sentiment is a lexicon-based polarity score. Score is in [-1, 1];
// Comparative is Score normalized by token count.
type Sentiment struct {
	Score         float64 `json:"score"`
	Comparative   float64 `json:"comparative"`
	PositiveCount int     `json:"positiveCount"`
	NegativeCount int     `json:"negativeCount"`
}

var positiveWords = wordSet(
	"bueno", "excelente", "genial", "increíble", "maravilloso", "fantástico",
	"positivo", "éxito", "logro", "feliz", "contento", "alegre", "satisfecho",
	"eficiente", "eficaz", "productivo", "innovador", "creativo", "motivado",
	"optimista", "mejorar", "progreso", "avance", "solución", "oportunidad",
	"good", "great", "excellent", "success", "improvement", "progress",
	"opportunity", "efficient", "productive",
)

var negativeWords = wordSet(
	"malo", "terrible", "pésimo", "horrible", "deficiente", "negativo",
	"fracaso", "problema", "error", "fallo", "triste", "enojado", "frustrado",
	"ineficiente", "ineficaz", "improductivo", "desmotivado", "pesimista",
	"empeorar", "retroceso", "obstáculo", "dificultad", "amenaza",
	"bad", "failure", "problem", "issue", "blocked", "delay", "risk",
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// ScoreSentiment computes the lexicon sentiment of a text.
func ScoreSentiment(text string) Sentiment {
	tokens := Tokenize(text)

	var positive, negative int
	for _, token := range tokens {
		if _, ok := positiveWords[token]; ok {
			positive++
		} else if _, ok := negativeWords[token]; ok {
			negative++
		}
	}

	denominator := positive + negative
	if denominator == 0 {
		denominator = 1
	}
	score := float64(positive-negative) / float64(denominator)

	comparative := 0.0
	if len(tokens) > 0 {
		comparative = score / float64(len(tokens))
	}

	return Sentiment{
		Score:         score,
		Comparative:   comparative,
		PositiveCount: positive,
		NegativeCount: negative,
	}
}

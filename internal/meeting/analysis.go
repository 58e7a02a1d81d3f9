package meeting

// Topic is a ranked keyword extracted from a transcript.
type Topic struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Sentiment is the overall tone of a meeting. Score is in [-1, 1];
// Comparative is the score normalized by token count.
type Sentiment struct {
	Score       float64 `json:"score"`
	Comparative float64 `json:"comparative"`
}

// Question is an interrogative utterance paired with the answer that
// followed it, if any.
type Question struct {
	Text       string  `json:"text"`
	Answer     string  `json:"answer,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Finding is a classified utterance such as an objective or task mention.
type Finding struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Analysis is the analysis stage payload.
type Analysis struct {
	KeyTopics  []Topic    `json:"keyTopics"`
	Sentiment  Sentiment  `json:"sentiment"`
	Questions  []Question `json:"questions"`
	Objectives []Finding  `json:"objectives"`
	Tasks      []Finding  `json:"tasks"`
}

// QA is a question with its recorded answer as presented in a summary.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Summary is the summarization stage payload.
type Summary struct {
	Executive           string   `json:"executive"`
	KeyPoints           []string `json:"keyPoints"`
	QuestionsAndAnswers []QA     `json:"questionsAndAnswers"`
	Objectives          []string `json:"objectives"`
}

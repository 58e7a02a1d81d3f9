package summarizer

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/nlp"
	"recap/internal/services/openai"
)

const noAnswerPlaceholder = "No answer recorded"

// Summarizer condenses a transcript into an executive summary, key points,
// question/answer pairs, and objectives.
type Summarizer struct {
	remote       *openai.Client
	maxSentences int
	logger       *slog.Logger
}

// New builds a summarizer that keeps at most maxSentences in the extractive
// summary.
func New(remote *openai.Client, maxSentences int, logger *slog.Logger) *Summarizer {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return &Summarizer{
		remote:       remote,
		maxSentences: maxSentences,
		logger:       logging.NewComponentLogger(logger, "summarizer"),
	}
}

// RemoteEnabled reports whether the remote service can be attempted.
func (s *Summarizer) RemoteEnabled() bool {
	return s.remote != nil && s.remote.Configured()
}

// Remote summarizes through the hosted AI service.
func (s *Summarizer) Remote(ctx context.Context, text string) (meeting.Summary, error) {
	return s.remote.Summarize(ctx, text)
}

// Local builds an extractive summary. Sentences are scored by the document
// frequencies of their words normalized by sentence length, the top scorers
// are kept, and original order is restored before joining. The analysis, when
// present, contributes key points, question pairs, and objectives.
func (s *Summarizer) Local(_ context.Context, text string, analysis *meeting.Analysis) (meeting.Summary, error) {
	sentences := nlp.SplitSentences(text)
	top := s.topSentences(text, sentences)

	summary := meeting.Summary{Executive: strings.Join(top, " ")}

	if analysis != nil && len(analysis.KeyTopics) > 0 {
		summary.KeyPoints = keyPointsForTopics(sentences, analysis.KeyTopics)
	}
	if len(summary.KeyPoints) == 0 {
		summary.KeyPoints = append(summary.KeyPoints, top...)
	}

	if analysis != nil {
		for _, question := range analysis.Questions {
			answer := question.Answer
			if strings.TrimSpace(answer) == "" {
				answer = noAnswerPlaceholder
			}
			summary.QuestionsAndAnswers = append(summary.QuestionsAndAnswers, meeting.QA{
				Question: question.Text,
				Answer:   answer,
			})
		}
		for _, objective := range analysis.Objectives {
			summary.Objectives = append(summary.Objectives, objective.Text)
		}
	}

	s.logger.Debug("local summary complete",
		logging.Int("sentences", len(top)),
		logging.Int("key_points", len(summary.KeyPoints)))
	return summary, nil
}

// topSentences returns the highest scoring sentences in their original order.
func (s *Summarizer) topSentences(text string, sentences []string) []string {
	if len(sentences) <= s.maxSentences {
		return sentences
	}

	frequencies := make(map[string]float64)
	for _, token := range nlp.Tokenize(text) {
		if len([]rune(token)) > 2 {
			frequencies[token]++
		}
	}

	type scored struct {
		index int
		score float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		tokens := nlp.Tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		var total float64
		for _, token := range tokens {
			total += frequencies[token]
		}
		ranked = append(ranked, scored{index: i, score: total / float64(len(tokens))})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	ranked = ranked[:s.maxSentences]
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].index < ranked[j].index })

	top := make([]string, 0, len(ranked))
	for _, entry := range ranked {
		top = append(top, sentences[entry.index])
	}
	return top
}

// keyPointsForTopics picks the first sentence mentioning each top topic.
func keyPointsForTopics(sentences []string, topics []meeting.Topic) []string {
	points := make([]string, 0, len(topics))
	used := make(map[int]struct{})
	for _, topic := range topics {
		term := nlp.Fold(strings.ToLower(topic.Term))
		for i, sentence := range sentences {
			if _, taken := used[i]; taken {
				continue
			}
			if strings.Contains(nlp.Fold(strings.ToLower(sentence)), term) {
				points = append(points, sentence)
				used[i] = struct{}{}
				break
			}
		}
	}
	return points
}

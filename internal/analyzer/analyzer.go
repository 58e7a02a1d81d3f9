package analyzer

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/nlp"
	"recap/internal/services"
	"recap/internal/services/openai"
)

const minTranscriptChars = 10

// Analyzer extracts topics, sentiment, questions, objectives, and tasks from
// a transcript.
type Analyzer struct {
	remote     *openai.Client
	classifier *nlp.IntentClassifier
	topTopics  int
	logger     *slog.Logger
}

// New builds an analyzer. The intent classifier is trained once here and
// shared read-only across jobs.
func New(remote *openai.Client, confidenceThreshold float64, topTopics int, logger *slog.Logger) *Analyzer {
	if topTopics <= 0 {
		topTopics = 10
	}
	return &Analyzer{
		remote:     remote,
		classifier: nlp.NewIntentClassifier(confidenceThreshold),
		topTopics:  topTopics,
		logger:     logging.NewComponentLogger(logger, "analyzer"),
	}
}

// Normalize collapses any accepted transcript shape to plain text and
// enforces the minimum length for meaningful analysis.
func (a *Analyzer) Normalize(input meeting.TranscriptInput) (string, error) {
	if input == nil {
		return "", services.Wrap(services.ErrValidation, "analysis", "normalize", "transcript required", nil)
	}
	text := strings.TrimSpace(input.PlainText())
	if utf8.RuneCountInString(text) < minTranscriptChars {
		return "", services.Wrap(services.ErrValidation, "analysis", "normalize", "transcript too short to analyze", nil)
	}
	return text, nil
}

// RemoteEnabled reports whether the remote service can be attempted.
func (a *Analyzer) RemoteEnabled() bool {
	return a.remote != nil && a.remote.Configured()
}

// Remote analyzes through the hosted AI service.
func (a *Analyzer) Remote(ctx context.Context, text string) (meeting.Analysis, error) {
	return a.remote.Analyze(ctx, text)
}

// Local analyzes the transcript with the in-process NLP toolkit.
func (a *Analyzer) Local(_ context.Context, text string) (meeting.Analysis, error) {
	sentences := nlp.SplitSentences(text)

	analysis := meeting.Analysis{}
	for _, keyword := range nlp.Keywords(text, a.topTopics) {
		analysis.KeyTopics = append(analysis.KeyTopics, meeting.Topic{Term: keyword.Term, Score: keyword.Score})
	}
	sentiment := nlp.ScoreSentiment(text)
	analysis.Sentiment = meeting.Sentiment{Score: sentiment.Score, Comparative: sentiment.Comparative}

	for i, sentence := range sentences {
		intent, confidence := a.classifier.Classify(sentence)
		switch intent {
		case nlp.IntentQuestion:
			analysis.Questions = append(analysis.Questions, meeting.Question{
				Text:       sentence,
				Answer:     answerFor(sentences, i),
				Confidence: confidence,
			})
		case nlp.IntentObjective:
			analysis.Objectives = append(analysis.Objectives, meeting.Finding{Text: sentence, Confidence: confidence})
		case nlp.IntentTask:
			analysis.Tasks = append(analysis.Tasks, meeting.Finding{Text: sentence, Confidence: confidence})
		}
	}

	a.logger.Debug("local analysis complete",
		logging.Int("topics", len(analysis.KeyTopics)),
		logging.Int("questions", len(analysis.Questions)),
		logging.Int("objectives", len(analysis.Objectives)),
		logging.Int("tasks", len(analysis.Tasks)))
	return analysis, nil
}

// answerFor returns the sentence following a question, when there is one. A
// question never answers itself and an interrogative follow-up is not an
// answer either.
func answerFor(sentences []string, questionIndex int) string {
	if questionIndex+1 >= len(sentences) {
		return ""
	}
	next := strings.TrimSpace(sentences[questionIndex+1])
	if next == "" || strings.ContainsAny(next, "?¿") {
		return ""
	}
	return next
}

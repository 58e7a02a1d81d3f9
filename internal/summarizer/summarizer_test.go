package summarizer

import (
	"context"
	"strings"
	"testing"

	"recap/internal/meeting"
)

func TestLocalRestoresOriginalOrder(t *testing.T) {
	s := New(nil, 2, nil)
	text := "El presupuesto del proyecto queda aprobado hoy. " +
		"Comentario breve sin peso. " +
		"El proyecto del presupuesto necesita revisión del presupuesto. " +
		"Otra nota menor aparte."

	summary, err := s.Local(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("Local: %v", err)
	}
	first := strings.Index(summary.Executive, "queda aprobado")
	second := strings.Index(summary.Executive, "necesita revisión")
	if first == -1 || second == -1 {
		t.Fatalf("expected the two dense sentences, got %q", summary.Executive)
	}
	if first > second {
		t.Fatalf("sentences must keep original order: %q", summary.Executive)
	}
}

func TestLocalShortTranscriptKeptWhole(t *testing.T) {
	s := New(nil, 5, nil)
	text := "Primera frase. Segunda frase."
	summary, err := s.Local(context.Background(), text, nil)
	if err != nil {
		t.Fatalf("Local: %v", err)
	}
	if !strings.Contains(summary.Executive, "Primera frase.") || !strings.Contains(summary.Executive, "Segunda frase.") {
		t.Fatalf("short transcripts should be kept whole: %q", summary.Executive)
	}
}

func TestLocalKeyPointsFollowTopics(t *testing.T) {
	s := New(nil, 5, nil)
	text := "El presupuesto queda aprobado. La entrega será el viernes. Cerramos la reunión."
	analysis := &meeting.Analysis{
		KeyTopics: []meeting.Topic{
			{Term: "entrega", Score: 2},
			{Term: "presupuesto", Score: 1},
		},
	}

	summary, err := s.Local(context.Background(), text, analysis)
	if err != nil {
		t.Fatalf("Local: %v", err)
	}
	if len(summary.KeyPoints) != 2 {
		t.Fatalf("expected one key point per matched topic, got %+v", summary.KeyPoints)
	}
	if !strings.Contains(summary.KeyPoints[0], "entrega") {
		t.Fatalf("key points should follow topic order, got %+v", summary.KeyPoints)
	}
}

func TestLocalUnansweredQuestionGetsPlaceholder(t *testing.T) {
	s := New(nil, 5, nil)
	analysis := &meeting.Analysis{
		Questions: []meeting.Question{
			{Text: "¿Quién revisa el informe?", Answer: ""},
			{Text: "¿Cuándo entregamos?", Answer: "El viernes."},
		},
		Objectives: []meeting.Finding{{Text: "Cerrar el presupuesto", Confidence: 0.9}},
	}

	summary, err := s.Local(context.Background(), "Texto de la reunión con contenido.", analysis)
	if err != nil {
		t.Fatalf("Local: %v", err)
	}
	if len(summary.QuestionsAndAnswers) != 2 {
		t.Fatalf("expected 2 pairs, got %+v", summary.QuestionsAndAnswers)
	}
	if summary.QuestionsAndAnswers[0].Answer != noAnswerPlaceholder {
		t.Fatalf("unanswered question should get the placeholder, got %q", summary.QuestionsAndAnswers[0].Answer)
	}
	if summary.QuestionsAndAnswers[1].Answer != "El viernes." {
		t.Fatalf("recorded answer must pass through, got %q", summary.QuestionsAndAnswers[1].Answer)
	}
	if len(summary.Objectives) != 1 || summary.Objectives[0] != "Cerrar el presupuesto" {
		t.Fatalf("objectives must be carried verbatim, got %+v", summary.Objectives)
	}
}

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"recap/internal/meeting"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	}, WithSleeper(func(time.Duration) {}))
	return client, server
}

func chatResponse(t *testing.T, w http.ResponseWriter, content any) {
	t.Helper()
	encoded, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("encode content: %v", err)
	}
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": string(encoded)}},
		},
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestConfiguredRejectsPlaceholderKey(t *testing.T) {
	if NewClient(Config{APIKey: "your_openai_api_key"}).Configured() {
		t.Fatal("placeholder key should not count as configured")
	}
	if NewClient(Config{APIKey: "  "}).Configured() {
		t.Fatal("blank key should not count as configured")
	}
	if !NewClient(Config{APIKey: "sk-real"}).Configured() {
		t.Fatal("real key should count as configured")
	}
}

func TestAnalyzeDecodesPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		chatResponse(t, w, map[string]any{
			"keyTopics":  []map[string]any{{"term": "presupuesto", "tfidf": 0.8}},
			"sentiment":  map[string]any{"score": 0.4, "comparative": 0.1},
			"questions":  []map[string]any{{"text": "¿Cuándo entregamos?", "answer": "El viernes."}},
			"objectives": []map[string]any{{"text": "Cerrar el presupuesto"}},
			"tasks":      []map[string]any{{"text": "Enviar la propuesta"}},
		})
	}))

	analysis, err := client.Analyze(context.Background(), "texto de la reunión")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(analysis.KeyTopics) != 1 || analysis.KeyTopics[0].Term != "presupuesto" {
		t.Fatalf("unexpected topics: %+v", analysis.KeyTopics)
	}
	if analysis.Sentiment.Score != 0.4 {
		t.Fatalf("unexpected sentiment score %v", analysis.Sentiment.Score)
	}
	if len(analysis.Questions) != 1 || analysis.Questions[0].Answer != "El viernes." {
		t.Fatalf("unexpected questions: %+v", analysis.Questions)
	}
	if len(analysis.Objectives) != 1 || len(analysis.Tasks) != 1 {
		t.Fatalf("unexpected findings: %+v / %+v", analysis.Objectives, analysis.Tasks)
	}
}

func TestAnalyzeClampsSentiment(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, map[string]any{
			"sentiment": map[string]any{"score": 3.5},
		})
	}))

	analysis, err := client.Analyze(context.Background(), "texto")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.Sentiment.Score != 1 {
		t.Fatalf("score should clamp to 1, got %v", analysis.Sentiment.Score)
	}
}

func TestSummarizeRequiresExecutive(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, map[string]any{"keyPoints": []string{"uno"}})
	}))

	if _, err := client.Summarize(context.Background(), "texto"); err == nil {
		t.Fatal("expected error for payload without executive summary")
	}
}

func TestSummarizeDecodesPayload(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, map[string]any{
			"executive": "Se discutió el presupuesto del trimestre.",
			"keyPoints": []string{"presupuesto", "fechas"},
			"questionsAndAnswers": []map[string]string{
				{"question": "¿Cuándo entregamos?", "answer": "El viernes."},
			},
			"objectives": []string{"Cerrar el presupuesto"},
		})
	}))

	summary, err := client.Summarize(context.Background(), "texto")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Executive == "" || len(summary.KeyPoints) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.QuestionsAndAnswers) != 1 || summary.QuestionsAndAnswers[0].Answer != "El viernes." {
		t.Fatalf("unexpected qa: %+v", summary.QuestionsAndAnswers)
	}
}

func TestPlanNormalizesDependencies(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatResponse(t, w, map[string]any{
			"id":          "plan-1",
			"name":        "Plan de lanzamiento",
			"description": "Trabajo derivado de la reunión",
			"startDate":   "2026-03-02",
			"endDate":     "2026-03-31",
			"objectives": []map[string]any{
				{"id": "obj1", "text": "Lanzar el producto", "tasks": []string{"task1"}},
			},
			"ganttData": map[string]any{
				"tasks": []map[string]any{
					{"id": "task1", "text": "Preparar demo", "start_date": "2026-03-02", "end_date": "2026-03-05", "progress": 0.5},
					{"id": "task2", "text": "Enviar propuesta", "start_date": "not-a-date", "end_date": "2026-03-10"},
				},
				"dependencies": []map[string]any{
					{"id": "dep1", "source": "task1", "target": "task2", "type": 0},
				},
			},
		})
	}))

	plan, err := client.Plan(context.Background(), "texto")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Name != "Plan de lanzamiento" {
		t.Fatalf("unexpected plan name %q", plan.Name)
	}
	if len(plan.GanttData.Dependencies) != 1 || plan.GanttData.Dependencies[0].Type != meeting.DependencyFinishToStart {
		t.Fatalf("unexpected dependencies: %+v", plan.GanttData.Dependencies)
	}
	if got := plan.GanttData.Tasks[0].StartDate.String(); got != "2026-03-02" {
		t.Fatalf("unexpected start date %s", got)
	}
	if got := plan.GanttData.Tasks[1].StartDate.String(); got != plan.StartDate.String() {
		t.Fatalf("invalid task date should fall back to plan start, got %s", got)
	}
}

func TestTranscribeRetriesTransientFailures(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "meeting.mp3")
	if err := os.WriteFile(audioPath, []byte("fake-audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("unexpected response_format %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"text":     "Hola a todos.",
			"language": "es",
			"segments": []map[string]any{{"text": "Hola a todos.", "start": 0.0, "end": 1.5}},
		})
	}))

	transcript, err := client.Transcribe(context.Background(), audioPath)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	if transcript.Text != "Hola a todos." || len(transcript.Segments) != 1 {
		t.Fatalf("unexpected transcript: %+v", transcript)
	}
}

func TestTranscribeExhaustsRetries(t *testing.T) {
	dir := t.TempDir()
	audioPath := filepath.Join(dir, "meeting.mp3")
	if err := os.WriteFile(audioPath, []byte("fake-audio"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := client.Transcribe(context.Background(), audioPath); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != defaultTranscribeRetries {
		t.Fatalf("expected %d attempts, got %d", defaultTranscribeRetries, attempts)
	}
}

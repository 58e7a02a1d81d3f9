package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"recap/internal/analyzer"
	"recap/internal/meeting"
	"recap/internal/planner"
	"recap/internal/services/whisper"
	"recap/internal/summarizer"
	"recap/internal/tracker"
	"recap/internal/transcriber"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(_ context.Context, _, event, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.events...)
}

func fakeWhisper(t *testing.T, transcript string, fail bool) *whisper.Service {
	t.Helper()
	service := whisper.NewService(whisper.Config{})
	service.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if fail {
			return errors.New("engine exploded")
		}
		var outputDir string
		for i, arg := range args {
			if arg == "--output_dir" && i+1 < len(args) {
				outputDir = args[i+1]
			}
		}
		base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		data, err := json.Marshal(map[string]any{"text": transcript})
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(outputDir, base+".json"), data, 0o644)
	})
	return service
}

func newTestOrchestrator(t *testing.T, transcript string, whisperFails bool) (*Orchestrator, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	orchestrator, err := NewOrchestrator(Options{
		Store:       meeting.NewMemoryStore(),
		Transcriber: transcriber.New(nil, fakeWhisper(t, transcript, whisperFails), nil),
		Analyzer:    analyzer.New(nil, 0.7, 10, nil),
		Summarizer:  summarizer.New(nil, 5, nil),
		Tracker:     tracker.New(nil, nil),
		Planner:     planner.New(nil, 14, nil),
		Notifier:    notifier,
	})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return orchestrator, notifier
}

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meeting.mp3")
	if err := os.WriteFile(path, []byte("audio-bytes"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

const sampleTranscript = "Necesitamos lograr el objetivo de ventas este trimestre. " +
	"Hay que hacer la tarea de implementar el sistema la próxima semana. " +
	"¿Quién revisa el informe? María revisa el informe del proyecto."

func TestPipelineCompletesAllStages(t *testing.T) {
	orchestrator, notifier := newTestOrchestrator(t, sampleTranscript, false)

	job, err := orchestrator.Submit(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	orchestrator.Wait()

	final, err := orchestrator.Job(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if final.Status != meeting.JobCompleted {
		t.Fatalf("expected completed job, got %s (%s)", final.Status, final.Error)
	}
	for _, stage := range meeting.StageNames() {
		result := final.Stages.Get(stage)
		if result == nil {
			t.Fatalf("stage %s was not attempted", stage)
		}
		if !result.Success {
			t.Fatalf("stage %s failed: %s", stage, result.Error)
		}
	}
	if got := final.Stages.Transcription.Metadata.Service; got != meeting.ServiceLocal {
		t.Fatalf("transcription should record the local path, got %s", got)
	}
	if final.Stages.Transcription.Transcript == nil || final.Stages.Planning.Plan == nil {
		t.Fatal("stage payloads missing")
	}

	events := notifier.Events()
	if events[0] != "transcription:start" {
		t.Fatalf("unexpected first event %q", events[0])
	}
	if events[len(events)-1] != EventProcessingComplete {
		t.Fatalf("unexpected final event %q", events[len(events)-1])
	}
}

func TestPipelineFailsOnMissingAudio(t *testing.T) {
	orchestrator, notifier := newTestOrchestrator(t, sampleTranscript, false)

	job, err := orchestrator.Submit(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	orchestrator.Wait()

	final, err := orchestrator.Job(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if final.Status != meeting.JobFailed {
		t.Fatalf("expected failed job, got %s", final.Status)
	}
	if final.Error == "" {
		t.Fatal("failed job must carry a descriptive error")
	}
	if final.Stages.Analysis != nil {
		t.Fatal("later stages must not run after a fatal failure")
	}

	events := notifier.Events()
	if events[len(events)-1] != EventProcessingFailed {
		t.Fatalf("unexpected final event %q", events[len(events)-1])
	}
}

func TestPipelineFailsWhenTranscriptTooShort(t *testing.T) {
	orchestrator, notifier := newTestOrchestrator(t, "corto", false)

	job, err := orchestrator.Submit(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	orchestrator.Wait()

	final, err := orchestrator.Job(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if final.Status != meeting.JobFailed {
		t.Fatalf("expected failed job, got %s", final.Status)
	}
	if !strings.Contains(final.Error, "analysis failed") {
		t.Fatalf("job error must name the failing stage: %q", final.Error)
	}
	if final.Stages.Transcription == nil || !final.Stages.Transcription.Success {
		t.Fatal("transcription must be recorded as successful")
	}
	analysis := final.Stages.Analysis
	if analysis == nil {
		t.Fatal("analysis result missing")
	}
	if analysis.Success || analysis.Error == "" {
		t.Fatalf("analysis must record its failure, got success=%v error=%q", analysis.Success, analysis.Error)
	}
	if final.Stages.Summary != nil || final.Stages.Tracking != nil || final.Stages.Planning != nil {
		t.Fatal("later stages must not run after a fatal analysis failure")
	}

	events := notifier.Events()
	if events[len(events)-1] != EventProcessingFailed {
		t.Fatalf("unexpected final event %q", events[len(events)-1])
	}
}

func TestPipelineContinuesWhenTrackingFails(t *testing.T) {
	// A closed store makes every save fail, which is the only way the
	// always-local tracking stage can error.
	store, err := tracker.Open(filepath.Join(t.TempDir(), "tracking.db"))
	if err != nil {
		t.Fatalf("open tracking store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close tracking store: %v", err)
	}

	orchestrator, err := NewOrchestrator(Options{
		Store:       meeting.NewMemoryStore(),
		Transcriber: transcriber.New(nil, fakeWhisper(t, sampleTranscript, false), nil),
		Analyzer:    analyzer.New(nil, 0.7, 10, nil),
		Summarizer:  summarizer.New(nil, 5, nil),
		Tracker:     tracker.New(store, nil),
		Planner:     planner.New(nil, 14, nil),
	})
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	job, err := orchestrator.Submit(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	orchestrator.Wait()

	final, err := orchestrator.Job(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if final.Status != meeting.JobCompleted {
		t.Fatalf("tracking failure must not fail the job, got %s (%s)", final.Status, final.Error)
	}
	tracking := final.Stages.Tracking
	if tracking == nil || tracking.Tracking == nil {
		t.Fatal("tracking result missing")
	}
	if tracking.Success || tracking.Error == "" {
		t.Fatalf("tracking must record its failure, got success=%v error=%q", tracking.Success, tracking.Error)
	}
	if len(tracking.Tracking.Objectives) != 0 || len(tracking.Tracking.Tasks) != 0 {
		t.Fatal("failed tracking must fall back to an empty payload")
	}
	if final.Stages.Planning == nil || !final.Stages.Planning.Success {
		t.Fatal("planning must still run after a tracking failure")
	}
}

func TestPipelineRecordsPlaceholderWhenEnginesFail(t *testing.T) {
	orchestrator, _ := newTestOrchestrator(t, "", true)

	job, err := orchestrator.Submit(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	orchestrator.Wait()

	final, err := orchestrator.Job(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	result := final.Stages.Transcription
	if result == nil || result.Transcript == nil {
		t.Fatal("transcription result missing")
	}
	if result.Metadata.Service != meeting.ServiceErrorFallback {
		t.Fatalf("placeholder must record error-fallback, got %s", result.Metadata.Service)
	}
	if !result.Success || result.Error != "" {
		t.Fatalf("placeholder stage must resolve cleanly, got success=%v error=%q", result.Success, result.Error)
	}
	if !strings.Contains(result.Transcript.Text, "unavailable") {
		t.Fatalf("placeholder transcript missing marker: %q", result.Transcript.Text)
	}
	if final.Status != meeting.JobCompleted {
		t.Fatalf("pipeline should continue over the placeholder, got %s (%s)", final.Status, final.Error)
	}
}

func TestJobLookupUnknownID(t *testing.T) {
	orchestrator, _ := newTestOrchestrator(t, sampleTranscript, false)
	if _, err := orchestrator.Job(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestJobsListsSubmissions(t *testing.T) {
	orchestrator, _ := newTestOrchestrator(t, sampleTranscript, false)
	ctx := context.Background()

	first, err := orchestrator.Submit(ctx, writeAudio(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := orchestrator.Submit(ctx, writeAudio(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	orchestrator.Wait()

	jobs, err := orchestrator.Jobs(ctx)
	if err != nil {
		t.Fatalf("Jobs: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	seen := map[string]bool{first.ID: false, second.ID: false}
	for _, job := range jobs {
		seen[job.ID] = true
	}
	for id, ok := range seen {
		if !ok {
			t.Fatalf("job %s missing from listing", id)
		}
	}
}

package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"recap/internal/meeting"
)

func processedJob() *meeting.Job {
	job := meeting.NewJob("/uploads/meeting.mp3")
	job.Status = meeting.JobCompleted
	now := meeting.StageMetadata{Timestamp: time.Now().UTC(), Service: meeting.ServiceLocal}

	job.Stages.Transcription = &meeting.StageResult{
		Success: true, Metadata: now,
		Transcript: &meeting.Transcript{
			Text: "Hola a todos.",
			Segments: []meeting.Segment{
				{Text: "Hola a todos.", Start: 0, End: 1.5},
			},
		},
	}
	job.Stages.Analysis = &meeting.StageResult{
		Success: true, Metadata: now,
		Analysis: &meeting.Analysis{
			KeyTopics: []meeting.Topic{{Term: "presupuesto", Score: 2}},
			Sentiment: meeting.Sentiment{Score: 0.5, Comparative: 0.05},
		},
	}
	job.Stages.Summary = &meeting.StageResult{
		Success: true, Metadata: now,
		Summary: &meeting.Summary{Executive: "Se discutió el presupuesto."},
	}
	job.Stages.Tracking = &meeting.StageResult{
		Success: true, Metadata: now,
		Tracking: &meeting.Tracking{
			MeetingID:  job.ID,
			Objectives: []meeting.Objective{{ID: "obj-1", Text: "Cerrar presupuesto", Status: meeting.ObjectivePending, RelatedTasks: []string{}}},
			Tasks:      []meeting.Task{{ID: "task-1", Text: "Revisar cifras", Status: meeting.TaskTodo, Assignee: "unassigned"}},
		},
	}
	job.Stages.Planning = &meeting.StageResult{
		Success: true, Metadata: now,
		Plan: &meeting.Plan{
			ID: "plan-1", Name: "Plan", StartDate: meeting.NewDate(2026, time.March, 2), EndDate: meeting.NewDate(2026, time.March, 16),
			GanttData: meeting.GanttData{
				Tasks:        []meeting.GanttTask{{ID: "task-1", Text: "Revisar cifras", StartDate: meeting.NewDate(2026, time.March, 2), EndDate: meeting.NewDate(2026, time.March, 5)}},
				Dependencies: []meeting.Dependency{},
			},
		},
	}
	return job
}

func sheetNames(t *testing.T, data []byte) map[string]bool {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	names := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		names[name] = true
	}
	return names
}

func TestExportOneSheetPerArtifact(t *testing.T) {
	data, err := NewExporter(nil).Export(processedJob())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	names := sheetNames(t, data)
	for _, want := range []string{"Overview", "Transcript", "Analysis", "Summary", "Tracking", "Plan"} {
		if !names[want] {
			t.Fatalf("missing sheet %s in %v", want, names)
		}
	}
}

func TestExportSkipsUnresolvedStages(t *testing.T) {
	job := meeting.NewJob("/uploads/meeting.mp3")
	job.Status = meeting.JobFailed
	job.Error = "transcription failed"

	data, err := NewExporter(nil).Export(job)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	names := sheetNames(t, data)
	if !names["Overview"] {
		t.Fatal("overview sheet must always exist")
	}
	for _, absent := range []string{"Transcript", "Analysis", "Summary", "Tracking", "Plan"} {
		if names[absent] {
			t.Fatalf("unexpected sheet %s for unresolved stage", absent)
		}
	}
}

func TestExportNilJob(t *testing.T) {
	if _, err := NewExporter(nil).Export(nil); err == nil {
		t.Fatal("expected error for nil job")
	}
}

func TestExportOverviewValues(t *testing.T) {
	job := processedJob()
	data, err := NewExporter(nil).Export(job)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	id, err := f.GetCellValue("Overview", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if id != job.ID {
		t.Fatalf("overview job id = %q, want %q", id, job.ID)
	}
	status, _ := f.GetCellValue("Overview", "B3")
	if status != string(meeting.JobCompleted) {
		t.Fatalf("overview status = %q", status)
	}
}

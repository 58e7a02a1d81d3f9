package tracker

import (
	"context"
	"testing"
	"time"

	"recap/internal/meeting"
)

var fixedNow = time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

func newTestTracker() *Tracker {
	tr := New(nil, nil)
	tr.WithClock(func() time.Time { return fixedNow })
	return tr
}

func buildTracking(t *testing.T, analysis *meeting.Analysis) meeting.Tracking {
	t.Helper()
	tracking, err := newTestTracker().Build(context.Background(), "meeting-1", analysis)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tracking
}

func TestBuildWithoutAnalysisIsEmpty(t *testing.T) {
	tracking := buildTracking(t, nil)
	if len(tracking.Objectives) != 0 || len(tracking.Tasks) != 0 {
		t.Fatalf("expected empty tracking, got %+v", tracking)
	}
	if tracking.Objectives == nil || tracking.Tasks == nil {
		t.Fatal("collections must be non-nil")
	}
}

func TestBuildMintsRecords(t *testing.T) {
	tracking := buildTracking(t, &meeting.Analysis{
		Objectives: []meeting.Finding{{Text: "Cerrar el presupuesto anual", Confidence: 0.9}},
		Tasks:      []meeting.Finding{{Text: "Revisar las cifras del informe", Confidence: 0.8}},
	})
	if len(tracking.Objectives) != 1 || len(tracking.Tasks) != 1 {
		t.Fatalf("unexpected tracking: %+v", tracking)
	}
	if tracking.Objectives[0].Status != meeting.ObjectivePending {
		t.Fatalf("objectives must start PENDING, got %s", tracking.Objectives[0].Status)
	}
	if tracking.Tasks[0].Status != meeting.TaskTodo {
		t.Fatalf("tasks must start TODO, got %s", tracking.Tasks[0].Status)
	}
	if tracking.Objectives[0].ID == "" || tracking.Tasks[0].ID == "" {
		t.Fatal("records must get fresh ids")
	}
}

func TestDueDateInference(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"explicit date", "Enviar propuesta al cliente el 15/03/2025", "2025-03-15"},
		{"dash separators", "Entregar informe 03-04-2026", "2026-04-03"},
		{"two digit year", "Cerrar contrato el 01/06/27", "2027-06-01"},
		{"no year", "Revisar el 20/11", "2026-11-20"},
		{"next week es", "Terminar el borrador la próxima semana", "2026-03-09"},
		{"next week en", "Finish the draft next week", "2026-03-09"},
		{"next month es", "Presentar resultados el próximo mes", "2026-04-02"},
		{"default", "Actualizar la documentación del proyecto", "2026-03-16"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inferDueDate(tc.text, fixedNow)
			if got.String() != tc.want {
				t.Fatalf("inferDueDate(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestAssigneeInference(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"asignado a", "Preparar la demo, asignado a María García", "María García"},
		{"assigned to", "Prepare the deck, assigned to John", "John"},
		{"responsable", "Enviar las actas, responsable: Carlos", "Carlos"},
		{"none", "Enviar las actas antes del viernes", "unassigned"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inferAssignee(tc.text); got != tc.want {
				t.Fatalf("inferAssignee(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestTaskLinksToFirstQualifyingObjective(t *testing.T) {
	tracking := buildTracking(t, &meeting.Analysis{
		Objectives: []meeting.Finding{
			{Text: "Launch new product line", Confidence: 0.9},
			{Text: "Improve the product line documentation", Confidence: 0.8},
		},
		Tasks: []meeting.Finding{
			{Text: "Prepare the product line launch materials", Confidence: 0.8},
		},
	})
	first, second := tracking.Objectives[0], tracking.Objectives[1]
	if len(first.RelatedTasks) != 1 || first.RelatedTasks[0] != tracking.Tasks[0].ID {
		t.Fatalf("task should link to the first qualifying objective: %+v", first)
	}
	if len(second.RelatedTasks) != 0 {
		t.Fatalf("a task links to at most one objective: %+v", second)
	}
}

func TestTaskWithoutOverlapStaysUnlinked(t *testing.T) {
	tracking := buildTracking(t, &meeting.Analysis{
		Objectives: []meeting.Finding{{Text: "Cerrar el presupuesto anual", Confidence: 0.9}},
		Tasks:      []meeting.Finding{{Text: "Comprar café para la oficina", Confidence: 0.8}},
	})
	if len(tracking.Objectives[0].RelatedTasks) != 0 {
		t.Fatalf("unrelated task must not link: %+v", tracking.Objectives[0])
	}
	if len(tracking.Tasks) != 1 {
		t.Fatalf("unlinked tasks are still tracked: %+v", tracking.Tasks)
	}
}

package meeting_test

import (
	"encoding/json"
	"testing"
	"time"

	"recap/internal/meeting"
)

func TestDateOfTruncatesToUTCDay(t *testing.T) {
	stamp := time.Date(2026, time.March, 2, 23, 45, 12, 0, time.UTC)
	date := meeting.DateOf(stamp)
	if date.String() != "2026-03-02" {
		t.Fatalf("unexpected date: %s", date)
	}
}

func TestParseDate(t *testing.T) {
	date, err := meeting.ParseDate(" 2026-07-15 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if date.String() != "2026-07-15" {
		t.Fatalf("unexpected date: %s", date)
	}
	if _, err := meeting.ParseDate("15/07/2026"); err == nil {
		t.Fatal("expected error for non-ISO date")
	}
}

func TestDateArithmeticAndComparison(t *testing.T) {
	date := meeting.NewDate(2026, time.January, 30)
	if got := date.AddDays(3).String(); got != "2026-02-02" {
		t.Fatalf("AddDays crossed month incorrectly: %s", got)
	}
	if got := date.AddMonths(1).String(); got != "2026-03-02" {
		t.Fatalf("AddMonths: %s", got)
	}
	if !date.Before(date.AddDays(1)) || !date.AddDays(1).After(date) {
		t.Fatal("comparison helpers disagree")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Due *meeting.Date `json:"due,omitempty"`
	}

	due := meeting.NewDate(2026, time.March, 9)
	data, err := json.Marshal(payload{Due: &due})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"due":"2026-03-09"}` {
		t.Fatalf("unexpected encoding: %s", data)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Due == nil || decoded.Due.String() != "2026-03-09" {
		t.Fatalf("unexpected decoded date: %v", decoded.Due)
	}

	var nullable payload
	if err := json.Unmarshal([]byte(`{"due":null}`), &nullable); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
}

func TestParseStatuses(t *testing.T) {
	if status, ok := meeting.ParseTaskStatus(" done "); !ok || status != meeting.TaskDone {
		t.Fatalf("unexpected task status: %v %v", status, ok)
	}
	if _, ok := meeting.ParseTaskStatus("finished"); ok {
		t.Fatal("expected unknown task status to be rejected")
	}
	if status, ok := meeting.ParseObjectiveStatus("in_progress"); !ok || status != meeting.ObjectiveInProgress {
		t.Fatalf("unexpected objective status: %v %v", status, ok)
	}
	if _, ok := meeting.ParseObjectiveStatus("paused"); ok {
		t.Fatal("expected unknown objective status to be rejected")
	}
}

package meeting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"recap/internal/meeting"
	"recap/internal/services"
)

func TestMemoryStoreSnapshotsJobs(t *testing.T) {
	store := meeting.NewMemoryStore()
	ctx := context.Background()

	job := meeting.NewJob("/tmp/audio.wav")
	if err := store.Put(ctx, job); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutating the original must not leak into the stored snapshot.
	job.Status = meeting.JobFailed

	got, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != meeting.JobProcessing {
		t.Fatalf("stored job mutated: %s", got.Status)
	}
}

func TestMemoryStoreGetUnknownJob(t *testing.T) {
	store := meeting.NewMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorePutRequiresID(t *testing.T) {
	store := meeting.NewMemoryStore()
	err := store.Put(context.Background(), &meeting.Job{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestMemoryStoreListOrdersByCreation(t *testing.T) {
	store := meeting.NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)

	newer := &meeting.Job{ID: "b", Status: meeting.JobProcessing, CreatedAt: base.Add(time.Minute)}
	older := &meeting.Job{ID: "a", Status: meeting.JobCompleted, CreatedAt: base}
	for _, job := range []*meeting.Job{newer, older} {
		if err := store.Put(ctx, job); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	jobs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 || jobs[0].ID != "a" || jobs[1].ID != "b" {
		t.Fatalf("unexpected order: %v", jobs)
	}
}

package services_test

import (
	"errors"
	"testing"

	"recap/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "tracking", "update", "unknown task t-1", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
	want := "not found: tracking: update: unknown task t-1"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := services.Wrap(services.ErrTransient, "report", "export", "write workbook", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected ErrTransient marker, got %v", err)
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected default ErrTransient, got %v", err)
	}
	want := "transient failure: service failure"
	if err.Error() != want {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

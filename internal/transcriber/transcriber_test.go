package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recap/internal/services"
)

func TestValidateRejectsMissingAudio(t *testing.T) {
	tr := New(nil, nil, nil)

	cases := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"empty path", func(t *testing.T) string { return "" }},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.mp3") }},
		{"directory", func(t *testing.T) string { return t.TempDir() }},
		{"empty file", func(t *testing.T) string {
			path := filepath.Join(t.TempDir(), "empty.mp3")
			if err := os.WriteFile(path, nil, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			return path
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tr.Validate(tc.path(t))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidateAcceptsNonEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meeting.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := New(nil, nil, nil).Validate(path); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRemoteEnabledWithoutClient(t *testing.T) {
	if New(nil, nil, nil).RemoteEnabled() {
		t.Fatal("nil client should not enable the remote path")
	}
}

func TestLocalWithoutEngine(t *testing.T) {
	_, err := New(nil, nil, nil).Local(context.Background(), "meeting.mp3")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestPlaceholderNamesTheFile(t *testing.T) {
	transcript := New(nil, nil, nil).Placeholder("/uploads/standup.mp3")
	if !strings.Contains(transcript.Text, "standup.mp3") {
		t.Fatalf("placeholder should name the file: %q", transcript.Text)
	}
	if !strings.Contains(transcript.Text, "unavailable") {
		t.Fatalf("placeholder should be clearly marked: %q", transcript.Text)
	}
}

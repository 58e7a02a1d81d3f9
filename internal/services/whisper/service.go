package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"recap/internal/meeting"
)

const (
	// DefaultBinary is the whisper CLI used when none is configured.
	DefaultBinary = "whisper"
	// DefaultModel balances speed and accuracy for meeting audio.
	DefaultModel = "small"
)

// Config holds the local transcription settings.
type Config struct {
	Binary   string
	Model    string
	Language string
}

// Service transcribes audio with a locally installed whisper CLI. It is the
// fallback path when the remote transcription service is unavailable.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config) *Service {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Available reports whether the configured binary can be found on PATH.
func (s *Service) Available() bool {
	_, err := exec.LookPath(s.cfg.Binary)
	return err == nil
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Transcribe runs the whisper CLI over the audio file and loads the JSON
// output it writes next to the audio.
func (s *Service) Transcribe(ctx context.Context, audioPath string) (meeting.Transcript, error) {
	var empty meeting.Transcript
	if audioPath == "" {
		return empty, fmt.Errorf("whisper: audio path required")
	}

	outputDir, err := os.MkdirTemp("", "recap-whisper-*")
	if err != nil {
		return empty, fmt.Errorf("whisper: create work dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := s.buildArgs(audioPath, outputDir)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return empty, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	transcript, err := loadTranscript(filepath.Join(outputDir, baseName+".json"))
	if err != nil {
		return empty, fmt.Errorf("whisper: %w", err)
	}
	return transcript, nil
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	args := []string{
		audioPath,
		"--model", s.cfg.Model,
		"--output_format", "json",
		"--output_dir", outputDir,
	}
	if lang := strings.TrimSpace(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}
	return args
}

type whisperPayload struct {
	Text     string `json:"text"`
	Segments []struct {
		Text  string  `json:"text"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"segments"`
}

func loadTranscript(jsonPath string) (meeting.Transcript, error) {
	var empty meeting.Transcript
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return empty, fmt.Errorf("read output: %w", err)
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return empty, fmt.Errorf("parse output: %w", err)
	}

	transcript := meeting.Transcript{Text: strings.TrimSpace(payload.Text)}
	for _, segment := range payload.Segments {
		transcript.Segments = append(transcript.Segments, meeting.Segment{
			Text:  strings.TrimSpace(segment.Text),
			Start: segment.Start,
			End:   segment.End,
		})
	}
	if transcript.Text == "" {
		transcript.Text = meeting.SegmentedText(transcript.Segments).PlainText()
	}
	if transcript.Text == "" {
		return empty, fmt.Errorf("empty transcript")
	}
	return transcript, nil
}

package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/services"
	"recap/internal/services/openai"
	"recap/internal/services/whisper"
)

// Transcriber turns an uploaded audio file into a transcript. The remote
// service is preferred; a local whisper CLI covers offline operation.
type Transcriber struct {
	remote *openai.Client
	local  *whisper.Service
	logger *slog.Logger
}

// New builds a transcriber from its two backends.
func New(remote *openai.Client, local *whisper.Service, logger *slog.Logger) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transcriber{
		remote: remote,
		local:  local,
		logger: logging.NewComponentLogger(logger, "transcriber"),
	}
}

// Validate checks the audio file before any backend is attempted. A missing
// or empty file is an input error, not a backend failure.
func (t *Transcriber) Validate(audioPath string) error {
	if audioPath == "" {
		return services.Wrap(services.ErrValidation, "transcription", "validate", "audio path required", nil)
	}
	info, err := os.Stat(audioPath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcription", "validate",
			fmt.Sprintf("audio file %s not accessible", filepath.Base(audioPath)), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, "transcription", "validate", "audio path is a directory", nil)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrValidation, "transcription", "validate", "audio file is empty", nil)
	}
	return nil
}

// RemoteEnabled reports whether the remote service can be attempted.
func (t *Transcriber) RemoteEnabled() bool {
	return t.remote != nil && t.remote.Configured()
}

// Remote transcribes through the hosted speech service.
func (t *Transcriber) Remote(ctx context.Context, audioPath string) (meeting.Transcript, error) {
	return t.remote.Transcribe(ctx, audioPath)
}

// Local transcribes with the whisper CLI installed on this host.
func (t *Transcriber) Local(ctx context.Context, audioPath string) (meeting.Transcript, error) {
	if t.local == nil {
		return meeting.Transcript{}, services.Wrap(services.ErrUnavailable, "transcription", "local", "no local engine configured", nil)
	}
	transcript, err := t.local.Transcribe(ctx, audioPath)
	if err != nil {
		return meeting.Transcript{}, services.Wrap(services.ErrUnavailable, "transcription", "local", "whisper cli failed", err)
	}
	return transcript, nil
}

// Placeholder produces the transcript recorded when every engine failed. It
// is clearly marked so downstream consumers never mistake it for speech.
func (t *Transcriber) Placeholder(audioPath string) meeting.Transcript {
	t.logger.Warn("recording placeholder transcript",
		logging.String("audio_file", filepath.Base(audioPath)))
	return meeting.Transcript{
		Text: fmt.Sprintf("[transcription unavailable for %s]", filepath.Base(audioPath)),
	}
}

package pipeline

import (
	"context"
	"log/slog"

	"recap/internal/logging"
)

// Lifecycle events emitted while a job is processed. Stage events are
// "{stage}:start" and "{stage}:complete".
const (
	EventProcessingComplete = "processing:complete"
	EventProcessingFailed   = "processing:failed"
)

// Notifier receives job lifecycle events. Implementations must be safe for
// concurrent use and must not block the pipeline for long.
type Notifier interface {
	Notify(ctx context.Context, jobID, event, message string)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string) {}

// LogNotifier writes events to the logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier builds a notifier that logs each event.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.NewComponentLogger(logger, "notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, jobID, event, message string) {
	n.logger.InfoContext(ctx, message,
		logging.String(logging.FieldJobID, jobID),
		logging.String(logging.FieldEventType, event))
}

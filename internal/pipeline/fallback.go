package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"recap/internal/logging"
	"recap/internal/meeting"
)

// Backends bundles the execution paths of one stage. Remote is attempted
// first when enabled; Local covers the rest. Either function may be nil.
type Backends[T any] struct {
	RemoteEnabled bool
	Remote        func(context.Context) (T, error)
	Local         func(context.Context) (T, error)
}

// resolve runs a stage remote-first with local fallback. The returned service
// truthfully records which path produced the payload. A panic inside a
// backend is converted to an error and never escapes the stage.
func resolve[T any](ctx context.Context, logger *slog.Logger, stage meeting.StageName, backends Backends[T]) (T, meeting.Service, error) {
	var zero T

	if backends.RemoteEnabled && backends.Remote != nil {
		payload, err := attempt(ctx, backends.Remote)
		if err == nil {
			return payload, meeting.ServiceRemote, nil
		}
		logger.Warn("remote backend failed, falling back to local",
			logging.String(logging.FieldStage, string(stage)),
			logging.Error(err))
	}

	if backends.Local == nil {
		return zero, meeting.ServiceErrorFallback, fmt.Errorf("%s: no local backend", stage)
	}
	payload, err := attempt(ctx, backends.Local)
	if err != nil {
		return zero, meeting.ServiceErrorFallback, err
	}
	return payload, meeting.ServiceLocal, nil
}

func attempt[T any](ctx context.Context, fn func(context.Context) (T, error)) (payload T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return fn(ctx)
}

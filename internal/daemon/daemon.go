package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"recap/internal/config"
	"recap/internal/logging"
	"recap/internal/pipeline"
	"recap/internal/tracker"
)

// Daemon ties the orchestrator and API server into a single lifecycle and
// enforces single-instance execution with a file lock.
type Daemon struct {
	cfg          *config.Config
	logger       *slog.Logger
	orchestrator *pipeline.Orchestrator
	store        *tracker.Store
	api          *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies. The tracking store
// may be nil when persistence is disabled.
func New(cfg *config.Config, orchestrator *pipeline.Orchestrator, store *tracker.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || orchestrator == nil || logger == nil {
		return nil, errors.New("daemon requires config, orchestrator, and logger")
	}
	lockPath := filepath.Join(cfg.LogDir, "recapd.lock")
	return &Daemon{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "daemon"),
		orchestrator: orchestrator,
		store:        store,
		api:          newAPIServer(cfg.APIBind, cfg.UploadDir, orchestrator, store, logger),
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another recap daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("recap daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API server, waits for in-flight jobs, and releases
// the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.orchestrator.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("recap daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the daemon has been started.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"cardhound/internal/api"
	"cardhound/internal/config"
	"cardhound/internal/logging"
	"cardhound/internal/lookup"
	"cardhound/internal/ratelimit"
	"cardhound/internal/store"
)

// Daemon coordinates the API server and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	service *api.Service

	lockPath string
	lock     *flock.Flock

	server  *apiServer
	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, engine *lookup.Engine, governor *ratelimit.Governor, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil || engine == nil || governor == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, engine, governor, and logger")
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "cardhoundd.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		service:  api.NewService(st, engine, governor),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.server = newAPIServer(cfg, d.service, logger)
	return d, nil
}

// Start acquires the instance lock and brings the API server up. The
// server shuts down when ctx ends.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another cardhound daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if err := d.server.start(runCtx); err != nil {
		_ = d.lock.Unlock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("cardhound daemon started",
		logging.String("lock", d.lockPath),
		logging.String("database", d.store.Path()))
	return nil
}

// Stop shuts the API server down and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("cardhound daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr reports the bound API address, empty before Start.
func (d *Daemon) Addr() string {
	return d.server.addr()
}

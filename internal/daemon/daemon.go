package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"inkjet/internal/api"
	"inkjet/internal/config"
	"inkjet/internal/convert"
	"inkjet/internal/history"
	"inkjet/internal/logging"
	"inkjet/internal/preflight"
	"inkjet/internal/server"
	"inkjet/internal/services/adobe"
)

// Daemon coordinates the conversion service and enforces single-instance execution.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *history.Store
	server  *server.Server
	version string

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
}

// New constructs a daemon with initialized dependencies. store may be nil
// when history recording is disabled.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger, version string) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		version:  version,
		lockPath: filepath.Join(cfg.Paths.DataDir, "inkjetd.lock"),
	}
	d.lock = flock.New(d.lockPath)

	client, err := adobe.New(adobe.Config{
		ClientID:        cfg.Adobe.ClientID,
		ClientSecret:    cfg.Adobe.ClientSecret,
		Scope:           cfg.Adobe.Scope,
		BaseURL:         cfg.Adobe.BaseURL,
		TokenURL:        cfg.Adobe.TokenURL,
		Timeout:         time.Duration(cfg.Adobe.TimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(cfg.Convert.PollIntervalSeconds) * time.Second,
		PollMaxAttempts: cfg.Convert.PollMaxAttempts,
	}, adobe.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("vendor client: %w", err)
	}

	pipeline := convert.New(client, adobe.RenderOptions{
		IncludeHeaderFooter: cfg.Convert.IncludeHeaderFooter,
		PageWidthInches:     cfg.Convert.PageWidthInches,
		PageHeightInches:    cfg.Convert.PageHeightInches,
	}, store, logger)

	srv, err := server.New(cfg, pipeline, store, d.apiStatus, logger)
	if err != nil {
		return nil, fmt.Errorf("api server: %w", err)
	}
	d.server = srv
	return d, nil
}

// Start runs preflight checks, acquires the daemon lock, and begins serving.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	// Preflight runs before the lock: the lock file lives in the data
	// directory, so a missing directory needs to surface as a check
	// failure, not a lock error.
	results := preflight.RunAll(ctx, d.cfg)
	for _, result := range results {
		if result.Passed {
			d.logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		log := d.logger.Warn
		if !result.Optional {
			log = d.logger.Error
		}
		log("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}
	if preflight.Failed(results) {
		return errors.New("preflight checks failed")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another inkjet daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.server.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("inkjet daemon started",
		logging.String("address", d.server.Addr()),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the server down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("inkjet daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr reports the API listen address once the daemon is running.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// LockFilePath returns the single-instance lock location.
func (d *Daemon) LockFilePath() string {
	return d.lockPath
}

func (d *Daemon) apiStatus() api.DaemonStatus {
	status := api.DaemonStatus{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		Version:      d.version,
		LockFilePath: d.lockPath,
	}
	if !d.startedAt.IsZero() {
		status.StartedAt = api.FormatTime(d.startedAt)
	}
	if d.store != nil {
		status.HistoryDBPath = d.store.Path()
	}
	return status
}

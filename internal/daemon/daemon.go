package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"inspira/internal/assemble"
	"inspira/internal/config"
	"inspira/internal/images"
	"inspira/internal/logging"
	"inspira/internal/pipeline"
	"inspira/internal/project"
	"inspira/internal/server"
	"inspira/internal/services/drive"
	"inspira/internal/services/elevenlabs"
	"inspira/internal/services/prompter"
	"inspira/internal/services/whisper"
)

type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *project.Store
	pipe   *pipeline.Pipeline
	api    *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs the daemon and every service client from configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := project.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open project store: %w", err)
	}

	mirror, err := drive.New(ctx, cfg.Drive)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pipe := pipeline.New(cfg, pipeline.Deps{
		Store:      store,
		Logger:     logger,
		TTS:        elevenlabs.NewClient(cfg.TTS),
		Whisper:    whisper.NewClient(cfg.Transcription),
		Prompter:   prompter.NewClient(cfg.Prompts, cfg.Transcription.APIKey),
		Associator: images.NewAssociator(cfg.Images, cfg.Transcription.APIKey),
		Assembler:  assemble.New(cfg.Assembly),
		Mirror:     mirror,
	})

	lockPath := filepath.Join(cfg.Paths.LogDir, "inspirad.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		pipe:     pipe,
		api:      server.New(cfg, pipe, logger),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Store exposes the project store for inspection commands.
func (d *Daemon) Store() *project.Store {
	return d.store
}

// Start acquires the daemon lock and brings the HTTP server up.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another inspirad instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("daemon started", "lock", d.lockPath, "bind", d.cfg.Paths.Bind)
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
	d.api.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

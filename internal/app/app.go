// Package app wires configuration, storage and the quoting services together
// for the HTTP server and the command line tool.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Simplici0/pintorpro/internal/config"
	"github.com/Simplici0/pintorpro/internal/db"
	"github.com/Simplici0/pintorpro/internal/document"
	"github.com/Simplici0/pintorpro/internal/estimate"
	"github.com/Simplici0/pintorpro/internal/history"
	"github.com/Simplici0/pintorpro/internal/migrations"
	"github.com/Simplici0/pintorpro/internal/rediskv"
	"github.com/Simplici0/pintorpro/internal/seed"
	"github.com/Simplici0/pintorpro/internal/settings"
	"github.com/Simplici0/pintorpro/internal/state"
)

// App holds the long-lived services.
type App struct {
	Logger   *zap.Logger
	Repo     *state.Repository
	History  *history.Store
	Settings *settings.Service
	Builder  *estimate.Builder
	Renderer *document.Renderer

	now    func() time.Time
	closer func() error
}

// Options tune an App built with NewWithBackend.
type Options struct {
	NodeID       int64
	DocNote      string
	NumberFormat string
	IDs          estimate.IDGenerator
	Now          func() time.Time
}

// New opens the configured backend, loads the stored state and runs the
// startup seed. Only failing to open the backend is fatal.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	backend, closer, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a, err := NewWithBackend(ctx, backend, logger, Options{
		NodeID:       cfg.NodeID,
		DocNote:      cfg.DocNote,
		NumberFormat: cfg.NumberFormat,
	})
	if err != nil {
		closer()
		return nil, err
	}
	a.closer = closer
	return a, nil
}

// NewWithBackend builds an App on top of an already opened backend.
func NewWithBackend(ctx context.Context, backend state.Backend, logger *zap.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ids := opts.IDs
	if ids == nil {
		node := opts.NodeID
		if node == 0 {
			node = 1
		}
		sf, err := estimate.NewSnowflakeIDs(node)
		if err != nil {
			return nil, err
		}
		ids = sf
	}

	repo := state.Open(ctx, backend, logger.Named("state"))
	stats, err := seed.Run(ctx, repo, seed.Config{})
	if err != nil {
		logger.Warn("startup seed failed, continuing with loaded state", zap.Error(err))
	} else if stats != (seed.Stats{}) {
		logger.Info("startup seed applied", zap.Int("inserts", stats.Inserts), zap.Int("updates", stats.Updates))
	}

	return &App{
		Logger:   logger,
		Repo:     repo,
		History:  history.NewStore(repo, logger.Named("history")),
		Settings: settings.NewService(repo, logger.Named("settings")),
		Builder:  estimate.NewBuilder(ids, opts.Now),
		Renderer: document.NewRenderer(document.Options{
			Note:         opts.DocNote,
			NumberFormat: opts.NumberFormat,
			Now:          opts.Now,
			Logger:       logger.Named("document"),
		}),
		now:    opts.Now,
		closer: func() error { return nil },
	}, nil
}

// Close releases the storage connection.
func (a *App) Close() error {
	return a.closer()
}

func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (state.Backend, func() error, error) {
	switch cfg.StateBackend {
	case config.BackendRedis:
		client, err := rediskv.NewClient(ctx, rediskv.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using redis state backend", zap.String("addr", cfg.RedisAddr), zap.Int("db", cfg.RedisDB))
		return rediskv.NewKV(client, state.SnapshotKey), client.Close, nil

	case config.BackendSQLite, "":
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Up(database); err != nil {
			database.Close()
			return nil, nil, err
		}
		logger.Info("using sqlite state backend", zap.String("path", cfg.DBPath))
		return db.NewKV(database, state.SnapshotKey), database.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

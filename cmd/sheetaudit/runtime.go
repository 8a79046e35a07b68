package main

import (
	"context"
	"fmt"

	"f0oster/sheetaudit/config"
	"f0oster/sheetaudit/database"
	"f0oster/sheetaudit/logging"
	"f0oster/sheetaudit/sink"
	"f0oster/sheetaudit/snapshot"
	"f0oster/sheetaudit/trigger"

	"github.com/sirupsen/logrus"
)

// runtime holds the backends selected by configuration.
type runtime struct {
	cfg       config.Configuration
	logger    *logrus.Logger
	snapshots snapshot.Store
	backend   sink.Backend
	registry  trigger.Registry
	durable   bool // registry survives restarts

	closers []func()
}

func loadRuntime(ctx context.Context, envFile string) (*runtime, error) {
	cfg, err := config.LoadEnvConfig(envFile)
	if err != nil {
		return nil, err
	}
	rt := &runtime{
		cfg:    cfg,
		logger: logging.New(cfg.LogLevel, cfg.LogFormat, nil),
	}

	var client *database.DBClient
	if cfg.PostgresDSN != "" {
		db := database.NewDatabase(cfg.PostgresDSN)
		if err := db.Connect(ctx); err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)
		if err := db.EnsureSchema(ctx); err != nil {
			rt.Close()
			return nil, err
		}
		client = db.Client()
	}

	switch cfg.SnapshotBackend {
	case config.SnapshotPostgres:
		rt.snapshots = database.NewSnapshotStore(client)
	case config.SnapshotRedis:
		store, err := snapshot.NewRedisStore(cfg.RedisURL)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = store.Close() })
		if err := store.Ping(ctx); err != nil {
			rt.Close()
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		rt.snapshots = store
	default:
		rt.snapshots = snapshot.NewMemoryStore()
	}

	switch cfg.SinkBackend {
	case config.SinkPostgres:
		rt.backend = database.NewLogBackend(client)
	case config.SinkSQLite:
		backend, err := sink.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, func() { _ = backend.Close() })
		rt.backend = backend
	default:
		rt.backend = sink.NewCSVBackend(cfg.CSVDir)
	}

	if client != nil {
		rt.registry = database.NewSubscriptionRegistry(client)
		rt.durable = true
	} else {
		rt.registry = trigger.NewMemoryRegistry()
	}

	rt.logger.WithFields(logrus.Fields{
		"snapshot_backend": cfg.SnapshotBackend,
		"sink_backend":     cfg.SinkBackend,
		"multi_document":   cfg.MultiDocument,
		"documents":        len(cfg.MonitoredDocuments()),
	}).Info("configuration loaded")

	return rt, nil
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}

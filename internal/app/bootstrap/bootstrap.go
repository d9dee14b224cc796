package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	bookservice "bookshelf/contexts/catalog/book-service"
	gormadapter "bookshelf/contexts/catalog/book-service/adapters/gorm"
	authservice "bookshelf/contexts/identity-access/auth-service"
	"bookshelf/internal/platform/config"
	"bookshelf/internal/platform/db"
	"bookshelf/internal/platform/httpserver"
	"bookshelf/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server          *httpserver.Server
	database        *db.Database
	broadcaster     *messaging.Broadcaster
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

type MigratorApp struct {
	database *db.Database
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := processLogger(cfg, "api")

	app := &APIApp{
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}

	bus := messaging.NewEventBus(messaging.BusOptions{
		Name:           "events",
		Capacity:       cfg.EventQueueCapacity,
		PublishTimeout: cfg.EventPublishTimeout,
		Logger:         logger,
	})

	var books bookservice.Module
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		books = bookservice.NewInMemoryModule(nil, bus, logger)
	default:
		database, err := openDatabase(cfg, logger)
		if err != nil {
			return nil, err
		}
		app.database = database
		books = bookservice.NewModule(bookservice.Dependencies{
			Books:  gormadapter.NewRepository(database.DB, logger),
			Events: bus,
			Logger: logger,
		})
	}

	auth, err := authservice.NewInMemoryModule(authservice.Settings{
		SecretKey:    cfg.SecretKey,
		Algorithm:    cfg.Algorithm,
		TokenTTL:     cfg.AccessTokenExpiry,
		DemoUsername: cfg.DemoUsername,
		DemoPassword: cfg.DemoPassword,
	}, bus, logger)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("build auth module: %w", err)
	}

	var sessions messaging.SessionSource = bus
	if cfg.StreamFanout == config.FanoutBroadcast {
		app.broadcaster = messaging.NewBroadcaster(bus, messaging.BroadcasterOptions{
			QueueCapacity: cfg.SubscriberQueueCapacity,
			Logger:        logger,
		})
		sessions = app.broadcaster
	}
	stream := messaging.NewStreamPublisher(sessions, cfg.EventReceiveTimeout, logger)

	app.server = httpserver.New(books, auth, stream, bus, logger, normalizeAddr(cfg.HTTPPort))
	logger.Info("api app built",
		"event", "bootstrap_api_built",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"database_driver", cfg.DatabaseDriver,
		"stream_fanout", cfg.StreamFanout,
	)
	return app, nil
}

func BuildMigrator() (*MigratorApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := processLogger(cfg, "migrate")
	if cfg.DatabaseDriver == config.DriverMemory {
		return nil, errors.New("DATABASE_DRIVER=memory has no schema to migrate")
	}

	database, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return &MigratorApp{database: database, logger: logger}, nil
}

// Run serves until ctx is cancelled, then shuts the server down within the
// configured timeout.
func (a *APIApp) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pumpDone := make(chan error, 1)
	if a.broadcaster != nil {
		go func() {
			pumpDone <- a.broadcaster.Run(runCtx)
		}()
	} else {
		close(pumpDone)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Start()
	}()

	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	var err error
	select {
	case err = <-serveErr:
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), a.shutdownTimeout)
		err = a.server.Shutdown(shutdownCtx)
		stop()
		if startErr := <-serveErr; startErr != nil && err == nil {
			err = startErr
		}
	}

	cancel()
	<-pumpDone

	a.logger.Info("api app stopped",
		"event", "bootstrap_api_stopped",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return err
}

func (a *APIApp) Close() error {
	if a.database != nil {
		return a.database.Close()
	}
	return nil
}

func (m *MigratorApp) Run(context.Context) error {
	result, err := m.database.Migrate()
	if err != nil {
		return err
	}
	m.logger.Info("migrations applied",
		"event", "bootstrap_migrations_applied",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"driver", m.database.Driver,
		"version", result.Version,
		"dirty", result.Dirty,
		"changed", result.Changed,
	)
	return nil
}

func (m *MigratorApp) Close() error {
	return m.database.Close()
}

func openDatabase(cfg config.Config, logger *slog.Logger) (*db.Database, error) {
	database, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if !cfg.RunMigrations {
		return database, nil
	}

	result, err := database.Migrate()
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	logger.Info("database ready",
		"event", "bootstrap_database_ready",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"driver", database.Driver,
		"schema_version", result.Version,
		"migrated", result.Changed,
	)
	return database, nil
}

func processLogger(cfg config.Config, process string) *slog.Logger {
	logger := cfg.NewLogger(os.Stdout).With("service", cfg.ServiceName, "process", process)
	slog.SetDefault(logger)
	return logger
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/mkolari/procflow/internal/application/dispatcher"
	"github.com/mkolari/procflow/internal/application/port"
	appwf "github.com/mkolari/procflow/internal/application/workflow"
	"github.com/mkolari/procflow/internal/config"
	"github.com/mkolari/procflow/internal/infrastructure/directory"
	"github.com/mkolari/procflow/internal/infrastructure/notify"
	"github.com/mkolari/procflow/internal/infrastructure/persistence/memory"
	"github.com/mkolari/procflow/internal/infrastructure/persistence/repository"
	httpiface "github.com/mkolari/procflow/internal/interfaces/http"
	"github.com/mkolari/procflow/pkg/database"
	"github.com/mkolari/procflow/pkg/utils"
)

func main() {
	// Optional .env for local development
	_ = gotenv.Load()

	configPath := os.Getenv("PROCFLOW_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting procflow workflow engine",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Database.Driver))

	// Persistence
	var (
		store    port.InstanceStore
		auditLog port.AuditLog
	)
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := database.New(database.Config{
			Path:            cfg.Database.Path,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}
		defer db.Close()

		migrator := database.NewMigrator(db, logger)
		if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}

		store = repository.NewInstanceRepository(db, logger)
		auditLog = repository.NewAuditRepository(db, logger)
	default:
		store = memory.NewInstanceStore()
		auditLog = memory.NewAuditLog()
	}

	// Template registry seeded from the catalog
	registry := memory.NewTemplateRegistry()
	templates, err := config.LoadTemplates(cfg.Templates.Path)
	if err != nil {
		logger.Fatal("Failed to load template catalog", zap.Error(err))
	}
	ctx := context.Background()
	for _, tmpl := range templates {
		if err := registry.Register(ctx, tmpl); err != nil {
			logger.Fatal("Failed to register template",
				zap.String("template", tmpl.Name), zap.Error(err))
		}
		logger.Info("Template registered",
			zap.String("template", tmpl.Name),
			zap.Int("steps", len(tmpl.Steps)))
	}

	// User/role directory
	dir := directory.NewStatic(cfg.Directory.Users, cfg.Directory.Routing)

	// Event dispatcher with the fire-and-forget notifier
	events := dispatcher.NewDispatcher(dispatcher.WithLogger(logger.Sugar()))
	defer events.Close()
	notify.NewNotifier(logger).Register(events)

	// Workflow engine
	engine := appwf.NewEngine(registry, store, auditLog, dir, logger,
		appwf.WithDispatcher(events))

	// HTTP server
	server := httpiface.NewServer(httpiface.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, engine, registry, logger.Sugar())

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

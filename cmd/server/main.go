package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wewinbid/approval-engine/internal/archive"
	"github.com/wewinbid/approval-engine/internal/config"
	"github.com/wewinbid/approval-engine/internal/database"
	"github.com/wewinbid/approval-engine/internal/directory"
	"github.com/wewinbid/approval-engine/internal/events"
	"github.com/wewinbid/approval-engine/internal/metrics"
	"github.com/wewinbid/approval-engine/internal/workflow"
	"github.com/wewinbid/approval-engine/internal/workflow/router"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.SetDefault(newLogger(cfg.Log))

	slog.Info("configuration loaded successfully",
		"db_driver", cfg.Database.Driver,
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"archive_type", cfg.Archive.Type,
		"webhook_enabled", cfg.Events.WebhookURL != "",
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)
	slog.Info("operator access",
		"admin_principals", len(cfg.Access.AdminPrincipals),
		"scheduler_principals", len(cfg.Access.SchedulerPrincipals),
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Event delivery: in-process subscribers first, then the optional webhook,
	// all on a background worker so transitions never wait for subscribers
	bus := events.NewBus()
	var fanout events.Sink = bus
	if cfg.Events.WebhookURL != "" {
		fanout = events.Fanout{bus, events.NewWebhookSink(cfg.Events.WebhookURL, cfg.Events.WebhookTimeout)}
	}
	sink := events.NewAsync(fanout, cfg.Events.QueueSize)

	collector := metrics.NewCollector()
	collector.Register(bus)

	dir := directory.New(db)
	wm := workflow.NewManager(db, dir, sink, cfg.Access)

	storage, err := archive.NewStorageFromConfig(context.Background(), cfg.Archive)
	if err != nil {
		log.Fatalf("failed to initialize archive storage: %v", err)
	}
	if storage != nil {
		archive.NewArchiver(storage, wm.AuditTrail()).Register(bus)
	}

	// Set up HTTP routes
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), router.CORS(&cfg.CORS), router.PrincipalMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		if err := database.HealthCheck(db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(collector.Handler()))
	wm.RegisterRoutes(engine)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	sink.Close()
	bus.Clear()
	slog.Info("server stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

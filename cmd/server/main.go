package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ens-screening/backend/internal/auth"
	"github.com/ens-screening/backend/internal/config"
	"github.com/ens-screening/backend/internal/database"
	"github.com/ens-screening/backend/internal/reports"
	"github.com/ens-screening/backend/internal/screening/router"
	"github.com/ens-screening/backend/internal/screening/service"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("CORS configuration",
		"allowed_origins", cfg.CORS.AllowedOrigins,
		"allowed_methods", cfg.CORS.AllowedMethods,
		"allowed_headers", cfg.CORS.AllowedHeaders,
		"allow_credentials", cfg.CORS.AllowCredentials,
		"max_age", cfg.CORS.MaxAge,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
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

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Initialize the report store (local FS or S3, per configuration)
	reportStore, err := reports.NewStoreFromConfig(context.Background(), cfg.Reports)
	if err != nil {
		log.Fatalf("failed to initialize report store: %v", err)
	}

	// Wire up services
	issuer := auth.NewTokenIssuer(cfg.JWT)
	authService := auth.NewAuthService(db, issuer, cfg.JWT)
	statusService := service.NewStatusService(db)
	ingestionService := service.NewIngestionService(db, statusService)
	reconciliationService := service.NewReconciliationService(db)
	queryService := service.NewQueryService(db)
	reportService := reports.NewReportService(reportStore)

	// Set up HTTP routes
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}))

	api := engine.Group("/api")
	auth.NewAuthRouter(authService).RegisterRoutes(api.Group("/auth"))

	protected := api.Group("")
	protected.Use(auth.RequireAuth(issuer))
	router.NewSupplierRouter(ingestionService, reconciliationService, queryService).RegisterRoutes(protected.Group("/supplier"))
	reports.NewReportRouter(reportService).RegisterRoutes(protected.Group("/report"))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}

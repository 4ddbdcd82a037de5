// @title Campus Ops API
// @version 1.0
// @description Building operations event aggregation and conflict detection API

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"campus-ops/internal/api"
	"campus-ops/internal/api/handlers"
	"campus-ops/internal/auth"
	"campus-ops/internal/config"
	"campus-ops/internal/db"
	"campus-ops/internal/health"
	"campus-ops/internal/logger"
	"campus-ops/internal/repository"
	"campus-ops/internal/resolver"
	"campus-ops/internal/scheduler"
	"campus-ops/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "campus-ops/docs" // Import generated docs
)

func main() {
	// Load and validate configuration first (before logger)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger with configuration
	logger.Init(cfg.Logger)

	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	// Run migrations before connecting to database
	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize database
	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	logger.Info().Msg("database connected successfully")

	// Initialize repositories
	rawEventRepo := repository.NewRawEventRepository(database.Pool)
	eventRepo := repository.NewEventRepository(database.Pool)
	matchRepo := repository.NewEventMatchRepository(database.Pool)
	resourceRepo := repository.NewResourceRepository(database.Pool)

	// Initialize resolver and services
	resourceResolver := resolver.New(resourceRepo, cfg.Aggregation.AliasCacheTTL)
	aggregationService := service.NewAggregationService(rawEventRepo, eventRepo, resourceResolver, cfg.Aggregation.UpsertWorkers)
	conflictService := service.NewConflictService(eventRepo, cfg.Aggregation.OverlapThreshold)
	availabilityService := service.NewAvailabilityService(eventRepo, cfg.Aggregation.OverlapThreshold)
	matchService := service.NewMatchService(matchRepo, eventRepo, rawEventRepo)
	suggestionService := service.NewSuggestionService(eventRepo, rawEventRepo, matchRepo)

	// Initialize handlers
	aggregationHandler := handlers.NewAggregationHandler(aggregationService, conflictService)
	eventHandler := handlers.NewEventHandler(eventRepo)
	matchHandler := handlers.NewMatchHandler(matchService, suggestionService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	rawEventHandler := handlers.NewRawEventHandler(rawEventRepo)
	resourceHandler := handlers.NewResourceHandler(resourceRepo, resourceResolver)

	// Initialize and start scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler := scheduler.NewScheduler(cfg.Scheduler, aggregationService, conflictService)
		if err := cronScheduler.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer cronScheduler.Stop()
	}

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.RecoveryMiddleware())

	// Health check endpoint
	healthChecker := health.NewHealthChecker(database, cfg.Database.HealthTimeout)
	router.GET("/health", healthChecker.Handler)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(auth.APIKeyMiddleware(cfg))
	{
		// Batch triggers
		v1.POST("/aggregation/run", aggregationHandler.RunAggregation)
		v1.POST("/conflicts/run", aggregationHandler.RunConflictScan)

		// Event routes
		events := v1.Group("/events")
		{
			events.GET("", eventHandler.ListEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.PATCH("/:id/operations", eventHandler.UpdateEventOperations)
			events.GET("/:id/suggestions", matchHandler.SuggestMatches)
			events.GET("/:id/matches", matchHandler.ListMatches)
			events.POST("/:id/matches", matchHandler.CreateMatch)
		}

		// Match routes
		v1.DELETE("/matches/:id", matchHandler.DeleteMatch)

		// Availability
		v1.GET("/availability", availabilityHandler.CheckAvailability)

		// Raw event routes
		rawEvents := v1.Group("/raw-events")
		{
			rawEvents.GET("", rawEventHandler.ListRawEvents)
			rawEvents.POST("/sync", rawEventHandler.SyncRawEvents)
		}

		// Resource routes
		resources := v1.Group("/resources")
		{
			resources.GET("", resourceHandler.ListResources)
			resources.POST("", resourceHandler.CreateResource)
			resources.GET("/aliases", resourceHandler.ListAliases)
			resources.POST("/aliases", resourceHandler.CreateAlias)
			resources.DELETE("/aliases/:id", resourceHandler.DeleteAlias)
			resources.GET("/:id", resourceHandler.GetResource)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server with configured bind address
	addr := cfg.GetBindAddress()
	// Use a listener so we can discover the selected port when PORT=0
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		_ = ln.Close()
		logger.Fatal().Msg("failed to determine TCP address")
	}
	selectedPort := tcpAddr.Port

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		logger.Info().
			Int("port", selectedPort).
			Str("addr", cfg.Server.Host).
			Msg("starting server")
		logger.Info().
			Str("url", fmt.Sprintf("http://%s:%d/swagger/index.html", cfg.Server.Host, selectedPort)).
			Msg("API documentation available")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	// Give outstanding requests a configured timeout to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}

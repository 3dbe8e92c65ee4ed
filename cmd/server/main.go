package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightpath-edu/assessment-engine/internal/cache"
	"github.com/brightpath-edu/assessment-engine/internal/config"
	"github.com/brightpath-edu/assessment-engine/internal/handlers"
	"github.com/brightpath-edu/assessment-engine/internal/repositories/postgres"
	"github.com/brightpath-edu/assessment-engine/internal/services"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
	"github.com/brightpath-edu/assessment-engine/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		log.Fatalf("failed to create event publisher: %v", err)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	defer repo.Close()

	validator := utils.NewValidator()
	cacheService := cache.NewRedisCache(redisClient, logger)

	scoring := services.NewScoringService()
	aggregator := services.NewAggregator()
	projector := services.NewProjector()
	xpService := services.NewXPService(repo, publisher, logger)
	attemptService := services.NewAttemptService(repo, scoring, xpService, publisher, logger)
	gradeService := services.NewGradeService(repo, aggregator, cacheService, publisher, validator, logger)
	goalService := services.NewGoalService(repo, gradeService, projector, publisher, logger)
	exportService := services.NewExportService(gradeService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		attemptService,
		gradeService,
		goalService,
		xpService,
		exportService,
		validator,
		logger,
	)
	handlerManager.SetupRoutes(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session countdowns run until shutdown.
	go attemptService.RunClock(ctx)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "addr", server.Addr, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

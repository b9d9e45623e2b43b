package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/lineup-optimizer/internal/api/handlers"
	"github.com/stitts-dev/lineup-optimizer/internal/optimizer"
	"github.com/stitts-dev/lineup-optimizer/internal/solver"
	"github.com/stitts-dev/lineup-optimizer/pkg/cache"
	"github.com/stitts-dev/lineup-optimizer/pkg/config"
	"github.com/stitts-dev/lineup-optimizer/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logger with service context
	structuredLogger := logger.InitLogger("info", cfg.IsDevelopment())
	logger.WithService("lineup-optimizer").WithFields(logrus.Fields{
		"environment":    cfg.Env,
		"port":           cfg.Port,
		"solver_backend": cfg.SolverBackend,
		"time_limit_s":   cfg.SolverTimeLimit,
	}).Info("Starting Lineup Optimizer Service")

	// Setup Gin mode
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to Redis when configured; the service runs without a cache
	// otherwise.
	var redisClient *redis.Client
	var cacheService *cache.LineupCacheService
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.WithService("lineup-optimizer").Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithService("lineup-optimizer").WithError(err).
				Warn("Redis unreachable, running without result cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
			cacheService = cache.NewLineupCacheService(redisClient, structuredLogger)
		}
	}

	// Negotiate the solver backend once; it is read-only afterwards and
	// shared across requests.
	timeLimit := time.Duration(cfg.SolverTimeLimit) * time.Second
	backend := solver.New(solver.Config{
		TimeLimit: timeLimit,
		Backend:   cfg.SolverBackend,
	}, structuredLogger)

	weights := optimizer.Weights{
		Restricted:     cfg.RestrictedPenalty,
		NotPreferred:   cfg.NotPreferredPenalty,
		BenchDeviation: cfg.BenchDeviationWeight,
	}
	opt := optimizer.New(backend, weights, cfg.MaxSolverRoster, timeLimit, structuredLogger)

	// Initialize router
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Initialize handlers
	optimizationHandler := handlers.NewOptimizationHandler(opt, cacheService, cfg, structuredLogger)
	healthHandler := handlers.NewHealthHandler(redisClient, structuredLogger)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello Boss!")
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/optimize", optimizationHandler.OptimizeLineup)
	}

	// Health check endpoints
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.WithService("lineup-optimizer").WithField("port", cfg.Port).Info("Lineup optimizer started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithService("lineup-optimizer").Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.WithService("lineup-optimizer").Info("Shutting down lineup optimizer...")

	// The server has 5 seconds to finish the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithService("lineup-optimizer").Fatalf("Lineup optimizer forced to shutdown: %v", err)
	}

	logger.WithService("lineup-optimizer").Info("Lineup optimizer exited")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/auth"
	"github.com/responsehub/backend/internal/cache"
	"github.com/responsehub/backend/internal/config"
	"github.com/responsehub/backend/internal/db"
	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/middleware"
	"github.com/responsehub/backend/internal/repository"
	"github.com/responsehub/backend/internal/routes"
	"github.com/responsehub/backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", map[string]interface{}{"error": err.Error()})
	}

	logger.Initialize(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	if err := validation.Register(); err != nil {
		logger.Fatal("Failed to register validators", map[string]interface{}{"error": err.Error()})
	}

	repo, closeStore := openStore(cfg)
	defer closeStore()

	revocations, closeCache := openRevocationStore(cfg)
	defer closeCache()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Create router without default middleware
	r := gin.New()

	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigin))
	r.Use(gin.Recovery())

	routes.SetupRoutes(r, routes.Dependencies{
		Repo:              repo,
		Tokens:            auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		Revocations:       revocations,
		StrictTransitions: cfg.StrictTransitions,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	logger.Info("Starting emergency response hub", map[string]interface{}{
		"port":               cfg.Port,
		"gin_mode":           gin.Mode(),
		"store":              cfg.StoreDriver,
		"strict_transitions": cfg.StrictTransitions,
	})

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.Info("Shutting down server gracefully...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Server exited gracefully", nil)
	}
}

// openStore picks the entity store named by STORE_DRIVER.
func openStore(cfg *config.Config) (repository.Repository, func()) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("Using in-memory store, data will not survive a restart", nil)
		return repository.NewMemoryRepository(), func() {}
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", map[string]interface{}{"error": err.Error()})
	}
	if err := db.AutoMigrate(conn); err != nil {
		logger.Fatal("Failed to migrate database", map[string]interface{}{"error": err.Error()})
	}

	return repository.NewGormRepository(conn), func() {
		if err := db.Close(conn); err != nil {
			logger.WithError(err, "server").Warn("Failed to close database")
		}
	}
}

// openRevocationStore uses redis when REDIS_ADDR is set and process memory otherwise.
func openRevocationStore(cfg *config.Config) (cache.RevocationStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, token revocation is process-local", nil)
		return cache.NewMemoryRevocationStore(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("Failed to connect to redis", map[string]interface{}{"error": err.Error()})
	}
	logger.Info("Redis connected", map[string]interface{}{"addr": cfg.RedisAddr})

	return cache.NewRedisRevocationStore(client), func() { client.Close() }
}

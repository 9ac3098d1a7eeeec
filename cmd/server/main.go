// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	collectionRouter "github.com/promptstash/promptstash/internal/collection/router"
	"github.com/promptstash/promptstash/internal/config"
	"github.com/promptstash/promptstash/internal/database/database"
	"github.com/promptstash/promptstash/internal/database/migrate"
	"github.com/promptstash/promptstash/internal/health"
	inviteRouter "github.com/promptstash/promptstash/internal/invite/router"
	"github.com/promptstash/promptstash/internal/middleware"
	promptRouter "github.com/promptstash/promptstash/internal/prompt/router"
	teamRouter "github.com/promptstash/promptstash/internal/team/router"
	trendingRouter "github.com/promptstash/promptstash/internal/trending/router"
	userRouter "github.com/promptstash/promptstash/internal/user/router"
	"github.com/promptstash/promptstash/pkg/logger"
)

func main() {
	// Missing .env is fine, real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zapLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	db, err := database.New()
	if err != nil {
		zapLogger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zapLogger.Errorw("failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db); err != nil {
		zapLogger.Fatalw("failed to run migrations", "error", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Logger(zapLogger))
	r.Use(middleware.Recovery(zapLogger))

	auth := middleware.Auth(cfg.Auth.JWTSecret)

	userRouter.RegisterRoutes(r, db, auth, cfg.Auth, zapLogger)
	inviteRouter.RegisterRoutes(r, db, auth, cfg.Auth, zapLogger)
	teamRouter.RegisterRoutes(r, db, auth, zapLogger)
	promptRouter.RegisterRoutes(r, db, auth, zapLogger)
	collectionRouter.RegisterRoutes(r, db, auth, zapLogger)
	trendingRouter.RegisterRoutes(r, db, zapLogger)

	healthHandler := health.New(db, zapLogger)
	r.GET("/health", healthHandler.Check)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Infow("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Infow("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Errorw("forced shutdown", "error", err)
	}
}

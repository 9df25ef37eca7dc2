package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/cache"
	"github.com/M4yankkkk/ChronoTask/internal/events"
	"github.com/M4yankkkk/ChronoTask/internal/handler"
	"github.com/M4yankkkk/ChronoTask/internal/httpserver"
	"github.com/M4yankkkk/ChronoTask/internal/repository"
	"github.com/M4yankkkk/ChronoTask/internal/schedule"
	"github.com/M4yankkkk/ChronoTask/internal/service/auth"
	"github.com/M4yankkkk/ChronoTask/pkg/config"
	"github.com/M4yankkkk/ChronoTask/pkg/db"
	"github.com/M4yankkkk/ChronoTask/pkg/logger"
	"github.com/M4yankkkk/ChronoTask/pkg/mq"
	"github.com/M4yankkkk/ChronoTask/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting chronotask server...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("week_start", cfg.Schedule.WeekStart),
	)

	weekStart, err := schedule.ParseWeekStart(cfg.Schedule.WeekStart)
	if err != nil {
		log.Fatal("Invalid schedule.week_start", zap.Error(err))
	}

	// DB
	log.Info("Initializing database connection...")
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	taskRepo := repository.NewTaskRepository(dbConn, log)
	userRepo := repository.NewUserRepository(dbConn, log)

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := taskRepo.EnsureSchema(schemaCtx); err != nil {
		log.Fatal("Failed to ensure tasks schema", zap.Error(err))
	}
	if err := userRepo.EnsureSchema(schemaCtx); err != nil {
		log.Fatal("Failed to ensure users schema", zap.Error(err))
	}
	log.Info("Database schema ready")

	// Redis week cache
	var weekCache *cache.WeekCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewRedisClient(cfg.Redis)
		weekCache = cache.NewWeekCache(rdb, time.Duration(cfg.Schedule.WeekCacheTTL)*time.Second, log)
		log.Info("Week cache enabled", zap.String("redis_addr", cfg.Redis.Addr))
	} else {
		log.Warn("Redis not configured, week cache disabled")
	}

	// MQ publisher for task lifecycle events
	var publisher *mq.Publisher
	var eventPublisher events.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("Failed to init MQ publisher", zap.Error(err))
		}
		defer publisher.Close()
		eventPublisher = publisher
		log.Info("MQ publisher initialized", zap.String("exchange", mq.ExchangeName))
	} else {
		log.Warn("MQ not configured, task events disabled")
	}

	// Services
	scheduleSvc := schedule.NewService(taskRepo, weekCache, eventPublisher, log)
	authSvc := auth.NewService(userRepo, cfg.JWT.Secret)

	// HTTP server
	taskHandler := handler.NewTaskHandler(scheduleSvc, weekStart, log)
	authHandler := handler.NewAuthHandler(authSvc, log)
	router := httpserver.NewRouter(taskHandler, authHandler, log, dbConn, publisher, cfg.JWT.Secret)

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("chronotask server is fully initialized and running",
		zap.String("http_port", port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down chronotask server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("chronotask server shutdown complete")
}

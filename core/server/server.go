package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"trainhub/core/cache"
	"trainhub/core/config"
	"trainhub/core/database"
	"trainhub/core/logger"
	"trainhub/core/middleware"
	"trainhub/modules/calendar"
	"trainhub/modules/scheduling"
	"trainhub/modules/scheduling/tasks"
)

// Run boots the API server and the background worker and blocks until
// shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}

	c, err := cache.NewCache(cfg.Redis)
	if err != nil {
		// The scheduler works without a cache, just slower.
		logger.Warn("Server:Run:CacheUnavailable", "error", err)
		c = nil
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	mw := middleware.NewMiddleware(c)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(mw.RequestIDMiddleware())

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	googleSource := calendar.NewBusySource(&db)
	schedulingService := scheduling.Init(e, &db, c, asynqClient, mw, googleSource)

	worker := asynq.NewServer(redisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	mux.Handle(tasks.TypeConflictRescan, tasks.NewHandler(schedulingService))
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Run:WorkerStopped", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Server starting", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Run:StartFailed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

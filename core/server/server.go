package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"meetsync/core/cache"
	"meetsync/core/config"
	"meetsync/core/constants"
	"meetsync/core/database"
	"meetsync/core/logger"
	"meetsync/core/middleware"
	"meetsync/modules/availability"
	"meetsync/modules/calendar"
	calendarService "meetsync/modules/calendar/service"
	"meetsync/modules/calendar/task"
	"meetsync/modules/export"
	exportService "meetsync/modules/export/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the HTTP server and the background worker, wires every module
// and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log.Level, cfg.Log.JSON)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisCache, err := cache.NewCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisCache.Close()

	cipher, err := calendarService.NewTokenCipher(cfg.TokenCipherKey)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.TimeoutWithConfig(echoMiddleware.TimeoutConfig{
		Timeout: constants.DefaultRequestTimeout,
	}))

	mw := middleware.NewMiddleware()

	// Queue client for background busy-cache prefetch.
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queueClient := asynq.NewClient(redisOpt)
	defer queueClient.Close()

	// Modules. Calendar doubles as the availability busy provider.
	calSvc := calendar.Init(e, &db, redisCache, cipher, mw)
	availability.Init(e, mw, calSvc, task.NewEnqueuer(queueClient))

	var store exportService.ObjectStore
	if cfg.AWS.ExportBucket != "" {
		store = exportService.NewS3Store(cfg.AWS)
	}
	export.Init(e, mw, store)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Background worker for prefetch tasks.
	worker := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{constants.QueueDefault: 1},
	})
	mux := asynq.NewServeMux()
	mux.Handle(task.TypeBusyPrefetch, task.NewHandler(calSvc))
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("Server:Worker", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("Server:Listening", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:ShuttingDown")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("Server:Stopped")
	return nil
}

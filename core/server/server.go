package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio-api/core/cache"
	"studio-api/core/config"
	"studio-api/core/database"
	"studio-api/core/logger"
	"studio-api/core/mailer"
	"studio-api/core/middleware"
	"studio-api/core/storage"
	"studio-api/core/tasks"
	"studio-api/modules/auth"
	"studio-api/modules/calendar"
	"studio-api/modules/company"
	"studio-api/modules/event"
	"studio-api/modules/packages"
	"studio-api/modules/project"
	"studio-api/modules/schedule"
	"studio-api/modules/upload"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Run wires every module and serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(slog.LevelInfo)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisCache.Close()

	taskClient := tasks.NewClient(cfg.Redis)
	defer taskClient.Close()

	mail := mailer.NewMailer(cfg.SMTP)
	store := storage.NewS3Storage(cfg.AWS)
	mw := middleware.NewMiddleware(redisCache)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	calendarService := calendar.Init(e, db, mw)
	auth.Init(e, db, mw, redisCache, mail, calendarService, cfg)
	company.Init(e, db, mw, taskClient, cfg)
	project.Init(e, db, mw, taskClient)
	event.Init(e, db, mw, taskClient)
	schedule.Init(e, db, mw)
	packages.Init(e, db, mw, cfg)
	upload.Init(e, mw, store)

	worker := tasks.NewWorker(cfg.Redis, calendarService, mail)
	go func() {
		if err := worker.Run(); err != nil {
			logger.Error("Server:Worker", "error", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		if err := e.Start(addr); err != nil {
			logger.Info("Server:Stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server:ShuttingDown")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

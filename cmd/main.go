package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/csat-survey/config"
	"github.com/vnkhanh/csat-survey/middleware"
	"github.com/vnkhanh/csat-survey/routes"
)

func main() {
	cfg := config.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)
	gin.SetMode(cfg.Server.GinMode)

	// Kết nối DB + AutoMigrate
	db, err := config.ConnectDB(cfg.Database, log)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst, 10*time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	handlers := routes.NewHandlers(db, cfg.Survey, log)
	routes.SetupRoutes(r, handlers, limiter)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify cần channel có buffer
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	}()

	log.Info("server listening", "port", cfg.Server.Port, "db_driver", cfg.Database.Driver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server closed", "error", err)
		os.Exit(1)
	}

	// Chờ các job export đang chạy
	handlers.ExportService.Wait()
	log.Info("server stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ipotracker/internal/config"
	"ipotracker/internal/logger"
	"ipotracker/internal/pipeline"
	"ipotracker/internal/pkg/investorgain"
	"ipotracker/internal/routes"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	client := investorgain.New(investorgain.WithTimeout(cfg.FetchTimeout))
	snapshots := pipeline.New(client,
		pipeline.WithTTL(cfg.SnapshotTTL),
		pipeline.WithLogger(logg),
	)

	router := routes.SetupRouter(snapshots, logg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.WithField("addr", srv.Addr).WithField("source", client.URL()).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	logg.Info("Shutdown signal received, shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.WithError(err).Error("Server shutdown failed")
	}

	logg.Info("Server shut down complete.")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"contentplanner/cmd/app"
	"contentplanner/internal/config"
	"contentplanner/internal/logger"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if !cfg.EnvFileLoaded {
		log.Debug(".env file not found, using environment")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	application, err := app.App(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start application")
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.WithError(err).Warn("close failed")
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":   server.Addr,
			"driver": cfg.StoreDriver,
		}).Info("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

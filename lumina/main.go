package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumina/lumina/app"
	"lumina/lumina/config"
	"lumina/lumina/telemetry"
	"lumina/lumina/utils/logging"

	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	defer logging.Sync()
	cfg := config.LoadConfig()

	if cfg.Telemetry {
		shutdown, err := telemetry.Init(context.Background(), "./logs")
		if err != nil {
			logging.ErrorLogger.Error("telemetry init error", zap.Error(err))
		} else {
			defer shutdown()
		}
	}

	a, err := app.New(cfg)
	if err != nil {
		logging.ErrorLogger.Error("assistant init error", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.Router(),
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

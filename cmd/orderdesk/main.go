// Command orderdesk runs the café back-office API server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/cafeops/orderdesk/internal/app"
	"github.com/cafeops/orderdesk/internal/config"
	"github.com/cafeops/orderdesk/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	log := logger.NewDefault("main")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Error("configuration invalid")
		os.Exit(1)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.WithError(err).Error("application wiring failed")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		log.WithError(err).Error("application failed")
		_ = application.Stop()
		os.Exit(1)
	}

	log.Info("shutdown signal received")
	if err := application.Stop(); err != nil {
		log.WithError(err).Error("shutdown incomplete")
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/config"
	"github.com/canineracks/inventory-console/console"
	"github.com/canineracks/inventory-console/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Sync()

	zap.L().Info("Starting console client",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Duration("request_timeout", cfg.RequestTimeout),
	)

	app := console.NewApp(cfg, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		zap.L().Error("Client exited with error", zap.Error(err))
		os.Exit(1)
	}
}

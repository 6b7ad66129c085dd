package main

import (
	"context"
	"log"

	"github.com/prperemyshlev/user-service/internal/app"
	"github.com/prperemyshlev/user-service/internal/config"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Postgres.AutoMigrate = true

	infra, err := app.NewInfrastructure(ctx, *cfg)
	if err != nil {
		log.Fatalf("Failed to initialize infrastructure: %v", err)
	}

	application, err := app.NewApp(infra, cfg)
	if err != nil {
		infra.Logger().Fatal("Failed to build application", zap.Error(err))
	}

	seedErr := application.Seed(ctx)
	if err := infra.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if seedErr != nil {
		log.Fatalf("Seed failed: %v", seedErr)
	}
}

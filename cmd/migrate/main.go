package main

import (
	"context"
	"flag"
	"log"

	"foodtruck-ordering/internal/config"
	"foodtruck-ordering/internal/db"
	"foodtruck-ordering/internal/logging"
	"foodtruck-ordering/internal/migrate"
	"go.uber.org/zap"
)

func main() {
	var down int
	flag.IntVar(&down, "down", 0, "Roll back this many migrations instead of applying")
	flag.Parse()

	cfg := config.Load()
	logger, err := logging.New("migrate", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if down > 0 {
		if err := migrate.Rollback(ctx, pool, down); err != nil {
			logger.Fatal("rollback migrations", zap.Int("steps", down), zap.Error(err))
		}
		logger.Info("migrations rolled back", zap.Int("steps", down))
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}
	logger.Info("migrations applied")
}

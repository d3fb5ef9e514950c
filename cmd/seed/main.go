package main

import (
	"context"
	"log"
	"time"

	"foodtruck-ordering/internal/config"
	"foodtruck-ordering/internal/db"
	"foodtruck-ordering/internal/logging"
	categoryrepo "foodtruck-ordering/internal/repository/category"
	menurepo "foodtruck-ordering/internal/repository/menu"
	schedulerepo "foodtruck-ordering/internal/repository/schedule"
	"foodtruck-ordering/internal/seed"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("seed", cfg.LogLevel)
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

	repos := seed.Repos{
		Schedules:  schedulerepo.NewPostgres(pool, logger),
		Categories: categoryrepo.NewPostgres(pool, logger),
		Menu:       menurepo.NewPostgres(pool, logger),
	}
	if err := seed.Apply(ctx, repos, time.Now()); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied")
}

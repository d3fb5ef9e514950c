package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"foodtruck-ordering/internal/config"
	"foodtruck-ordering/internal/db"
	"foodtruck-ordering/internal/feed"
	"foodtruck-ordering/internal/httpserver"
	"foodtruck-ordering/internal/logging"
	cartrepo "foodtruck-ordering/internal/repository/cart"
	categoryrepo "foodtruck-ordering/internal/repository/category"
	menurepo "foodtruck-ordering/internal/repository/menu"
	orderrepo "foodtruck-ordering/internal/repository/order"
	schedulerepo "foodtruck-ordering/internal/repository/schedule"
	actorsvc "foodtruck-ordering/internal/service/actor"
	cartsvc "foodtruck-ordering/internal/service/cart"
	checkoutsvc "foodtruck-ordering/internal/service/checkout"
	menusvc "foodtruck-ordering/internal/service/menu"
	ordersvc "foodtruck-ordering/internal/service/order"
	schedulesvc "foodtruck-ordering/internal/service/schedule"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var carts cartrepo.Store
	if cfg.RedisAddr != "" {
		rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		carts = cartrepo.NewRedis(rdb, cfg.CartTTL, logger)
		logger.Info("cart store: redis", zap.String("addr", cfg.RedisAddr))
	} else {
		carts = cartrepo.NewMemory(cfg.CartTTL)
		logger.Warn("cart store: in-memory, carts are lost on restart")
	}

	menuRepo := menurepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool, logger)
	scheduleRepo := schedulerepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	hub := feed.NewHub(logger)
	actors := actorsvc.New(cfg.JWTSecret)
	if !actors.Enabled() {
		logger.Warn("JWT_SECRET not set, only anonymous access is possible")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		ScheduleSvc:    schedulesvc.New(scheduleRepo),
		MenuSvc:        menusvc.New(menuRepo, categoryRepo),
		CartSvc:        cartsvc.New(carts, menuRepo),
		CheckoutSvc:    checkoutsvc.New(carts, menuRepo, orderRepo, hub, logger),
		OrderSvc:       ordersvc.New(orderRepo, hub),
		Actors:         actors,
		Feed:           hub,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		SessionTTL:     cfg.CartTTL,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"stickershop/internal/config"
	"stickershop/internal/db"
	"stickershop/internal/logging"
	orderrepo "stickershop/internal/repository/order"
	"stickershop/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel, "seed")
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.RepositoryConfigured() {
		logger.Fatal("ORDERS_DB_DSN is not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	n, err := seed.Apply(ctx, orderrepo.NewPostgres(pool, logger), time.Now())
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}
	logger.Info("seed applied", zap.Int("inserted", n))
}

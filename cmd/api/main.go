package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stickershop/internal/config"
	"stickershop/internal/db"
	"stickershop/internal/httpserver"
	"stickershop/internal/logging"
	"stickershop/internal/notify"
	orderrepo "stickershop/internal/repository/order"
	ordersvc "stickershop/internal/service/order"
	"stickershop/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel, "api")
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	store, err := storage.NewLocal(cfg.UploadDir, logger.Named("storage"))
	if err != nil {
		return err
	}

	repo := orderrepo.NewDisabled()
	if cfg.RepositoryConfigured() {
		pool, err := db.Open(ctx, cfg.DBConnString)
		if err != nil {
			return fmt.Errorf("open orders db: %w", err)
		}
		defer pool.Close()
		repo = orderrepo.NewPostgres(pool, logger.Named("repository"))
		if p := repo.Probe(ctx); p.Err != nil {
			logger.Warn("orders database not ready, orders will be accepted without persistence", zap.Error(p.Err))
		}
	} else {
		logger.Warn("ORDERS_DB_DSN not set, order persistence disabled")
	}

	var sender notify.Sender
	if cfg.Mail.Configured() {
		sender = notify.NewSMTPSender(notify.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
		})
	} else {
		logger.Warn("SMTP credentials or ORDER_EMAIL_RECIPIENT missing, order emails disabled")
	}
	notifier := notify.NewEmailNotifier(notify.Config{
		From:          cfg.Mail.User,
		Recipient:     cfg.Mail.Recipient,
		SubjectPrefix: cfg.Mail.SubjectPrefix,
		Enabled:       cfg.Mail.Configured(),
	}, sender, store, logger.Named("notify"))

	svc := ordersvc.New(store, repo, notifier, ordersvc.Options{
		RequireEmail: cfg.RequireCustomerEmail,
	}, logger.Named("orders"))

	srv := httpserver.New(cfg.HTTPAddr, logger.Named("http"), httpserver.Deps{
		Orders:      svc,
		Repository:  repo,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Development: cfg.Development(),
	})

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
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

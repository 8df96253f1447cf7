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

	"bookshelf/internal/auth"
	"bookshelf/internal/author"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/notify"
	"bookshelf/internal/platform/database"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/user"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout        = 10 * time.Second
	blacklistPurgeInterval = time.Hour
	webhookUserAgent       = "bookshelf-notifier/1.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadEnvFiles()
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		return fmt.Errorf("cannot build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.Open(ctx, cfg.DB.DSN, 2*time.Second)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	logger.Info("database connection OK", zap.String("dsn", database.RedactDSN(cfg.DB.DSN)))

	if cfg.DB.MigrateOnStart {
		if err := database.Migrate(dbPool, "up"); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var sender notify.Sender = notify.NewLogSender(logger)
	if cfg.Notify.WebhookURL != "" {
		sender = notify.NewWebhookSender(cfg.Notify.WebhookURL, webhookUserAgent, cfg.Notify.WebhookRPS)
	}
	dispatcher := notify.NewDispatcher(sender, notify.Options{
		Workers:   cfg.Notify.Workers,
		QueueSize: cfg.Notify.QueueSize,
		Timeout:   cfg.Notify.Timeout,
	}, logger)

	userService := user.NewService(user.NewPostgresRepo(dbPool, cfg.DB.Timeout))
	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.TTL, userService, auth.NewBlacklistPG(dbPool, cfg.DB.Timeout))
	authorService := author.NewService(author.NewPostgresRepo(dbPool, cfg.DB.Timeout))
	bookService := book.NewService(
		book.NewPostgresRepo(dbPool, cfg.DB.Timeout),
		authorService,
		dispatcher,
		book.PolicyFor(cfg.Books.OwnerOnlyMutations),
	)

	limiter := httpx.NewRateLimiter(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	if err := limiter.TrustProxies(cfg.HTTP.TrustedProxies); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	handler := newRouter(routerDeps{
		cfg:         cfg,
		logger:      logger,
		authService: authService,
		authors:     authorService,
		books:       bookService,
		limiter:     limiter,
		ready:       dbPool.Ping,
	})

	httpServer := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.App.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		authService.PurgeBlacklist(gctx, blacklistPurgeInterval, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
		if err := dispatcher.Close(shutdownCtx); err != nil {
			logger.Warn("notifications not drained", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}

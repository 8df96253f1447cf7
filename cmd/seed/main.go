package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"bookshelf/internal/auth"
	"bookshelf/internal/author"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/notify"
	"bookshelf/internal/platform/database"
	"bookshelf/internal/platform/logging"
	"bookshelf/internal/user"

	"go.uber.org/zap"
)

var authorNames = []string{
	"J. R. R. Tolkien", "Ursula K. Le Guin", "Frank Herbert", "Octavia E. Butler", "Isaac Asimov",
}

func main() {
	var (
		count    = flag.Int("books", 25, "Number of books to create for the demo user")
		email    = flag.String("email", "demo@example.com", "Demo user email")
		password = flag.String("password", "secret123", "Demo user password")
	)
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := seed(context.Background(), cfg, logger, *count, *email, *password); err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func seed(ctx context.Context, cfg *config.Config, logger *zap.Logger, count int, email, password string) error {
	pool, err := database.Open(ctx, cfg.DB.DSN, 5*time.Second)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(pool, "up"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Seeded books are announced through the log sender only.
	dispatcher := notify.NewDispatcher(notify.NewLogSender(logger), notify.Options{
		Workers:   1,
		QueueSize: count,
		Timeout:   cfg.Notify.Timeout,
	}, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Close(closeCtx)
	}()

	userService := user.NewService(user.NewPostgresRepo(pool, cfg.DB.Timeout))
	authService := auth.NewService(cfg.JWT.Secret, cfg.JWT.TTL, userService, auth.NewBlacklistPG(pool, cfg.DB.Timeout))
	authorService := author.NewService(author.NewPostgresRepo(pool, cfg.DB.Timeout))
	bookService := book.NewService(book.NewPostgresRepo(pool, cfg.DB.Timeout), authorService, dispatcher, book.AllowAll{})

	demo, token, err := authService.Register(ctx, "Demo User", email, password)
	switch {
	case errors.Is(err, user.ErrAlreadyExists):
		if demo, err = userService.GetByEmail(ctx, email); err != nil {
			return err
		}
		logger.Info("demo user already exists", zap.Int64("user_id", demo.ID))
	case err != nil:
		return fmt.Errorf("register demo user: %w", err)
	default:
		logger.Info("demo user created", zap.Int64("user_id", demo.ID), zap.String("token", token))
	}

	authorIDs := make([]int64, 0, len(authorNames))
	for _, name := range authorNames {
		a, err := authorService.Create(ctx, name)
		if err != nil {
			return fmt.Errorf("create author %q: %w", name, err)
		}
		authorIDs = append(authorIDs, a.ID)
	}

	for i := 0; i < count; i++ {
		authorID := authorIDs[rand.Intn(len(authorIDs))]
		_, err := bookService.Create(ctx, demo, book.Input{
			Name:     fmt.Sprintf("Book Title %d - %s", i+1, getRandomWord()),
			ISBN:     fmt.Sprintf("978-%08d", rand.Intn(100000000)),
			AuthorID: &authorID,
		})
		if err != nil {
			return fmt.Errorf("create book %d: %w", i+1, err)
		}
	}

	logger.Info("seed complete", zap.Int("authors", len(authorIDs)), zap.Int("books", count))
	return nil
}

func getRandomWord() string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rand.Intn(len(words))]
}

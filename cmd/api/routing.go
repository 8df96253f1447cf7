package main

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/auth"
	"bookshelf/internal/author"
	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"

	"go.uber.org/zap"
)

// routerDeps is everything the HTTP surface needs. Ready reports database
// readiness for /readyz.
type routerDeps struct {
	cfg         *config.Config
	logger      *zap.Logger
	authService *auth.Service
	authors     *author.Service
	books       *book.Service
	limiter     *httpx.RateLimiter
	ready       func(ctx context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	authHandler := auth.NewHTTPHandler(d.authService, d.logger)
	authorHandler := author.NewHTTPHandler(d.authors, d.logger)
	bookHandler := book.NewHTTPHandler(d.books, d.logger)

	gate := auth.Gate(d.authService, d.logger)
	protected := func(h http.HandlerFunc) http.Handler { return gate(h) }
	limited := func(h http.HandlerFunc) http.Handler { return d.limiter.Middleware(h) }

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Handle("POST /login", limited(authHandler.Login))
	router.Handle("POST /register", limited(authHandler.Register))
	router.Handle("GET /logout", protected(authHandler.Logout))
	router.Handle("GET /profile", protected(authHandler.Profile))

	router.Handle("GET /books", protected(bookHandler.List))
	router.Handle("GET /book/{id}", protected(bookHandler.Get))
	router.Handle("POST /book", protected(bookHandler.Create))
	router.Handle("PUT /book/{id}", protected(bookHandler.Update))
	router.Handle("DELETE /book/{id}", protected(bookHandler.Delete))

	router.Handle("GET /authors", protected(authorHandler.List))
	router.Handle("GET /author/{id}", protected(authorHandler.Get))
	router.Handle("POST /author", protected(authorHandler.Create))
	router.Handle("PUT /author/{id}", protected(authorHandler.Update))
	router.Handle("DELETE /author/{id}", protected(authorHandler.Delete))

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.RecoveryMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(d.cfg.App.Env == "production"),
		httpx.CORSMiddleware(d.cfg.HTTP.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(d.cfg.HTTP.MaxBodyBytes),
	)
}

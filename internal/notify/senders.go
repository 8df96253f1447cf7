package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bookshelf/internal/book"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LogSender writes each event to the log. Used when no webhook is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, ev Event) error {
	s.logger.Info("book added",
		zap.String("event", ev.Type),
		zap.Int64("book_id", ev.Book.ID),
		zap.String("book_name", ev.Book.Name),
		zap.Int64("user_id", ev.User.ID),
		zap.String("user_email", ev.User.Email),
	)
	return nil
}

type webhookUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type webhookPayload struct {
	Event string      `json:"event"`
	Book  book.Book   `json:"book"`
	User  webhookUser `json:"user"`
}

// WebhookSender POSTs events as JSON. Any non-2xx answer is a failed send.
type WebhookSender struct {
	httpClient *http.Client
	url        string
	userAgent  string
	limiter    *rate.Limiter
}

func NewWebhookSender(url, userAgent string, rps int) *WebhookSender {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Every(time.Second / time.Duration(rps))
	}
	return &WebhookSender{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		url:       url,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

func (s *WebhookSender) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(webhookPayload{
		Event: ev.Type,
		Book:  ev.Book,
		User:  webhookUser{ID: ev.User.ID, Name: ev.User.Name, Email: ev.User.Email},
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookshelf/internal/book"
	"bookshelf/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWebhookSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "bookshelf-test", r.Header.Get("User-Agent"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewWebhookSender(srv.URL, "bookshelf-test", 0)
	err := sender.Send(context.Background(), Event{
		Type: EventBookAdded,
		Book: book.Book{ID: 1, Name: "The Hobbit"},
		User: user.User{ID: 2, Name: "U", Email: "u@example.com", PasswordHash: "secret"},
	})
	require.NoError(t, err)

	assert.Equal(t, "book.added", got["event"])
	assert.Equal(t, "The Hobbit", got["book"].(map[string]any)["name"])
	assert.Equal(t, map[string]any{"id": float64(2), "name": "U", "email": "u@example.com"}, got["user"])
}

func TestWebhookSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookSender(srv.URL, "bookshelf-test", 5).Send(context.Background(), Event{Type: EventBookAdded})
	assert.ErrorContains(t, err, "502")
}

func TestLogSender_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := NewLogSender(zap.New(core))

	require.NoError(t, sender.Send(context.Background(), Event{Type: EventBookAdded, Book: book.Book{ID: 4}}))

	entries := logs.FilterMessage("book added").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(4), entries[0].ContextMap()["book_id"])
}

// Package notify delivers best-effort "book added" notifications off the
// request path.
package notify

import (
	"context"
	"errors"

	"bookshelf/internal/book"
	"bookshelf/internal/user"
)

const EventBookAdded = "book.added"

var (
	// ErrQueueFull is returned when an event is dropped because every queue slot is taken.
	ErrQueueFull = errors.New("notification queue full")
	// ErrClosed is returned for events offered after Close.
	ErrClosed = errors.New("notifier closed")
)

// Event is one notification for a sender to deliver.
type Event struct {
	Type string
	Book book.Book
	User user.User
}

// Sender delivers a single event. Implementations are called from worker
// goroutines and must honour ctx.
type Sender interface {
	Send(ctx context.Context, ev Event) error
}

package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/user"

	"go.uber.org/zap"
)

type Options struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher queues events and hands them to a Sender on a fixed set of
// workers. Delivery is at most once: a full queue drops the event.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, opts Options, logger *zap.Logger) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 0 {
		opts.QueueSize = 0
	}

	d := &Dispatcher{
		sender:  sender,
		timeout: opts.Timeout,
		logger:  logger,
		queue:   make(chan Event, opts.QueueSize),
	}
	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// BookAdded enqueues a book.added event without blocking the caller.
func (d *Dispatcher) BookAdded(_ context.Context, b book.Book, actor user.User) {
	err := d.Enqueue(Event{Type: EventBookAdded, Book: b, User: actor})
	if err != nil {
		d.logger.Warn("notification dropped",
			zap.String("event", EventBookAdded),
			zap.Int64("book_id", b.ID),
			zap.Int64("user_id", actor.ID),
			zap.Error(err),
		)
	}
}

// Enqueue offers ev to the queue and returns immediately.
func (d *Dispatcher) Enqueue(ev Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}
	select {
	case d.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until queued events are sent or
// ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.send(ev)
	}
}

func (d *Dispatcher) send(ev Event) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if rec := recover(); rec != nil {
			d.logger.Error("notification sender panicked", zap.String("event", ev.Type), zap.Any("panic", rec))
		}
	}()

	if err := d.sender.Send(ctx, ev); err != nil {
		level := zap.WarnLevel
		if errors.Is(err, context.DeadlineExceeded) {
			level = zap.ErrorLevel
		}
		d.logger.Log(level, "notification failed",
			zap.String("event", ev.Type),
			zap.Int64("book_id", ev.Book.ID),
			zap.Error(err),
		)
	}
}

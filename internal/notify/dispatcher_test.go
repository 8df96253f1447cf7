package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, ev Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func TestDispatcher_BookAdded(t *testing.T) {
	sender := new(mockSender)
	d := NewDispatcher(sender, Options{Workers: 2, QueueSize: 10, Timeout: time.Second}, zap.NewNop())

	b := book.Book{ID: 1, Name: "The Hobbit", ISBN: "123", AuthorID: 1, UserID: 7}
	u := user.User{ID: 7, Name: "U", Email: "u@example.com"}
	sender.On("Send", mock.Anything, Event{Type: EventBookAdded, Book: b, User: u}).Return(nil).Once()

	d.BookAdded(context.Background(), b, u)
	require.NoError(t, d.Close(context.Background()))

	sender.AssertExpectations(t)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}).Return(nil)

	core, logs := observer.New(zapcore.WarnLevel)
	d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 1}, zap.New(core))

	require.NoError(t, d.Enqueue(Event{Type: EventBookAdded}))
	<-started // worker is busy; the queue is empty again
	require.NoError(t, d.Enqueue(Event{Type: EventBookAdded}))
	assert.ErrorIs(t, d.Enqueue(Event{Type: EventBookAdded}), ErrQueueFull)

	d.BookAdded(context.Background(), book.Book{ID: 3}, user.User{ID: 4})
	assert.Equal(t, 1, logs.FilterMessage("notification dropped").Len())

	close(release)
	require.NoError(t, d.Close(context.Background()))
	sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestDispatcher_SenderFailureIsLogged(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("boom"))

	core, logs := observer.New(zapcore.WarnLevel)
	d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 1}, zap.New(core))

	require.NoError(t, d.Enqueue(Event{Type: EventBookAdded, Book: book.Book{ID: 9}}))
	require.NoError(t, d.Close(context.Background()))

	entries := logs.FilterMessage("notification failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(9), entries[0].ContextMap()["book_id"])
}

func TestDispatcher_SendHasDeadline(t *testing.T) {
	sender := new(mockSender)
	var deadlineSet bool
	sender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		_, deadlineSet = args.Get(0).(context.Context).Deadline()
	}).Return(nil)

	d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 1, Timeout: time.Second}, zap.NewNop())
	require.NoError(t, d.Enqueue(Event{}))
	require.NoError(t, d.Close(context.Background()))

	assert.True(t, deadlineSet)
}

func TestDispatcher_Close(t *testing.T) {
	t.Run("rejects after close", func(t *testing.T) {
		d := NewDispatcher(new(mockSender), Options{Workers: 1, QueueSize: 1}, zap.NewNop())
		require.NoError(t, d.Close(context.Background()))
		require.NoError(t, d.Close(context.Background()))

		assert.ErrorIs(t, d.Enqueue(Event{}), ErrClosed)
	})

	t.Run("gives up at deadline", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		sender := new(mockSender)
		sender.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).Return(nil)

		d := NewDispatcher(sender, Options{Workers: 1, QueueSize: 1}, zap.NewNop())
		require.NoError(t, d.Enqueue(Event{}))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
	})
}

func TestDispatcher_ConcurrentEnqueueAndClose(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)
	d := NewDispatcher(sender, Options{Workers: 4, QueueSize: 8}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := d.Enqueue(Event{})
			if err != nil {
				assert.True(t, errors.Is(err, ErrQueueFull) || errors.Is(err, ErrClosed))
			}
		}()
	}
	require.NoError(t, d.Close(context.Background()))
	wg.Wait()
}

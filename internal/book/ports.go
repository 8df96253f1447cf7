package book

//go:generate mockgen -destination=mock_ports.go -package=book . Repository,AuthorChecker,Notifier

import (
	"context"

	"bookshelf/internal/user"
)

// Repository defines the contract for book data storage.
type Repository interface {
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int) ([]Book, int, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	GetByOwner(ctx context.Context, ownerID, id int64) (Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id int64) error
}

// AuthorChecker resolves author references before a book is written.
type AuthorChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Notifier receives a book after it was stored. Implementations must not block.
type Notifier interface {
	BookAdded(ctx context.Context, b Book, actor user.User)
}

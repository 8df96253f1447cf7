package author

//go:generate mockgen -destination=mock_repository.go -package=author . Repository

import (
	"context"
)

// Repository defines the contract for author data storage.
type Repository interface {
	List(ctx context.Context) ([]Author, error)
	Create(ctx context.Context, a *Author) error
	GetByID(ctx context.Context, id int64) (Author, error)
	Update(ctx context.Context, a *Author) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

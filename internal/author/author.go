package author

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no author has the requested id.
	ErrNotFound = errors.New("author not found")
	// ErrInvalidName is returned when the name is empty after trimming.
	ErrInvalidName = errors.New("author name is required")
)

// Author represents an author entity.
type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

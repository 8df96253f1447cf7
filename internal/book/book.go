package book

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrAuthorNotFound is returned when the referenced author does not exist.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrForbidden is returned when the actor may not mutate the book.
	ErrForbidden = errors.New("book mutation forbidden")
)

// PageSize is the number of books per listing page.
const PageSize = 10

// Book is a title owned by the user who created it.
type Book struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ISBN      string    `json:"isbn"`
	AuthorID  int64     `json:"author_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input is a validated create or update payload. A nil AuthorID on update
// keeps the current author.
type Input struct {
	Name     string
	ISBN     string
	AuthorID *int64
}

// Page is one page of an owner's books.
type Page struct {
	Items       []Book
	CurrentPage int
	PerPage     int
	Total       int
}

// LastPage is the number of the final page, at least 1.
func (p Page) LastPage() int {
	if p.PerPage < 1 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

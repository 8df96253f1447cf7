package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bookshelf/internal/author"
	"bookshelf/internal/book"
	"bookshelf/internal/user"
)

// MemStore is an in-memory stand-in for the Postgres repositories, used to
// drive the HTTP stack end to end without a database.
type MemStore struct {
	mu        sync.Mutex
	users     map[int64]user.User
	authors   map[int64]author.Author
	books     map[int64]book.Book
	blacklist map[string]time.Time
	seq       map[string]int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:     make(map[int64]user.User),
		authors:   make(map[int64]author.Author),
		books:     make(map[int64]book.Book),
		blacklist: make(map[string]time.Time),
		seq:       make(map[string]int64),
	}
}

func (s *MemStore) next(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func (s *MemStore) Users() *UserRepo          { return &UserRepo{s} }
func (s *MemStore) Authors() *AuthorRepo      { return &AuthorRepo{s} }
func (s *MemStore) Books() *BookRepo          { return &BookRepo{s} }
func (s *MemStore) Blacklist() *BlacklistRepo { return &BlacklistRepo{s} }

// DeleteUser removes a user and, like the schema's cascade, the user's books.
func (s *MemStore) DeleteUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	for bid, b := range s.books {
		if b.UserID == id {
			delete(s.books, bid)
		}
	}
}

type UserRepo struct{ s *MemStore }

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return user.ErrAlreadyExists
		}
	}
	now := time.Now()
	u.ID = r.s.next("users")
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

type AuthorRepo struct{ s *MemStore }

func (r *AuthorRepo) List(context.Context) ([]author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]author.Author, 0, len(r.s.authors))
	for _, a := range r.s.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AuthorRepo) Create(_ context.Context, a *author.Author) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	a.ID = r.s.next("authors")
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.authors[a.ID] = *a
	return nil
}

func (r *AuthorRepo) GetByID(_ context.Context, id int64) (author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.authors[id]
	if !ok {
		return author.Author{}, author.ErrNotFound
	}
	return a, nil
}

func (r *AuthorRepo) Update(_ context.Context, a *author.Author) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.authors[a.ID]; !ok {
		return author.ErrNotFound
	}
	a.UpdatedAt = time.Now()
	r.s.authors[a.ID] = *a
	return nil
}

func (r *AuthorRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.authors[id]; !ok {
		return author.ErrNotFound
	}
	delete(r.s.authors, id)
	return nil
}

func (r *AuthorRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.authors[id]
	return ok, nil
}

type BookRepo struct{ s *MemStore }

func (r *BookRepo) ListByOwner(_ context.Context, ownerID int64, limit, offset int) ([]book.Book, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owned := []book.Book{}
	for _, b := range r.s.books {
		if b.UserID == ownerID {
			owned = append(owned, b)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	total := len(owned)
	if offset >= total {
		return []book.Book{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (r *BookRepo) GetByID(_ context.Context, id int64) (book.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.books[id]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r *BookRepo) GetByOwner(ctx context.Context, ownerID, id int64) (book.Book, error) {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return book.Book{}, err
	}
	if b.UserID != ownerID {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r *BookRepo) Create(_ context.Context, b *book.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now()
	b.ID = r.s.next("books")
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.books[b.ID] = *b
	return nil
}

func (r *BookRepo) Update(_ context.Context, b *book.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.books[b.ID]
	if !ok {
		return book.ErrNotFound
	}
	current.Name, current.ISBN, current.AuthorID = b.Name, b.ISBN, b.AuthorID
	current.UpdatedAt = time.Now()
	r.s.books[b.ID] = current
	b.UpdatedAt = current.UpdatedAt
	return nil
}

func (r *BookRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(r.s.books, id)
	return nil
}

type BlacklistRepo struct{ s *MemStore }

func (r *BlacklistRepo) AddToken(_ context.Context, jti string, _ int64, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.blacklist[jti]; !ok {
		r.s.blacklist[jti] = expiresAt
	}
	return nil
}

func (r *BlacklistRepo) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	exp, ok := r.s.blacklist[jti]
	return ok && exp.After(time.Now()), nil
}

func (r *BlacklistRepo) CleanupExpired(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	now := time.Now()
	for jti, exp := range r.s.blacklist {
		if exp.Before(now) {
			delete(r.s.blacklist, jti)
			n++
		}
	}
	return n, nil
}

// Notification is one call recorded by RecordingNotifier.
type Notification struct {
	Book book.Book
	User user.User
}

// RecordingNotifier records every BookAdded call synchronously.
type RecordingNotifier struct {
	mu    sync.Mutex
	calls []Notification
}

func (n *RecordingNotifier) BookAdded(_ context.Context, b book.Book, actor user.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, Notification{Book: b, User: actor})
}

func (n *RecordingNotifier) Calls() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.calls...)
}

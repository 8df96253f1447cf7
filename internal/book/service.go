package book

import (
	"context"
	"fmt"
	"math"

	"bookshelf/internal/user"
)

// maxPage keeps (page-1)*PageSize within int.
const maxPage = math.MaxInt/PageSize + 1

// Service provides book-related business logic. Every call names the acting
// user explicitly.
type Service struct {
	repo     Repository
	authors  AuthorChecker
	notifier Notifier
	policy   Authorizer
}

// NewService creates a new book service. A nil policy allows every mutation.
func NewService(repo Repository, authors AuthorChecker, notifier Notifier, policy Authorizer) *Service {
	if policy == nil {
		policy = AllowAll{}
	}
	return &Service{repo: repo, authors: authors, notifier: notifier, policy: policy}
}

// List returns the actor's books in id order, PageSize at a time.
func (s *Service) List(ctx context.Context, actor user.User, page int) (Page, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	items, total, err := s.repo.ListByOwner(ctx, actor.ID, PageSize, (page-1)*PageSize)
	if err != nil {
		return Page{}, fmt.Errorf("list books: %w", err)
	}
	if items == nil {
		items = []Book{}
	}
	return Page{Items: items, CurrentPage: page, PerPage: PageSize, Total: total}, nil
}

func (s *Service) Create(ctx context.Context, actor user.User, in Input) (Book, error) {
	if in.AuthorID == nil {
		return Book{}, ErrAuthorNotFound
	}
	if err := s.checkAuthor(ctx, *in.AuthorID); err != nil {
		return Book{}, err
	}

	b := &Book{Name: in.Name, ISBN: in.ISBN, AuthorID: *in.AuthorID, UserID: actor.ID}
	if err := s.repo.Create(ctx, b); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}

	s.notifier.BookAdded(ctx, *b, actor)
	return *b, nil
}

// Get only sees the actor's own books.
func (s *Service) Get(ctx context.Context, actor user.User, id int64) (Book, error) {
	return s.repo.GetByOwner(ctx, actor.ID, id)
}

// Update resolves id across all owners and leaves the owner untouched.
func (s *Service) Update(ctx context.Context, actor user.User, id int64, in Input) (Book, error) {
	b, err := s.mutable(ctx, actor, id)
	if err != nil {
		return Book{}, err
	}

	if in.AuthorID != nil {
		if err := s.checkAuthor(ctx, *in.AuthorID); err != nil {
			return Book{}, err
		}
		b.AuthorID = *in.AuthorID
	}
	b.Name = in.Name
	b.ISBN = in.ISBN

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, actor user.User, id int64) error {
	if _, err := s.mutable(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Resolve checks that id exists and that actor may mutate it.
func (s *Service) Resolve(ctx context.Context, actor user.User, id int64) (Book, error) {
	return s.mutable(ctx, actor, id)
}

func (s *Service) mutable(ctx context.Context, actor user.User, id int64) (Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if !s.policy.CanMutate(actor, b) {
		return Book{}, ErrForbidden
	}
	return b, nil
}

func (s *Service) checkAuthor(ctx context.Context, authorID int64) error {
	if authorID <= 0 {
		return ErrAuthorNotFound
	}
	ok, err := s.authors.Exists(ctx, authorID)
	if err != nil {
		return fmt.Errorf("check author %d: %w", authorID, err)
	}
	if !ok {
		return ErrAuthorNotFound
	}
	return nil
}

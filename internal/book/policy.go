package book

import "bookshelf/internal/user"

// Authorizer decides whether actor may update or delete b.
type Authorizer interface {
	CanMutate(actor user.User, b Book) bool
}

// AllowAll lets any authenticated user mutate any book.
type AllowAll struct{}

func (AllowAll) CanMutate(user.User, Book) bool { return true }

// OwnerOnly restricts mutations to the book's owner.
type OwnerOnly struct{}

func (OwnerOnly) CanMutate(actor user.User, b Book) bool { return actor.ID == b.UserID }

// PolicyFor returns OwnerOnly when ownerOnly is set, AllowAll otherwise.
func PolicyFor(ownerOnly bool) Authorizer {
	if ownerOnly {
		return OwnerOnly{}
	}
	return AllowAll{}
}

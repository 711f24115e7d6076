package bank

import (
	"context"

	"simplebanking/internal/domain"
)

// AccountStore is the persistence contract for accounts. Get returns a
// private copy the engine may mutate before writing it back; it reports
// ErrAccountNotFound when the id is absent. UpdatePair must commit both
// rows as one durable transaction, so a transfer's two legs are never
// observable half-applied.
type AccountStore interface {
	Get(ctx context.Context, id uint) (*domain.Account, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	UpdatePair(ctx context.Context, a, b *domain.Account) error
}

// UserStore is the identity collaborator. Create persists the user together
// with its provisioned accounts and reports ErrUserExists on a duplicate
// username.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
}

// Package bank holds the balance-mutation core: the rules deciding how
// account balances change, who may change them, and how two-account
// transfers stay consistent under concurrent access. HTTP, tokens and
// storage mechanics live outside; they reach the core through the store
// interfaces and the Principal.
package bank

import (
	"context"
	"errors"
	"fmt"
	"math"

	"simplebanking/internal/domain"
)

// AccountSnapshot is the view of an account returned after a successful
// lookup or balance mutation.
type AccountSnapshot struct {
	ID       uint            `json:"id"`
	Amount   int64           `json:"amount"`
	Currency domain.Currency `json:"currency"`
}

// Service validates and applies balance operations against the account
// store, serializing them through the per-account lock table.
type Service struct {
	accounts AccountStore
	users    UserStore
	locks    *lockTable
}

func NewService(accounts AccountStore, users UserStore) *Service {
	return &Service{accounts: accounts, users: users, locks: newLockTable()}
}

// GetAccount returns the caller's view of one account. Non-owners get
// ErrAccountNotFound, the same as for an absent id.
func (s *Service) GetAccount(ctx context.Context, p Principal, accountID uint) (*AccountSnapshot, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()
	a, err := s.lookup(ctx, p, accountID)
	if err != nil {
		return nil, err
	}
	return snapshot(a), nil
}

// Deposit adds amount to the account balance. The amount check runs before
// any lookup, so a bad amount never reveals whether the account exists.
func (s *Service) Deposit(ctx context.Context, p Principal, accountID uint, amount int64) (*AccountSnapshot, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	unlock := s.locks.lock(accountID)
	defer unlock()

	a, err := s.lookup(ctx, p, accountID)
	if err != nil {
		return nil, err
	}
	if a.Balance > math.MaxInt64-amount {
		return nil, Internal(fmt.Errorf("deposit of %d overflows account %d", amount, accountID))
	}
	a.Balance += amount
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, Internal(err)
	}
	return snapshot(a), nil
}

// Withdraw removes amount from the account balance, refusing to take the
// balance below zero.
func (s *Service) Withdraw(ctx context.Context, p Principal, accountID uint, amount int64) (*AccountSnapshot, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	unlock := s.locks.lock(accountID)
	defer unlock()

	a, err := s.lookup(ctx, p, accountID)
	if err != nil {
		return nil, err
	}
	if a.Balance < amount {
		return nil, InsufficientFunds(amount, a.Currency)
	}
	a.Balance -= amount
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, Internal(err)
	}
	return snapshot(a), nil
}

// ListAccounts returns snapshots of every account owned by userID.
func (s *Service) ListAccounts(ctx context.Context, userID uint) ([]AccountSnapshot, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, Internal(err)
	}
	out := make([]AccountSnapshot, len(accounts))
	for i := range accounts {
		out[i] = *snapshot(&accounts[i])
	}
	return out, nil
}

// CreateUser registers a new user with one zero-balance account per
// currency. Admin-gated; the credential hash is computed by the caller.
func (s *Service) CreateUser(ctx context.Context, p Principal, username, passwordHash string) (*domain.User, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	u := &domain.User{Username: username, Password: passwordHash, Role: domain.RoleUser}
	for _, c := range domain.Currencies() {
		u.Accounts = append(u.Accounts, domain.Account{Currency: c})
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, Internal(err)
	}
	return u, nil
}

// User returns one user record by id.
func (s *Service) User(ctx context.Context, id uint) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// FindUser returns one user record by username. Used by the login path.
func (s *Service) FindUser(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// Users returns all user records with their accounts attached.
func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return users, nil
}

// lookup resolves the account and runs the ownership check. Both a missing
// account and a foreign one come back as ErrAccountNotFound.
func (s *Service) lookup(ctx context.Context, p Principal, id uint) (*domain.Account, error) {
	a, err := s.accounts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, Internal(err)
	}
	if err := authorize(p, a); err != nil {
		return nil, err
	}
	return a, nil
}

func snapshot(a *domain.Account) *AccountSnapshot {
	return &AccountSnapshot{ID: a.ID, Amount: a.Balance, Currency: a.Currency}
}

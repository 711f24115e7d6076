package db

import (
	"context"
	"errors"
	"sync"

	"simplebanking/internal/bank"
	"simplebanking/internal/domain"
)

var errUserNotFound = errors.New("user not found")

// MemoryStore is a map-backed implementation of bank.AccountStore and
// bank.UserStore guarded by a single RWMutex. It backs the tests and serves
// as a dependency-free development backend. Get hands out copies, so engine
// mutations only become visible through Update/UpdatePair, mirroring the
// database-backed store.
type MemoryStore struct {
	mu       sync.RWMutex
	nextUser uint
	nextAcct uint
	users    map[uint]*domain.User
	accounts map[uint]*domain.Account
	byName   map[string]uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uint]*domain.User),
		accounts: make(map[uint]*domain.Account),
		byName:   make(map[string]uint),
	}
}

func (m *MemoryStore) Get(ctx context.Context, id uint) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, bank.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID uint) ([]domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Account
	for _, c := range domain.Currencies() {
		for _, a := range m.accounts {
			if a.UserID == userID && a.Currency == c {
				out = append(out, *a)
			}
		}
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.accounts[a.ID]
	if !ok {
		return bank.ErrAccountNotFound
	}
	stored.Balance = a.Balance
	return nil
}

// UpdatePair writes both balances inside one critical section, the memory
// equivalent of a single durable transaction.
func (m *MemoryStore) UpdatePair(ctx context.Context, a, b *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sa, ok := m.accounts[a.ID]
	if !ok {
		return bank.ErrAccountNotFound
	}
	sb, ok := m.accounts[b.ID]
	if !ok {
		return bank.ErrAccountNotFound
	}
	sa.Balance = a.Balance
	sb.Balance = b.Balance
	return nil
}

func (m *MemoryStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byName[username]
	if !ok {
		return nil, errUserNotFound
	}
	cp := *m.users[id]
	return &cp, nil
}

func (m *MemoryStore) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryStore) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byName[u.Username]; exists {
		return bank.ErrUserExists
	}
	m.nextUser++
	u.ID = m.nextUser
	for i := range u.Accounts {
		m.nextAcct++
		u.Accounts[i].ID = m.nextAcct
		u.Accounts[i].UserID = u.ID
	}
	cp := *u
	cp.Accounts = nil // accounts live in their own map
	m.users[u.ID] = &cp
	m.byName[u.Username] = u.ID
	for i := range u.Accounts {
		acct := u.Accounts[i]
		m.accounts[acct.ID] = &acct
	}
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.User
	for id := uint(1); id <= m.nextUser; id++ {
		u, ok := m.users[id]
		if !ok {
			continue
		}
		cp := *u
		cp.Accounts = nil
		for _, c := range domain.Currencies() {
			for _, a := range m.accounts {
				if a.UserID == id && a.Currency == c {
					cp.Accounts = append(cp.Accounts, *a)
				}
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

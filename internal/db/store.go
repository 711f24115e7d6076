package db

import (
	"context"
	"errors"

	"simplebanking/internal/bank"
	"simplebanking/internal/domain"

	"gorm.io/gorm" // GORM ORM library
)

// Store implements bank.AccountStore and bank.UserStore on MySQL through
// GORM. The two-leg transfer commit runs inside a single database
// transaction; the caller's lock table already serializes the accounts
// involved.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id uint) (*domain.Account, error) {
	var a domain.Account
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bank.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListByUser(ctx context.Context, userID uint) ([]domain.Account, error) {
	var accounts []domain.Account
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&accounts).Error
	return accounts, err
}

func (s *Store) Update(ctx context.Context, a *domain.Account) error {
	return s.db.WithContext(ctx).
		Model(&domain.Account{}).
		Where("id = ?", a.ID).
		Update("balance", a.Balance).Error
}

// UpdatePair commits both legs of a transfer as one transaction, so a
// failure on either leg rolls back the other.
func (s *Store) UpdatePair(ctx context.Context, a, b *domain.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Account{}).Where("id = ?", a.ID).Update("balance", a.Balance).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Account{}).Where("id = ?", b.ID).Update("balance", b.Balance).Error
	})
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persists the user and its provisioned accounts in one transaction
// via the association. Requires TranslateError on the gorm config so a
// duplicate username surfaces as gorm.ErrDuplicatedKey.
func (s *Store) Create(ctx context.Context, u *domain.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return bank.ErrUserExists
		}
		return err
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.db.WithContext(ctx).Preload("Accounts").Order("id").Find(&users).Error
	return users, err
}

package domain

// Account Model
//
// Balance is kept in the smallest currency unit as a non-negative int64;
// floating point is never used for money. The composite unique index keeps
// one account per currency per user.
type Account struct {
	ID       uint     `gorm:"primaryKey" json:"id"`                             // Primary key
	UserID   uint     `gorm:"uniqueIndex:idx_user_currency;not null" json:"-"`  // Foreign key to the owning User
	Currency Currency `gorm:"uniqueIndex:idx_user_currency;not null;size:8" json:"currency"` // Fixed currency code
	Balance  int64    `gorm:"not null;default:0" json:"amount"`                 // Balance in minor units, >= 0
}

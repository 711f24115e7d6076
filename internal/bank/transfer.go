package bank

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Transfer moves amount from the caller's account to the destination
// account. The validation chain is fixed and short-circuits on the first
// failure: amount, source ownership, destination id/owner pairing, currency
// equality, funds. Both balance checks and the commit happen with the two
// account locks held, acquired in ascending id order, so opposing transfers
// on the same pair cannot deadlock and no observer sees one leg without the
// other. The destination owner must match toUserID even when both ids
// exist, which rejects mismatched id pairs without revealing which half is
// wrong.
func (s *Service) Transfer(ctx context.Context, p Principal, fromID, toID, toUserID uint, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	unlock := s.locks.lockPair(fromID, toID)
	defer unlock()

	from, err := s.lookup(ctx, p, fromID)
	if err != nil {
		return err
	}
	to, err := s.accounts.Get(ctx, toID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return Internal(err)
	}
	if to.UserID != toUserID {
		return ErrAccountNotFound
	}
	if from.Currency != to.Currency {
		return ErrCurrencyMismatch
	}
	if from.Balance < amount {
		return InsufficientFunds(amount, from.Currency)
	}
	// A self-transfer passes the full chain and nets to zero; there is
	// nothing to persist.
	if fromID == toID {
		return nil
	}
	if to.Balance > math.MaxInt64-amount {
		return Internal(fmt.Errorf("transfer of %d overflows account %d", amount, toID))
	}
	from.Balance -= amount
	to.Balance += amount
	if err := s.accounts.UpdatePair(ctx, from, to); err != nil {
		return Internal(err)
	}
	return nil
}

package bank

import (
	"errors"
	"fmt"

	"simplebanking/internal/domain"
)

// Kind discriminates domain failures so the API layer can map each one to a
// transport status without parsing messages.
type Kind string

const (
	KindInvalidAmount     Kind = "invalid_amount"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindCurrencyMismatch  Kind = "currency_mismatch"
	KindAccountNotFound   Kind = "account_not_found"
	KindForbidden         Kind = "forbidden"
	KindAlreadyExists     Kind = "already_exists"
	KindInternal          Kind = "internal"
)

// Error is a domain failure with a fixed caller-visible message. Internal
// errors additionally wrap their cause, which is logged but never exposed.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

var (
	ErrInvalidAmount    = &Error{Kind: KindInvalidAmount, Message: "Amount should be more than 0"}
	ErrCurrencyMismatch = &Error{Kind: KindCurrencyMismatch, Message: "Account currencies should be same"}
	ErrForbidden        = &Error{Kind: KindForbidden, Message: "Admin access required"}
	ErrUserExists       = &Error{Kind: KindAlreadyExists, Message: "Username already exists"}

	// ErrAccountNotFound covers a missing account and an account the caller
	// does not own. The two are indistinguishable on purpose: a non-owner
	// must not learn whether an account id exists.
	ErrAccountNotFound = &Error{Kind: KindAccountNotFound, Message: "Account not found"}
)

// InsufficientFunds reports a withdrawal or transfer exceeding the available
// balance. The message carries the requested amount and the account
// currency, not the shortfall.
func InsufficientFunds(amount int64, currency domain.Currency) *Error {
	return &Error{
		Kind:    KindInsufficientFunds,
		Message: fmt.Sprintf("Cannot withdraw %d %s", amount, currency),
	}
}

// Internal wraps an infrastructure fault behind a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error", cause: cause}
}

// KindOf extracts the failure kind from err; anything that is not a domain
// error counts as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

package bank

import "simplebanking/internal/domain"

// Principal is the authenticated identity behind a request. A JWT principal
// carries the user id and role; the service principal authenticated by the
// admin key carries neither and may only create users.
type Principal struct {
	UserID  uint
	Role    string
	Service bool
}

// IsAdmin reports whether the principal may perform admin-only operations.
func (p Principal) IsAdmin() bool {
	return p.Service || p.Role == domain.RoleAdmin
}

// authorize is the ownership check for balance operations. Ownership is the
// sole criterion; an admin role does not bypass it. A denial is reported as
// ErrAccountNotFound so existence never leaks to a non-owner.
func authorize(p Principal, a *domain.Account) error {
	if a.UserID != p.UserID {
		return ErrAccountNotFound
	}
	return nil
}

// RequireAdmin gates the user-creation path.
func RequireAdmin(p Principal) error {
	if !p.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

package domain

// Currency is a fixed currency code. The set is closed: accounts are
// provisioned for every listed currency at user creation and no other code
// is ever accepted.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	RUB Currency = "RUB"
)

// Currencies returns the full closed set, in provisioning order.
func Currencies() []Currency {
	return []Currency{USD, EUR, RUB}
}

// Valid reports whether c is one of the known currency codes.
func (c Currency) Valid() bool {
	switch c {
	case USD, EUR, RUB:
		return true
	}
	return false
}

package bank_test

import (
	"context"
	"math"
	"sync"
	"testing"

	"simplebanking/internal/bank"
	"simplebanking/internal/db"
	"simplebanking/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedUser creates a user with one account per currency and the given
// starting balances.
func seedUser(t *testing.T, store *db.MemoryStore, username string, balances map[domain.Currency]int64) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Password: "hash", Role: domain.RoleUser}
	for _, c := range domain.Currencies() {
		u.Accounts = append(u.Accounts, domain.Account{Currency: c})
	}
	require.NoError(t, store.Create(context.Background(), u))
	for i := range u.Accounts {
		if bal, ok := balances[u.Accounts[i].Currency]; ok {
			u.Accounts[i].Balance = bal
			require.NoError(t, store.Update(context.Background(), &u.Accounts[i]))
		}
	}
	return u
}

func accountOf(t *testing.T, u *domain.User, c domain.Currency) domain.Account {
	t.Helper()
	for _, a := range u.Accounts {
		if a.Currency == c {
			return a
		}
	}
	t.Fatalf("user %s has no %s account", u.Username, c)
	return domain.Account{}
}

func principal(u *domain.User) bank.Principal {
	return bank.Principal{UserID: u.ID, Role: u.Role}
}

func storedBalance(t *testing.T, store *db.MemoryStore, id uint) int64 {
	t.Helper()
	a, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	return a.Balance
}

func TestDeposit(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	u := seedUser(t, store, "alice", map[domain.Currency]int64{domain.USD: 100})
	usd := accountOf(t, u, domain.USD)

	snap, err := svc.Deposit(context.Background(), principal(u), usd.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, usd.ID, snap.ID)
	assert.Equal(t, int64(150), snap.Amount)
	assert.Equal(t, domain.USD, snap.Currency)
	assert.Equal(t, int64(150), storedBalance(t, store, usd.ID))
}

func TestWithdraw(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	u := seedUser(t, store, "alice", map[domain.Currency]int64{domain.USD: 100})
	usd := accountOf(t, u, domain.USD)

	snap, err := svc.Withdraw(context.Background(), principal(u), usd.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, int64(60), snap.Amount)
	assert.Equal(t, int64(60), storedBalance(t, store, usd.ID))
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	u := seedUser(t, store, "alice", map[domain.Currency]int64{domain.USD: 100})
	usd := accountOf(t, u, domain.USD)

	_, err := svc.Withdraw(context.Background(), principal(u), usd.ID, 250)
	require.Error(t, err)
	assert.Equal(t, bank.KindInsufficientFunds, bank.KindOf(err))
	assert.Equal(t, "Cannot withdraw 250 USD", err.Error())
	assert.Equal(t, int64(100), storedBalance(t, store, usd.ID))
}

func TestAmountValidatedBeforeLookup(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)

	// No accounts exist at all; a bad amount must still win.
	for _, amount := range []int64{0, -10} {
		_, err := svc.Deposit(context.Background(), bank.Principal{UserID: 1}, 999, amount)
		assert.ErrorIs(t, err, bank.ErrInvalidAmount)
		_, err = svc.Withdraw(context.Background(), bank.Principal{UserID: 1}, 999, amount)
		assert.ErrorIs(t, err, bank.ErrInvalidAmount)
	}
}

func TestDepositMissingAccount(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)

	_, err := svc.Deposit(context.Background(), bank.Principal{UserID: 1}, 999, 10)
	assert.ErrorIs(t, err, bank.ErrAccountNotFound)
}

func TestForeignAccountIndistinguishableFromMissing(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	owner := seedUser(t, store, "alice", map[domain.Currency]int64{domain.USD: 100})
	other := seedUser(t, store, "bob", map[domain.Currency]int64{domain.USD: 50})
	usd := accountOf(t, owner, domain.USD)

	_, err := svc.Withdraw(context.Background(), principal(other), usd.ID, 10)
	assert.ErrorIs(t, err, bank.ErrAccountNotFound)

	missing := usd.ID + 1000
	_, err2 := svc.Withdraw(context.Background(), principal(other), missing, 10)
	assert.Equal(t, err, err2, "foreign and missing accounts must be indistinguishable")
	assert.Equal(t, int64(100), storedBalance(t, store, usd.ID))
}

func TestGetAccount(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	u := seedUser(t, store, "alice", map[domain.Currency]int64{domain.EUR: 77})
	eur := accountOf(t, u, domain.EUR)

	snap, err := svc.GetAccount(context.Background(), principal(u), eur.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(77), snap.Amount)
	assert.Equal(t, domain.EUR, snap.Currency)

	_, err = svc.GetAccount(context.Background(), bank.Principal{UserID: u.ID + 1}, eur.ID)
	assert.ErrorIs(t, err, bank.ErrAccountNotFound)
}

func TestDepositOverflowIsInternal(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	u := seedUser(t, store, "alice", map[domain.Currency]int64{domain.USD: math.MaxInt64 - 10})
	usd := accountOf(t, u, domain.USD)

	_, err := svc.Deposit(context.Background(), principal(u), usd.ID, 100)
	require.Error(t, err)
	assert.Equal(t, bank.KindInternal, bank.KindOf(err))
	assert.Equal(t, int64(math.MaxInt64-10), storedBalance(t, store, usd.ID))
}

func TestConcurrentDepositsSerialize(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)
	u := seedUser(t, store, "alice", map[domain.Currency]int64{domain.USD: 0})
	usd := accountOf(t, u, domain.USD)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Deposit(context.Background(), principal(u), usd.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(n), storedBalance(t, store, usd.ID))
}

func TestCreateUserProvisionsAllCurrencies(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)

	u, err := svc.CreateUser(context.Background(), bank.Principal{Service: true}, "carol", "hash")
	require.NoError(t, err)
	require.Len(t, u.Accounts, len(domain.Currencies()))
	for i, c := range domain.Currencies() {
		assert.Equal(t, c, u.Accounts[i].Currency)
		assert.Zero(t, u.Accounts[i].Balance)
	}
}

func TestCreateUserRequiresAdmin(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)

	_, err := svc.CreateUser(context.Background(), bank.Principal{UserID: 1, Role: domain.RoleUser}, "carol", "hash")
	assert.ErrorIs(t, err, bank.ErrForbidden)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := db.NewMemoryStore()
	svc := bank.NewService(store, store)

	_, err := svc.CreateUser(context.Background(), bank.Principal{Service: true}, "carol", "hash")
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), bank.Principal{Service: true}, "carol", "hash")
	assert.ErrorIs(t, err, bank.ErrUserExists)
}

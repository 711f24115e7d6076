package bank

import "sync"

// lockTable hands out one mutex per account id. Balance mutations hold the
// account's mutex across the whole read-check-write, so concurrent requests
// against the same account serialize while different accounts proceed in
// parallel. Accounts are never deleted, so entries are never reclaimed.
type lockTable struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[uint]*sync.Mutex)}
}

func (t *lockTable) get(id uint) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[id]
	if !ok {
		l = &sync.Mutex{}
		t.locks[id] = l
	}
	return l
}

// lock acquires the mutex for a single account and returns its release.
func (t *lockTable) lock(id uint) func() {
	l := t.get(id)
	l.Lock()
	return l.Unlock
}

// lockPair acquires both account mutexes in ascending id order, regardless
// of argument order. The total order makes opposing transfers on the same
// pair deadlock-free without any timeout machinery. Equal ids take the
// single mutex once.
func (t *lockTable) lockPair(a, b uint) func() {
	if a == b {
		return t.lock(a)
	}
	if b < a {
		a, b = b, a
	}
	first, second := t.get(a), t.get(b)
	first.Lock()
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

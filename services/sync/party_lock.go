package sync

import (
	"sync"
)

// PartyLocker serializes mutating operations per party. Every mutation that
// touches a party's aggregate (members, teams, codes, admins, settings)
// runs under Lock(partyID), so concurrent conflicting calls produce one
// winner and normal errors for the losers instead of torn writes.
// Cross-party operations never contend.
type PartyLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPartyLocker() *PartyLocker {
	return &PartyLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

// Lock acquires the mutex for the given party, creating it on first use.
// The returned function releases it.
func (pl *PartyLocker) Lock(partyID string) func() {
	pl.mu.Lock()
	lock, ok := pl.locks[partyID]
	if !ok {
		lock = &sync.Mutex{}
		pl.locks[partyID] = lock
	}
	pl.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Forget drops the mutex of a deleted party. Only call after the party's
// record is gone: a later Lock on the same id mints a fresh mutex, so a
// goroutine still holding the old one is no longer excluded. That is
// harmless only because every mutation re-reads the party inside its
// transaction and fails NotFound once the record is deleted.
func (pl *PartyLocker) Forget(partyID string) {
	pl.mu.Lock()
	delete(pl.locks, partyID)
	pl.mu.Unlock()
}

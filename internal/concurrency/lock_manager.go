package concurrency

import (
	"slices"
	"sync"
)

// LockManager handles named locks. It serializes same-player work inside one
// process before the store's row locks are reached, so conflicting requests
// queue here instead of contending in the database.
//
// An entry lives only while some caller holds or waits for it.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*refLock)}
}

func (lm *LockManager) acquire(key string) *refLock {
	lm.mu.Lock()
	l, ok := lm.locks[key]
	if !ok {
		l = &refLock{}
		lm.locks[key] = l
	}
	l.refs++
	lm.mu.Unlock()

	l.Lock()
	return l
}

func (lm *LockManager) release(key string, l *refLock) {
	l.Unlock()

	lm.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(lm.locks, key)
	}
	lm.mu.Unlock()
}

// LockAll acquires the locks for every distinct key in ascending order and
// returns a function that releases them. Two callers locking overlapping key
// sets can never deadlock.
func (lm *LockManager) LockAll(keys ...string) (unlock func()) {
	ordered := slices.Clone(keys)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	held := make([]*refLock, 0, len(ordered))
	for _, key := range ordered {
		held = append(held, lm.acquire(key))
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			lm.release(ordered[i], held[i])
		}
	}
}

// Len returns the number of keys currently held or waited on.
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

// PlayerKey names the in-process lock guarding one player's ledger and items.
func PlayerKey(playerID string) string {
	return "player:" + playerID
}

// ListingKey names the in-process lock guarding one listing.
func ListingKey(listingID string) string {
	return "listing:" + listingID
}

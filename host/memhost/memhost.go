// Package memhost provides in-memory reference implementations of the host
// collaborator contracts, suitable for tests and single-process embedding.
package memhost

import (
	"sync"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

// Store is an in-memory host.Store backed by a map. It is safe for
// concurrent use; each Update holds the write lock for the whole mutation,
// which gives the single-writer guarantee the core relies on.
type Store struct {
	mu   sync.RWMutex
	data map[addr.Address]host.Account
}

// NewStore creates a new, empty Store.
func NewStore() *Store {
	return &Store{data: make(map[addr.Address]host.Account)}
}

func (s *Store) Get(a addr.Address) (host.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.data[a]
	if !ok {
		return host.Account{}, host.ErrNotFound
	}
	return acct.Clone(), nil
}

func (s *Store) Exists(a addr.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[a]
	return ok
}

func (s *Store) Create(acct host.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[acct.Address]; ok {
		return host.ErrAlreadyExists
	}
	s.data[acct.Address] = acct.Clone()
	return nil
}

func (s *Store) Update(a addr.Address, fn func(*host.Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.data[a]
	if !ok {
		return host.ErrNotFound
	}
	work := acct.Clone()
	if err := fn(&work); err != nil {
		return err
	}
	work.Address = a // the key is authoritative
	s.data[a] = work
	return nil
}

// Clock is a manually advanced host.Clock.
type Clock struct {
	mu  sync.Mutex
	now uint64
}

// NewClock creates a Clock reading the given time.
func NewClock(now uint64) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d seconds.
func (c *Clock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}

// Set moves the clock to an absolute time.
func (c *Clock) Set(now uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

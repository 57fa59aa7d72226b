package testkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

// NewStore constructs a fresh, empty Store instance for a test.
// The returned Store MUST be isolated from other tests.
type NewStore func(t *testing.T) host.Store

// RunStoreConformance exercises the host.Store contract against any
// implementation.
func RunStoreConformance(t *testing.T, newStore NewStore) {
	t.Helper()

	key := func(b byte) addr.Address {
		var a addr.Address
		a[0] = b
		return a
	}

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(key(1)); !errors.Is(err, host.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if s.Exists(key(1)) {
			t.Fatalf("Exists on missing account: expected false")
		}
	})

	t.Run("CreateGetRoundTrip", func(t *testing.T) {
		s := newStore(t)
		want := host.Account{Address: key(2), Owner: key(9), Balance: 77, Data: []byte{1, 2, 3}}
		if err := s.Create(want); err != nil {
			t.Fatalf("Create: %v", err)
		}
		got, err := s.Get(key(2))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Owner != want.Owner || got.Balance != want.Balance || !bytes.Equal(got.Data, want.Data) {
			t.Fatalf("Get mismatch: %+v != %+v", got, want)
		}
		if !s.Exists(key(2)) {
			t.Fatalf("Exists: expected true after Create")
		}
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(host.Account{Address: key(3)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := s.Create(host.Account{Address: key(3)}); !errors.Is(err, host.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("GetReturnsCopy", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(host.Account{Address: key(4), Data: []byte{10, 20}}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		first, err := s.Get(key(4))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		first.Data[0] = 99
		second, err := s.Get(key(4))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if second.Data[0] != 10 {
			t.Fatalf("stored data mutated through Get copy")
		}
	})

	t.Run("UpdateApplies", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(host.Account{Address: key(5), Balance: 1}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		err := s.Update(key(5), func(a *host.Account) error {
			a.Balance = 42
			a.Data = []byte{7}
			return nil
		})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		got, err := s.Get(key(5))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Balance != 42 || !bytes.Equal(got.Data, []byte{7}) {
			t.Fatalf("Update not applied: %+v", got)
		}
	})

	t.Run("UpdateFailureLeavesNoEffect", func(t *testing.T) {
		s := newStore(t)
		if err := s.Create(host.Account{Address: key(6), Balance: 5}); err != nil {
			t.Fatalf("Create: %v", err)
		}
		boom := errors.New("boom")
		err := s.Update(key(6), func(a *host.Account) error {
			a.Balance = 0
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected fn error to propagate, got %v", err)
		}
		got, err := s.Get(key(6))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Balance != 5 {
			t.Fatalf("failed Update mutated state: balance %d", got.Balance)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(key(7), func(a *host.Account) error { return nil })
		if !errors.Is(err, host.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

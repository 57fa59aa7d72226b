// Package memtoken is an in-memory custody service over a host.Store,
// sufficient for tests and single-process embedding of the vesting core.
package memtoken

import (
	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
	"github.com/rokoperki/token-vesting/token"
)

// Service implements token.Service against a host.Store. Holdings are
// ordinary accounts owned by the service identity, with token.Holding bytes
// as their data.
type Service struct {
	store   host.Store
	id      addr.Address
	deriver addr.Deriver
}

// New builds a Service with the given identity. Canonical holding addresses
// are derived in the service's own namespace.
func New(store host.Store, id addr.Address, alg addr.Alg) *Service {
	return &Service{
		store:   store,
		id:      id,
		deriver: addr.Deriver{Namespace: id, Alg: alg},
	}
}

// ID returns the service's program identity.
func (s *Service) ID() addr.Address {
	return s.id
}

func (s *Service) CanonicalHoldingAddress(owner, asset addr.Address) (addr.Address, error) {
	a, _, err := s.deriver.Derive([][]byte{owner[:], s.id[:], asset[:]})
	return a, err
}

func (s *Service) Transfer(from, to addr.Address, auth token.Authority, amount uint64) error {
	src, err := s.holdingAt(from)
	if err != nil {
		return err
	}
	if _, err := s.holdingAt(to); err != nil {
		return err
	}
	if err := auth.Authorize(src.Owner); err != nil {
		return err
	}
	if src.Amount < amount {
		return token.ErrInsufficientFunds
	}

	if err := s.adjust(from, func(h *token.Holding) { h.Amount -= amount }); err != nil {
		return err
	}
	return s.adjust(to, func(h *token.Holding) { h.Amount += amount })
}

// InitHolding creates the canonical holding account for (owner, asset) with a
// zero balance. It fails if the account already exists.
func (s *Service) InitHolding(owner, asset addr.Address) (addr.Address, error) {
	a, err := s.CanonicalHoldingAddress(owner, asset)
	if err != nil {
		return addr.Zero, err
	}
	acct := host.Account{
		Address: a,
		Owner:   s.id,
		Balance: 1,
		Data:    token.EncodeHolding(token.Holding{Asset: asset, Owner: owner}),
	}
	if err := s.store.Create(acct); err != nil {
		return addr.Zero, err
	}
	return a, nil
}

// MintTo credits freshly issued units to a holding. Test setup only; real
// issuance is the asset authority's business, not the vesting core's.
func (s *Service) MintTo(holding addr.Address, amount uint64) error {
	if _, err := s.holdingAt(holding); err != nil {
		return err
	}
	return s.adjust(holding, func(h *token.Holding) { h.Amount += amount })
}

func (s *Service) holdingAt(a addr.Address) (token.Holding, error) {
	acct, err := s.store.Get(a)
	if err != nil {
		if host.IsNotFound(err) {
			return token.Holding{}, token.ErrUninitialized
		}
		return token.Holding{}, err
	}
	if acct.Owner != s.id {
		return token.Holding{}, token.ErrInvalidHolding
	}
	return token.DecodeHolding(acct.Data)
}

func (s *Service) adjust(a addr.Address, fn func(*token.Holding)) error {
	return s.store.Update(a, func(acct *host.Account) error {
		h, err := token.DecodeHolding(acct.Data)
		if err != nil {
			return err
		}
		fn(&h)
		acct.Data = token.EncodeHolding(h)
		return nil
	})
}

// Package host declares the contracts of the external collaborators the
// vesting core consumes: the transactional account store, the signature
// service, and the clock source.
//
// The core never reimplements these; it validates whatever they hand it.
package host

import (
	"encoding/binary"

	"github.com/rokoperki/token-vesting/addr"
)

// Account is an opaque stored record: an owner tag, a native balance, and
// raw bytes. The store hands out copies; mutation happens only through
// Update.
type Account struct {
	Address addr.Address
	Owner   addr.Address
	Balance uint64
	Data    []byte
}

// Clone returns a deep copy, so callers can not alias stored data.
func (a Account) Clone() Account {
	out := a
	if a.Data != nil {
		out.Data = append([]byte(nil), a.Data...)
	}
	return out
}

// Initialized reports whether the account has been funded or populated.
// A fresh, never-written account is uninitialized.
func (a Account) Initialized() bool {
	return a.Balance > 0 || len(a.Data) > 0
}

// Store is the host's account store, keyed by address.
//
// Contract:
// - Get MUST return a copy; mutating it MUST NOT affect stored state.
// - Get MUST return ErrNotFound when the address is absent.
// - Create MUST fail with ErrAlreadyExists when the address is present.
// - Update MUST apply fn under the single-writer-per-operation guarantee and
//   MUST NOT persist anything when fn returns an error.
type Store interface {
	Get(a addr.Address) (Account, error)
	Exists(a addr.Address) bool
	Create(acct Account) error
	Update(a addr.Address, fn func(*Account) error) error
}

// Signers is the signature service's view of one operation: which accounts
// are verified signers for it.
type Signers interface {
	IsSigner(a addr.Address) bool
}

// SignerSet is a static Signers implementation.
type SignerSet map[addr.Address]struct{}

// NewSignerSet builds a SignerSet from the given addresses.
func NewSignerSet(addrs ...addr.Address) SignerSet {
	s := make(SignerSet, len(addrs))
	for _, a := range addrs {
		s[a] = struct{}{}
	}
	return s
}

func (s SignerSet) IsSigner(a addr.Address) bool {
	_, ok := s[a]
	return ok
}

// Clock supplies the current time as integer seconds. It is the sole time
// authority for vesting math.
type Clock interface {
	Now() uint64
}

// accountWirePrefix is the fixed-size header of the account wire form:
// [owner:32][balance:8][datalen:4].
const accountWirePrefix = addr.Size + 8 + 4

// EncodeAccount serializes an account for transport. The address travels
// separately as the store key.
func EncodeAccount(a Account) []byte {
	b := make([]byte, accountWirePrefix+len(a.Data))
	copy(b[:addr.Size], a.Owner[:])
	binary.LittleEndian.PutUint64(b[addr.Size:addr.Size+8], a.Balance)
	binary.LittleEndian.PutUint32(b[addr.Size+8:accountWirePrefix], uint32(len(a.Data)))
	copy(b[accountWirePrefix:], a.Data)
	return b
}

// DecodeAccount parses the account wire form produced by EncodeAccount.
func DecodeAccount(address addr.Address, b []byte) (Account, error) {
	if len(b) < accountWirePrefix {
		return Account{}, ErrInvalidAccountWire
	}
	var a Account
	a.Address = address
	copy(a.Owner[:], b[:addr.Size])
	a.Balance = binary.LittleEndian.Uint64(b[addr.Size : addr.Size+8])
	n := binary.LittleEndian.Uint32(b[addr.Size+8 : accountWirePrefix])
	if uint64(len(b)-accountWirePrefix) != uint64(n) {
		return Account{}, ErrInvalidAccountWire
	}
	if n > 0 {
		a.Data = append([]byte(nil), b[accountWirePrefix:]...)
	}
	return a, nil
}

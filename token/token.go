// Package token defines the custody collaborator contract: asset holdings,
// their canonical byte layout, and the authority capabilities that gate
// transfers.
//
// The vesting core never mutates balances directly; every movement of the
// asset goes through a Service implementation.
package token

import (
	"encoding/binary"
	"errors"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

// Account sizes enforced at the validation boundary. Any account claiming to
// be a mint or a holding must have exactly these lengths.
const (
	// MintLen is the stored size of an asset definition account.
	MintLen = 82

	// HoldingLen is the stored size of a holding account. The leading
	// holdingPrefix bytes carry the fields below; the remainder is reserved
	// and must be zero.
	HoldingLen = 165
)

const holdingPrefix = addr.Size + addr.Size + 8

// Holding is one account's position in one asset.
type Holding struct {
	Asset  addr.Address
	Owner  addr.Address
	Amount uint64
}

// EncodeHolding serializes a holding into its canonical stored layout:
// [asset:32][owner:32][amount:8][reserved:93].
func EncodeHolding(h Holding) []byte {
	b := make([]byte, HoldingLen)
	copy(b[:32], h.Asset[:])
	copy(b[32:64], h.Owner[:])
	binary.LittleEndian.PutUint64(b[64:72], h.Amount)
	return b
}

// DecodeHolding parses a stored holding, rejecting wrong lengths before
// reading any field.
func DecodeHolding(b []byte) (Holding, error) {
	if len(b) != HoldingLen {
		return Holding{}, ErrInvalidHolding
	}
	var h Holding
	copy(h.Asset[:], b[:32])
	copy(h.Owner[:], b[32:64])
	h.Amount = binary.LittleEndian.Uint64(b[64:72])
	return h, nil
}

// Service is the asset custody collaborator.
//
// Contract:
// - Transfer MUST debit and credit exactly amount, or leave both holdings
//   untouched and return an error.
// - Transfer MUST reject an authority that does not speak for the source
//   holding's owner.
// - CanonicalHoldingAddress MUST be deterministic in (owner, asset).
type Service interface {
	Transfer(from, to addr.Address, auth Authority, amount uint64) error
	CanonicalHoldingAddress(owner, asset addr.Address) (addr.Address, error)
}

// Authority proves the right to move funds out of a holding. Implementations
// are capability values: a KeyAuthority is only honored when the key actually
// signed the operation, and a DerivedAuthority can only be built from the
// seed material behind a derived address.
type Authority interface {
	Authorize(owner addr.Address) error
}

var (
	ErrInvalidHolding    = errors.New("token: invalid holding bytes")
	ErrUnauthorized      = errors.New("token: authority does not own holding")
	ErrMissingSignature  = errors.New("token: authority did not sign")
	ErrInsufficientFunds = errors.New("token: insufficient funds")
	ErrUninitialized     = errors.New("token: holding not initialized")
)

// KeyAuthority authorizes a transfer with the holding owner's own signature.
type KeyAuthority struct {
	Key     addr.Address
	Signers host.Signers
}

// NewKeyAuthority builds a KeyAuthority over the operation's signer set.
func NewKeyAuthority(key addr.Address, signers host.Signers) KeyAuthority {
	return KeyAuthority{Key: key, Signers: signers}
}

func (k KeyAuthority) Authorize(owner addr.Address) error {
	if !k.Key.Equal(owner) {
		return ErrUnauthorized
	}
	if k.Signers == nil || !k.Signers.IsSigner(k.Key) {
		return ErrMissingSignature
	}
	return nil
}

// DerivedAuthority authorizes a transfer with a derivation proof instead of a
// signature.
type DerivedAuthority struct {
	Proof addr.Proof
}

func (d DerivedAuthority) Authorize(owner addr.Address) error {
	if !d.Proof.Address().Equal(owner) {
		return ErrUnauthorized
	}
	return nil
}

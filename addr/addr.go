// Package addr defines the 32-byte address space of the vesting ledger and
// the deterministic derivation scheme for keyless record addresses.
package addr

import (
	"bytes"
	"errors"

	"github.com/mr-tron/base58"
)

// Size is the byte length of every address.
const Size = 32

// Address identifies an account in the host's account store. Addresses are
// opaque 32-byte values; derived addresses additionally carry a canonical
// derivation nonce (see Deriver).
type Address [Size]byte

// Zero is the all-zero address. It is never a valid account identity.
var Zero Address

// FromBytes copies b into an Address. The input must be exactly Size bytes.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return Zero, errors.New("addr: address must be 32 bytes")
	}
	copy(a[:], b)
	return a, nil
}

// Parse decodes a base58-rendered address.
func Parse(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Zero, err
	}
	return FromBytes(b)
}

// String renders the address in base58.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Zero
}

// Equal reports byte equality with b.
func (a Address) Equal(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

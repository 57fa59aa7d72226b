package addr

import (
	"crypto/sha256"
	"errors"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Alg selects the digest used for address derivation.
//
// The derived address space is disjoint between algorithms; a ledger picks one
// at startup and never mixes them.
type Alg string

const (
	AlgSHA256  Alg = "sha256"
	AlgSHA3256 Alg = "sha3-256"
)

// Derivation limits. Seeds beyond these bounds are rejected rather than
// silently truncated.
const (
	MaxSeeds   = 16
	MaxSeedLen = 32
)

const derivationDomain = "vesting-derived-address-v1"

var (
	// ErrAddressMismatch is returned by Verify when the claimed address is
	// not the canonical derivation of the seeds.
	ErrAddressMismatch = errors.New("addr: derived address mismatch")

	// ErrNonceMismatch is returned by Verify when the address matches but
	// the claimed nonce is not the canonical nonce.
	ErrNonceMismatch = errors.New("addr: derivation nonce mismatch")

	// ErrInvalidSeeds is returned when the seed list violates the
	// derivation limits.
	ErrInvalidSeeds = errors.New("addr: invalid seed list")

	// ErrNoCanonicalNonce is returned when no nonce in [0,255] yields a
	// usable derived address for the seed list.
	ErrNoCanonicalNonce = errors.New("addr: no canonical nonce for seeds")

	errUnsupportedAlg = errors.New("addr: unsupported derivation algorithm")
)

// Deriver maps ordered seed lists to derived addresses within a namespace.
//
// The namespace is the identity of the program the derivation is bound to; two
// programs derive disjoint addresses from identical seeds. Deriver values are
// immutable configuration injected at startup.
type Deriver struct {
	Namespace Address
	Alg       Alg
}

// Derive returns the canonical derived address for seeds and its canonical
// nonce.
//
// Nonces are scanned downward from 255; the first candidate that does not
// collide with the key-holding address space (reserved trailing zero byte) is
// canonical. Derivation is deterministic: same seeds, namespace and algorithm
// always produce the same (address, nonce) pair.
func (d Deriver) Derive(seeds [][]byte) (Address, uint8, error) {
	if err := checkSeeds(seeds); err != nil {
		return Zero, 0, err
	}
	for nonce := 255; nonce >= 0; nonce-- {
		cand, err := d.candidate(seeds, uint8(nonce))
		if err != nil {
			return Zero, 0, err
		}
		if reserved(cand) {
			continue
		}
		return cand, uint8(nonce), nil
	}
	return Zero, 0, ErrNoCanonicalNonce
}

// Verify recomputes Derive and requires exact equality on both outputs.
//
// A claimed address that is not the canonical derivation fails with
// ErrAddressMismatch; a correct address presented with a non-canonical nonce
// fails with ErrNonceMismatch.
func (d Deriver) Verify(seeds [][]byte, claimed Address, nonce uint8) error {
	derived, canonical, err := d.Derive(seeds)
	if err != nil {
		return err
	}
	if !derived.Equal(claimed) {
		return ErrAddressMismatch
	}
	if nonce != canonical {
		return ErrNonceMismatch
	}
	return nil
}

// Proof is a capability asserting control over a derived address. It can only
// be constructed through Prove, so holding a Proof implies holding the seed
// material that derives its address.
type Proof struct {
	address Address
}

// Address returns the derived address the proof speaks for.
func (p Proof) Address() Address {
	return p.address
}

// Prove verifies the seed material and returns a Proof for the derived
// address. A consumer of the proof (the custody service) authorizes transfers
// out of holdings owned by the proven address.
func (d Deriver) Prove(seeds [][]byte, nonce uint8) (Proof, error) {
	derived, canonical, err := d.Derive(seeds)
	if err != nil {
		return Proof{}, err
	}
	if nonce != canonical {
		return Proof{}, ErrNonceMismatch
	}
	return Proof{address: derived}, nil
}

func (d Deriver) candidate(seeds [][]byte, nonce uint8) (Address, error) {
	h, err := d.newHash()
	if err != nil {
		return Zero, err
	}
	h.Write([]byte(derivationDomain))
	for _, s := range seeds {
		h.Write([]byte{byte(len(s))})
		h.Write(s)
	}
	h.Write([]byte{nonce})
	h.Write(d.Namespace[:])
	var a Address
	copy(a[:], h.Sum(nil))
	return a, nil
}

func (d Deriver) newHash() (hash.Hash, error) {
	switch d.Alg {
	case AlgSHA256, "":
		return sha256.New(), nil
	case AlgSHA3256:
		return sha3.New256(), nil
	default:
		return nil, errUnsupportedAlg
	}
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return ErrInvalidSeeds
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLen {
			return ErrInvalidSeeds
		}
	}
	return nil
}

// reserved reports whether a candidate address falls in the space reserved
// for key-holding accounts. Derived addresses must stay out of it so a
// derived authority can never alias a real signing key.
func reserved(a Address) bool {
	return a[Size-1] == 0
}

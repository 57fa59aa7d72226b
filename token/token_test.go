package token

import (
	"errors"
	"testing"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

func addrOf(b byte) addr.Address {
	var a addr.Address
	a[0] = b
	return a
}

func TestHoldingRoundTrip(t *testing.T) {
	h := Holding{Asset: addrOf(1), Owner: addrOf(2), Amount: 123_456_789}
	b := EncodeHolding(h)
	if len(b) != HoldingLen {
		t.Fatalf("encoded length %d, want %d", len(b), HoldingLen)
	}
	got, err := DecodeHolding(b)
	if err != nil {
		t.Fatalf("DecodeHolding: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: %+v != %+v", got, h)
	}
}

func TestDecodeHoldingLength(t *testing.T) {
	if _, err := DecodeHolding(make([]byte, HoldingLen-1)); !errors.Is(err, ErrInvalidHolding) {
		t.Fatalf("expected ErrInvalidHolding, got %v", err)
	}
	if _, err := DecodeHolding(make([]byte, HoldingLen+1)); !errors.Is(err, ErrInvalidHolding) {
		t.Fatalf("expected ErrInvalidHolding, got %v", err)
	}
}

func TestKeyAuthority(t *testing.T) {
	owner := addrOf(5)

	t.Run("SignedOwner", func(t *testing.T) {
		auth := NewKeyAuthority(owner, host.NewSignerSet(owner))
		if err := auth.Authorize(owner); err != nil {
			t.Fatalf("Authorize: %v", err)
		}
	})

	t.Run("WrongOwner", func(t *testing.T) {
		auth := NewKeyAuthority(owner, host.NewSignerSet(owner))
		if err := auth.Authorize(addrOf(6)); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("Unsigned", func(t *testing.T) {
		auth := NewKeyAuthority(owner, host.NewSignerSet())
		if err := auth.Authorize(owner); !errors.Is(err, ErrMissingSignature) {
			t.Fatalf("expected ErrMissingSignature, got %v", err)
		}
	})
}

func TestDerivedAuthority(t *testing.T) {
	d := addr.Deriver{Namespace: addrOf(9)}
	seeds := [][]byte{[]byte("vault-owner")}
	owner, nonce, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	proof, err := d.Prove(seeds, nonce)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	auth := DerivedAuthority{Proof: proof}
	if err := auth.Authorize(owner); err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if err := auth.Authorize(addrOf(1)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

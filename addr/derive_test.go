package addr

import (
	"errors"
	"testing"
)

func testDeriver() Deriver {
	var ns Address
	for i := range ns {
		ns[i] = 0x7E
	}
	return Deriver{Namespace: ns, Alg: AlgSHA256}
}

func TestDeriveDeterministic(t *testing.T) {
	d := testDeriver()
	seeds := [][]byte{[]byte("vest_schedule"), {1, 2, 3}}

	a1, n1, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	a2, n2, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if !a1.Equal(a2) || n1 != n2 {
		t.Fatalf("expected deterministic derivation, got (%s,%d) and (%s,%d)", a1, n1, a2, n2)
	}
	if a1.IsZero() {
		t.Fatalf("derived zero address")
	}
}

func TestDeriveSeedSensitivity(t *testing.T) {
	d := testDeriver()
	a1, _, err := d.Derive([][]byte{[]byte("ab"), []byte("c")})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	// Same concatenation, different framing, must not collide.
	a2, _, err := d.Derive([][]byte{[]byte("a"), []byte("bc")})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if a1.Equal(a2) {
		t.Fatalf("seed framing collision: %s", a1)
	}
}

func TestDeriveNamespaceSeparation(t *testing.T) {
	seeds := [][]byte{[]byte("vest_schedule")}
	d1 := testDeriver()
	d2 := testDeriver()
	d2.Namespace[0] ^= 0xFF

	a1, _, err := d1.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	a2, _, err := d2.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if a1.Equal(a2) {
		t.Fatalf("expected distinct namespaces to derive distinct addresses")
	}
}

func TestDeriveAlgSeparation(t *testing.T) {
	seeds := [][]byte{[]byte("vest_schedule")}
	d := testDeriver()
	a1, _, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive sha256: %v", err)
	}
	d.Alg = AlgSHA3256
	a2, _, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive sha3-256: %v", err)
	}
	if a1.Equal(a2) {
		t.Fatalf("expected distinct algorithms to derive distinct addresses")
	}
}

func TestVerify(t *testing.T) {
	d := testDeriver()
	seeds := [][]byte{[]byte("vest_participant"), {9, 9, 9}}
	a, nonce, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	t.Run("Canonical", func(t *testing.T) {
		if err := d.Verify(seeds, a, nonce); err != nil {
			t.Fatalf("Verify: %v", err)
		}
	})

	t.Run("WrongAddress", func(t *testing.T) {
		bad := a
		bad[5] ^= 0x01
		if err := d.Verify(seeds, bad, nonce); !errors.Is(err, ErrAddressMismatch) {
			t.Fatalf("expected ErrAddressMismatch, got %v", err)
		}
	})

	t.Run("WrongNonce", func(t *testing.T) {
		if err := d.Verify(seeds, a, nonce-1); !errors.Is(err, ErrNonceMismatch) {
			t.Fatalf("expected ErrNonceMismatch, got %v", err)
		}
	})

	t.Run("WrongSeeds", func(t *testing.T) {
		err := d.Verify([][]byte{[]byte("vest_participant"), {9, 9, 8}}, a, nonce)
		if !errors.Is(err, ErrAddressMismatch) {
			t.Fatalf("expected ErrAddressMismatch, got %v", err)
		}
	})
}

func TestDeriveSeedLimits(t *testing.T) {
	d := testDeriver()

	long := make([]byte, MaxSeedLen+1)
	if _, _, err := d.Derive([][]byte{long}); !errors.Is(err, ErrInvalidSeeds) {
		t.Fatalf("expected ErrInvalidSeeds for oversized seed, got %v", err)
	}

	many := make([][]byte, MaxSeeds+1)
	for i := range many {
		many[i] = []byte{byte(i)}
	}
	if _, _, err := d.Derive(many); !errors.Is(err, ErrInvalidSeeds) {
		t.Fatalf("expected ErrInvalidSeeds for too many seeds, got %v", err)
	}
}

func TestProve(t *testing.T) {
	d := testDeriver()
	seeds := [][]byte{[]byte("vault"), {4, 2}}
	a, nonce, err := d.Derive(seeds)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	p, err := d.Prove(seeds, nonce)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if !p.Address().Equal(a) {
		t.Fatalf("proof address %s, want %s", p.Address(), a)
	}

	if _, err := d.Prove(seeds, nonce+1); !errors.Is(err, ErrNonceMismatch) {
		t.Fatalf("expected ErrNonceMismatch for tampered nonce, got %v", err)
	}
}

func TestDerivedAddressesAvoidReservedSpace(t *testing.T) {
	d := testDeriver()
	for i := 0; i < 64; i++ {
		a, _, err := d.Derive([][]byte{{byte(i)}})
		if err != nil {
			t.Fatalf("Derive(%d): %v", i, err)
		}
		if a[Size-1] == 0 {
			t.Fatalf("derived address %s landed in reserved space", a)
		}
	}
}

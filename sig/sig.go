// Package sig verifies instruction envelope signatures and produces the
// signer set the vesting core consumes through host.Signers.
//
// Signer keys are alg-prefixed strings:
// - ed25519:<base64 public key>
// - dilithium3:<base64 public key>
//
// Signatures cover sha256 of the serialized instruction. The core itself
// never sees key material; it only asks "is this address a verified signer".
package sig

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"github.com/rokoperki/token-vesting/addr"
	"github.com/rokoperki/token-vesting/host"
)

const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

var (
	ErrInvalidKey       = errors.New("sig: invalid signer key")
	ErrInvalidSignature = errors.New("sig: signature verification failed")
)

// Signature is one signer's signature over an envelope message.
type Signature struct {
	Key       string // alg-prefixed public key
	Signature string // base64 signature over sha256(message)
}

// Envelope is a message together with the signatures presented for it.
type Envelope struct {
	Message    []byte
	Signatures []Signature
}

// KeyAddress maps a signer key to its account address. Ed25519 keys are their
// own 32-byte address; dilithium3 public keys are too large to be addresses
// and are identified by their sha256 digest.
func KeyAddress(key string) (addr.Address, error) {
	alg, pub, err := keyBytes(key)
	if err != nil {
		return addr.Zero, err
	}
	switch alg {
	case AlgEd25519:
		return addr.FromBytes(pub)
	case AlgDilithium3:
		return addr.Address(sha256.Sum256(pub)), nil
	default:
		return addr.Zero, ErrInvalidKey
	}
}

// Verify checks every signature in the envelope and returns the set of signer
// addresses. A single bad signature fails the whole envelope; a spoofed
// signer must never reach the core as verified.
func Verify(env Envelope) (host.SignerSet, error) {
	digest := sha256.Sum256(env.Message)
	signers := host.NewSignerSet()
	for i, s := range env.Signatures {
		alg, pub, err := keyBytes(s.Key)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		sigBytes, err := base64.StdEncoding.DecodeString(s.Signature)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, ErrInvalidSignature)
		}
		if err := verifyOne(alg, pub, digest[:], sigBytes); err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		a, err := KeyAddress(s.Key)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		signers[a] = struct{}{}
	}
	return signers, nil
}

func verifyOne(alg string, pub, digest, sig []byte) error {
	switch alg {
	case AlgEd25519:
		if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
			return ErrInvalidSignature
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), digest, sig) {
			return ErrInvalidSignature
		}
		return nil
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return ErrInvalidKey
		}
		if len(sig) != mode3.SignatureSize || !mode3.Verify(&pk, digest, sig) {
			return ErrInvalidSignature
		}
		return nil
	default:
		return ErrInvalidKey
	}
}

// SignEd25519 returns an envelope Signature for message under an ed25519 key.
func SignEd25519(message []byte, priv ed25519.PrivateKey) Signature {
	digest := sha256.Sum256(message)
	pub := priv.Public().(ed25519.PublicKey)
	return Signature{
		Key:       AlgEd25519 + ":" + base64.StdEncoding.EncodeToString(pub),
		Signature: base64.StdEncoding.EncodeToString(ed25519.Sign(priv, digest[:])),
	}
}

// SignDilithium3 returns an envelope Signature for message under a dilithium3
// key.
func SignDilithium3(message []byte, pub *mode3.PublicKey, priv *mode3.PrivateKey) (Signature, error) {
	if priv == nil || pub == nil {
		return Signature{}, errors.New("sig: missing dilithium3 key material")
	}
	digest := sha256.Sum256(message)
	raw := make([]byte, mode3.SignatureSize)
	mode3.SignTo(priv, digest[:], raw)
	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return Signature{}, err
	}
	return Signature{
		Key:       AlgDilithium3 + ":" + base64.StdEncoding.EncodeToString(pubBytes),
		Signature: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// GenerateDilithium3Keypair returns a new dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

func keyBytes(key string) (alg string, pub []byte, err error) {
	alg, enc, ok := strings.Cut(key, ":")
	if !ok {
		return "", nil, ErrInvalidKey
	}
	pub, err = base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", nil, ErrInvalidKey
	}
	return alg, pub, nil
}

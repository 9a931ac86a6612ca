// Package keys derives account identities and typed consensus keys from
// human-readable seed strings. Derivation is a pure function of the seed:
// the same seed always yields the same bytes.
package keys

import (
	"bytes"
	"encoding/hex"
	"errors"
)

// ErrInvalidSeed is returned when a seed string cannot be turned into a derivation path.
var ErrInvalidSeed = errors.New("invalid seed")

// Scheme identifies the signature scheme a key belongs to.
type Scheme uint8

const (
	// Sr25519 is Schnorr over Ristretto25519, used for accounts and block production.
	Sr25519 Scheme = iota + 1

	// Ed25519 is the default finality key scheme.
	Ed25519

	// BLS12381 is the alternative finality key scheme (G1 public keys).
	BLS12381
)

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case Sr25519:
		return "sr25519"
	case Ed25519:
		return "ed25519"
	case BLS12381:
		return "bls12381"
	default:
		return "unknown"
	}
}

// ParseScheme parses a scheme name as accepted on the command line.
func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "sr25519":
		return Sr25519, nil
	case "ed25519":
		return Ed25519, nil
	case "bls", "bls12381":
		return BLS12381, nil
	default:
		return 0, errors.New("unknown key scheme: " + name)
	}
}

// Identity is an account reference: the 32-byte sr25519 public key.
type Identity [32]byte

// String returns the SS58 address of the identity.
func (id Identity) String() string {
	return EncodeSS58(id)
}

// Hex returns the 0x-prefixed hex encoding of the identity.
func (id Identity) Hex() string {
	return "0x" + hex.EncodeToString(id[:])
}

// Key is a typed public key.
type Key struct {
	Scheme Scheme // Scheme is the signature scheme
	Public []byte // Public is the encoded public key
}

// Equal reports whether two keys have the same scheme and bytes.
func (k Key) Equal(other Key) bool {
	return k.Scheme == other.Scheme && bytes.Equal(k.Public, other.Public)
}

// Hex returns the 0x-prefixed hex encoding of the public key.
func (k Key) Hex() string {
	return "0x" + hex.EncodeToString(k.Public)
}

// Deriver derives key material from seed strings, one operation per key kind.
type Deriver interface {
	// AccountID derives the account identity of seed.
	AccountID(seed string) (Identity, error)

	// BlockKey derives the block-production key of seed.
	BlockKey(seed string) (Key, error)

	// FinalityKey derives the finality key of seed.
	FinalityKey(seed string) (Key, error)

	// ParachainValidatorKey derives the parachain-validator key of seed.
	ParachainValidatorKey(seed string) (Key, error)
}

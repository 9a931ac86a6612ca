package keys

import (
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
	"github.com/zeebo/blake3"
)

const (
	// BLSPublicKeySize is the size of a compressed BLS public key in bytes.
	BLSPublicKeySize = 48

	// curve25519KeySize is the size of sr25519 and ed25519 public keys.
	curve25519KeySize = 32
)

// blsKeygenTag binds BLS key generation to the derived secret.
const blsKeygenTag = "testnet-bls-keygen"

// blsPublicKey derives a BLS12-381 G1 public key from a derived secret.
// The key material is BLAKE3(blsKeygenTag || secret), fed to the IETF KeyGen.
func blsPublicKey(secret [secretSize]byte) ([]byte, error) {
	h := blake3.New()
	h.Write([]byte(blsKeygenTag))
	h.Write(secret[:])

	var ikm [32]byte
	h.Sum(ikm[:0])

	sk := blst.KeyGen(ikm[:])
	if sk == nil {
		return nil, fmt.Errorf("failed to generate BLS key")
	}

	return new(blst.P1Affine).From(sk).Compress(), nil
}

// Valid reports whether the key has the size of its scheme and, for BLS,
// decodes to a valid group element.
func (k Key) Valid() bool {
	switch k.Scheme {
	case Sr25519, Ed25519:
		return len(k.Public) == curve25519KeySize
	case BLS12381:
		if len(k.Public) != BLSPublicKeySize {
			return false
		}

		pk := new(blst.P1Affine).Uncompress(k.Public)

		return pk != nil && pk.KeyValidate()
	default:
		return false
	}
}

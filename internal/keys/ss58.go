package keys

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"TestnetSpec/internal/config"
)

const (
	// ss58ChecksumSize is the number of checksum bytes appended to an address.
	ss58ChecksumSize = 2

	// ss58AddressSize is the decoded size of a single-byte-prefix address.
	ss58AddressSize = 1 + 32 + ss58ChecksumSize
)

// ss58Context is the checksum preimage prefix.
var ss58Context = []byte("SS58PRE")

// EncodeSS58 returns the SS58 address of id using config.SS58Prefix.
// Format: base58(prefix || id || blake2b-512("SS58PRE" || prefix || id)[:2])
func EncodeSS58(id Identity) string {
	payload := make([]byte, 0, ss58AddressSize)
	payload = append(payload, config.SS58Prefix)
	payload = append(payload, id[:]...)

	sum := ss58Checksum(payload)
	payload = append(payload, sum[:ss58ChecksumSize]...)

	return base58.Encode(payload)
}

// ParseSS58 decodes an SS58 address with the configured prefix.
func ParseSS58(addr string) (Identity, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return Identity{}, fmt.Errorf("decode address %q:\n%w", addr, err)
	}

	if len(raw) != ss58AddressSize {
		return Identity{}, fmt.Errorf("invalid address length: got %d, want %d", len(raw), ss58AddressSize)
	}

	if raw[0] != config.SS58Prefix {
		return Identity{}, fmt.Errorf("unexpected address prefix %d", raw[0])
	}

	body := raw[:len(raw)-ss58ChecksumSize]
	sum := ss58Checksum(body)

	if !bytes.Equal(sum[:ss58ChecksumSize], raw[len(body):]) {
		return Identity{}, fmt.Errorf("address %q: checksum mismatch", addr)
	}

	var id Identity
	copy(id[:], body[1:])

	return id, nil
}

// ss58Checksum hashes the checksum preimage of payload.
func ss58Checksum(payload []byte) [blake2b.Size]byte {
	preimage := make([]byte, 0, len(ss58Context)+len(payload))
	preimage = append(preimage, ss58Context...)
	preimage = append(preimage, payload...)

	return blake2b.Sum512(preimage)
}

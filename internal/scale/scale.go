// Package scale adapts the SCALE codec of go-substrate-rpc-client to the
// values laid out in genesis storage.
package scale

import (
	"bytes"
	"fmt"
	"math/big"

	codec "github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/holiman/uint256"
)

// U128 is a little-endian 128-bit unsigned integer.
// It encodes as its 16 raw bytes.
type U128 [16]byte

// NewU128 returns the low 128 bits of v.
// Callers must check FitsU128 first.
func NewU128(v *uint256.Int) U128 {
	var out U128
	b := v.Bytes32()

	// Bytes32 is big-endian; the low 16 bytes are at the end.
	for i := 0; i < len(out); i++ {
		out[i] = b[len(b)-1-i]
	}

	return out
}

// FitsU128 reports whether v can be encoded as a u128.
func FitsU128(v *uint256.Int) bool {
	return v[2] == 0 && v[3] == 0
}

// Encode SCALE-encodes values in order and concatenates them.
func Encode(values ...any) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf)

	for _, v := range values {
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("scale encode %T:\n%w", v, err)
		}
	}

	return buf.Bytes(), nil
}

// Compact returns the compact encoding of n.
func Compact(n uint64) ([]byte, error) {
	var buf bytes.Buffer

	if err := codec.NewEncoder(&buf).EncodeUintCompact(*new(big.Int).SetUint64(n)); err != nil {
		return nil, fmt.Errorf("scale encode compact %d:\n%w", n, err)
	}

	return buf.Bytes(), nil
}

// EncodeString returns the SCALE encoding of s: a compact length and its bytes.
func EncodeString(s string) ([]byte, error) {
	return Encode(s)
}

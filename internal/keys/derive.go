package keys

import (
	"crypto/ed25519"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	schnorrkel "github.com/ChainSafe/go-schnorrkel"
	"golang.org/x/crypto/blake2b"

	"TestnetSpec/internal/config"
	"TestnetSpec/internal/scale"
)

// secretSize is the size of a mini secret and of a chain code.
const secretSize = 32

// hdkdTags are the hard-derivation domain tags of the hash-based schemes.
// sr25519 derives through the schnorrkel transcript instead.
var hdkdTags = map[Scheme]string{
	Ed25519:  "Ed25519HDKD",
	BLS12381: "Bls12381HDKD",
}

// Option configures a DevDeriver.
type Option func(*DevDeriver)

// WithPhrase replaces the development mnemonic the root secret is derived from.
func WithPhrase(phrase string) Option {
	return func(d *DevDeriver) {
		d.phrase = phrase
	}
}

// WithFinalityScheme selects the scheme of finality keys (Ed25519 or BLS12381).
func WithFinalityScheme(s Scheme) Option {
	return func(d *DevDeriver) {
		d.finality = s
	}
}

// DevDeriver derives keys from seeds interpreted as hard junctions under a
// shared BIP39 development mnemonic: seed "Alice//stash" is the path
// //Alice//stash. It holds no mutable state and is safe for concurrent use.
type DevDeriver struct {
	phrase   string                    // phrase is the development mnemonic
	finality Scheme                    // finality is the scheme of finality keys
	root     *schnorrkel.MiniSecretKey // root is the mini secret every path starts from
}

// NewDevDeriver creates a deriver rooted at the development phrase.
func NewDevDeriver(opts ...Option) (*DevDeriver, error) {
	d := &DevDeriver{
		phrase:   config.DevPhrase,
		finality: Ed25519,
	}

	for _, opt := range opts {
		opt(d)
	}

	if strings.TrimSpace(d.phrase) == "" {
		return nil, fmt.Errorf("%w: empty phrase", ErrInvalidSeed)
	}

	if d.finality != Ed25519 && d.finality != BLS12381 {
		return nil, fmt.Errorf("unsupported finality scheme: %s", d.finality)
	}

	root, err := schnorrkel.MiniSecretKeyFromMnemonic(d.phrase, "")
	if err != nil {
		return nil, fmt.Errorf("%w: mnemonic:\n%v", ErrInvalidSeed, err)
	}

	d.root = root

	return d, nil
}

// FinalityScheme returns the scheme used for finality keys.
func (d *DevDeriver) FinalityScheme() Scheme {
	return d.finality
}

// AccountID derives the sr25519 account identity of seed.
func (d *DevDeriver) AccountID(seed string) (Identity, error) {
	pub, err := d.sr25519Public(seed)
	if err != nil {
		return Identity{}, err
	}

	return Identity(pub), nil
}

// BlockKey derives the sr25519 block-production key of seed.
func (d *DevDeriver) BlockKey(seed string) (Key, error) {
	pub, err := d.sr25519Public(seed)
	if err != nil {
		return Key{}, err
	}

	return Key{Scheme: Sr25519, Public: pub[:]}, nil
}

// ParachainValidatorKey derives the sr25519 parachain-validator key of seed.
func (d *DevDeriver) ParachainValidatorKey(seed string) (Key, error) {
	return d.BlockKey(seed)
}

// FinalityKey derives the finality key of seed in the configured scheme.
func (d *DevDeriver) FinalityKey(seed string) (Key, error) {
	secret, err := d.secret(d.finality, seed)
	if err != nil {
		return Key{}, err
	}

	if d.finality == BLS12381 {
		pub, err := blsPublicKey(secret)
		if err != nil {
			return Key{}, fmt.Errorf("derive bls key for %q:\n%w", seed, err)
		}

		return Key{Scheme: BLS12381, Public: pub}, nil
	}

	priv := ed25519.NewKeyFromSeed(secret[:])
	pub := priv.Public().(ed25519.PublicKey)

	return Key{Scheme: Ed25519, Public: []byte(pub)}, nil
}

// sr25519Public derives the sr25519 public key of seed.
// Each hard junction goes through the schnorrkel HDKD transcript with an
// empty message, and the result is expanded ed25519-style.
func (d *DevDeriver) sr25519Public(seed string) ([32]byte, error) {
	codes, err := parsePath(seed)
	if err != nil {
		return [32]byte{}, err
	}

	mini := d.root
	for _, cc := range codes {
		mini, _, err = mini.HardDeriveMiniSecretKey(nil, cc)
		if err != nil {
			return [32]byte{}, fmt.Errorf("sr25519 derivation for %q:\n%w", seed, err)
		}
	}

	pub := mini.Public()
	if pub == nil {
		return [32]byte{}, fmt.Errorf("sr25519 public key for %q: invalid scalar", seed)
	}

	return pub.Encode(), nil
}

// secret walks the hard junctions of seed from the root seed for a
// hash-based scheme.
func (d *DevDeriver) secret(s Scheme, seed string) ([secretSize]byte, error) {
	codes, err := parsePath(seed)
	if err != nil {
		return [secretSize]byte{}, err
	}

	secret := d.root.Encode()
	for _, cc := range codes {
		if secret, err = hardDerive(hdkdTags[s], secret, cc); err != nil {
			return [secretSize]byte{}, err
		}
	}

	return secret, nil
}

// hardDerive computes blake2b-256(SCALE(tag, secret, chainCode)).
func hardDerive(tag string, secret, chainCode [secretSize]byte) ([secretSize]byte, error) {
	data, err := scale.Encode(tag, secret, chainCode)
	if err != nil {
		return [secretSize]byte{}, fmt.Errorf("hard derivation:\n%w", err)
	}

	return blake2b.Sum256(data), nil
}

// parsePath splits "//"+seed into hard-junction chain codes.
// Soft junctions and empty junctions are rejected.
func parsePath(seed string) ([][secretSize]byte, error) {
	if seed == "" {
		return nil, fmt.Errorf("%w: empty seed", ErrInvalidSeed)
	}

	if !utf8.ValidString(seed) {
		return nil, fmt.Errorf("%w: seed is not valid utf-8", ErrInvalidSeed)
	}

	path := "//" + seed
	var codes [][secretSize]byte

	for len(path) > 0 {
		if !strings.HasPrefix(path, "//") {
			return nil, fmt.Errorf("%w: soft junction in %q is not supported", ErrInvalidSeed, seed)
		}

		path = path[2:]

		end := strings.IndexByte(path, '/')
		if end < 0 {
			end = len(path)
		}

		junction := path[:end]
		if junction == "" {
			return nil, fmt.Errorf("%w: empty junction in %q", ErrInvalidSeed, seed)
		}

		cc, err := chainCode(junction)
		if err != nil {
			return nil, err
		}

		codes = append(codes, cc)
		path = path[end:]
	}

	return codes, nil
}

// chainCode converts a junction into its 32-byte chain code.
// Numeric junctions encode as u64; others as SCALE strings, hashed when longer than 32 bytes.
func chainCode(junction string) ([secretSize]byte, error) {
	var cc [secretSize]byte

	if n, err := strconv.ParseUint(junction, 10, 64); err == nil {
		binary.LittleEndian.PutUint64(cc[:], n)
		return cc, nil
	}

	encoded, err := scale.EncodeString(junction)
	if err != nil {
		return cc, fmt.Errorf("%w: junction %q:\n%v", ErrInvalidSeed, junction, err)
	}

	if len(encoded) > secretSize {
		return blake2b.Sum256(encoded), nil
	}

	copy(cc[:], encoded)

	return cc, nil
}

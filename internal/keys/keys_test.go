package keys

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/blake2b"

	"TestnetSpec/internal/scale"
)

// newTestDeriver creates a deriver with default options.
func newTestDeriver(t *testing.T, opts ...Option) *DevDeriver {
	t.Helper()

	d, err := NewDevDeriver(opts...)
	if err != nil {
		t.Fatalf("create deriver: %v", err)
	}

	return d
}

// TestDeterministicAccount tests that the same seed yields the same identity.
func TestDeterministicAccount(t *testing.T) {
	d1 := newTestDeriver(t)
	d2 := newTestDeriver(t)

	a1, err := d1.AccountID("Alice")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	a2, err := d2.AccountID("Alice")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if a1 != a2 {
		t.Errorf("same seed produced %s and %s", a1, a2)
	}
}

// TestDeterministicKeys tests every key kind for byte-identical repeats.
func TestDeterministicKeys(t *testing.T) {
	d := newTestDeriver(t)

	kinds := map[string]func(string) (Key, error){
		"block":     d.BlockKey,
		"finality":  d.FinalityKey,
		"parachain": d.ParachainValidatorKey,
	}

	for name, derive := range kinds {
		k1, err := derive("Bob")
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}

		k2, _ := derive("Bob")
		if !k1.Equal(k2) {
			t.Errorf("%s: keys differ across calls", name)
		}

		if !k1.Valid() {
			t.Errorf("%s: invalid key %s", name, k1.Hex())
		}
	}
}

// TestDistinctSeeds tests that different seeds give different identities.
func TestDistinctSeeds(t *testing.T) {
	d := newTestDeriver(t)

	seen := make(map[Identity]string)
	for _, seed := range []string{"Alice", "Bob", "Alice//stash", "Bob//stash", "Alice//1"} {
		id, err := d.AccountID(seed)
		if err != nil {
			t.Fatalf("derive %q: %v", seed, err)
		}

		if prev, ok := seen[id]; ok {
			t.Errorf("%q collides with %q", seed, prev)
		}

		seen[id] = seed
	}
}

// TestStashPathEquivalence tests that a stash seed is the extra hard junction.
func TestStashPathEquivalence(t *testing.T) {
	d := newTestDeriver(t)

	codes, err := parsePath("Alice//stash")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(codes) != 2 {
		t.Fatalf("junctions: got %d, want 2", len(codes))
	}

	base, _ := d.secret(Ed25519, "Alice")
	stash, _ := d.secret(Ed25519, "Alice//stash")

	next, err := hardDerive(hdkdTags[Ed25519], base, codes[1])
	if err != nil {
		t.Fatalf("hard derive: %v", err)
	}

	if next != stash {
		t.Error("stash secret should be one hard step below the base secret")
	}
}

// TestKnownDevAccounts tests the well-known development identities.
func TestKnownDevAccounts(t *testing.T) {
	d := newTestDeriver(t)

	tests := []struct {
		seed    string
		address string
		public  string
	}{
		{"Alice", "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"},
		{"Bob", "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty", "8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"},
		{"Alice//stash", "5GNJqTPyNqANBkUVMN1LPPrxXnFouWXoe2wNSmmEoLctxiZY", "be5ddb1579b72e84524fc29e78609e3caf42e85aa118ebfe0b0ad404b5bdd25f"},
	}

	for _, tt := range tests {
		id, err := d.AccountID(tt.seed)
		if err != nil {
			t.Fatalf("derive %q: %v", tt.seed, err)
		}

		if got := hex.EncodeToString(id[:]); got != tt.public {
			t.Errorf("%s: got %s, want %s", tt.seed, got, tt.public)
		}

		if id.String() != tt.address {
			t.Errorf("%s: address %s, want %s", tt.seed, id, tt.address)
		}
	}
}

// TestKnownDevFinalityKey tests the well-known ed25519 key of //Alice.
func TestKnownDevFinalityKey(t *testing.T) {
	d := newTestDeriver(t)

	k, err := d.FinalityKey("Alice")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	want := "88dc3417d5058ec4b4503e0c12ea1a0a89be200fe98922423d4334014fa6b0ee"
	if got := hex.EncodeToString(k.Public); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// TestFinalityDiffersFromAccount tests that ed25519 finality keys use their own derivation.
func TestFinalityDiffersFromAccount(t *testing.T) {
	d := newTestDeriver(t)

	account, _ := d.AccountID("Alice")
	finality, err := d.FinalityKey("Alice")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if finality.Scheme != Ed25519 {
		t.Errorf("scheme: got %s, want ed25519", finality.Scheme)
	}

	if bytes.Equal(account[:], finality.Public) {
		t.Error("finality key should not equal the account key")
	}
}

// TestBlockKeyMatchesAccount tests that the block key is the account's sr25519 key.
func TestBlockKeyMatchesAccount(t *testing.T) {
	d := newTestDeriver(t)

	account, _ := d.AccountID("Charlie")
	block, _ := d.BlockKey("Charlie")

	if !bytes.Equal(account[:], block.Public) {
		t.Error("block key should share the account's sr25519 key")
	}
}

// TestBLSFinality tests the BLS finality scheme.
func TestBLSFinality(t *testing.T) {
	d := newTestDeriver(t, WithFinalityScheme(BLS12381))

	k1, err := d.FinalityKey("Alice")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	k2, _ := d.FinalityKey("Alice")
	other, _ := d.FinalityKey("Bob")

	if k1.Scheme != BLS12381 || len(k1.Public) != BLSPublicKeySize {
		t.Fatalf("unexpected key: %s %d bytes", k1.Scheme, len(k1.Public))
	}

	if !k1.Equal(k2) {
		t.Error("BLS key should be deterministic")
	}

	if k1.Equal(other) {
		t.Error("different seeds should give different BLS keys")
	}

	if !k1.Valid() {
		t.Error("derived BLS key should validate")
	}
}

// TestInvalidSeeds tests that malformed seeds are rejected.
func TestInvalidSeeds(t *testing.T) {
	d := newTestDeriver(t)

	for _, seed := range []string{"", "Alice/soft", "Alice///x", "/Alice", "Alice//", string([]byte{0xff, 0xfe})} {
		if _, err := d.AccountID(seed); !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("seed %q: got %v, want ErrInvalidSeed", seed, err)
		}
	}
}

// TestPhraseChangesRoot tests that a custom phrase yields a different key space.
func TestPhraseChangesRoot(t *testing.T) {
	dev := newTestDeriver(t)
	custom := newTestDeriver(t, WithPhrase("legal winner thank year wave sausage worth useful legal winner thank yellow"))

	a, _ := dev.AccountID("Alice")
	b, _ := custom.AccountID("Alice")

	if a == b {
		t.Error("custom phrase should change derived identities")
	}

	if _, err := NewDevDeriver(WithPhrase("  ")); err == nil {
		t.Error("blank phrase should be rejected")
	}

	if _, err := NewDevDeriver(WithPhrase("not a valid mnemonic at all")); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("invalid mnemonic: got %v, want ErrInvalidSeed", err)
	}

	if _, err := NewDevDeriver(WithFinalityScheme(Sr25519)); err == nil {
		t.Error("sr25519 finality should be rejected")
	}
}

// TestChainCode tests numeric, short and long junction encodings.
func TestChainCode(t *testing.T) {
	numeric, _ := chainCode("7")
	if numeric[0] != 7 || numeric[1] != 0 {
		t.Errorf("numeric junction: got %x", numeric)
	}

	short, _ := chainCode("stash")
	if short[0] != 5<<2 || string(short[1:6]) != "stash" {
		t.Errorf("short junction: got %x", short)
	}

	junction := "a junction that is far longer than thirty two bytes"
	encoded, err := scale.EncodeString(junction)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	long, err := chainCode(junction)
	if err != nil {
		t.Fatalf("chain code: %v", err)
	}

	if long != blake2b.Sum256(encoded) {
		t.Error("long junction should be hashed")
	}
}

// TestSS58RoundTrip tests address encoding and decoding.
func TestSS58RoundTrip(t *testing.T) {
	d := newTestDeriver(t)
	id, _ := d.AccountID("Dave")

	addr := id.String()
	if addr == "" || addr[0] != '5' {
		t.Errorf("prefix 42 addresses start with 5, got %q", addr)
	}

	parsed, err := ParseSS58(addr)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if parsed != id {
		t.Error("round trip changed the identity")
	}
}

// TestSS58Checksum tests that a corrupted address is rejected.
func TestSS58Checksum(t *testing.T) {
	d := newTestDeriver(t)
	id, _ := d.AccountID("Eve")

	addr := []byte(id.String())
	last := len(addr) - 1

	if addr[last] == 'a' {
		addr[last] = 'b'
	} else {
		addr[last] = 'a'
	}

	if _, err := ParseSS58(string(addr)); err == nil {
		t.Error("corrupted address should fail")
	}

	if _, err := ParseSS58("not-base58-0OIl"); err == nil {
		t.Error("invalid base58 should fail")
	}
}

// TestParseScheme tests scheme names.
func TestParseScheme(t *testing.T) {
	for name, want := range map[string]Scheme{"ed25519": Ed25519, "bls": BLS12381, "sr25519": Sr25519} {
		got, err := ParseScheme(name)
		if err != nil || got != want {
			t.Errorf("%s: got %v %v", name, got, err)
		}
	}

	if _, err := ParseScheme("rsa"); err == nil {
		t.Error("unknown scheme should fail")
	}
}

package genesis

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"TestnetSpec/internal/scale"
)

// TestBuildStorageDeterministic tests that raw storage and its root are stable.
func TestBuildStorageDeterministic(t *testing.T) {
	f := newFixture(t)

	p1, err := BuildStorage(Assemble(f.authorities, f.endowed, []byte("wasm")))
	if err != nil {
		t.Fatalf("build storage: %v", err)
	}

	p2, err := BuildStorage(Assemble(f.authorities, f.endowed, []byte("wasm")))
	if err != nil {
		t.Fatalf("build storage: %v", err)
	}

	if StateRoot(p1) != StateRoot(p2) {
		t.Error("state root should be deterministic")
	}

	for i := 1; i < len(p1); i++ {
		if bytes.Compare(p1[i-1].Key, p1[i].Key) >= 0 {
			t.Fatalf("pairs not strictly sorted at %d", i)
		}
	}
}

// TestBuildStorageContent tests selected storage values.
func TestBuildStorageContent(t *testing.T) {
	f := newFixture(t)
	d := Assemble(f.authorities, f.endowed, []byte("wasm"))

	pairs, err := BuildStorage(d)
	if err != nil {
		t.Fatalf("build storage: %v", err)
	}

	lookup := make(map[string][]byte, len(pairs))
	for _, kv := range pairs {
		lookup[string(kv.Key)] = kv.Value
	}

	if !bytes.Equal(lookup[string(CodeKey)], []byte("wasm")) {
		t.Error(":code should hold the runtime blob")
	}

	count := lookup[string(StorageKey("Staking", "ValidatorCount"))]
	if !bytes.Equal(count, []byte{2, 0, 0, 0}) {
		t.Errorf("validator count: got %x", count)
	}

	bonded := lookup[string(MapKey("Staking", "Bonded", d.Staking.Stakers[0].Stash[:]))]
	if !bytes.Equal(bonded, d.Staking.Stakers[0].Controller[:]) {
		t.Error("bonded should map stash to controller")
	}

	total := new(uint256.Int).Mul(d.Balances.Balances[0].Balance.Clone(), uint256.NewInt(12))
	want := scale.NewU128(total)
	if !bytes.Equal(lookup[string(StorageKey("Balances", "TotalIssuance"))], want[:]) {
		t.Error("total issuance should sum twelve endowments")
	}

	invulnerables := lookup[string(StorageKey("Staking", "Invulnerables"))]
	if len(invulnerables) != 1+2*32 || invulnerables[0] != 2<<2 {
		t.Errorf("invulnerables: got %d bytes", len(invulnerables))
	}

	if _, ok := lookup[string(StorageKey("Sudo", "Key"))]; ok {
		t.Error("sudo key should be absent unless enabled")
	}
}

// TestBuildStorageRootKey tests that the root key is stored when enabled.
func TestBuildStorageRootKey(t *testing.T) {
	f := newFixture(t)
	d := Assemble(f.authorities, f.endowed, nil, WithRootKey(f.endowed[0]))

	pairs, err := BuildStorage(d)
	if err != nil {
		t.Fatalf("build storage: %v", err)
	}

	key := StorageKey("Sudo", "Key")
	for _, kv := range pairs {
		if bytes.Equal(kv.Key, key) {
			if !bytes.Equal(kv.Value, f.endowed[0][:]) {
				t.Error("sudo key holds the wrong account")
			}

			return
		}
	}

	t.Error("sudo key missing")
}

// TestBuildStorageDuplicateAccount tests that duplicated endowments collide.
func TestBuildStorageDuplicateAccount(t *testing.T) {
	f := newFixture(t)
	endowed := append(f.endowed, f.endowed[0])

	_, err := BuildStorage(Assemble(f.authorities, endowed, nil))
	if !errors.Is(err, ErrInvalidGenesis) {
		t.Errorf("got %v, want ErrInvalidGenesis", err)
	}
}

// TestBuildStorageOverflow tests that balances beyond u128 are rejected.
func TestBuildStorageOverflow(t *testing.T) {
	f := newFixture(t)
	d := Assemble(f.authorities, f.endowed, nil)
	d.Balances.Balances[0].Balance = *new(uint256.Int).Lsh(uint256.NewInt(1), 200)

	if _, err := BuildStorage(d); !errors.Is(err, ErrInvalidGenesis) {
		t.Errorf("got %v, want ErrInvalidGenesis", err)
	}
}

// TestStateRootChanges tests that any content change moves the root.
func TestStateRootChanges(t *testing.T) {
	f := newFixture(t)

	a, _ := BuildStorage(Assemble(f.authorities, f.endowed, []byte("a")))
	b, _ := BuildStorage(Assemble(f.authorities, f.endowed, []byte("b")))

	if StateRoot(a) == StateRoot(b) {
		t.Error("different code should change the state root")
	}
}

// TestStorageKeyLayout tests module and item hashing against known Substrate keys.
func TestStorageKeyLayout(t *testing.T) {
	tests := []struct {
		module, item string
		want         string
	}{
		{"Sudo", "Key", "5c0d1176a568c1f92944340dbfed9e9c530ebca703c85910e7164cb7d1c9e47b"},
		{"System", "Account", "26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9"},
		{"Staking", "ValidatorCount", "5f3e4907f716ac89b6347d15ececedca138e71612491192d68deab7e6f563fe1"},
	}

	for _, tt := range tests {
		if got := hex.EncodeToString(StorageKey(tt.module, tt.item)); got != tt.want {
			t.Errorf("%s.%s: got %s, want %s", tt.module, tt.item, got, tt.want)
		}
	}
}

// TestMapKeyConcat tests that map keys carry a 16-byte hash followed by the raw entry key.
func TestMapKeyConcat(t *testing.T) {
	entry := []byte("account")
	key := MapKey("Balances", "Account", entry)

	if len(key) != 2*prefixHashSize+prefixHashSize+len(entry) {
		t.Fatalf("key length: got %d", len(key))
	}

	if !bytes.HasPrefix(key, StorageKey("Balances", "Account")) || !bytes.HasSuffix(key, entry) {
		t.Error("map key should be the storage prefix, the entry hash, then the entry")
	}

	other := MapKey("Balances", "Account", []byte("acconut"))
	if bytes.Equal(key[:3*prefixHashSize], other[:3*prefixHashSize]) {
		t.Error("different entries should hash differently")
	}
}

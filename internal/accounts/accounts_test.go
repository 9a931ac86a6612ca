package accounts

import (
	"testing"

	"TestnetSpec/internal/keys"
)

// TestSeedsOrder tests the fixed registry order.
func TestSeedsOrder(t *testing.T) {
	want := []string{
		"Alice", "Bob", "Charlie", "Dave", "Eve", "Ferdie",
		"Alice//stash", "Bob//stash", "Charlie//stash", "Dave//stash", "Eve//stash", "Ferdie//stash",
	}

	got := Seeds()
	if len(got) != len(want) {
		t.Fatalf("seeds: got %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("seed %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

// TestTestnet tests that the registry derives twelve distinct identities in order.
func TestTestnet(t *testing.T) {
	d, err := keys.NewDevDeriver()
	if err != nil {
		t.Fatalf("create deriver: %v", err)
	}

	ids, err := Testnet(d)
	if err != nil {
		t.Fatalf("testnet: %v", err)
	}

	if len(ids) != 12 {
		t.Fatalf("accounts: got %d, want 12", len(ids))
	}

	seen := make(map[keys.Identity]bool)
	for i, seed := range Seeds() {
		want, _ := d.AccountID(seed)
		if ids[i] != want {
			t.Errorf("position %d is not %s", i, seed)
		}

		if seen[ids[i]] {
			t.Errorf("duplicate identity at %d", i)
		}

		seen[ids[i]] = true
	}
}

// TestFromSeedsError tests that a bad seed fails without partial output.
func TestFromSeedsError(t *testing.T) {
	d, _ := keys.NewDevDeriver()

	ids, err := FromSeeds(d, []string{"Alice", ""})
	if err == nil {
		t.Fatal("empty seed should fail")
	}

	if ids != nil {
		t.Error("no partial list should be returned")
	}
}

package authority

import (
	"errors"
	"testing"

	"TestnetSpec/internal/keys"
)

// newDeriver creates the default development deriver.
func newDeriver(t *testing.T) keys.Deriver {
	t.Helper()

	d, err := keys.NewDevDeriver()
	if err != nil {
		t.Fatalf("create deriver: %v", err)
	}

	return d
}

// TestBuildTwoAuthorities tests the canonical two-authority set.
func TestBuildTwoAuthorities(t *testing.T) {
	d := newDeriver(t)

	set, err := Build(d, []string{"Alice", "Bob"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(set) != 2 {
		t.Fatalf("authorities: got %d, want 2", len(set))
	}

	if set[0].Stash == set[1].Stash {
		t.Error("stash identities should be distinct")
	}

	if set[0].Controller == set[1].Controller {
		t.Error("controller identities should be distinct")
	}

	for i, ks := range set {
		if ks.Stash == ks.Controller {
			t.Errorf("authority %d: stash equals controller", i)
		}
	}
}

// TestBuildPreservesOrder tests that output order follows input order.
func TestBuildPreservesOrder(t *testing.T) {
	d := newDeriver(t)
	seeds := []string{"Charlie", "Alice", "Bob"}

	set, err := Build(d, seeds)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for i, seed := range seeds {
		want, _ := d.AccountID(seed)
		if set[i].Controller != want {
			t.Errorf("position %d: controller is not %s", i, seed)
		}

		stash, _ := d.AccountID(seed + "//stash")
		if set[i].Stash != stash {
			t.Errorf("position %d: stash is not %s//stash", i, seed)
		}
	}
}

// TestFromSeedKeys tests that consensus keys come from the bare seed.
func TestFromSeedKeys(t *testing.T) {
	d := newDeriver(t)

	ks, err := FromSeed(d, "Alice")
	if err != nil {
		t.Fatalf("from seed: %v", err)
	}

	block, _ := d.BlockKey("Alice")
	finality, _ := d.FinalityKey("Alice")
	validator, _ := d.ParachainValidatorKey("Alice")

	if !ks.Block.Equal(block) || !ks.Finality.Equal(finality) || !ks.ParachainValidator.Equal(validator) {
		t.Error("consensus keys should be derived from the bare seed")
	}
}

// TestBuildDoesNotDeduplicate tests that repeated seeds are passed through.
func TestBuildDoesNotDeduplicate(t *testing.T) {
	set, err := Build(newDeriver(t), []string{"Alice", "Alice"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if len(set) != 2 || set[0].Stash != set[1].Stash {
		t.Error("builder should keep duplicates for validation to reject")
	}
}

// TestBuildInvalidSeed tests that a bad seed aborts the whole build.
func TestBuildInvalidSeed(t *testing.T) {
	set, err := Build(newDeriver(t), []string{"Alice", "Bob/soft"})
	if !errors.Is(err, keys.ErrInvalidSeed) {
		t.Fatalf("got %v, want ErrInvalidSeed", err)
	}

	if set != nil {
		t.Error("no partial set should be returned")
	}
}

// TestDefaultAndStashes tests the default pair and the stash projection.
func TestDefaultAndStashes(t *testing.T) {
	d := newDeriver(t)

	set, err := Default(d)
	if err != nil {
		t.Fatalf("default: %v", err)
	}

	stashes := Stashes(set)
	if len(stashes) != 2 {
		t.Fatalf("stashes: got %d, want 2", len(stashes))
	}

	aliceStash, _ := d.AccountID("Alice//stash")
	if stashes[0] != aliceStash {
		t.Error("first stash should be Alice//stash")
	}

	if len(Stashes(nil)) != 0 {
		t.Error("empty set should project to no stashes")
	}
}

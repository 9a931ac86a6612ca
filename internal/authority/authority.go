// Package authority builds the genesis authority set from seed strings.
package authority

import (
	"fmt"

	"TestnetSpec/internal/config"
	"TestnetSpec/internal/keys"
)

// KeySet is the key material of one genesis authority.
// The controller and all consensus keys come from the bare seed; the stash
// comes from the seed with config.StashSuffix appended.
type KeySet struct {
	Stash              keys.Identity // Stash holds the bonded deposit
	Controller         keys.Identity // Controller issues staking operations
	Block              keys.Key      // Block is the block-production key
	Finality           keys.Key      // Finality is the finality-gadget key
	ParachainValidator keys.Key      // ParachainValidator is the parachain-validator key
}

// FromSeed derives the key set of a single authority.
func FromSeed(d keys.Deriver, seed string) (KeySet, error) {
	stash, err := d.AccountID(seed + config.StashSuffix)
	if err != nil {
		return KeySet{}, fmt.Errorf("stash of %q:\n%w", seed, err)
	}

	controller, err := d.AccountID(seed)
	if err != nil {
		return KeySet{}, fmt.Errorf("controller of %q:\n%w", seed, err)
	}

	block, err := d.BlockKey(seed)
	if err != nil {
		return KeySet{}, fmt.Errorf("block key of %q:\n%w", seed, err)
	}

	finality, err := d.FinalityKey(seed)
	if err != nil {
		return KeySet{}, fmt.Errorf("finality key of %q:\n%w", seed, err)
	}

	validator, err := d.ParachainValidatorKey(seed)
	if err != nil {
		return KeySet{}, fmt.Errorf("parachain validator key of %q:\n%w", seed, err)
	}

	return KeySet{
		Stash:              stash,
		Controller:         controller,
		Block:              block,
		Finality:           finality,
		ParachainValidator: validator,
	}, nil
}

// Build derives one key set per seed, preserving order.
// Seeds are not deduplicated: a repeated seed yields a repeated stash,
// which genesis validation rejects.
func Build(d keys.Deriver, seeds []string) ([]KeySet, error) {
	set := make([]KeySet, 0, len(seeds))

	for _, seed := range seeds {
		ks, err := FromSeed(d, seed)
		if err != nil {
			return nil, err
		}

		set = append(set, ks)
	}

	return set, nil
}

// Default derives the local testnet authorities (Alice and Bob).
func Default(d keys.Deriver) ([]KeySet, error) {
	return Build(d, config.DefaultAuthoritySeeds())
}

// Stashes projects the stash column of set.
func Stashes(set []KeySet) []keys.Identity {
	stashes := make([]keys.Identity, len(set))
	for i, ks := range set {
		stashes[i] = ks.Stash
	}

	return stashes
}

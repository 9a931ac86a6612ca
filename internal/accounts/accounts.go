// Package accounts enumerates the fixed test identities endowed at genesis.
package accounts

import (
	"fmt"

	"TestnetSpec/internal/config"
	"TestnetSpec/internal/keys"
)

// Seeds returns the twelve registry seeds: the six named seeds followed by
// their stash variants in the same relative order. Genesis content depends
// on this order.
func Seeds() []string {
	named := config.TestSeeds()
	seeds := make([]string, 0, 2*len(named))
	seeds = append(seeds, named...)

	for _, name := range named {
		seeds = append(seeds, name+config.StashSuffix)
	}

	return seeds
}

// Testnet derives the registry identities in Seeds order.
func Testnet(d keys.Deriver) ([]keys.Identity, error) {
	return FromSeeds(d, Seeds())
}

// FromSeeds derives one identity per seed, preserving order.
func FromSeeds(d keys.Deriver, seeds []string) ([]keys.Identity, error) {
	ids := make([]keys.Identity, 0, len(seeds))

	for _, seed := range seeds {
		id, err := d.AccountID(seed)
		if err != nil {
			return nil, fmt.Errorf("account %q:\n%w", seed, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

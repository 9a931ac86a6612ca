package chainspec

import (
	"fmt"

	"TestnetSpec/internal/accounts"
	"TestnetSpec/internal/authority"
	"TestnetSpec/internal/config"
	"TestnetSpec/internal/genesis"
	"TestnetSpec/internal/keys"
)

// Config selects the inputs of a preset genesis. Zero values pick the defaults.
type Config struct {
	// Deriver derives all identities and keys; nil uses keys.NewDevDeriver().
	Deriver keys.Deriver

	// AuthoritySeeds are the genesis validators; nil uses the preset's seeds.
	AuthoritySeeds []string

	// Endowed lists the endowed accounts; nil uses the twelve-entry registry.
	Endowed []keys.Identity

	// Code is the opaque runtime blob.
	Code []byte

	// RootKey enables a privileged root account when set.
	RootKey *keys.Identity

	// BootNodes are added to the spec metadata.
	BootNodes []string

	// Properties are added to the spec metadata.
	Properties Properties
}

// LocalTestnet returns the multi-validator local testnet (Alice and Bob).
func LocalTestnet(cfg Config) *Spec {
	meta := Metadata{
		Name:       "Local Testnet",
		ID:         "local_testnet",
		ChainType:  Local,
		ProtocolID: config.DefaultProtocolID,
		BootNodes:  cfg.BootNodes,
		Properties: cfg.Properties,
	}

	return New(meta, cfg.genesisFunc(config.DefaultAuthoritySeeds()))
}

// DevelopmentChain returns the single-validator development chain (Alice).
func DevelopmentChain(cfg Config) *Spec {
	meta := Metadata{
		Name:       "Development",
		ID:         "dev",
		ChainType:  Development,
		ProtocolID: config.DefaultProtocolID,
		BootNodes:  cfg.BootNodes,
		Properties: cfg.Properties,
	}

	return New(meta, cfg.genesisFunc([]string{"Alice"}, genesis.WithValidatorCount(config.DevValidatorCount)))
}

// DefaultProperties returns the token properties of the test network.
func DefaultProperties() Properties {
	return Properties{
		"ss58Format":    config.SS58Prefix,
		"tokenDecimals": config.TokenDecimals,
		"tokenSymbol":   config.TokenSymbol,
	}
}

// genesisFunc returns the deferred genesis builder of a preset.
func (cfg Config) genesisFunc(defaultSeeds []string, presetOpts ...genesis.Option) GenesisFunc {
	return func() (*genesis.Descriptor, error) {
		d := cfg.Deriver
		if d == nil {
			dev, err := keys.NewDevDeriver()
			if err != nil {
				return nil, fmt.Errorf("create deriver:\n%w", err)
			}

			d = dev
		}

		seeds := cfg.AuthoritySeeds
		if seeds == nil {
			seeds = defaultSeeds
		}

		auths, err := authority.Build(d, seeds)
		if err != nil {
			return nil, fmt.Errorf("authorities:\n%w", err)
		}

		endowed := cfg.Endowed
		if endowed == nil {
			endowed, err = accounts.Testnet(d)
			if err != nil {
				return nil, fmt.Errorf("endowed accounts:\n%w", err)
			}
		}

		opts := append([]genesis.Option(nil), presetOpts...)
		if cfg.RootKey != nil {
			opts = append(opts, genesis.WithRootKey(*cfg.RootKey))
		}

		return genesis.Assemble(auths, endowed, cfg.Code, opts...), nil
	}
}

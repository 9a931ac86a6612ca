// Package genesis assembles the genesis descriptor of the test network and
// lays it out as raw key/value storage.
package genesis

import (
	"TestnetSpec/internal/authority"
	"TestnetSpec/internal/config"
	"TestnetSpec/internal/keys"
)

// options holds the tunable parts of assembly.
type options struct {
	validatorCount        uint32
	minimumValidatorCount uint32
	rootKey               *keys.Identity
}

// Option configures Assemble.
type Option func(*options)

// WithValidatorCount overrides the target validator count.
func WithValidatorCount(n uint32) Option {
	return func(o *options) {
		o.validatorCount = n
	}
}

// WithMinimumValidatorCount overrides the staking floor.
func WithMinimumValidatorCount(n uint32) Option {
	return func(o *options) {
		o.minimumValidatorCount = n
	}
}

// WithRootKey enables the privileged root (sudo) section with key.
func WithRootKey(key keys.Identity) Option {
	return func(o *options) {
		o.rootKey = &key
	}
}

// Assemble composes the genesis descriptor from the authority set and the
// endowed accounts. It is pure and total; use Validate to check the result.
func Assemble(authorities []authority.KeySet, endowed []keys.Identity, code []byte, opts ...Option) *Descriptor {
	o := options{
		validatorCount:        config.ValidatorCount,
		minimumValidatorCount: config.MinimumValidatorCount,
	}

	for _, opt := range opts {
		opt(&o)
	}

	d := &Descriptor{
		System:             SystemConfig{Code: append([]byte(nil), code...)},
		Indices:            IndicesConfig{Indices: []keys.Identity{}},
		Balances:           BalancesConfig{Balances: buildBalances(endowed)},
		Session:            SessionConfig{Keys: buildSessionKeys(authorities)},
		Staking:            buildStaking(authorities, o),
		Babe:               BabeConfig{Authorities: []keys.Key{}},
		Grandpa:            GrandpaConfig{Authorities: []keys.Key{}},
		AuthorityDiscovery: AuthorityDiscoveryConfig{Keys: []keys.Key{}},
		Parachains:         ParachainsConfig{Authorities: []keys.Key{}},
		Registrar:          RegistrarConfig{Parachains: []Parachain{}},
		Claims:             ClaimsConfig{Claims: []Claim{}, Vesting: []ClaimVesting{}},
		Vesting:            VestingConfig{Vesting: []VestingSchedule{}},
	}

	if o.rootKey != nil {
		d.Sudo = SudoConfig{Enabled: true, Key: *o.rootKey}
	}

	return d
}

// buildBalances endows every account with config.Endowment, one entry each.
func buildBalances(endowed []keys.Identity) []Endowment {
	endowment := config.Endowment()
	balances := make([]Endowment, len(endowed))

	for i, account := range endowed {
		balances[i] = Endowment{Account: account, Balance: *endowment}
	}

	return balances
}

// buildSessionKeys keys every authority's session by its stash.
func buildSessionKeys(authorities []authority.KeySet) []SessionKey {
	sessionKeys := make([]SessionKey, len(authorities))

	for i, a := range authorities {
		sessionKeys[i] = SessionKey{
			Validator:  a.Stash,
			Controller: a.Stash,
			Keys: SessionKeys{
				Block:              a.Block,
				Finality:           a.Finality,
				ParachainValidator: a.ParachainValidator,
			},
		}
	}

	return sessionKeys
}

// buildStaking bonds config.StashDeposit from every authority stash as a validator.
func buildStaking(authorities []authority.KeySet, o options) StakingConfig {
	deposit := config.StashDeposit()
	stakers := make([]Staker, len(authorities))

	for i, a := range authorities {
		stakers[i] = Staker{
			Stash:      a.Stash,
			Controller: a.Controller,
			Amount:     *deposit,
			Status:     Validator,
		}
	}

	return StakingConfig{
		ValidatorCount:        o.validatorCount,
		MinimumValidatorCount: o.minimumValidatorCount,
		Stakers:               stakers,
		Invulnerables:         authority.Stashes(authorities),
		ForceEra:              NotForcing,
		SlashRewardFraction:   PerbillFromPercent(config.SlashRewardPercent),
	}
}

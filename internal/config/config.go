// Package config holds the fixed fixture values of the test network:
// seed names, deposit and endowment amounts, validator counts and network
// identifiers. Every invariant checked during genesis assembly refers to
// these names rather than to literals.
package config

import "github.com/holiman/uint256"

const (
	// DevPhrase is the well-known development mnemonic all test seeds derive from.
	DevPhrase = "bottom drive obey lake curtain smoke basket hold race lonely fit walk"

	// StashSuffix is appended to a seed to obtain its stash identity.
	StashSuffix = "//stash"

	// SS58Prefix is the address format used when printing identities.
	SS58Prefix = 42

	// DefaultProtocolID is the libp2p protocol id of the local testnet.
	DefaultProtocolID = "dot"

	// MinimumValidatorCount is the staking floor of the test genesis.
	MinimumValidatorCount = 1

	// ValidatorCount is the target validator count of the local testnet.
	ValidatorCount = 2

	// DevValidatorCount is the target validator count of the development chain.
	DevValidatorCount = 1

	// SlashRewardPercent is the share of a slash paid to reporters.
	SlashRewardPercent = 10

	// TokenDecimals is the number of decimals of one DOT.
	TokenDecimals = 12

	// TokenSymbol is the ticker reported in chain properties.
	TokenSymbol = "DOT"
)

const (
	// endowmentDots is the balance given to each endowed account, in DOTs.
	endowmentDots = 1_000_000

	// stashDepositDots is the amount each validator bonds at genesis, in DOTs.
	stashDepositDots = 100
)

// Named seeds of the canonical test identities, in registry order.
var testSeeds = []string{"Alice", "Bob", "Charlie", "Dave", "Eve", "Ferdie"}

// Seeds of the local testnet authorities.
var defaultAuthoritySeeds = []string{"Alice", "Bob"}

// TestSeeds returns the six canonical named seeds in registry order.
func TestSeeds() []string {
	return append([]string(nil), testSeeds...)
}

// DefaultAuthoritySeeds returns the seeds of the local testnet authorities.
func DefaultAuthoritySeeds() []string {
	return append([]string(nil), defaultAuthoritySeeds...)
}

// Dots returns n whole DOTs in plancks.
func Dots(n uint64) *uint256.Int {
	unit := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(TokenDecimals))
	return new(uint256.Int).Mul(uint256.NewInt(n), unit)
}

// Endowment returns the balance given to every endowed account.
func Endowment() *uint256.Int {
	return Dots(endowmentDots)
}

// StashDeposit returns the amount every genesis staker bonds from its stash.
func StashDeposit() *uint256.Int {
	return Dots(stashDepositDots)
}

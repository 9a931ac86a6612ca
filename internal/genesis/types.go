package genesis

import (
	"github.com/holiman/uint256"

	"TestnetSpec/internal/keys"
)

// StakerStatus is the role a genesis staker starts in.
type StakerStatus uint8

const (
	// Idle stakers are bonded but neither validate nor nominate.
	Idle StakerStatus = iota

	// Validator stakers are candidates for the validator set.
	Validator
)

// String returns the status name.
func (s StakerStatus) String() string {
	if s == Validator {
		return "Validator"
	}

	return "Idle"
}

// Forcing governs administrative era rotation.
type Forcing uint8

const (
	// NotForcing lets eras rotate on their natural schedule.
	NotForcing Forcing = iota

	// ForceNew forces a new era at the next session.
	ForceNew

	// ForceNone prevents new eras.
	ForceNone

	// ForceAlways forces a new era at every session.
	ForceAlways
)

// String returns the policy name.
func (f Forcing) String() string {
	switch f {
	case NotForcing:
		return "NotForcing"
	case ForceNew:
		return "ForceNew"
	case ForceNone:
		return "ForceNone"
	case ForceAlways:
		return "ForceAlways"
	default:
		return "Unknown"
	}
}

// Perbill is a fraction in parts per billion.
type Perbill uint32

// PerbillFromPercent converts a whole percentage.
func PerbillFromPercent(p uint32) Perbill {
	return Perbill(p * 10_000_000)
}

// Percent returns the fraction as a whole percentage, rounded down.
func (p Perbill) Percent() uint32 {
	return uint32(p) / 10_000_000
}

// Endowment is the initial free balance of an account.
type Endowment struct {
	Account keys.Identity // Account is the endowed identity
	Balance uint256.Int   // Balance is the free balance in plancks
}

// Staker is a bonded genesis staker.
type Staker struct {
	Stash      keys.Identity // Stash holds the bond
	Controller keys.Identity // Controller manages the bond
	Amount     uint256.Int   // Amount is the bonded value
	Status     StakerStatus  // Status is the starting role
}

// SessionKeys is the per-session key bundle of a validator.
type SessionKeys struct {
	Block              keys.Key // Block is the block-production key
	Finality           keys.Key // Finality is the finality key
	ParachainValidator keys.Key // ParachainValidator is the parachain-validator key
}

// SessionKey links a validator identity to its session keys.
type SessionKey struct {
	Validator  keys.Identity // Validator is the validator lookup key
	Controller keys.Identity // Controller is the account lookup key
	Keys       SessionKeys   // Keys is the session key bundle
}

// Parachain is a parachain registered at genesis.
type Parachain struct {
	ID          uint32 // ID is the parachain id
	Code        []byte // Code is the validation code
	InitialHead []byte // InitialHead is the genesis head data
}

// Claim is a claimable balance owned by an Ethereum address.
type Claim struct {
	EthAddress [20]byte    // EthAddress is the claimant
	Amount     uint256.Int // Amount is the claimable value
}

// ClaimVesting is a vesting schedule attached to a claim.
type ClaimVesting struct {
	EthAddress    [20]byte    // EthAddress is the claimant
	Locked        uint256.Int // Locked is the vested amount
	PerBlock      uint256.Int // PerBlock is the unlock rate
	StartingBlock uint32      // StartingBlock is when unlocking starts
}

// VestingSchedule locks part of an account's genesis balance.
type VestingSchedule struct {
	Account keys.Identity // Account is the vested identity
	Begin   uint32        // Begin is the first vesting block
	Length  uint32        // Length is the number of vesting blocks
	Liquid  uint256.Int   // Liquid is the amount free from the start
}

// SystemConfig carries the runtime code blob.
type SystemConfig struct {
	Code []byte // Code is the opaque runtime blob
}

// IndicesConfig lists accounts with pre-assigned short indices.
type IndicesConfig struct {
	Indices []keys.Identity
}

// BalancesConfig lists initial balances.
type BalancesConfig struct {
	Balances []Endowment
}

// SessionConfig lists initial session keys.
type SessionConfig struct {
	Keys []SessionKey
}

// StakingConfig is the initial staking state.
type StakingConfig struct {
	ValidatorCount        uint32          // ValidatorCount is the target validator count
	MinimumValidatorCount uint32          // MinimumValidatorCount is the staking floor
	Stakers               []Staker        // Stakers are the bonded stakers
	Invulnerables         []keys.Identity // Invulnerables are exempt from slashing
	ForceEra              Forcing         // ForceEra is the era forcing policy
	SlashRewardFraction   Perbill         // SlashRewardFraction goes to reporters
}

// BabeConfig is the block-production module section; authorities come from session.
type BabeConfig struct {
	Authorities []keys.Key
}

// GrandpaConfig is the finality module section; authorities come from session.
type GrandpaConfig struct {
	Authorities []keys.Key
}

// AuthorityDiscoveryConfig lists authority-discovery keys.
type AuthorityDiscoveryConfig struct {
	Keys []keys.Key
}

// ParachainsConfig lists parachain authorities.
type ParachainsConfig struct {
	Authorities []keys.Key
}

// RegistrarConfig lists parachains registered at genesis.
type RegistrarConfig struct {
	Parachains []Parachain
}

// ClaimsConfig lists Ethereum claims.
type ClaimsConfig struct {
	Claims  []Claim
	Vesting []ClaimVesting
}

// VestingConfig lists vesting schedules.
type VestingConfig struct {
	Vesting []VestingSchedule
}

// SudoConfig is the privileged root key. Disabled unless WithRootKey is used.
type SudoConfig struct {
	Enabled bool          // Enabled reports whether a root key is set
	Key     keys.Identity // Key is the root account
}

// Descriptor is the complete genesis state. Every module section is present;
// modules with no initial state carry empty, non-nil lists.
type Descriptor struct {
	System             SystemConfig
	Indices            IndicesConfig
	Balances           BalancesConfig
	Session            SessionConfig
	Staking            StakingConfig
	Babe               BabeConfig
	Grandpa            GrandpaConfig
	AuthorityDiscovery AuthorityDiscoveryConfig
	Parachains         ParachainsConfig
	Registrar          RegistrarConfig
	Claims             ClaimsConfig
	Vesting            VestingConfig
	Sudo               SudoConfig
}

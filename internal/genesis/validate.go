package genesis

import (
	"errors"
	"fmt"

	"TestnetSpec/internal/config"
	"TestnetSpec/internal/keys"
)

// ErrInvalidGenesis is returned when a descriptor breaks a cross-module invariant.
var ErrInvalidGenesis = errors.New("invalid genesis")

// Validate checks the cross-module invariants of d:
// distinct stashes, one session entry per staker keyed by its stash,
// coherent validator counts, self-funded stakers, invulnerables equal to
// the staker stashes and no era forcing.
func Validate(d *Descriptor) error {
	if err := validateStakers(d); err != nil {
		return err
	}

	if err := validateCounts(d); err != nil {
		return err
	}

	if err := validateSession(d); err != nil {
		return err
	}

	if err := validateEndowments(d); err != nil {
		return err
	}

	if err := validateInvulnerables(d); err != nil {
		return err
	}

	if d.Staking.ForceEra != NotForcing {
		return invalid("force era is %s, want %s", d.Staking.ForceEra, NotForcing)
	}

	return nil
}

// Underprovisioned reports whether the target validator count exceeds the
// number of genesis stakers. Such a genesis is usable but cannot fill its set.
func Underprovisioned(d *Descriptor) bool {
	return int(d.Staking.ValidatorCount) > len(d.Staking.Stakers)
}

// validateStakers checks stash uniqueness and staker key sanity.
func validateStakers(d *Descriptor) error {
	seen := make(map[keys.Identity]bool, len(d.Staking.Stakers))

	for i, s := range d.Staking.Stakers {
		if seen[s.Stash] {
			return invalid("staker %d: duplicate stash %s", i, s.Stash)
		}

		seen[s.Stash] = true

		if s.Amount.IsZero() {
			return invalid("staker %d: zero bond", i)
		}
	}

	return nil
}

// validateCounts checks 1 <= minimum <= target and minimum <= stakers.
func validateCounts(d *Descriptor) error {
	st := d.Staking

	if st.MinimumValidatorCount == 0 {
		return invalid("minimum validator count is zero")
	}

	if st.MinimumValidatorCount > st.ValidatorCount {
		return invalid("minimum validator count %d exceeds validator count %d", st.MinimumValidatorCount, st.ValidatorCount)
	}

	if int(st.MinimumValidatorCount) > len(st.Stakers) {
		return invalid("%d stakers cannot satisfy minimum validator count %d", len(st.Stakers), st.MinimumValidatorCount)
	}

	return nil
}

// validateSession checks that every staker stash has exactly one session
// entry whose validator and controller keys are that stash.
func validateSession(d *Descriptor) error {
	entries := make(map[keys.Identity]int, len(d.Session.Keys))

	for i, sk := range d.Session.Keys {
		if sk.Validator != sk.Controller {
			return invalid("session %d: validator %s and controller %s differ", i, sk.Validator, sk.Controller)
		}

		if !sk.Keys.Block.Valid() || !sk.Keys.Finality.Valid() || !sk.Keys.ParachainValidator.Valid() {
			return invalid("session %d: malformed session key", i)
		}

		entries[sk.Validator]++
	}

	if len(entries) != len(d.Session.Keys) {
		return invalid("session has repeated validators")
	}

	for _, s := range d.Staking.Stakers {
		if entries[s.Stash] != 1 {
			return invalid("stash %s has %d session entries, want 1", s.Stash, entries[s.Stash])
		}
	}

	if len(d.Session.Keys) != len(d.Staking.Stakers) {
		return invalid("%d session entries for %d stakers", len(d.Session.Keys), len(d.Staking.Stakers))
	}

	return nil
}

// validateEndowments checks that endowments are unique and at least the
// stash deposit, and that every staker stash can fund its bond from its own
// endowment.
func validateEndowments(d *Descriptor) error {
	balances := make(map[keys.Identity]Endowment, len(d.Balances.Balances))

	deposit := config.StashDeposit()

	for _, e := range d.Balances.Balances {
		if _, ok := balances[e.Account]; ok {
			return invalid("account %s endowed twice", e.Account)
		}

		if e.Balance.Lt(deposit) {
			return invalid("account %s endowment %s is below the stash deposit %s", e.Account, e.Balance.Dec(), deposit.Dec())
		}

		balances[e.Account] = e
	}

	for _, s := range d.Staking.Stakers {
		e, ok := balances[s.Stash]
		if !ok {
			return invalid("stash %s is not endowed", s.Stash)
		}

		if e.Balance.Lt(deposit) || e.Balance.Lt(&s.Amount) {
			return invalid("stash %s endowment %s cannot cover bond %s", s.Stash, e.Balance.Dec(), s.Amount.Dec())
		}
	}

	return nil
}

// validateInvulnerables checks that invulnerables equal the staker stashes.
func validateInvulnerables(d *Descriptor) error {
	stashes := make(map[keys.Identity]bool, len(d.Staking.Stakers))
	for _, s := range d.Staking.Stakers {
		stashes[s.Stash] = true
	}

	seen := make(map[keys.Identity]bool, len(d.Staking.Invulnerables))

	for _, id := range d.Staking.Invulnerables {
		if !stashes[id] {
			return invalid("invulnerable %s is not a staker stash", id)
		}

		seen[id] = true
	}

	if len(seen) != len(stashes) || len(d.Staking.Invulnerables) != len(stashes) {
		return invalid("%d invulnerables for %d stashes", len(d.Staking.Invulnerables), len(stashes))
	}

	return nil
}

// invalid wraps ErrInvalidGenesis with a formatted reason.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGenesis, fmt.Sprintf(format, args...))
}

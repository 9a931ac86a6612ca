package genesis

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/holiman/uint256"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	"TestnetSpec/internal/keys"
	"TestnetSpec/internal/scale"
	"TestnetSpec/internal/storage"
)

const (
	// prefixHashSize is the size of each module/item hash in a storage key.
	prefixHashSize = 16

	// payeeStaked pays staking rewards back into the stash bond.
	payeeStaked uint8 = 0
)

// CodeKey is the well-known storage key of the runtime code.
var CodeKey = []byte(":code")

// rawBuilder accumulates storage pairs. The first encoding error is kept
// and later writes are skipped.
type rawBuilder struct {
	pairs []storage.KeyValue
	err   error
}

// BuildStorage lays d out as raw genesis storage, sorted by key.
// Values are SCALE encoded; keys are twox128(module) || twox128(item),
// followed for map entries by blake2b-128(key) || key.
func BuildStorage(d *Descriptor) ([]storage.KeyValue, error) {
	if err := checkBalances(d); err != nil {
		return nil, err
	}

	b := &rawBuilder{}

	b.put(CodeKey, d.System.Code)
	b.indices(d.Indices)
	b.balances(d.Balances)
	b.staking(d.Staking)
	b.session(d.Session)
	b.keyList("Babe", "Authorities", d.Babe.Authorities)
	b.keyList("Grandpa", "Authorities", d.Grandpa.Authorities)
	b.keyList("AuthorityDiscovery", "Keys", d.AuthorityDiscovery.Keys)
	b.keyList("Parachains", "Authorities", d.Parachains.Authorities)
	b.registrar(d.Registrar)
	b.claims(d.Claims)
	b.vesting(d.Vesting)

	if d.Sudo.Enabled {
		b.value("Sudo", "Key", d.Sudo.Key)
	}

	if b.err != nil {
		return nil, fmt.Errorf("encode genesis storage:\n%w", b.err)
	}

	sort.Slice(b.pairs, func(i, j int) bool {
		return bytes.Compare(b.pairs[i].Key, b.pairs[j].Key) < 0
	})

	for i := 1; i < len(b.pairs); i++ {
		if bytes.Equal(b.pairs[i-1].Key, b.pairs[i].Key) {
			return nil, fmt.Errorf("%w: duplicate storage key 0x%x", ErrInvalidGenesis, b.pairs[i].Key)
		}
	}

	return b.pairs, nil
}

// StateRoot computes a blake3 commitment over sorted storage pairs.
// It identifies a genesis within this tool; it is not a trie root.
// Format: for each pair, u32 key length + key + u32 value length + value (big-endian lengths).
func StateRoot(pairs []storage.KeyValue) [32]byte {
	hasher := blake3.New()

	var buf [4]byte
	for _, kv := range pairs {
		binary.BigEndian.PutUint32(buf[:], uint32(len(kv.Key)))
		hasher.Write(buf[:])
		hasher.Write(kv.Key)

		binary.BigEndian.PutUint32(buf[:], uint32(len(kv.Value)))
		hasher.Write(buf[:])
		hasher.Write(kv.Value)
	}

	var root [32]byte
	hasher.Sum(root[:0])

	return root
}

// StorageKey returns the key of a plain storage value.
func StorageKey(module, item string) []byte {
	key := make([]byte, 0, 2*prefixHashSize)
	key = append(key, twox128([]byte(module))...)
	key = append(key, twox128([]byte(item))...)

	return key
}

// MapKey returns the key of a blake2-128-concat storage map entry.
func MapKey(module, item string, entry []byte) []byte {
	key := StorageKey(module, item)
	key = append(key, blake2b128(entry)...)
	key = append(key, entry...)

	return key
}

// twox128 returns xxhash64(data, seed 0) || xxhash64(data, seed 1), little-endian.
func twox128(data []byte) []byte {
	out := make([]byte, 0, prefixHashSize)

	for seed := uint64(0); seed < 2; seed++ {
		h := xxhash.NewWithSeed(seed)
		h.Write(data)
		out = binary.LittleEndian.AppendUint64(out, h.Sum64())
	}

	return out
}

// blake2b128 returns the 16-byte blake2b hash of data.
func blake2b128(data []byte) []byte {
	h, _ := blake2b.New(prefixHashSize, nil)
	h.Write(data)

	return h.Sum(nil)
}

// checkBalances rejects amounts that do not fit the u128 balance type.
func checkBalances(d *Descriptor) error {
	for _, e := range d.Balances.Balances {
		if !scale.FitsU128(&e.Balance) {
			return fmt.Errorf("%w: balance of %s overflows u128", ErrInvalidGenesis, e.Account)
		}
	}

	for _, s := range d.Staking.Stakers {
		if !scale.FitsU128(&s.Amount) {
			return fmt.Errorf("%w: bond of %s overflows u128", ErrInvalidGenesis, s.Stash)
		}
	}

	return nil
}

// put appends a pair.
func (b *rawBuilder) put(key, value []byte) {
	b.pairs = append(b.pairs, storage.KeyValue{Key: key, Value: value})
}

// encode SCALE-encodes v, recording the first failure.
func (b *rawBuilder) encode(v any) []byte {
	if b.err != nil {
		return nil
	}

	data, err := scale.Encode(v)
	if err != nil {
		b.err = err
		return nil
	}

	return data
}

// value appends a plain storage value.
func (b *rawBuilder) value(module, item string, v any) {
	if data := b.encode(v); b.err == nil {
		b.put(StorageKey(module, item), data)
	}
}

// entry appends a storage map entry.
func (b *rawBuilder) entry(module, item string, key []byte, v any) {
	if data := b.encode(v); b.err == nil {
		b.put(MapKey(module, item, key), data)
	}
}

// accountData is the balance record of an account.
type accountData struct {
	Free     scale.U128
	Reserved scale.U128
}

// unlockChunk is a pending unbonding. Genesis ledgers have none.
type unlockChunk struct {
	Value scale.U128
	Era   uint32
}

// stakingLedger is the bond record of a controller.
type stakingLedger struct {
	Stash     keys.Identity
	Total     scale.U128
	Active    scale.U128
	Unlocking []unlockChunk
}

// sessionKeys is the opaque key bundle of a validator.
type sessionKeys struct {
	Block              []byte
	Finality           []byte
	ParachainValidator []byte
}

// claimVesting is the vesting attached to a claim.
type claimVesting struct {
	Locked        scale.U128
	PerBlock      scale.U128
	StartingBlock uint32
}

// vestingSchedule is the vesting of an endowed account.
type vestingSchedule struct {
	Begin  uint32
	Length uint32
	Liquid scale.U128
}

// indices writes Indices.Accounts, keyed by u32 index.
func (b *rawBuilder) indices(c IndicesConfig) {
	for i, id := range c.Indices {
		index := binary.LittleEndian.AppendUint32(nil, uint32(i))
		b.entry("Indices", "Accounts", index, id)
	}
}

// balances writes Balances.Account and Balances.TotalIssuance.
func (b *rawBuilder) balances(c BalancesConfig) {
	total := new(uint256.Int)

	for _, e := range c.Balances {
		total.Add(total, &e.Balance)
		b.entry("Balances", "Account", e.Account[:], accountData{Free: scale.NewU128(&e.Balance)})
	}

	b.value("Balances", "TotalIssuance", scale.NewU128(total))
}

// staking writes counts, policy, invulnerables and one bond per staker.
func (b *rawBuilder) staking(c StakingConfig) {
	b.value("Staking", "ValidatorCount", c.ValidatorCount)
	b.value("Staking", "MinimumValidatorCount", c.MinimumValidatorCount)
	b.value("Staking", "ForceEra", uint8(c.ForceEra))
	b.value("Staking", "SlashRewardFraction", uint32(c.SlashRewardFraction))
	b.value("Staking", "Invulnerables", c.Invulnerables)

	for _, s := range c.Stakers {
		amount := scale.NewU128(&s.Amount)

		b.entry("Staking", "Bonded", s.Stash[:], s.Controller)
		b.entry("Staking", "Ledger", s.Controller[:], stakingLedger{
			Stash:     s.Stash,
			Total:     amount,
			Active:    amount,
			Unlocking: []unlockChunk{},
		})
		b.entry("Staking", "Payee", s.Stash[:], payeeStaked)

		if s.Status == Validator {
			// zero commission
			b.entry("Staking", "Validators", s.Stash[:], uint32(0))
		}
	}
}

// session writes the validator list and each validator's next keys.
func (b *rawBuilder) session(c SessionConfig) {
	validators := make([]keys.Identity, len(c.Keys))

	for i, sk := range c.Keys {
		validators[i] = sk.Validator

		b.entry("Session", "NextKeys", sk.Validator[:], sessionKeys{
			Block:              sk.Keys.Block.Public,
			Finality:           sk.Keys.Finality.Public,
			ParachainValidator: sk.Keys.ParachainValidator.Public,
		})
	}

	b.value("Session", "Validators", validators)
}

// keyList writes a vector of public keys.
func (b *rawBuilder) keyList(module, item string, list []keys.Key) {
	publics := make([][]byte, len(list))
	for i, k := range list {
		publics[i] = k.Public
	}

	b.value(module, item, publics)
}

// registrar writes the registered parachain ids and their code and heads.
func (b *rawBuilder) registrar(c RegistrarConfig) {
	ids := make([]uint32, len(c.Parachains))

	for i, p := range c.Parachains {
		ids[i] = p.ID

		id := binary.LittleEndian.AppendUint32(nil, p.ID)
		b.entry("Registrar", "Code", id, p.Code)
		b.entry("Registrar", "Heads", id, p.InitialHead)
	}

	b.value("Registrar", "Parachains", ids)
}

// claims writes claim amounts, their vesting and the claimable total.
func (b *rawBuilder) claims(c ClaimsConfig) {
	total := new(uint256.Int)

	for _, cl := range c.Claims {
		total.Add(total, &cl.Amount)
		b.entry("Claims", "Claims", cl.EthAddress[:], scale.NewU128(&cl.Amount))
	}

	for _, v := range c.Vesting {
		b.entry("Claims", "Vesting", v.EthAddress[:], claimVesting{
			Locked:        scale.NewU128(&v.Locked),
			PerBlock:      scale.NewU128(&v.PerBlock),
			StartingBlock: v.StartingBlock,
		})
	}

	b.value("Claims", "Total", scale.NewU128(total))
}

// vesting writes one schedule per vested account.
func (b *rawBuilder) vesting(c VestingConfig) {
	for _, v := range c.Vesting {
		b.entry("Vesting", "Vesting", v.Account[:], vestingSchedule{
			Begin:  v.Begin,
			Length: v.Length,
			Liquid: scale.NewU128(&v.Liquid),
		})
	}
}

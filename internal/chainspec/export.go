package chainspec

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/klauspost/compress/zstd"

	"TestnetSpec/internal/genesis"
	"TestnetSpec/internal/keys"
)

// specJSON is the exported chain-spec layout.
type specJSON struct {
	Name               string      `json:"name"`
	ID                 string      `json:"id"`
	ChainType          ChainType   `json:"chainType"`
	BootNodes          []string    `json:"bootNodes"`
	TelemetryEndpoints [][2]any    `json:"telemetryEndpoints"`
	ProtocolID         *string     `json:"protocolId"`
	Properties         Properties  `json:"properties"`
	ForkBlocks         [][2]any    `json:"forkBlocks"`
	BadBlocks          []string    `json:"badBlocks"`
	Genesis            genesisJSON `json:"genesis"`
}

// genesisJSON holds either the structured or the raw genesis.
type genesisJSON struct {
	Runtime *runtimeJSON `json:"runtime,omitempty"`
	Raw     *rawJSON     `json:"raw,omitempty"`
}

// rawJSON is genesis storage as hex key/value pairs.
type rawJSON struct {
	Top             map[string]string `json:"top"`
	ChildrenDefault map[string]any    `json:"childrenDefault"`
}

// runtimeJSON is the structured per-module genesis.
type runtimeJSON struct {
	System             map[string]string `json:"system"`
	Indices            map[string]any    `json:"indices"`
	Balances           map[string]any    `json:"balances"`
	Session            map[string]any    `json:"session"`
	Staking            stakingJSON       `json:"staking"`
	Babe               map[string]any    `json:"babe"`
	Grandpa            map[string]any    `json:"grandpa"`
	AuthorityDiscovery map[string]any    `json:"authorityDiscovery"`
	Parachains         map[string]any    `json:"parachains"`
	Registrar          map[string]any    `json:"registrar"`
	Claims             map[string]any    `json:"claims"`
	Vesting            map[string]any    `json:"vesting"`
	Sudo               map[string]string `json:"sudo,omitempty"`
}

// stakingJSON is the staking section.
type stakingJSON struct {
	ValidatorCount        uint32   `json:"validatorCount"`
	MinimumValidatorCount uint32   `json:"minimumValidatorCount"`
	Stakers               [][4]any `json:"stakers"`
	Invulnerables         []string `json:"invulnerables"`
	ForceEra              string   `json:"forceEra"`
	SlashRewardFraction   uint32   `json:"slashRewardFraction"`
}

// MarshalJSON exports the spec with its structured genesis.
// It materializes the genesis if needed.
func (s *Spec) MarshalJSON() ([]byte, error) {
	d, err := s.Genesis()
	if err != nil {
		return nil, err
	}

	out := s.header()
	out.Genesis.Runtime = runtimeSection(d)

	return json.Marshal(out)
}

// RawJSON exports the spec with its genesis as raw storage.
// Keys follow the Substrate hashing layout (twox128 prefixes, blake2-128-concat
// map entries, well-known :code) but the module set and value layouts are
// those of this tool's descriptor, so the output is not a drop-in runtime genesis.
func (s *Spec) RawJSON() ([]byte, error) {
	pairs, err := s.rawStorage()
	if err != nil {
		return nil, err
	}

	top := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		top[hex0x(kv.Key)] = hex0x(kv.Value)
	}

	out := s.header()
	out.Genesis.Raw = &rawJSON{Top: top, ChildrenDefault: map[string]any{}}

	return json.Marshal(out)
}

// Export returns the indented JSON spec, raw or structured.
func (s *Spec) Export(raw bool) ([]byte, error) {
	var data []byte
	var err error

	if raw {
		data, err = s.RawJSON()
	} else {
		data, err = s.MarshalJSON()
	}

	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// Compress compresses exported spec data using zstd.
func Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return nil, fmt.Errorf("create encoder:\n%w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses zstd-compressed spec data.
func Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decoder:\n%w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}

// header fills the metadata part of the export.
func (s *Spec) header() specJSON {
	out := specJSON{
		Name:               s.meta.Name,
		ID:                 s.meta.ID,
		ChainType:          s.meta.ChainType,
		BootNodes:          s.BootNodes(),
		TelemetryEndpoints: nil,
		Properties:         s.Properties(),
		ForkBlocks:         nil,
		BadBlocks:          nil,
	}

	if out.BootNodes == nil {
		out.BootNodes = []string{}
	}

	if id, ok := s.ProtocolID(); ok {
		out.ProtocolID = &id
	}

	for _, t := range s.meta.Telemetry {
		out.TelemetryEndpoints = append(out.TelemetryEndpoints, [2]any{t.URL, t.Verbosity})
	}

	for _, fb := range s.meta.Extensions.ForkBlocks {
		out.ForkBlocks = append(out.ForkBlocks, [2]any{fb.Number, hex0x(fb.Hash[:])})
	}

	for _, h := range s.meta.Extensions.BadBlocks {
		out.BadBlocks = append(out.BadBlocks, hex0x(h[:]))
	}

	return out
}

// runtimeSection converts the descriptor into its JSON layout.
func runtimeSection(d *genesis.Descriptor) *runtimeJSON {
	balances := make([][2]any, len(d.Balances.Balances))
	for i, e := range d.Balances.Balances {
		balances[i] = [2]any{e.Account.String(), number(&e.Balance)}
	}

	session := make([][3]any, len(d.Session.Keys))
	for i, sk := range d.Session.Keys {
		session[i] = [3]any{sk.Validator.String(), sk.Controller.String(), map[string]string{
			"block":              sk.Keys.Block.Hex(),
			"finality":           sk.Keys.Finality.Hex(),
			"parachainValidator": sk.Keys.ParachainValidator.Hex(),
		}}
	}

	stakers := make([][4]any, len(d.Staking.Stakers))
	for i, st := range d.Staking.Stakers {
		stakers[i] = [4]any{st.Stash.String(), st.Controller.String(), number(&st.Amount), st.Status.String()}
	}

	registrar := make([][2]any, len(d.Registrar.Parachains))
	for i, p := range d.Registrar.Parachains {
		registrar[i] = [2]any{p.ID, map[string]string{"code": hex0x(p.Code), "initialHead": hex0x(p.InitialHead)}}
	}

	claims := make([][2]any, len(d.Claims.Claims))
	for i, c := range d.Claims.Claims {
		claims[i] = [2]any{hex0x(c.EthAddress[:]), number(&c.Amount)}
	}

	claimVesting := make([][4]any, len(d.Claims.Vesting))
	for i, v := range d.Claims.Vesting {
		claimVesting[i] = [4]any{hex0x(v.EthAddress[:]), number(&v.Locked), number(&v.PerBlock), v.StartingBlock}
	}

	vesting := make([][4]any, len(d.Vesting.Vesting))
	for i, v := range d.Vesting.Vesting {
		vesting[i] = [4]any{v.Account.String(), v.Begin, v.Length, number(&v.Liquid)}
	}

	out := &runtimeJSON{
		System:             map[string]string{"code": hex0x(d.System.Code)},
		Indices:            map[string]any{"indices": addresses(d.Indices.Indices)},
		Balances:           map[string]any{"balances": balances},
		Session:            map[string]any{"keys": session},
		Babe:               map[string]any{"authorities": keyHexes(d.Babe.Authorities)},
		Grandpa:            map[string]any{"authorities": keyHexes(d.Grandpa.Authorities)},
		AuthorityDiscovery: map[string]any{"keys": keyHexes(d.AuthorityDiscovery.Keys)},
		Parachains:         map[string]any{"authorities": keyHexes(d.Parachains.Authorities)},
		Registrar:          map[string]any{"parachains": registrar},
		Claims:             map[string]any{"claims": claims, "vesting": claimVesting},
		Vesting:            map[string]any{"vesting": vesting},
		Staking: stakingJSON{
			ValidatorCount:        d.Staking.ValidatorCount,
			MinimumValidatorCount: d.Staking.MinimumValidatorCount,
			Stakers:               stakers,
			Invulnerables:         addresses(d.Staking.Invulnerables),
			ForceEra:              d.Staking.ForceEra.String(),
			SlashRewardFraction:   uint32(d.Staking.SlashRewardFraction),
		},
	}

	if d.Sudo.Enabled {
		out.Sudo = map[string]string{"key": d.Sudo.Key.String()}
	}

	return out
}

// number renders a balance as an exact JSON number.
func number(v *uint256.Int) json.Number {
	return json.Number(v.Dec())
}

// addresses renders identities as SS58 strings.
func addresses(ids []keys.Identity) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

// keyHexes renders keys as hex strings.
func keyHexes(list []keys.Key) []string {
	out := make([]string, len(list))
	for i, k := range list {
		out[i] = k.Hex()
	}

	return out
}

// hex0x returns the 0x-prefixed hex encoding of b.
func hex0x(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

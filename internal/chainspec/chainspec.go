// Package chainspec wraps a lazily built genesis descriptor with the static
// metadata of a network to form the chain spec handed to node bootstrap.
package chainspec

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"TestnetSpec/internal/genesis"
	"TestnetSpec/internal/logger"
)

// ChainType classifies a network instance.
type ChainType uint8

const (
	// Development is a single-node development chain.
	Development ChainType = iota

	// Local is a multi-node chain on one host.
	Local

	// Live is a public network.
	Live
)

// String returns the chain type name.
func (c ChainType) String() string {
	switch c {
	case Development:
		return "Development"
	case Local:
		return "Local"
	case Live:
		return "Live"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the chain type by name.
func (c ChainType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a chain type name.
func (c *ChainType) UnmarshalText(text []byte) error {
	parsed, err := ParseChainType(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}

// ParseChainType parses Development, Local or Live.
func ParseChainType(name string) (ChainType, error) {
	switch name {
	case "Development", "development", "dev":
		return Development, nil
	case "Local", "local":
		return Local, nil
	case "Live", "live":
		return Live, nil
	default:
		return 0, fmt.Errorf("unknown chain type %q", name)
	}
}

// TelemetryEndpoint is a telemetry URL with its verbosity.
type TelemetryEndpoint struct {
	URL       string // URL is the websocket endpoint
	Verbosity uint8  // Verbosity is the maximum verbosity sent
}

// Properties is free-form chain metadata (token symbol, decimals, ...).
type Properties map[string]any

// ForkBlock pins a block hash at a height.
type ForkBlock struct {
	Number uint32   // Number is the block height
	Hash   [32]byte // Hash is the expected block hash
}

// Extensions carries node-side chain extensions.
type Extensions struct {
	ForkBlocks []ForkBlock // ForkBlocks are known-good blocks
	BadBlocks  [][32]byte  // BadBlocks are rejected block hashes
}

// Metadata is the static part of a chain spec.
type Metadata struct {
	Name       string              // Name is the human-readable network name
	ID         string              // ID is the short network identifier
	ChainType  ChainType           // ChainType classifies the network
	ProtocolID string              // ProtocolID is the libp2p protocol id; empty for none
	BootNodes  []string            // BootNodes are multiaddresses of boot nodes
	Telemetry  []TelemetryEndpoint // Telemetry lists telemetry endpoints; nil for none
	Properties Properties          // Properties is optional chain metadata
	Extensions Extensions          // Extensions carries node-side extensions
}

// GenesisFunc builds a genesis descriptor on demand.
type GenesisFunc func() (*genesis.Descriptor, error)

// Spec is a chain spec. Its genesis is built on first use, validated, and
// cached; later calls return the same descriptor or the same error.
type Spec struct {
	meta Metadata

	// genesis is the memoized builder
	genesis func() (*genesis.Descriptor, error)
}

// New creates a spec. build is not called until Genesis is.
func New(meta Metadata, build GenesisFunc) *Spec {
	meta.BootNodes = slices.Clone(meta.BootNodes)
	meta.Telemetry = slices.Clone(meta.Telemetry)
	meta.Properties = maps.Clone(meta.Properties)

	return &Spec{
		meta: meta,
		genesis: sync.OnceValues(func() (*genesis.Descriptor, error) {
			return materialize(meta.ID, build)
		}),
	}
}

// Name returns the human-readable network name.
func (s *Spec) Name() string {
	return s.meta.Name
}

// ID returns the short network identifier.
func (s *Spec) ID() string {
	return s.meta.ID
}

// ChainType returns the network classification.
func (s *Spec) ChainType() ChainType {
	return s.meta.ChainType
}

// ProtocolID returns the libp2p protocol id, if any.
func (s *Spec) ProtocolID() (string, bool) {
	return s.meta.ProtocolID, s.meta.ProtocolID != ""
}

// BootNodes returns a copy of the boot node list.
func (s *Spec) BootNodes() []string {
	return slices.Clone(s.meta.BootNodes)
}

// Telemetry returns a copy of the telemetry endpoints.
func (s *Spec) Telemetry() []TelemetryEndpoint {
	return slices.Clone(s.meta.Telemetry)
}

// Properties returns a copy of the chain properties.
func (s *Spec) Properties() Properties {
	return maps.Clone(s.meta.Properties)
}

// Extensions returns the node-side extensions.
func (s *Spec) Extensions() Extensions {
	return s.meta.Extensions
}

// Genesis builds, validates and caches the genesis descriptor.
// The returned descriptor is shared and must not be modified.
func (s *Spec) Genesis() (*genesis.Descriptor, error) {
	return s.genesis()
}

// materialize runs build and checks the result.
func materialize(id string, build GenesisFunc) (*genesis.Descriptor, error) {
	start := time.Now()

	d, err := build()
	if err != nil {
		return nil, fmt.Errorf("build genesis for %s:\n%w", id, err)
	}

	if err := genesis.Validate(d); err != nil {
		return nil, fmt.Errorf("genesis for %s:\n%w", id, err)
	}

	if genesis.Underprovisioned(d) {
		logger.Warn("validator count exceeds genesis stakers",
			"chain", id,
			"validator_count", d.Staking.ValidatorCount,
			"stakers", len(d.Staking.Stakers),
		)
	}

	logger.Info("genesis assembled",
		"chain", id,
		"authorities", len(d.Staking.Stakers),
		"endowed", len(d.Balances.Balances),
		logger.Timed(start),
	)

	return d, nil
}

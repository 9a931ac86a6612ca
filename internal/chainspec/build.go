package chainspec

import (
	"encoding/hex"
	"fmt"
	"time"

	"TestnetSpec/internal/genesis"
	"TestnetSpec/internal/logger"
	"TestnetSpec/internal/storage"
)

// StateRoot returns the commitment over the spec's raw genesis storage.
func (s *Spec) StateRoot() ([32]byte, error) {
	pairs, err := s.rawStorage()
	if err != nil {
		return [32]byte{}, err
	}

	return genesis.StateRoot(pairs), nil
}

// BuildStorage writes the spec's raw genesis storage into an empty store
// and returns its state root.
func BuildStorage(s *Spec, db *storage.Storage) ([32]byte, error) {
	start := time.Now()

	pairs, err := s.rawStorage()
	if err != nil {
		return [32]byte{}, err
	}

	if err := db.WriteGenesis(pairs); err != nil {
		return [32]byte{}, fmt.Errorf("write genesis storage:\n%w", err)
	}

	root := genesis.StateRoot(pairs)

	logger.Info("genesis storage written",
		"chain", s.ID(),
		"keys", len(pairs),
		"state_root", hex.EncodeToString(root[:]),
		logger.Timed(start),
	)

	return root, nil
}

// rawStorage materializes the genesis and lays it out as storage pairs.
func (s *Spec) rawStorage() ([]storage.KeyValue, error) {
	d, err := s.Genesis()
	if err != nil {
		return nil, err
	}

	pairs, err := genesis.BuildStorage(d)
	if err != nil {
		return nil, fmt.Errorf("build raw storage:\n%w", err)
	}

	return pairs, nil
}

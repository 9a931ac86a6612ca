package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"TestnetSpec/internal/accounts"
	"TestnetSpec/internal/chainspec"
	"TestnetSpec/internal/keys"
	"TestnetSpec/internal/logger"
	"TestnetSpec/internal/runtime"
	"TestnetSpec/internal/storage"
)

func main() {
	logger.Init()

	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main entry point with error handling.
func run(ctx context.Context, args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return fmt.Errorf("parse flags:\n%w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	logger.SetLevel(level)

	spec, err := buildSpec(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build spec:\n%w", err)
	}

	data, err := spec.Export(cfg.Raw)
	if err != nil {
		return fmt.Errorf("export spec:\n%w", err)
	}

	if cfg.Compress {
		if data, err = chainspec.Compress(data); err != nil {
			return fmt.Errorf("compress spec:\n%w", err)
		}
	}

	if err := writeOutput(cfg.OutPath, data); err != nil {
		return fmt.Errorf("write spec:\n%w", err)
	}

	if cfg.DBPath != "" {
		return writeStorage(spec, cfg.DBPath)
	}

	return nil
}

// buildSpec turns the configuration into a chain spec.
func buildSpec(ctx context.Context, cfg *Config) (*chainspec.Spec, error) {
	scheme, err := keys.ParseScheme(cfg.Finality)
	if err != nil {
		return nil, err
	}

	deriver, err := keys.NewDevDeriver(keys.WithFinalityScheme(scheme))
	if err != nil {
		return nil, fmt.Errorf("create deriver:\n%w", err)
	}

	sc := chainspec.Config{
		Deriver:        deriver,
		AuthoritySeeds: cfg.Authorities,
		BootNodes:      cfg.BootNodes,
		Properties:     chainspec.DefaultProperties(),
	}

	for k, v := range cfg.Properties {
		sc.Properties[k] = v
	}

	if sc.Endowed, err = endowedAccounts(deriver, cfg); err != nil {
		return nil, fmt.Errorf("endowed accounts:\n%w", err)
	}

	if cfg.Root != "" {
		root, err := deriver.AccountID(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("root key:\n%w", err)
		}

		sc.RootKey = &root
	}

	if cfg.RuntimePath != "" {
		code, info, err := runtime.Load(ctx, cfg.RuntimePath)
		if err != nil {
			return nil, err
		}

		logger.Info("runtime loaded",
			"path", cfg.RuntimePath,
			"size", info.Size,
			"hash", hex.EncodeToString(info.Hash[:]),
			"exports", len(info.Exports),
		)

		sc.Code = code
	}

	switch cfg.Chain {
	case "local", "local_testnet":
		return chainspec.LocalTestnet(sc), nil
	case "dev", "development":
		return chainspec.DevelopmentChain(sc), nil
	default:
		return nil, fmt.Errorf("unknown chain %q", cfg.Chain)
	}
}

// endowedAccounts resolves endowed seeds and addresses. It returns nil,
// selecting the test registry, when neither is configured.
func endowedAccounts(d keys.Deriver, cfg *Config) ([]keys.Identity, error) {
	if cfg.Endowed == nil && cfg.EndowedAddresses == nil {
		return nil, nil
	}

	endowed, err := accounts.FromSeeds(d, cfg.Endowed)
	if err != nil {
		return nil, err
	}

	for _, addr := range cfg.EndowedAddresses {
		id, err := keys.ParseSS58(addr)
		if err != nil {
			return nil, fmt.Errorf("address %s:\n%w", addr, err)
		}

		endowed = append(endowed, id)
	}

	return endowed, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	logger.Info("chain spec written", "path", path, "bytes", len(data))

	return nil
}

// writeStorage materializes genesis storage into a fresh pebble store.
func writeStorage(spec *chainspec.Spec, path string) error {
	db, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("open storage:\n%w", err)
	}
	defer db.Close()

	if _, err := chainspec.BuildStorage(spec, db); err != nil {
		return fmt.Errorf("build storage:\n%w", err)
	}

	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the command configuration.
type Config struct {
	// Chain selects the preset: local or dev.
	Chain string `yaml:"chain"`

	// Authorities are the seeds of the genesis validators.
	Authorities []string `yaml:"authorities"`

	// Endowed are the seeds of the endowed accounts.
	Endowed []string `yaml:"endowed"`

	// EndowedAddresses are extra endowed accounts given as SS58 addresses.
	EndowedAddresses []string `yaml:"endowed_addresses"`

	// Root is the seed of the privileged root account; empty disables it.
	Root string `yaml:"root"`

	// Finality is the finality key scheme: ed25519 or bls.
	Finality string `yaml:"finality"`

	// BootNodes are the boot node multiaddresses.
	BootNodes []string `yaml:"boot_nodes"`

	// Properties are extra chain properties merged over the defaults.
	Properties map[string]any `yaml:"properties"`

	// VariantPath is the optional YAML variant file.
	VariantPath string `yaml:"-"`

	// RuntimePath is the runtime WASM file; empty leaves the code blank.
	RuntimePath string `yaml:"-"`

	// Raw selects the raw storage export.
	Raw bool `yaml:"-"`

	// Compress zstd-compresses the output.
	Compress bool `yaml:"-"`

	// OutPath is the output file; empty writes to stdout.
	OutPath string `yaml:"-"`

	// DBPath, when set, also writes genesis storage into a pebble store.
	DBPath string `yaml:"-"`

	// LogLevel is the minimum log level.
	LogLevel string `yaml:"-"`
}

// parseFlags parses args into Config. Values from a -config file apply
// first and explicitly set flags override them.
func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("chainspec", flag.ContinueOnError)

	var authorities, endowed, bootNodes string

	fs.StringVar(&cfg.Chain, "chain", "local", "Chain preset (local, dev)")
	fs.StringVar(&authorities, "authorities", "", "Comma-separated authority seeds (default: preset)")
	fs.StringVar(&endowed, "endowed", "", "Comma-separated endowed seeds (default: test registry)")
	fs.StringVar(&cfg.Root, "root", "", "Seed of the root account (disabled if empty)")
	fs.StringVar(&cfg.Finality, "finality", "ed25519", "Finality key scheme (ed25519, bls)")
	fs.StringVar(&bootNodes, "boot-nodes", "", "Comma-separated boot node multiaddresses")
	fs.StringVar(&cfg.VariantPath, "config", "", "YAML variant file")
	fs.StringVar(&cfg.RuntimePath, "runtime", "", "Runtime WASM path")
	fs.BoolVar(&cfg.Raw, "raw", false, "Export genesis as raw storage")
	fs.BoolVar(&cfg.Compress, "compress", false, "Compress output with zstd")
	fs.StringVar(&cfg.OutPath, "out", "", "Output file (default: stdout)")
	fs.StringVar(&cfg.DBPath, "db", "", "Write genesis storage into this pebble directory")
	fs.StringVar(&cfg.LogLevel, "log", "info", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if cfg.VariantPath != "" {
		if err := loadVariant(cfg, fs); err != nil {
			return nil, fmt.Errorf("load variant %s:\n%w", cfg.VariantPath, err)
		}
	}

	setList := func(name, value string, dst *[]string) {
		if isSet(fs, name) {
			*dst = splitList(value)
		}
	}

	setList("authorities", authorities, &cfg.Authorities)
	setList("endowed", endowed, &cfg.Endowed)
	setList("boot-nodes", bootNodes, &cfg.BootNodes)

	return cfg, nil
}

// loadVariant reads the YAML variant file into cfg without overriding
// scalar flags given on the command line.
func loadVariant(cfg *Config, fs *flag.FlagSet) error {
	data, err := os.ReadFile(cfg.VariantPath)
	if err != nil {
		return err
	}

	var variant Config
	if err := yaml.Unmarshal(data, &variant); err != nil {
		return fmt.Errorf("parse yaml:\n%w", err)
	}

	if variant.Chain != "" && !isSet(fs, "chain") {
		cfg.Chain = variant.Chain
	}

	if variant.Root != "" && !isSet(fs, "root") {
		cfg.Root = variant.Root
	}

	if variant.Finality != "" && !isSet(fs, "finality") {
		cfg.Finality = variant.Finality
	}

	cfg.Authorities = variant.Authorities
	cfg.Endowed = variant.Endowed
	cfg.EndowedAddresses = variant.EndowedAddresses
	cfg.BootNodes = variant.BootNodes
	cfg.Properties = variant.Properties

	return nil
}

// isSet reports whether the named flag was given explicitly.
func isSet(fs *flag.FlagSet, name string) bool {
	found := false

	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})

	return found
}

// splitList splits a comma-separated list, dropping blanks.
// An empty value yields an empty, non-nil list.
func splitList(value string) []string {
	out := []string{}

	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

// Copyright (c) 2026 The MintVault developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config holds the deployment parameters of a collection and their
// file representation.
//
// The on-disk format is a plain "key = value" file with '#' comments, the
// same shape as a bitcoind-style configuration file. Unknown keys are
// ignored so older binaries can read configs written by newer ones.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Params are the immutable deployment parameters of a collection.
type Params struct {
	// MaxSupply is the fixed number of tokens in the collection.
	MaxSupply uint64

	// BatchCap is the maximum number of tokens per mint call.
	BatchCap uint64

	// TeamReserve is the number of tokens minted to the team at launch.
	TeamReserve uint64

	// TierPrices are the per-token prices of the three supply tiers,
	// strictly increasing.
	TierPrices [3]uint64

	// OracleFee is the minimum native balance required to request a reveal.
	OracleFee uint64

	// RegistryDomain is the DNS domain publishing the operator allow list.
	// Empty selects the in-memory allow list instead.
	RegistryDomain string

	// DataDir is the directory for persistent state.
	DataDir string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// DefaultParams returns the standard mainnet deployment parameters.
func DefaultParams() Params {
	return Params{
		MaxSupply:      10000,
		BatchCap:       10,
		TeamReserve:    100,
		TierPrices:     [3]uint64{160000, 240000, 320000},
		OracleFee:      50000,
		RegistryDomain: "",
		DataDir:        DefaultDataDir(),
		LogLevel:       "info",
	}
}

// DefaultDataDir returns the default data directory, ~/.mintvault.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mintvault"
	}
	return filepath.Join(home, ".mintvault")
}

// ConfigPath returns the config file path inside a data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// SaveParams writes params to path, creating parent directories as needed.
func SaveParams(path string, p Params) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# MintVault Configuration\n\n")
	fmt.Fprintf(&b, "maxsupply = %d\n", p.MaxSupply)
	fmt.Fprintf(&b, "batchcap = %d\n", p.BatchCap)
	fmt.Fprintf(&b, "teamreserve = %d\n", p.TeamReserve)
	fmt.Fprintf(&b, "tier1 = %d\n", p.TierPrices[0])
	fmt.Fprintf(&b, "tier2 = %d\n", p.TierPrices[1])
	fmt.Fprintf(&b, "tier3 = %d\n", p.TierPrices[2])
	fmt.Fprintf(&b, "oraclefee = %d\n", p.OracleFee)
	fmt.Fprintf(&b, "registrydomain = %s\n", p.RegistryDomain)
	fmt.Fprintf(&b, "datadir = %s\n", p.DataDir)
	fmt.Fprintf(&b, "loglevel = %s\n", p.LogLevel)

	return os.WriteFile(path, []byte(b.String()), 0600)
}

// LoadParams reads params from path. Missing keys keep their defaults;
// unknown keys are ignored.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return p, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, err := parseKeyValue(line)
		if err != nil {
			return p, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNum, line)
		}
		if err := applyKey(&p, key, value); err != nil {
			return p, fmt.Errorf("config: line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}

	return p, nil
}

// parseKeyValue splits "key = value" on the first '='.
func parseKeyValue(line string) (string, string, error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", ErrInvalidConfigLine
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return strings.ToLower(key), value, nil
}

func applyKey(p *Params, key, value string) error {
	switch key {
	case "maxsupply":
		return parseUint(key, value, &p.MaxSupply)
	case "batchcap":
		return parseUint(key, value, &p.BatchCap)
	case "teamreserve":
		return parseUint(key, value, &p.TeamReserve)
	case "tier1":
		return parseUint(key, value, &p.TierPrices[0])
	case "tier2":
		return parseUint(key, value, &p.TierPrices[1])
	case "tier3":
		return parseUint(key, value, &p.TierPrices[2])
	case "oraclefee":
		return parseUint(key, value, &p.OracleFee)
	case "registrydomain":
		p.RegistryDomain = value
	case "datadir":
		p.DataDir = value
	case "loglevel":
		p.LogLevel = value
	}
	// Unknown keys are ignored for forward compatibility.
	return nil
}

func parseUint(key, value string, dst *uint64) error {
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s = %q", ErrInvalidConfigValue, key, value)
	}
	*dst = n
	return nil
}

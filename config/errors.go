// Copyright (c) 2026 The MintVault developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrZeroMaxSupply indicates the collection size is zero.
	ErrZeroMaxSupply = errors.New("config: max supply must be positive")

	// ErrZeroBatchCap indicates the per-call mint cap is zero.
	ErrZeroBatchCap = errors.New("config: batch cap must be positive")

	// ErrReserveTooLarge indicates the team reserve does not fit in the
	// collection.
	ErrReserveTooLarge = errors.New("config: team reserve exceeds max supply")

	// ErrTierNotIncreasing indicates tier prices are not strictly increasing.
	ErrTierNotIncreasing = errors.New("config: tier prices must be strictly increasing")

	// ErrZeroTierPrice indicates a tier price of zero.
	ErrZeroTierPrice = errors.New("config: tier price must be positive")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")

	// ErrInvalidConfigValue indicates a value could not be parsed.
	ErrInvalidConfigValue = errors.New("config: invalid configuration value")
)

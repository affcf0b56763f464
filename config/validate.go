// Copyright (c) 2026 The MintVault developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "strings"

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateParams checks that all parameters are within acceptable ranges
// and returns the first error encountered, or nil if valid.
func ValidateParams(p Params) error {
	if p.MaxSupply == 0 {
		return ErrZeroMaxSupply
	}

	if p.BatchCap == 0 {
		return ErrZeroBatchCap
	}

	if p.TeamReserve > p.MaxSupply {
		return ErrReserveTooLarge
	}

	for i, price := range p.TierPrices {
		if price == 0 {
			return ErrZeroTierPrice
		}
		if i > 0 && price <= p.TierPrices[i-1] {
			return ErrTierNotIncreasing
		}
	}

	if p.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(p.LogLevel)] {
		return ErrInvalidLogLevel
	}

	return nil
}

package rewarder

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("rewarder: nil parameter")

	// ErrZeroAddress indicates the zero address was used where a real
	// account is required.
	ErrZeroAddress = errors.New("rewarder: zero address")

	// ErrTokenOutOfRange indicates a token ID at or beyond max supply.
	ErrTokenOutOfRange = errors.New("rewarder: token id out of range")

	// ErrUnknownCurrency indicates the currency was never registered.
	ErrUnknownCurrency = errors.New("rewarder: unknown currency")

	// ErrCurrencyExists indicates the currency is already registered.
	ErrCurrencyExists = errors.New("rewarder: currency already registered")

	// ErrWrappedCurrency indicates an attempt to register or sync the
	// wrapped-native currency, which is folded into native deposits instead.
	ErrWrappedCurrency = errors.New("rewarder: wrapped native is not syncable")

	// ErrZeroDeposit indicates a deposit of zero value.
	ErrZeroDeposit = errors.New("rewarder: zero deposit")

	// ErrAmountOverflow indicates accumulator or balance arithmetic would
	// overflow.
	ErrAmountOverflow = errors.New("rewarder: arithmetic overflow")

	// ErrPayoutFailed indicates the value transfer failed and the claim was
	// rolled back. Funds stay claimable.
	ErrPayoutFailed = errors.New("rewarder: payout failed")

	// ErrReentrantCall indicates a claim re-entered the claim family while
	// one was in progress.
	ErrReentrantCall = errors.New("rewarder: re-entrant claim")

	// ErrNoSnapshot indicates the store holds no saved engine state.
	ErrNoSnapshot = errors.New("rewarder: no snapshot in store")
)

package treasury

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("treasury: nil parameter")

	// ErrZeroAddress indicates a payout to the zero address.
	ErrZeroAddress = errors.New("treasury: zero destination address")

	// ErrZeroAmount indicates a payout of zero value.
	ErrZeroAmount = errors.New("treasury: zero amount")

	// ErrTransferFailed indicates a currency transfer did not complete.
	ErrTransferFailed = errors.New("treasury: transfer failed")
)

package mint

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("mint: nil parameter")

	// ErrCallerNotAdmin indicates the caller may not perform the one-shot
	// start action.
	ErrCallerNotAdmin = errors.New("mint: caller is not the admin")

	// ErrCallerNotMinter indicates the caller is not an authorized minter.
	ErrCallerNotMinter = errors.New("mint: caller is not a minter")

	// ErrAlreadyStarted indicates minting was already opened.
	ErrAlreadyStarted = errors.New("mint: minting already started")

	// ErrMintingNotStarted indicates minting has not been opened yet.
	ErrMintingNotStarted = errors.New("mint: minting not started")

	// ErrZeroCount indicates a batch of zero tokens was requested.
	ErrZeroCount = errors.New("mint: zero token count")

	// ErrBatchTooLarge indicates the batch exceeds the per-call cap.
	ErrBatchTooLarge = errors.New("mint: batch exceeds per-call cap")

	// ErrMaxSupplyExceeded indicates the batch would push supply past the cap.
	ErrMaxSupplyExceeded = errors.New("mint: max supply exceeded")

	// ErrInsufficientPayment indicates the payment does not cover the batch.
	ErrInsufficientPayment = errors.New("mint: insufficient payment")

	// ErrInvalidSchedule indicates the price schedule is malformed.
	ErrInvalidSchedule = errors.New("mint: invalid price schedule")

	// ErrAmountOverflow indicates batch cost arithmetic would overflow.
	ErrAmountOverflow = errors.New("mint: arithmetic overflow")

	// ErrReserveTooLarge indicates the team reserve does not fit the supply.
	ErrReserveTooLarge = errors.New("mint: team reserve exceeds max supply")
)

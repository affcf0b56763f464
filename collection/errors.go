package collection

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("collection: nil parameter")

	// ErrAlreadyInitialized indicates Initialize was called more than once.
	ErrAlreadyInitialized = errors.New("collection: already initialized")

	// ErrNotInitialized indicates an operation that requires Initialize.
	ErrNotInitialized = errors.New("collection: not initialized")

	// ErrCallerNotAdmin indicates the caller lacks the admin role.
	ErrCallerNotAdmin = errors.New("collection: caller is not the admin")

	// ErrCallerNotCreator indicates the caller lacks the creator role.
	ErrCallerNotCreator = errors.New("collection: caller is not the creator")

	// ErrCallerNotProposed indicates the caller is not the proposed creator.
	ErrCallerNotProposed = errors.New("collection: caller is not the proposed creator")

	// ErrNoProposal indicates no creator rotation is pending.
	ErrNoProposal = errors.New("collection: no pending creator proposal")

	// ErrNotApproved indicates the operator has no approval from the owner.
	ErrNotApproved = errors.New("collection: operator not approved by owner")

	// ErrZeroAddress indicates an address parameter was the zero sentinel.
	ErrZeroAddress = errors.New("collection: zero address")

	// ErrFeePoolUnderflow indicates a fee debit exceeded the pool balance.
	ErrFeePoolUnderflow = errors.New("collection: fee pool underflow")
)

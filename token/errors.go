package token

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("token: nil parameter")

	// ErrInvalidAddress indicates an address string is malformed.
	ErrInvalidAddress = errors.New("token: invalid address")

	// ErrZeroAddress indicates the zero address was used where a real
	// account is required.
	ErrZeroAddress = errors.New("token: zero address")

	// ErrTokenNotMinted indicates the token ID has no owner yet.
	ErrTokenNotMinted = errors.New("token: token not minted")

	// ErrTokenExists indicates a mint targeted an already-minted token ID.
	ErrTokenExists = errors.New("token: token already minted")

	// ErrNotTokenOwner indicates the claimed source of a transfer does not
	// own the token.
	ErrNotTokenOwner = errors.New("token: not token owner")

	// ErrIndexOutOfRange indicates an enumeration index is >= the owner's
	// balance.
	ErrIndexOutOfRange = errors.New("token: owner index out of range")
)

package reveal

import "errors"

var (
	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("reveal: nil parameter")

	// ErrMintingIncomplete indicates the reveal was requested before the
	// full supply was minted.
	ErrMintingIncomplete = errors.New("reveal: minting incomplete")

	// ErrInsufficientFee indicates the prepaid oracle fee balance is too low.
	ErrInsufficientFee = errors.New("reveal: insufficient oracle fee balance")

	// ErrAlreadyRequested indicates randomness was already requested.
	ErrAlreadyRequested = errors.New("reveal: randomness already requested")

	// ErrAlreadyRevealed indicates the offset is already fixed.
	ErrAlreadyRevealed = errors.New("reveal: already revealed")

	// ErrUnknownRequest indicates the fulfillment does not match the
	// outstanding request.
	ErrUnknownRequest = errors.New("reveal: unknown request id")

	// ErrInvalidOracleProof indicates the oracle signature does not verify.
	ErrInvalidOracleProof = errors.New("reveal: invalid oracle proof")

	// ErrNotYetRevealed indicates the offset is not set yet.
	ErrNotYetRevealed = errors.New("reveal: not yet revealed")

	// ErrTokenOutOfRange indicates a token ID at or beyond max supply.
	ErrTokenOutOfRange = errors.New("reveal: token id out of range")
)

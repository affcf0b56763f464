// Package reveal implements the commit-then-reveal fairness engine.
//
// One unbiased global offset is drawn after the full supply is minted and
// applied uniformly to every token ID. Because the offset depends on an
// external signature produced only after all allocation decisions are final,
// no minter can predict or influence which visual identity a token ID maps to.
package reveal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"golang.org/x/crypto/hkdf"
)

// offsetInfo is the HKDF info string for offset derivation.
const offsetInfo = "mintvault-reveal-offset"

// State is the engine lifecycle phase.
type State int

const (
	// NotRequested means no randomness request has been issued.
	NotRequested State = iota
	// Requested means the oracle request is outstanding.
	Requested
	// Fulfilled is terminal: the offset is fixed forever.
	Fulfilled
)

// SupplySource reports mint progress. The engine only requests randomness
// once the reported supply equals max supply.
type SupplySource interface {
	TotalSupply() uint64
}

// FeeBalance reports the prepaid oracle-fee balance available to the engine.
type FeeBalance interface {
	Balance() (uint64, error)
}

// Engine drives NotRequested → Requested → Fulfilled. There is no retraction
// and no timeout: if the oracle never answers, the collection stays
// unrevealed. That liveness risk is accepted, not masked by a fallback.
type Engine struct {
	mu sync.Mutex

	maxSupply uint64
	supply    SupplySource
	fees      FeeBalance
	oracleFee uint64
	oracle    Oracle
	oraclePub *ec.PublicKey

	state     State
	requestID [32]byte
	offset    uint64 // 0 is the unrevealed sentinel, never a valid offset
}

// NewEngine creates an engine bound to a supply source, a fee balance, and
// the oracle whose public key will verify fulfillments.
func NewEngine(maxSupply uint64, supply SupplySource, fees FeeBalance, oracle Oracle,
	oraclePub *ec.PublicKey, oracleFee uint64) (*Engine, error) {
	if maxSupply == 0 {
		return nil, fmt.Errorf("%w: zero max supply", ErrNilParam)
	}
	if supply == nil {
		return nil, fmt.Errorf("%w: supply source", ErrNilParam)
	}
	if fees == nil {
		return nil, fmt.Errorf("%w: fee balance", ErrNilParam)
	}
	if oracle == nil {
		return nil, fmt.Errorf("%w: oracle", ErrNilParam)
	}
	if oraclePub == nil {
		return nil, fmt.Errorf("%w: oracle public key", ErrNilParam)
	}
	return &Engine{
		maxSupply: maxSupply,
		supply:    supply,
		fees:      fees,
		oracle:    oracle,
		oraclePub: oraclePub,
		oracleFee: oracleFee,
	}, nil
}

// State returns the current lifecycle phase.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Request issues the randomness request. Legal only once, and only when the
// full supply is minted and the prepaid fee balance covers the oracle fee.
func (e *Engine) Request() ([32]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var zero [32]byte
	switch e.state {
	case Requested:
		return zero, ErrAlreadyRequested
	case Fulfilled:
		return zero, ErrAlreadyRevealed
	}

	if supply := e.supply.TotalSupply(); supply < e.maxSupply {
		return zero, fmt.Errorf("%w: %d of %d minted", ErrMintingIncomplete, supply, e.maxSupply)
	}
	bal, err := e.fees.Balance()
	if err != nil {
		return zero, fmt.Errorf("reveal: fee balance: %w", err)
	}
	if bal < e.oracleFee {
		return zero, fmt.Errorf("%w: have %d, need %d", ErrInsufficientFee, bal, e.oracleFee)
	}

	var nonce [32]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return zero, fmt.Errorf("reveal: request nonce: %w", err)
	}
	e.requestID = sha256.Sum256(nonce[:])

	if err := e.oracle.RequestRandomness(e.requestID, e.oracleFee); err != nil {
		return zero, fmt.Errorf("reveal: oracle request: %w", err)
	}
	e.state = Requested
	return e.requestID, nil
}

// Fulfill accepts the oracle's proof for the outstanding request and fixes
// the offset. The proof is a DER-encoded signature over the request ID; it
// must verify against the registered oracle public key. A raw offset of 0
// is remapped to 1 so the revealed state is never indistinguishable from
// the unrevealed sentinel.
func (e *Engine) Fulfill(requestID [32]byte, proof []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Fulfilled {
		return ErrAlreadyRevealed
	}
	if e.state == NotRequested || requestID != e.requestID {
		return fmt.Errorf("%w: %x", ErrUnknownRequest, requestID)
	}

	sig, err := ec.ParseDERSignature(proof)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOracleProof, err)
	}
	if !sig.Verify(requestID[:], e.oraclePub) {
		return fmt.Errorf("%w: signature does not verify", ErrInvalidOracleProof)
	}

	randomness, err := expandRandomness(proof, requestID)
	if err != nil {
		return err
	}

	offset := randomness % e.maxSupply
	if offset == 0 {
		offset = 1
	}
	e.offset = offset
	e.state = Fulfilled
	return nil
}

// Offset returns the fixed permutation offset, in [1, maxSupply).
func (e *Engine) Offset() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.offset == 0 {
		return 0, ErrNotYetRevealed
	}
	return e.offset, nil
}

// RevealedID maps a pre-reveal token ID to its final identity.
func (e *Engine) RevealedID(id uint64) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id >= e.maxSupply {
		return 0, fmt.Errorf("%w: %d", ErrTokenOutOfRange, id)
	}
	if e.offset == 0 {
		return 0, ErrNotYetRevealed
	}
	return (id + e.offset) % e.maxSupply, nil
}

// expandRandomness derives a uniform 64-bit value from the oracle proof via
// HKDF-SHA256, salted with the request ID.
func expandRandomness(proof []byte, requestID [32]byte) (uint64, error) {
	r := hkdf.New(sha256.New, proof, requestID[:], []byte(offsetInfo))
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("reveal: expand randomness: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

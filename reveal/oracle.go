package reveal

import (
	"fmt"
	"sync"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// Oracle accepts randomness requests. Fulfillment is asynchronous: the oracle
// operator later produces a proof for the request ID and feeds it back into
// Engine.Fulfill. The engine never trusts the oracle transport; only a proof
// that verifies against the registered oracle public key is accepted.
type Oracle interface {
	// RequestRandomness registers a request. The fee is the amount the
	// engine has reserved for the oracle in its fee currency.
	RequestRandomness(requestID [32]byte, fee uint64) error
}

// SigningOracle is an oracle whose proofs are DER-encoded secp256k1
// signatures over the request ID. The randomness is unpredictable to anyone
// without the oracle's private key, and verifiable by everyone with its
// public key.
type SigningOracle struct {
	mu      sync.Mutex
	priv    *ec.PrivateKey
	pending map[[32]byte]bool
}

// Compile-time interface check.
var _ Oracle = (*SigningOracle)(nil)

// NewSigningOracle creates an oracle with a fresh random key pair.
func NewSigningOracle() (*SigningOracle, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("reveal: generate oracle key: %w", err)
	}
	return NewSigningOracleFromKey(priv)
}

// NewSigningOracleFromKey creates an oracle around an existing private key.
func NewSigningOracleFromKey(priv *ec.PrivateKey) (*SigningOracle, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	return &SigningOracle{
		priv:    priv,
		pending: make(map[[32]byte]bool),
	}, nil
}

// PublicKey returns the verification key to register with the engine.
func (o *SigningOracle) PublicKey() *ec.PublicKey {
	return o.priv.PubKey()
}

// RequestRandomness registers a request for later proving.
func (o *SigningOracle) RequestRandomness(requestID [32]byte, fee uint64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[requestID] = true
	return nil
}

// Prove signs a previously requested ID and returns the DER-encoded proof.
func (o *SigningOracle) Prove(requestID [32]byte) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.pending[requestID] {
		return nil, fmt.Errorf("%w: %x", ErrUnknownRequest, requestID)
	}
	sig, err := o.priv.Sign(requestID[:])
	if err != nil {
		return nil, fmt.Errorf("reveal: sign request: %w", err)
	}
	delete(o.pending, requestID)
	return sig.Serialize(), nil
}

// MockOracle is a test double for Oracle.
// The function field must be set before RequestRandomness is called.
type MockOracle struct {
	RequestRandomnessFn func(requestID [32]byte, fee uint64) error
}

func (m *MockOracle) RequestRandomness(requestID [32]byte, fee uint64) error {
	return m.RequestRandomnessFn(requestID, fee)
}

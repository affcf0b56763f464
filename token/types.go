// Package token implements the enumerable ownership ledger for a fixed-supply
// collection.
//
// Each token is identified by an integer ID and owned by exactly one address
// at a time. The ledger keeps a dense per-owner index of token IDs with a
// reverse token→slot map, so enumeration by owner and removal are both O(1).
// Revenue accounting attaches to the token ID, never to the owner, which is
// why a transfer here is a pure index operation with no accounting rebalance.
package token

import (
	"encoding/hex"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 20

// Address identifies an account. It is the HASH160 of a compressed
// secp256k1 public key, the same 20-byte form used in P2PKH scripts.
type Address [AddressSize]byte

// ZeroAddress is the null sentinel. It is never a valid owner; a transfer
// whose source is ZeroAddress is a mint.
var ZeroAddress Address

// TokenID identifies a token within the collection, in [0, MaxSupply).
type TokenID uint64

// AddressFromPubKey derives the account address for a compressed public key.
func AddressFromPubKey(pub *ec.PublicKey) (Address, error) {
	if pub == nil {
		return ZeroAddress, fmt.Errorf("%w: public key", ErrNilParam)
	}
	var addr Address
	copy(addr[:], bsvhash.Hash160(pub.Compressed()))
	return addr, nil
}

// ParseAddress decodes a 40-character hex string into an Address.
func ParseAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if len(b) != AddressSize {
		return ZeroAddress, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressSize, len(b))
	}
	var addr Address
	copy(addr[:], b)
	return addr, nil
}

// String returns the address as lowercase hex.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the address is the null sentinel.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

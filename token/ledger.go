package token

import "fmt"

// Ledger is the public ownership API over a Store.
//
// It validates every mutation before delegating: the store never sees a zero
// destination, a transfer from a non-owner, or a double mint. RecordTransfer
// must be called exactly once per ownership change, including mints.
type Ledger struct {
	store Store
}

// NewLedger creates a ledger backed by the given store.
func NewLedger(store Store) (*Ledger, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParam)
	}
	return &Ledger{store: store}, nil
}

// RecordTransfer applies one ownership change. A ZeroAddress source is a
// mint: the token is only added to the destination's index. Burning is not
// supported; the destination must never be the zero address.
func (l *Ledger) RecordTransfer(from, to Address, id TokenID) error {
	if to.IsZero() {
		return fmt.Errorf("%w: transfer destination", ErrZeroAddress)
	}

	if from.IsZero() {
		return l.store.Insert(to, id)
	}

	owner, err := l.store.Owner(id)
	if err != nil {
		return err
	}
	if owner != from {
		return fmt.Errorf("%w: token %d owned by %s, not %s", ErrNotTokenOwner, id, owner, from)
	}

	if err := l.store.Delete(from, id); err != nil {
		return err
	}
	return l.store.Insert(to, id)
}

// OwnerOf returns the current owner of a token.
func (l *Ledger) OwnerOf(id TokenID) (Address, error) {
	return l.store.Owner(id)
}

// Exists reports whether a token has been minted.
func (l *Ledger) Exists(id TokenID) bool {
	_, err := l.store.Owner(id)
	return err == nil
}

// BalanceOf returns the number of tokens held by owner.
func (l *Ledger) BalanceOf(owner Address) (uint64, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("%w: balance query", ErrZeroAddress)
	}
	return l.store.Count(owner)
}

// TokenOfOwnerByIndex returns the token at the given slot of the owner's
// dense index. Slot order is arbitrary and changes on removal.
func (l *Ledger) TokenOfOwnerByIndex(owner Address, index uint64) (TokenID, error) {
	if owner.IsZero() {
		return 0, fmt.Errorf("%w: enumeration query", ErrZeroAddress)
	}
	return l.store.TokenAt(owner, index)
}

// Tokens returns all tokens held by owner, in index order.
func (l *Ledger) Tokens(owner Address) ([]TokenID, error) {
	if owner.IsZero() {
		return nil, fmt.Errorf("%w: enumeration query", ErrZeroAddress)
	}
	return l.store.Tokens(owner)
}

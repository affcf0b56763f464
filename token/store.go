package token

import (
	"fmt"
	"sync"
)

// Store persists the ownership index.
//
// Implementations must keep three structures consistent: the token→owner map,
// the per-owner dense slice of token IDs, and the token→slot reverse index.
// Delete must compact the dense slice by swapping the removed entry with the
// last one, so slot indices stay contiguous with no gaps.
type Store interface {
	// Owner returns the current owner of a token.
	Owner(id TokenID) (Address, error)

	// Count returns the number of tokens held by owner.
	Count(owner Address) (uint64, error)

	// TokenAt returns the token at the given slot of the owner's index.
	TokenAt(owner Address, index uint64) (TokenID, error)

	// Tokens returns all tokens held by owner.
	Tokens(owner Address) ([]TokenID, error)

	// Insert appends a token to the owner's index and records ownership.
	Insert(owner Address, id TokenID) error

	// Delete removes a token from the owner's index with swap-with-last
	// compaction and clears ownership.
	Delete(owner Address, id TokenID) error
}

// MemStore is an in-memory implementation of Store.
type MemStore struct {
	mu       sync.RWMutex
	owners   map[TokenID]Address
	holdings map[Address][]TokenID
	slots    map[TokenID]uint64
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates a new empty in-memory ownership store.
func NewMemStore() *MemStore {
	return &MemStore{
		owners:   make(map[TokenID]Address),
		holdings: make(map[Address][]TokenID),
		slots:    make(map[TokenID]uint64),
	}
}

// Owner returns the current owner of a token.
func (s *MemStore) Owner(id TokenID) (Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[id]
	if !ok {
		return ZeroAddress, fmt.Errorf("%w: token %d", ErrTokenNotMinted, id)
	}
	return owner, nil
}

// Count returns the number of tokens held by owner.
func (s *MemStore) Count(owner Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.holdings[owner])), nil
}

// TokenAt returns the token at the given slot of the owner's index.
func (s *MemStore) TokenAt(owner Address, index uint64) (TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	held := s.holdings[owner]
	if index >= uint64(len(held)) {
		return 0, fmt.Errorf("%w: index %d, balance %d", ErrIndexOutOfRange, index, len(held))
	}
	return held[index], nil
}

// Tokens returns a copy of all tokens held by owner.
func (s *MemStore) Tokens(owner Address) ([]TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	held := s.holdings[owner]
	if len(held) == 0 {
		return nil, nil
	}
	out := make([]TokenID, len(held))
	copy(out, held)
	return out, nil
}

// Insert appends a token to the owner's index and records ownership.
func (s *MemStore) Insert(owner Address, id TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.owners[id]; exists {
		return fmt.Errorf("%w: token %d", ErrTokenExists, id)
	}

	s.owners[id] = owner
	s.holdings[owner] = append(s.holdings[owner], id)
	s.slots[id] = uint64(len(s.holdings[owner]) - 1)
	return nil
}

// Delete removes a token from the owner's index with swap-with-last
// compaction and clears ownership.
func (s *MemStore) Delete(owner Address, id TokenID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.owners[id]
	if !ok {
		return fmt.Errorf("%w: token %d", ErrTokenNotMinted, id)
	}
	if current != owner {
		return fmt.Errorf("%w: token %d owned by %s", ErrNotTokenOwner, id, current)
	}

	held := s.holdings[owner]
	slot := s.slots[id]
	last := uint64(len(held) - 1)

	if slot != last {
		moved := held[last]
		held[slot] = moved
		s.slots[moved] = slot
	}
	s.holdings[owner] = held[:last]

	delete(s.owners, id)
	delete(s.slots, id)
	return nil
}

package rewarder

import (
	"fmt"
	"sync"
)

// Store persists engine accounting snapshots so a deployment can restart
// without losing accrued entitlements.
type Store interface {
	// Save persists a snapshot, replacing any previous one.
	Save(s *Snapshot) error

	// Load returns the last saved snapshot, or ErrNoSnapshot.
	Load() (*Snapshot, error)
}

// MemStore is an in-memory implementation of Store for testing.
type MemStore struct {
	mu   sync.Mutex
	snap *Snapshot
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory snapshot store.
func NewMemStore() *MemStore { return &MemStore{} }

// Save persists a snapshot, replacing any previous one.
func (s *MemStore) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParam)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	return nil
}

// Load returns the last saved snapshot.
func (s *MemStore) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return nil, ErrNoSnapshot
	}
	return s.snap, nil
}

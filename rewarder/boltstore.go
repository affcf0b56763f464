package rewarder

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketSnapshots = []byte("snapshots")
	keyState        = []byte("state")
)

// BoltStore persists engine snapshots in bbolt, gob-encoded.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("rewarder: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("rewarder: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("rewarder: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Save persists a snapshot, replacing any previous one.
func (s *BoltStore) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParam)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("rewarder: encode snapshot: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put(keyState, buf.Bytes())
	})
}

// Load returns the last saved snapshot.
func (s *BoltStore) Load() (*Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSnapshots).Get(keyState)
		if data == nil {
			return ErrNoSnapshot
		}
		return gob.NewDecoder(bytes.NewReader(data)).Decode(&snap)
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

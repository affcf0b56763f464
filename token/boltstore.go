package token

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketOwners   = []byte("owners")   // token ID → owner address
	bucketHoldings = []byte("holdings") // owner || slot → token ID
	bucketSlots    = []byte("slots")    // token ID → slot within owner's index
	bucketCounts   = []byte("counts")   // owner → number of tokens held
)

// BoltStore is a bbolt-backed implementation of Store.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("token: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("token: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketOwners, bucketHoldings, bucketSlots, bucketCounts} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("token: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// tokenKey encodes a token ID as an 8-byte big-endian key.
func tokenKey(id TokenID) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, uint64(id))
	return k
}

// holdingKey encodes owner || slot for the dense per-owner index.
func holdingKey(owner Address, slot uint64) []byte {
	k := make([]byte, AddressSize+8)
	copy(k, owner[:])
	binary.BigEndian.PutUint64(k[AddressSize:], slot)
	return k
}

func readCount(b *bbolt.Bucket, owner Address) uint64 {
	v := b.Get(owner[:])
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

func writeCount(b *bbolt.Bucket, owner Address, n uint64) error {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return b.Put(owner[:], k)
}

// Owner returns the current owner of a token.
func (s *BoltStore) Owner(id TokenID) (Address, error) {
	var owner Address
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketOwners).Get(tokenKey(id))
		if v == nil {
			return fmt.Errorf("%w: token %d", ErrTokenNotMinted, id)
		}
		copy(owner[:], v)
		return nil
	})
	if err != nil {
		return ZeroAddress, err
	}
	return owner, nil
}

// Count returns the number of tokens held by owner.
func (s *BoltStore) Count(owner Address) (uint64, error) {
	var n uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = readCount(tx.Bucket(bucketCounts), owner)
		return nil
	})
	return n, err
}

// TokenAt returns the token at the given slot of the owner's index.
func (s *BoltStore) TokenAt(owner Address, index uint64) (TokenID, error) {
	var id TokenID
	err := s.db.View(func(tx *bbolt.Tx) error {
		n := readCount(tx.Bucket(bucketCounts), owner)
		if index >= n {
			return fmt.Errorf("%w: index %d, balance %d", ErrIndexOutOfRange, index, n)
		}
		v := tx.Bucket(bucketHoldings).Get(holdingKey(owner, index))
		if v == nil {
			return fmt.Errorf("token: missing holding slot %d for %s", index, owner)
		}
		id = TokenID(binary.BigEndian.Uint64(v))
		return nil
	})
	return id, err
}

// Tokens returns all tokens held by owner.
func (s *BoltStore) Tokens(owner Address) ([]TokenID, error) {
	var out []TokenID
	err := s.db.View(func(tx *bbolt.Tx) error {
		n := readCount(tx.Bucket(bucketCounts), owner)
		if n == 0 {
			return nil
		}
		hb := tx.Bucket(bucketHoldings)
		out = make([]TokenID, 0, n)
		for i := uint64(0); i < n; i++ {
			v := hb.Get(holdingKey(owner, i))
			if v == nil {
				return fmt.Errorf("token: missing holding slot %d for %s", i, owner)
			}
			out = append(out, TokenID(binary.BigEndian.Uint64(v)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert appends a token to the owner's index and records ownership.
func (s *BoltStore) Insert(owner Address, id TokenID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ob := tx.Bucket(bucketOwners)
		if ob.Get(tokenKey(id)) != nil {
			return fmt.Errorf("%w: token %d", ErrTokenExists, id)
		}

		cb := tx.Bucket(bucketCounts)
		n := readCount(cb, owner)

		if err := ob.Put(tokenKey(id), owner[:]); err != nil {
			return fmt.Errorf("token: put owner: %w", err)
		}
		if err := tx.Bucket(bucketHoldings).Put(holdingKey(owner, n), tokenKey(id)); err != nil {
			return fmt.Errorf("token: put holding: %w", err)
		}
		if err := tx.Bucket(bucketSlots).Put(tokenKey(id), holdingKey(owner, n)[AddressSize:]); err != nil {
			return fmt.Errorf("token: put slot: %w", err)
		}
		return writeCount(cb, owner, n+1)
	})
}

// Delete removes a token from the owner's index with swap-with-last
// compaction and clears ownership.
func (s *BoltStore) Delete(owner Address, id TokenID) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		ob := tx.Bucket(bucketOwners)
		v := ob.Get(tokenKey(id))
		if v == nil {
			return fmt.Errorf("%w: token %d", ErrTokenNotMinted, id)
		}
		var current Address
		copy(current[:], v)
		if current != owner {
			return fmt.Errorf("%w: token %d owned by %s", ErrNotTokenOwner, id, current)
		}

		cb := tx.Bucket(bucketCounts)
		hb := tx.Bucket(bucketHoldings)
		sb := tx.Bucket(bucketSlots)

		n := readCount(cb, owner)
		slot := binary.BigEndian.Uint64(sb.Get(tokenKey(id)))
		last := n - 1

		if slot != last {
			movedVal := hb.Get(holdingKey(owner, last))
			moved := TokenID(binary.BigEndian.Uint64(movedVal))
			if err := hb.Put(holdingKey(owner, slot), movedVal); err != nil {
				return fmt.Errorf("token: move holding: %w", err)
			}
			slotVal := make([]byte, 8)
			binary.BigEndian.PutUint64(slotVal, slot)
			if err := sb.Put(tokenKey(moved), slotVal); err != nil {
				return fmt.Errorf("token: move slot: %w", err)
			}
		}

		if err := hb.Delete(holdingKey(owner, last)); err != nil {
			return fmt.Errorf("token: delete holding: %w", err)
		}
		if err := sb.Delete(tokenKey(id)); err != nil {
			return fmt.Errorf("token: delete slot: %w", err)
		}
		if err := ob.Delete(tokenKey(id)); err != nil {
			return fmt.Errorf("token: delete owner: %w", err)
		}
		return writeCount(cb, owner, last)
	})
}

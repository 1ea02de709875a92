// Package dedup tracks which carved disk-image windows have already
// been reported, so rescanning overlapping windows from a large image
// does not yield duplicate carved jobs.
package dedup

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	badger "github.com/dgraph-io/badger/v4"
)

// Store records window content hashes and reports whether a hash has
// been seen before.
type Store interface {
	// Seen reports whether data was already recorded, recording it if
	// not (an atomic check-and-set).
	Seen(data []byte) (bool, error)
	Close() error
}

// Hash returns the 64-bit FNV-1a hash of data, used as the dedup key.
func Hash(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

// memStore is an in-memory Store, scoped to a single run.
type memStore struct {
	seen map[uint64]struct{}
}

// NewMemStore returns a Store backed by a plain in-memory set, valid
// only for the current process.
func NewMemStore() Store {
	return &memStore{seen: make(map[uint64]struct{})}
}

func (m *memStore) Seen(data []byte) (bool, error) {
	h := Hash(data)
	if _, ok := m.seen[h]; ok {
		return true, nil
	}
	m.seen[h] = struct{}{}
	return false, nil
}

func (m *memStore) Close() error { return nil }

// badgerStore is a Store persisted to an on-disk Badger database, so
// dedup state survives across runs over the same image.
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (creating if absent) a Badger database at dir.
func NewBadgerStore(dir string) (Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("dedup: open badger store: %w", err)
	}
	return &badgerStore{db: db}, nil
}

func (b *badgerStore) Seen(data []byte) (bool, error) {
	key := keyFor(Hash(data))
	seen := false

	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == nil:
			seen = true
			return nil
		case err == badger.ErrKeyNotFound:
			return txn.Set(key, []byte{1})
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("dedup: lookup: %w", err)
	}
	return seen, nil
}

func (b *badgerStore) Close() error {
	return b.db.Close()
}

func keyFor(h uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, h)
	return key
}

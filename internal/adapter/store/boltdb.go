package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	bucketVectors = []byte("vectors")
	bucketMeta    = []byte("meta")
)

// BoltStore persists embedding vectors keyed by cache key.
type BoltStore struct {
	db *bbolt.DB
}

type storedVector struct {
	Vector []float32 `json:"v"`
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// GetVectors returns the stored vectors for the keys that exist.
// Corrupted entries are treated as misses.
func (s *BoltStore) GetVectors(keys []string) (map[string][]float32, error) {
	found := make(map[string][]float32, len(keys))
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		for _, key := range keys {
			data := b.Get([]byte(key))
			if data == nil {
				continue
			}
			var stored storedVector
			if err := json.Unmarshal(data, &stored); err != nil {
				continue
			}
			found[key] = stored.Vector
		}
		return nil
	})
	return found, err
}

// PutVectors writes all items in a single transaction.
func (s *BoltStore) PutVectors(items map[string][]float32) error {
	if len(items) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		for key, vec := range items {
			data, err := json.Marshal(storedVector{Vector: vec})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of stored vectors.
func (s *BoltStore) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketVectors).Stats().KeyN
		return nil
	})
	return n, err
}

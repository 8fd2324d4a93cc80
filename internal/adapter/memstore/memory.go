package memstore

import (
	"sync"
)

// VectorStore is an unbounded in-memory vector cache. It stands in for the
// on-disk cache when no data directory is available.
type VectorStore struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

func NewVectorStore() *VectorStore {
	return &VectorStore{
		vectors: make(map[string][]float32),
	}
}

func (s *VectorStore) GetVectors(keys []string) (map[string][]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string][]float32, len(keys))
	for _, key := range keys {
		if vec, ok := s.vectors[key]; ok {
			out := make([]float32, len(vec))
			copy(out, vec)
			found[key] = out
		}
	}
	return found, nil
}

func (s *VectorStore) PutVectors(items map[string][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, vec := range items {
		stored := make([]float32, len(vec))
		copy(stored, vec)
		s.vectors[key] = stored
	}
	return nil
}

func (s *VectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

// Clear drops every vector.
func (s *VectorStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = make(map[string][]float32)
}

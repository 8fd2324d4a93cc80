package memstore

import (
	"testing"

	"stdphrase/internal/port"
)

var _ port.VectorCache = (*VectorStore)(nil)

func TestVectorStore_PutGet(t *testing.T) {
	s := NewVectorStore()
	vec := []float32{1, 2, 3}
	if err := s.PutVectors(map[string][]float32{"a": vec}); err != nil {
		t.Fatal(err)
	}
	vec[0] = 99 // caller mutation must not leak in

	got, err := s.GetVectors([]string{"a", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(got))
	}
	if got["a"][0] != 1 {
		t.Errorf("stored vector was aliased: %v", got["a"])
	}

	got["a"][1] = 42
	again, _ := s.GetVectors([]string{"a"})
	if again["a"][1] != 2 {
		t.Errorf("returned vector was aliased: %v", again["a"])
	}
}

func TestVectorStore_CountAndClear(t *testing.T) {
	s := NewVectorStore()
	_ = s.PutVectors(map[string][]float32{"a": {1}, "b": {2}})
	if n, _ := s.Count(); n != 2 {
		t.Errorf("expected 2, got %d", n)
	}
	s.Clear()
	if n, _ := s.Count(); n != 0 {
		t.Errorf("expected 0 after Clear, got %d", n)
	}
}

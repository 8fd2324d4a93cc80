package embedding

import (
	"context"
	"sync/atomic"
)

// StaticEmbedder returns vectors from a fixed table. Texts missing from the
// table embed to the zero vector, which scores 0 against everything. It is
// used for seed data and tests.
type StaticEmbedder struct {
	dimension int
	table     map[string][]float32
	calls     atomic.Int64
	texts     atomic.Int64
}

// NewStaticEmbedder creates an embedder backed by table.
func NewStaticEmbedder(dimension int, table map[string][]float32) *StaticEmbedder {
	return &StaticEmbedder{
		dimension: dimension,
		table:     table,
	}
}

func (e *StaticEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.calls.Add(1)
	e.texts.Add(int64(len(texts)))

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dimension)
		if v, ok := e.table[text]; ok {
			copy(vec, v)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Calls returns how many times Embed was invoked.
func (e *StaticEmbedder) Calls() int {
	return int(e.calls.Load())
}

// TextsEmbedded returns how many texts were embedded in total.
func (e *StaticEmbedder) TextsEmbedded() int {
	return int(e.texts.Load())
}

func (e *StaticEmbedder) Dimension() int {
	return e.dimension
}

func (e *StaticEmbedder) ModelName() string {
	return "static"
}

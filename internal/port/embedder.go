package port

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorCache persists embeddings keyed by an opaque string.
type VectorCache interface {
	// GetVectors returns the cached vectors for keys that are present.
	GetVectors(keys []string) (map[string][]float32, error)

	// PutVectors stores the vectors under their keys.
	PutVectors(items map[string][]float32) error

	// Count returns the number of cached vectors.
	Count() (int, error)
}

package matcher

import (
	"context"
	"fmt"

	"stdphrase/internal/domain"
	"stdphrase/internal/port"
)

// ReferenceSet is an ordered, immutable list of canonical phrases and their
// embeddings. It is safe to share across goroutines.
type ReferenceSet struct {
	phrases   []domain.ReferencePhrase
	dimension int
	model     string
}

type loadOptions struct {
	batchSize int
	progress  func(done, total int)
}

// LoadOption configures LoadReferenceSet.
type LoadOption func(*loadOptions)

// WithBatchSize sets how many phrases are embedded per call.
func WithBatchSize(n int) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithProgress registers a callback invoked after each embedded batch.
func WithProgress(fn func(done, total int)) LoadOption {
	return func(o *loadOptions) {
		o.progress = fn
	}
}

// LoadReferenceSet embeds phrases in order and returns the reference set.
// Duplicates are kept as they are.
func LoadReferenceSet(ctx context.Context, phrases []string, embedder port.Embedder, opts ...LoadOption) (*ReferenceSet, error) {
	o := loadOptions{batchSize: 64}
	for _, opt := range opts {
		opt(&o)
	}

	set := &ReferenceSet{
		phrases: make([]domain.ReferencePhrase, 0, len(phrases)),
		model:   embedder.ModelName(),
	}

	for i := 0; i < len(phrases); i += o.batchSize {
		end := i + o.batchSize
		if end > len(phrases) {
			end = len(phrases)
		}
		batch := phrases[i:end]

		vectors, err := embedder.Embed(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed reference phrases: %w", err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d phrases", len(vectors), len(batch))
		}

		for j, text := range batch {
			vec := vectors[j]
			if set.dimension == 0 {
				set.dimension = len(vec)
			} else if len(vec) != set.dimension {
				return nil, fmt.Errorf("%w: phrase %q has %d dimensions, expected %d",
					domain.ErrDimensionMismatch, text, len(vec), set.dimension)
			}
			set.phrases = append(set.phrases, domain.ReferencePhrase{
				Text:   text,
				Vector: cloneVector(vec),
			})
		}

		if o.progress != nil {
			o.progress(end, len(phrases))
		}
	}

	return set, nil
}

// Len returns the number of reference phrases.
func (s *ReferenceSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.phrases)
}

// Dimension returns the embedding dimension, or 0 for an empty set.
func (s *ReferenceSet) Dimension() int {
	return s.dimension
}

// ModelName returns the model the set was embedded with.
func (s *ReferenceSet) ModelName() string {
	return s.model
}

// Phrases returns the phrase texts in set order.
func (s *ReferenceSet) Phrases() []string {
	out := make([]string, len(s.phrases))
	for i, p := range s.phrases {
		out[i] = p.Text
	}
	return out
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}

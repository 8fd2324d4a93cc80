package matcher

import (
	"context"
	"fmt"
	"math"
	"sort"

	"stdphrase/internal/domain"
	"stdphrase/internal/port"
)

// Match is the best reference phrase for an input and its similarity.
type Match struct {
	Phrase string
	Index  int
	Score  float64
}

// PhraseMatcher finds the nearest reference phrase for an input phrase.
type PhraseMatcher struct {
	refs     *ReferenceSet
	embedder port.Embedder
}

// NewPhraseMatcher creates a matcher over refs using embedder for inputs.
func NewPhraseMatcher(refs *ReferenceSet, embedder port.Embedder) *PhraseMatcher {
	return &PhraseMatcher{
		refs:     refs,
		embedder: embedder,
	}
}

// Match embeds phrase and returns its best reference phrase.
func (m *PhraseMatcher) Match(ctx context.Context, phrase string) (Match, error) {
	if m.refs.Len() == 0 {
		return Match{}, domain.ErrEmptyReferenceSet
	}

	embeddings, err := m.embedder.Embed(ctx, []string{phrase})
	if err != nil {
		return Match{}, fmt.Errorf("failed to embed phrase: %w", err)
	}
	if len(embeddings) == 0 {
		return Match{}, fmt.Errorf("embedding returned empty result")
	}

	return m.refs.Nearest(embeddings[0])
}

// Nearest scans the set left to right and returns the highest cosine score.
// On equal scores the earlier phrase wins.
func (s *ReferenceSet) Nearest(vec []float32) (Match, error) {
	if s.Len() == 0 {
		return Match{}, domain.ErrEmptyReferenceSet
	}
	if len(vec) != s.dimension {
		return Match{}, fmt.Errorf("%w: query has %d dimensions, reference set has %d",
			domain.ErrDimensionMismatch, len(vec), s.dimension)
	}

	first := s.phrases[0]
	best := Match{Phrase: first.Text, Index: 0, Score: Cosine(vec, first.Vector)}
	for i := 1; i < len(s.phrases); i++ {
		p := s.phrases[i]
		score := Cosine(vec, p.Vector)
		if score > best.Score {
			best = Match{Phrase: p.Text, Index: i, Score: score}
		}
	}
	return best, nil
}

// Rank returns the k best reference phrases for vec, highest score first.
// Equal scores keep reference order. k <= 0 returns every phrase.
func (s *ReferenceSet) Rank(vec []float32, k int) ([]Match, error) {
	if s.Len() == 0 {
		return nil, domain.ErrEmptyReferenceSet
	}
	if len(vec) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, reference set has %d",
			domain.ErrDimensionMismatch, len(vec), s.dimension)
	}

	matches := make([]Match, len(s.phrases))
	for i, p := range s.phrases {
		matches[i] = Match{Phrase: p.Text, Index: i, Score: Cosine(vec, p.Vector)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// Rank embeds phrase and returns its k nearest reference phrases.
func (m *PhraseMatcher) Rank(ctx context.Context, phrase string, k int) ([]Match, error) {
	if m.refs.Len() == 0 {
		return nil, domain.ErrEmptyReferenceSet
	}
	embeddings, err := m.embedder.Embed(ctx, []string{phrase})
	if err != nil {
		return nil, fmt.Errorf("failed to embed phrase: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}
	return m.refs.Rank(embeddings[0], k)
}

// Cosine returns the cosine similarity of a and b clamped to [-1, 1].
// Zero vectors, vectors of different length and non-finite input score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	return math.Max(-1, math.Min(1, sim))
}

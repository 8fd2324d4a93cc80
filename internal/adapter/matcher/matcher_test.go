package matcher

import (
	"context"
	"errors"
	"math"
	"testing"

	"stdphrase/internal/adapter/embedding"
	"stdphrase/internal/domain"
)

func staticSet(t *testing.T, phrases []string, table map[string][]float32, dim int) (*ReferenceSet, *embedding.StaticEmbedder) {
	t.Helper()
	emb := embedding.NewStaticEmbedder(dim, table)
	set, err := LoadReferenceSet(context.Background(), phrases, emb)
	if err != nil {
		t.Fatal(err)
	}
	return set, emb
}

func TestLoadReferenceSet_PreservesOrderAndDuplicates(t *testing.T) {
	phrases := []string{"optimal performance", "improve", "optimal performance"}
	set, _ := staticSet(t, phrases, map[string][]float32{
		"optimal performance": {1, 0},
		"improve":             {0, 1},
	}, 2)

	if set.Len() != 3 {
		t.Fatalf("expected 3 phrases, got %d", set.Len())
	}
	got := set.Phrases()
	for i := range phrases {
		if got[i] != phrases[i] {
			t.Errorf("phrase %d: got %q, want %q", i, got[i], phrases[i])
		}
	}
	if set.Dimension() != 2 {
		t.Errorf("expected dimension 2, got %d", set.Dimension())
	}
	if set.ModelName() != "static" {
		t.Errorf("expected model static, got %s", set.ModelName())
	}
}

func TestLoadReferenceSet_BatchesAndProgress(t *testing.T) {
	emb := embedding.NewStaticEmbedder(2, nil)
	var progress []int
	_, err := LoadReferenceSet(context.Background(), []string{"a", "b", "c", "d", "e"}, emb,
		WithBatchSize(2),
		WithProgress(func(done, total int) {
			if total != 5 {
				t.Errorf("expected total 5, got %d", total)
			}
			progress = append(progress, done)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if emb.Calls() != 3 {
		t.Errorf("expected 3 batches, got %d", emb.Calls())
	}
	want := []int{2, 4, 5}
	if len(progress) != len(want) {
		t.Fatalf("expected progress %v, got %v", want, progress)
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("expected progress %v, got %v", want, progress)
		}
	}
}

func TestLoadReferenceSet_Empty(t *testing.T) {
	set, _ := staticSet(t, nil, nil, 2)
	if set.Len() != 0 {
		t.Errorf("expected empty set, got %d", set.Len())
	}
	if _, err := set.Nearest([]float32{1, 0}); !errors.Is(err, domain.ErrEmptyReferenceSet) {
		t.Errorf("expected ErrEmptyReferenceSet, got %v", err)
	}
}

func TestPhraseMatcher_EmptyReferenceSet(t *testing.T) {
	set, emb := staticSet(t, nil, nil, 2)
	m := NewPhraseMatcher(set, emb)
	_, err := m.Match(context.Background(), "do better")
	if !errors.Is(err, domain.ErrEmptyReferenceSet) {
		t.Errorf("expected ErrEmptyReferenceSet, got %v", err)
	}
	if emb.Calls() != 0 {
		t.Errorf("expected no embedding call for an empty set, got %d", emb.Calls())
	}
}

func TestPhraseMatcher_BestMatch(t *testing.T) {
	set, emb := staticSet(t, []string{"optimal performance", "improve"}, map[string][]float32{
		"optimal performance": {1, 0, 0, 0},
		"improve":             {0, 1, 0, 0},
		"do better":           {1, 1, 1, 1},
		"perform well":        {0.9, 0.1, 0, 0},
	}, 4)
	m := NewPhraseMatcher(set, emb)

	match, err := m.Match(context.Background(), "do better")
	if err != nil {
		t.Fatal(err)
	}
	// Ties between both references at 0.5 go to the first.
	if match.Phrase != "optimal performance" || match.Score != 0.5 || match.Index != 0 {
		t.Errorf("unexpected match %+v", match)
	}

	match, _ = m.Match(context.Background(), "perform well")
	if match.Phrase != "optimal performance" {
		t.Errorf("expected optimal performance, got %+v", match)
	}
	if match.Score < -1 || match.Score > 1 {
		t.Errorf("score out of range: %f", match.Score)
	}
}

func TestNearest_TieBreakFirstInOrder(t *testing.T) {
	same := []float32{0.6, 0.8}
	set, _ := staticSet(t, []string{"b-first", "a-second", "c-third"}, map[string][]float32{
		"b-first":  same,
		"a-second": same,
		"c-third":  same,
	}, 2)

	for i := 0; i < 10; i++ {
		match, err := set.Nearest([]float32{0.6, 0.8})
		if err != nil {
			t.Fatal(err)
		}
		if match.Phrase != "b-first" || match.Index != 0 {
			t.Fatalf("expected first phrase on tie, got %+v", match)
		}
	}
}

func TestNearest_ZeroQueryPicksFirst(t *testing.T) {
	set, _ := staticSet(t, []string{"x", "y"}, map[string][]float32{"x": {1, 0}, "y": {0, 1}}, 2)
	match, err := set.Nearest([]float32{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	if match.Phrase != "x" || match.Score != 0 {
		t.Errorf("expected first phrase with score 0, got %+v", match)
	}
}

func TestNearest_NaNQueryStillReturnsReferencePhrase(t *testing.T) {
	set, _ := staticSet(t, []string{"x", "y"}, map[string][]float32{"x": {1, 0}, "y": {0, 1}}, 2)
	nan := float32(math.NaN())
	match, err := set.Nearest([]float32{nan, 1})
	if err != nil {
		t.Fatal(err)
	}
	if match.Index != 0 || match.Phrase != "x" || match.Score != 0 {
		t.Errorf("expected first phrase with score 0, got %+v", match)
	}
	if got := Cosine([]float32{nan, 1}, []float32{1, 0}); got != 0 {
		t.Errorf("Cosine with NaN = %f, want 0", got)
	}
}

func TestNearest_DimensionMismatch(t *testing.T) {
	set, _ := staticSet(t, []string{"x"}, map[string][]float32{"x": {1, 0}}, 2)
	if _, err := set.Nearest([]float32{1, 0, 0}); !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNearest_ScoreAlwaysInRange(t *testing.T) {
	emb := embedding.NewHashEmbedder(32)
	phrases := []string{"optimal performance", "make good use of", "look over carefully", "build strong relationships"}
	set, err := LoadReferenceSet(context.Background(), phrases, emb)
	if err != nil {
		t.Fatal(err)
	}
	m := NewPhraseMatcher(set, emb)
	inputs := []string{"do better in", "the weather was", "use of what", "", "!!!"}
	for _, in := range inputs {
		match, err := m.Match(context.Background(), in)
		if err != nil {
			t.Fatal(err)
		}
		if match.Score < -1 || match.Score > 1 {
			t.Errorf("%q: score out of range %f", in, match.Score)
		}
		found := false
		for _, p := range phrases {
			if p == match.Phrase {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: matched phrase %q not in reference set", in, match.Phrase)
		}
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		a, b []float32
		want float64
	}{
		{[]float32{1, 0}, []float32{1, 0}, 1},
		{[]float32{1, 0}, []float32{-1, 0}, -1},
		{[]float32{1, 0}, []float32{0, 1}, 0},
		{[]float32{0, 0}, []float32{0, 1}, 0},
		{[]float32{1}, []float32{1, 0}, 0},
		{[]float32{3, 4}, []float32{1, 0}, 0.6},
	}
	for _, tt := range tests {
		got := Cosine(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Cosine(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRank_OrderAndLimit(t *testing.T) {
	refs, emb := staticSet(t,
		[]string{"a", "b", "c", "d"},
		map[string][]float32{
			"a":     {0, 1},
			"b":     {1, 0},
			"c":     {1, 1},
			"d":     {1, 0},
			"query": {1, 0},
		}, 2)

	m := NewPhraseMatcher(refs, emb)
	got, err := m.Rank(context.Background(), "query", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	// b and d tie at 1.0 and keep reference order.
	if got[0].Phrase != "b" || got[1].Phrase != "d" || got[2].Phrase != "c" {
		t.Errorf("unexpected ranking %+v", got)
	}

	all, err := refs.Rank([]float32{1, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 || all[3].Phrase != "a" {
		t.Errorf("expected all phrases with a last, got %+v", all)
	}
}

package merger

import (
	"sort"

	"stdphrase/internal/domain"
)

// IntervalScheduling picks, per sentence, the set of pairwise
// non-overlapping windows with the largest total score (weighted interval
// scheduling). Overlap is positional: windows [s, e) that share a word
// index conflict. Equal totals prefer the earlier windows. Suggestions are
// appended left to right and earlier sentences are never revisited.
type IntervalScheduling struct{}

func NewIntervalScheduling() *IntervalScheduling {
	return &IntervalScheduling{}
}

func (IntervalScheduling) Name() string {
	return "interval"
}

func (IntervalScheduling) Merge(acc []domain.Suggestion, candidates []domain.Candidate, threshold float64) []domain.Suggestion {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= threshold {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return acc
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].End != kept[j].End {
			return kept[i].End < kept[j].End
		}
		return kept[i].Start < kept[j].Start
	})

	n := len(kept)
	// prev[i] is the number of windows ending at or before kept[i].Start.
	prev := make([]int, n)
	for i := range kept {
		prev[i] = sort.Search(i, func(j int) bool { return kept[j].End > kept[i].Start })
	}

	// best[i] is the optimal total over the first i windows.
	best := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		take := kept[i-1].Score + best[prev[i-1]]
		best[i] = best[i-1]
		if take > best[i] {
			best[i] = take
		}
	}

	chosen := make([]domain.Candidate, 0)
	for i := n; i > 0; {
		// Skipping on a tie leaves room for earlier windows.
		take := kept[i-1].Score + best[prev[i-1]]
		if take > best[i-1] {
			chosen = append(chosen, kept[i-1])
			i = prev[i-1]
		} else {
			i--
		}
	}

	for i := len(chosen) - 1; i >= 0; i-- {
		acc = append(acc, domain.SuggestionFrom(chosen[i]))
	}
	return acc
}

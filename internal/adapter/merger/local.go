package merger

import (
	"strings"

	"stdphrase/internal/domain"
)

// LocalGreedy resolves overlaps against the most recently kept suggestion
// only. A candidate that shares a word with it replaces it when strictly
// better and is dropped otherwise; a candidate that shares no word is
// appended. The last suggestion is carried across sentences.
//
// Because only one suggestion is looked back at, a candidate overlapping an
// earlier suggestion that is no longer last is never compared with it.
type LocalGreedy struct{}

func NewLocalGreedy() *LocalGreedy {
	return &LocalGreedy{}
}

func (LocalGreedy) Name() string {
	return "local"
}

func (LocalGreedy) Merge(acc []domain.Suggestion, candidates []domain.Candidate, threshold float64) []domain.Suggestion {
	for _, c := range candidates {
		if c.Score < threshold {
			continue
		}

		if len(acc) > 0 {
			last := acc[len(acc)-1]
			if sharesWord(c.InputPhrase, last.InputPhrase) {
				if c.Score > last.Score {
					acc = append(acc[:len(acc)-1], domain.SuggestionFrom(c))
				}
				continue
			}
		}

		acc = append(acc, domain.SuggestionFrom(c))
	}
	return acc
}

// sharesWord reports whether the whitespace-separated word sets of a and b
// intersect.
func sharesWord(a, b string) bool {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(b) {
		words[w] = struct{}{}
	}
	for _, w := range strings.Fields(a) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

package port

import "stdphrase/internal/domain"

// MergeStrategy folds one sentence's candidates, in window order, into the
// suggestions accumulated so far and returns the extended list.
type MergeStrategy interface {
	Merge(acc []domain.Suggestion, candidates []domain.Candidate, threshold float64) []domain.Suggestion

	Name() string
}

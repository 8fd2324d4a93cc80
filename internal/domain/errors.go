package domain

import "errors"

var (
	// ErrEmptyReferenceSet is returned when matching is attempted with no
	// reference phrases loaded.
	ErrEmptyReferenceSet = errors.New("reference set is empty")

	// ErrInvalidWindowSize is returned for a non-positive window size.
	ErrInvalidWindowSize = errors.New("window size must be positive")

	// ErrDimensionMismatch is returned when two vectors of different length
	// are compared.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNoPhrases is returned when a phrase source yields nothing.
	ErrNoPhrases = errors.New("phrase source is empty")

	// ErrColumnNotFound is returned when a CSV header lacks the phrase column.
	ErrColumnNotFound = errors.New("phrase column not found")
)

package window

import (
	"fmt"
	"iter"
	"strings"

	"stdphrase/internal/domain"
)

// Extractor produces fixed-size sliding word windows from a sentence.
type Extractor struct {
	size int
}

// NewExtractor creates an extractor for windows of size words.
func NewExtractor(size int) (*Extractor, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidWindowSize, size)
	}
	return &Extractor{size: size}, nil
}

// Size returns the window size in words.
func (e *Extractor) Size() int {
	return e.size
}

// Words splits a sentence on whitespace.
func Words(sentence string) []string {
	return strings.Fields(sentence)
}

// Windows returns a restartable sequence of the windows of sentence, in
// increasing start offset. Sentences shorter than the window size yield
// nothing.
func (e *Extractor) Windows(sentence string) iter.Seq[domain.Window] {
	words := Words(sentence)
	return func(yield func(domain.Window) bool) {
		for start := 0; start+e.size <= len(words); start++ {
			w := domain.Window{
				Text:  strings.Join(words[start:start+e.size], " "),
				Start: start,
				End:   start + e.size,
			}
			if !yield(w) {
				return
			}
		}
	}
}

// Extract returns all windows of sentence.
func (e *Extractor) Extract(sentence string) []domain.Window {
	n := len(Words(sentence)) - e.size + 1
	if n <= 0 {
		return nil
	}
	windows := make([]domain.Window, 0, n)
	for w := range e.Windows(sentence) {
		windows = append(windows, w)
	}
	return windows
}

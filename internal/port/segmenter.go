package port

// SentenceSegmenter splits text into sentences, preserving order.
type SentenceSegmenter interface {
	Segment(text string) ([]string, error)
}

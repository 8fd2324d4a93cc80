package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"stdphrase/internal/adapter/matcher"
	"stdphrase/internal/adapter/window"
	"stdphrase/internal/domain"
	"stdphrase/internal/logging"
	"stdphrase/internal/port"
)

// SuggestOptions are the per-call engine parameters.
type SuggestOptions struct {
	Threshold  float64
	WindowSize int
}

// DefaultSuggestOptions returns threshold 0.45 and three-word windows.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{Threshold: 0.45, WindowSize: 3}
}

// SuggestUseCase turns a document into an ordered list of standardisation
// suggestions.
type SuggestUseCase struct {
	segmenter port.SentenceSegmenter
	embedder  port.Embedder
	merger    port.MergeStrategy
	workers   int
	batchSize int
	logger    *log.Logger
}

// SuggestOption configures a SuggestUseCase.
type SuggestOption func(*SuggestUseCase)

// WithWorkers bounds the number of concurrent embedding batches.
func WithWorkers(n int) SuggestOption {
	return func(u *SuggestUseCase) {
		if n > 0 {
			u.workers = n
		}
	}
}

// WithEmbedBatchSize sets how many windows go to the embedder per call.
func WithEmbedBatchSize(n int) SuggestOption {
	return func(u *SuggestUseCase) {
		if n > 0 {
			u.batchSize = n
		}
	}
}

// WithLogger sets the logger used for progress at debug level.
func WithLogger(l *log.Logger) SuggestOption {
	return func(u *SuggestUseCase) {
		u.logger = l
	}
}

// NewSuggestUseCase creates a new suggest use case.
func NewSuggestUseCase(
	segmenter port.SentenceSegmenter,
	embedder port.Embedder,
	merger port.MergeStrategy,
	opts ...SuggestOption,
) *SuggestUseCase {
	u := &SuggestUseCase{
		segmenter: segmenter,
		embedder:  embedder,
		merger:    merger,
		workers:   4,
		batchSize: 64,
	}
	for _, opt := range opts {
		opt(u)
	}
	u.logger = logging.OrDefault(u.logger)
	return u
}

type sentenceWindows struct {
	first   int // index of the first window in the flat list
	windows []domain.Window
}

// Suggest runs the engine over text. Windows are embedded in parallel
// batches but merged strictly in document order, so the result does not
// depend on the worker count.
func (u *SuggestUseCase) Suggest(ctx context.Context, text string, refs *matcher.ReferenceSet, opts SuggestOptions) ([]domain.Suggestion, error) {
	extractor, err := window.NewExtractor(opts.WindowSize)
	if err != nil {
		return nil, err
	}
	if refs.Len() == 0 {
		return nil, domain.ErrEmptyReferenceSet
	}

	start := time.Now()
	sentences, err := u.segmenter.Segment(text)
	if err != nil {
		return nil, fmt.Errorf("failed to segment text: %w", err)
	}

	perSentence := make([]sentenceWindows, len(sentences))
	var texts []string
	for i, sentence := range sentences {
		perSentence[i].first = len(texts)
		for w := range extractor.Windows(sentence) {
			perSentence[i].windows = append(perSentence[i].windows, w)
			texts = append(texts, w.Text)
		}
	}

	matches, err := u.matchWindows(ctx, texts, refs)
	if err != nil {
		return nil, err
	}

	var suggestions []domain.Suggestion
	for i, sw := range perSentence {
		if len(sw.windows) == 0 {
			continue
		}
		candidates := make([]domain.Candidate, len(sw.windows))
		for j, w := range sw.windows {
			m := matches[sw.first+j]
			candidates[j] = domain.Candidate{
				InputPhrase:     w.Text,
				SuggestedPhrase: m.Phrase,
				Score:           m.Score,
				Sentence:        i,
				Start:           w.Start,
				End:             w.End,
			}
		}
		suggestions = u.merger.Merge(suggestions, candidates, opts.Threshold)
	}

	u.logger.Debug("suggest complete",
		"sentences", len(sentences),
		"windows", len(texts),
		"suggestions", len(suggestions),
		"merge", u.merger.Name(),
		"elapsed", time.Since(start),
	)
	return suggestions, nil
}

// matchWindows embeds texts in batches across up to u.workers goroutines
// and scores each vector against refs. Results are stored by window index.
func (u *SuggestUseCase) matchWindows(ctx context.Context, texts []string, refs *matcher.ReferenceSet) ([]matcher.Match, error) {
	matches := make([]matcher.Match, len(texts))
	if len(texts) == 0 {
		return matches, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i := 0; i < len(texts); i += u.batchSize {
		end := min(i+u.batchSize, len(texts))
		g.Go(func() error {
			vectors, err := u.embedder.Embed(gctx, texts[i:end])
			if err != nil {
				return fmt.Errorf("failed to embed windows: %w", err)
			}
			if len(vectors) != end-i {
				return fmt.Errorf("embedder returned %d vectors for %d windows", len(vectors), end-i)
			}
			for j, vec := range vectors {
				m, err := refs.Nearest(vec)
				if err != nil {
					return fmt.Errorf("match %q: %w", texts[i+j], err)
				}
				matches[i+j] = m
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Report runs Suggest and wraps the result with its parameters. When apply
// is set the output text with every suggestion accepted is included.
func (u *SuggestUseCase) Report(ctx context.Context, source, text string, refs *matcher.ReferenceSet, opts SuggestOptions, apply bool) (*domain.Report, error) {
	suggestions, err := u.Suggest(ctx, text, refs, opts)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}
	report := &domain.Report{
		Source:      source,
		Threshold:   opts.Threshold,
		WindowSize:  opts.WindowSize,
		Suggestions: suggestions,
	}
	if apply {
		report.Output = Apply(text, suggestions, nil)
	}
	return report, nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"

	"stdphrase/config"
	"stdphrase/internal/adapter/cache"
	"stdphrase/internal/adapter/embedding"
	"stdphrase/internal/adapter/matcher"
	"stdphrase/internal/adapter/memstore"
	"stdphrase/internal/adapter/merger"
	"stdphrase/internal/adapter/phrases"
	"stdphrase/internal/adapter/segmenter"
	"stdphrase/internal/adapter/store"
	"stdphrase/internal/port"
	"stdphrase/internal/usecase"
)

// engine bundles everything a command needs to produce suggestions.
type engine struct {
	embedder port.Embedder
	refs     *matcher.ReferenceSet
	suggest  *usecase.SuggestUseCase
	closers  []func() error
}

func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			logger.Warn("close failed", "err", err)
		}
	}
}

// newEmbedder wraps the configured embedder with the memory and on-disk
// caches when caching is enabled.
func newEmbedder(cfg *config.Config, dir string) (port.Embedder, []func() error, error) {
	base, closeBase, err := embedding.FromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{closeBase}
	if !cfg.Cache.Enabled {
		return base, closers, nil
	}

	var persistent port.VectorCache
	st, err := openCacheStore(cfg, dir)
	if err != nil {
		logger.Warn("on-disk embedding cache unavailable, keeping vectors in memory", "err", err)
		persistent = memstore.NewVectorStore()
	} else {
		persistent = st
		closers = append(closers, st.Close)
	}

	memory := cache.NewVectorLRU(cfg.Cache.MemoryEntries)
	return embedding.NewCachedEmbedder(base, memory, persistent, logger.WithPrefix("cache")), closers, nil
}

// openCacheStore opens the bolt cache under dir and drops vectors made by a
// different embedding configuration.
func openCacheStore(cfg *config.Config, dir string) (*store.BoltStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, err
	}
	st, err := store.NewBoltStore(config.CacheDBPath(dir))
	if err != nil {
		return nil, err
	}
	reason, err := st.Prepare(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}
	if reason != "" {
		logger.Info("embedding cache rebuilt", "reason", reason)
	}
	return st, nil
}

// loadPhrases reads the configured phrase source.
func loadPhrases(ctx context.Context, cfg *config.Config) ([]string, error) {
	src, closeSrc, err := phrases.Open(ctx, cfg.Phrases)
	if err != nil {
		return nil, err
	}
	defer closeSrc()

	list, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load phrases: %w", err)
	}
	return list, nil
}

// newProgressBar draws embedding progress on stderr.
func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}

// buildReferenceSet embeds phrases, optionally drawing a progress bar.
func buildReferenceSet(ctx context.Context, cfg *config.Config, list []string, embedder port.Embedder, progress bool) (*matcher.ReferenceSet, error) {
	opts := []matcher.LoadOption{matcher.WithBatchSize(cfg.Embedding.BatchSize)}
	if progress {
		bar := newProgressBar(len(list), "Embedding phrases")
		opts = append(opts, matcher.WithProgress(func(done, total int) {
			_ = bar.Set(done)
		}))
	}
	return matcher.LoadReferenceSet(ctx, list, embedder, opts...)
}

// openEngine wires phrases, embedder, segmenter and merge strategy from the
// loaded config.
func openEngine(ctx context.Context) (*engine, error) {
	cfg := GetConfig()

	embedder, closers, err := newEmbedder(cfg, GetRootDir())
	if err != nil {
		return nil, err
	}
	e := &engine{embedder: embedder, closers: closers}

	list, err := loadPhrases(ctx, cfg)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.refs, err = buildReferenceSet(ctx, cfg, list, embedder, false)
	if err != nil {
		e.Close()
		return nil, err
	}

	seg, err := segmenter.New(cfg.Segmenter.Kind)
	if err != nil {
		e.Close()
		return nil, err
	}
	strategy, err := merger.New(cfg.Suggest.Merge)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.suggest = usecase.NewSuggestUseCase(seg, embedder, strategy,
		usecase.WithWorkers(cfg.Suggest.Workers),
		usecase.WithEmbedBatchSize(cfg.Embedding.BatchSize),
		usecase.WithLogger(logger.WithPrefix("suggest")),
	)
	logger.Debug("engine ready",
		"phrases", e.refs.Len(),
		"model", e.refs.ModelName(),
		"dimension", e.refs.Dimension(),
		"segmenter", cfg.Segmenter.Kind,
		"merge", strategy.Name(),
	)
	return e, nil
}

// suggestOptions applies flag overrides to the configured parameters.
func suggestOptions(threshold float64, windowSize int) usecase.SuggestOptions {
	cfg := GetConfig()
	opts := usecase.SuggestOptions{
		Threshold:  cfg.Suggest.Threshold,
		WindowSize: cfg.Suggest.WindowSize,
	}
	if threshold >= 0 {
		opts.Threshold = threshold
	}
	if windowSize != 0 {
		opts.WindowSize = windowSize
	}
	return opts
}

// readInput treats value as a path when such a file exists and as literal
// text otherwise. File content is trimmed.
func readInput(value string) (text, source string, err error) {
	if info, statErr := os.Stat(value); statErr == nil && !info.IsDir() {
		data, err := os.ReadFile(value)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(data)), value, nil
	}
	return value, "", nil
}

func cfgCachePath() string {
	return config.CacheDBPath(GetRootDir())
}

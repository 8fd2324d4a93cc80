package embedding

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"stdphrase/internal/adapter/cache"
	"stdphrase/internal/logging"
	"stdphrase/internal/port"
)

// CachedEmbedder serves embeddings from an in-memory LRU, then from an
// optional persistent cache, and only embeds the remaining texts. Inputs are
// normalized before lookup and before reaching the inner embedder.
type CachedEmbedder struct {
	inner      port.Embedder
	memory     *cache.VectorLRU
	persistent port.VectorCache
	logger     *log.Logger
}

// NewCachedEmbedder wraps inner. Either cache may be nil.
func NewCachedEmbedder(inner port.Embedder, memory *cache.VectorLRU, persistent port.VectorCache, logger *log.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		memory:     memory,
		persistent: persistent,
		logger:     logging.OrDefault(logger),
	}
}

func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	normalized := NormalizeAll(texts)
	keys := make([]string, len(texts))
	resolved := make(map[string][]float32, len(texts))
	for i, text := range normalized {
		keys[i] = e.cacheKey(text)
		if _, done := resolved[keys[i]]; done {
			continue
		}
		if e.memory != nil {
			if vec, ok := e.memory.Get(keys[i]); ok {
				resolved[keys[i]] = vec
			}
		}
	}

	if e.persistent != nil {
		var lookup []string
		for _, key := range keys {
			if _, ok := resolved[key]; !ok {
				lookup = append(lookup, key)
			}
		}
		if len(lookup) > 0 {
			found, err := e.persistent.GetVectors(lookup)
			if err != nil {
				e.logger.Warn("persistent cache read failed", "err", err)
			}
			for key, vec := range found {
				resolved[key] = vec
				if e.memory != nil {
					e.memory.Put(key, vec)
				}
			}
		}
	}

	var missTexts, missKeys []string
	pending := make(map[string]struct{})
	for i, key := range keys {
		if _, ok := resolved[key]; ok {
			continue
		}
		if _, ok := pending[key]; ok {
			continue
		}
		pending[key] = struct{}{}
		missTexts = append(missTexts, normalized[i])
		missKeys = append(missKeys, key)
	}

	if len(missTexts) > 0 {
		vectors, err := e.inner.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(missTexts) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(missTexts))
		}
		fresh := make(map[string][]float32, len(vectors))
		for i, vec := range vectors {
			resolved[missKeys[i]] = vec
			fresh[missKeys[i]] = vec
			if e.memory != nil {
				e.memory.Put(missKeys[i], vec)
			}
		}
		if e.persistent != nil {
			if err := e.persistent.PutVectors(fresh); err != nil {
				e.logger.Warn("persistent cache write failed", "err", err)
			}
		}
		e.logger.Debug("embedded texts", "requested", len(texts), "computed", len(missTexts))
	}

	out := make([][]float32, len(texts))
	for i, key := range keys {
		out[i] = cloneVector(resolved[key])
	}
	return out, nil
}

func (e *CachedEmbedder) cacheKey(text string) string {
	h := sha1.New()
	_, _ = io.WriteString(h, e.inner.ModelName())
	_, _ = io.WriteString(h, "|")
	_, _ = io.WriteString(h, text)
	return hex.EncodeToString(h.Sum(nil))
}

func (e *CachedEmbedder) Dimension() int {
	return e.inner.Dimension()
}

func (e *CachedEmbedder) ModelName() string {
	return e.inner.ModelName()
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}

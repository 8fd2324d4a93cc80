package embedding

import (
	"fmt"

	"stdphrase/config"
	"stdphrase/internal/port"
)

// FromConfig creates the embedder named by cfg.Embedding.Provider. The
// returned close function is never nil.
func FromConfig(cfg *config.Config) (port.Embedder, func() error, error) {
	noop := func() error { return nil }
	var embedder port.Embedder
	var err error

	switch cfg.Embedding.Provider {
	case "openai":
		embedder, err = NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "deepseek":
		embedder, err = NewDeepSeekEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "jina":
		embedder, err = NewJinaEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		embedder, err = NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "compatible":
		embedder, err = NewOpenAICompatibleEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "onnx":
		onnx, onnxErr := NewONNXEmbedder(ONNXConfig{
			Library:   cfg.Embedding.ONNX.Library,
			ModelPath: cfg.Embedding.ONNX.ModelPath,
			Tokenizer: cfg.Embedding.ONNX.Tokenizer,
			MaxSeqLen: cfg.Embedding.ONNX.MaxSeqLen,
			ModelID:   cfg.Embedding.Model,
		})
		if onnxErr != nil {
			return nil, noop, fmt.Errorf("failed to create embedder: %w", onnxErr)
		}
		return onnx, onnx.Close, nil
	case "hash", "":
		embedder = NewHashEmbedder(cfg.Embedding.Dimension)
	default:
		return nil, noop, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, noop, nil
}

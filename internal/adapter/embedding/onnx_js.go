//go:build js

package embedding

import (
	"context"
	"errors"
)

var errONNXUnsupported = errors.New("onnx embedder is not available in js builds")

// ONNXEmbedder is unavailable without cgo; NewONNXEmbedder always fails.
type ONNXEmbedder struct{}

func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	return nil, errONNXUnsupported
}

func (e *ONNXEmbedder) Close() error { return nil }

func (e *ONNXEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, errONNXUnsupported
}

func (e *ONNXEmbedder) Dimension() int { return 0 }

func (e *ONNXEmbedder) ModelName() string { return "" }

//go:build js

package embedding

import (
	"context"
	"errors"
	"testing"
)

func TestONNXEmbedder_UnavailableInJS(t *testing.T) {
	e, err := NewONNXEmbedder(ONNXConfig{ModelPath: "model.onnx", Tokenizer: "tokenizer.json"})
	if !errors.Is(err, errONNXUnsupported) || e != nil {
		t.Fatalf("expected errONNXUnsupported, got %v, %v", e, err)
	}
	if _, err := (&ONNXEmbedder{}).Embed(context.Background(), []string{"x"}); err == nil {
		t.Error("expected Embed to fail")
	}
}

//go:build !js

package embedding

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXEmbedder runs a sentence-transformer model locally through ONNX
// Runtime. Token embeddings are mean pooled over the attention mask and L2
// normalized.
type ONNXEmbedder struct {
	mu         sync.Mutex
	tk         *tokenizer.Tokenizer
	session    *ort.DynamicAdvancedSession
	inputNames []string
	maxSeqLen  int
	dimension  int
	modelID    string
}

var ortInitMu sync.Mutex

// NewONNXEmbedder loads the tokenizer and creates an inference session.
func NewONNXEmbedder(cfg ONNXConfig) (*ONNXEmbedder, error) {
	if cfg.ModelPath == "" || cfg.Tokenizer == "" {
		return nil, errors.New("onnx embedder requires model_path and tokenizer")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 128
	}
	if cfg.ModelID == "" {
		cfg.ModelID = strings.TrimSuffix(filepath.Base(cfg.ModelPath), filepath.Ext(cfg.ModelPath))
	}

	if err := initRuntime(cfg.Library); err != nil {
		return nil, err
	}

	tk, err := pretrained.FromFile(cfg.Tokenizer)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("inspect onnx model: %w", err)
	}
	if len(outputs) == 0 {
		return nil, errors.New("onnx model has no outputs")
	}
	inputNames := make([]string, len(inputs))
	for i, in := range inputs {
		inputNames[i] = in.Name
	}
	dimension := 0
	if dims := outputs[0].Dimensions; len(dims) > 0 && dims[len(dims)-1] > 0 {
		dimension = int(dims[len(dims)-1])
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath, inputNames, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXEmbedder{
		tk:         tk,
		session:    session,
		inputNames: inputNames,
		maxSeqLen:  cfg.MaxSeqLen,
		dimension:  dimension,
		modelID:    cfg.ModelID,
	}, nil
}

func initRuntime(library string) error {
	ortInitMu.Lock()
	defer ortInitMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	if library != "" {
		ort.SetSharedLibraryPath(library)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize onnx runtime: %w", err)
	}
	return nil
}

// Close releases the inference session.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil
	}
	err := e.session.Destroy()
	e.session = nil
	return err
}

func (e *ONNXEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch, err := e.encode(texts)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, errors.New("onnx embedder is closed")
	}

	shape := ort.NewShape(int64(len(texts)), int64(batch.seqLen))
	inputs := make([]ort.Value, 0, len(e.inputNames))
	defer func() {
		for _, v := range inputs {
			v.Destroy()
		}
	}()
	for _, name := range e.inputNames {
		var data []int64
		switch {
		case strings.Contains(name, "attention_mask"):
			data = batch.mask
		case strings.Contains(name, "token_type"):
			data = batch.typeIDs
		default:
			data = batch.ids
		}
		t, err := ort.NewTensor(shape, data)
		if err != nil {
			return nil, fmt.Errorf("create input tensor %s: %w", name, err)
		}
		inputs = append(inputs, t)
	}

	outputs := []ort.Value{nil}
	if err := e.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("onnx inference failed: %w", err)
	}
	defer outputs[0].Destroy()

	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("unexpected onnx output type")
	}
	outShape := out.GetShape()
	if len(outShape) != 3 {
		return nil, fmt.Errorf("expected rank-3 token embeddings, got shape %v", outShape)
	}
	hidden := int(outShape[2])
	e.dimension = hidden

	return meanPool(out.GetData(), batch.mask, len(texts), batch.seqLen, hidden), nil
}

type encodedBatch struct {
	ids     []int64
	mask    []int64
	typeIDs []int64
	seqLen  int
}

// encode tokenizes texts and right-pads them to the longest sequence.
func (e *ONNXEmbedder) encode(texts []string) (encodedBatch, error) {
	encodings := make([]*tokenizer.Encoding, len(texts))
	seqLen := 1
	for i, text := range texts {
		en, err := e.tk.EncodeSingle(NormalizeText(text), true)
		if err != nil {
			return encodedBatch{}, fmt.Errorf("tokenize %q: %w", text, err)
		}
		encodings[i] = en
		n := len(en.Ids)
		if n > e.maxSeqLen {
			n = e.maxSeqLen
		}
		if n > seqLen {
			seqLen = n
		}
	}

	b := encodedBatch{
		ids:     make([]int64, len(texts)*seqLen),
		mask:    make([]int64, len(texts)*seqLen),
		typeIDs: make([]int64, len(texts)*seqLen),
		seqLen:  seqLen,
	}
	for i, en := range encodings {
		ids := truncate(en.Ids, e.maxSeqLen)
		row := i * seqLen
		for j, id := range ids {
			b.ids[row+j] = int64(id)
			b.mask[row+j] = 1
			if j < len(en.TypeIds) {
				b.typeIDs[row+j] = int64(en.TypeIds[j])
			}
		}
	}
	return b, nil
}

func (e *ONNXEmbedder) Dimension() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimension
}

func (e *ONNXEmbedder) ModelName() string {
	return e.modelID
}

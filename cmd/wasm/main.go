//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"syscall/js"

	"stdphrase/internal/adapter/embedding"
	"stdphrase/internal/adapter/matcher"
	"stdphrase/internal/adapter/memstore"
	"stdphrase/internal/adapter/merger"
	"stdphrase/internal/adapter/segmenter"
	"stdphrase/internal/domain"
	"stdphrase/internal/usecase"
)

var (
	embedder = embedding.NewCachedEmbedder(embedding.NewHashEmbedder(384), nil, memstore.NewVectorStore(), nil)
	refs     *matcher.ReferenceSet
	engine   = usecase.NewSuggestUseCase(segmenter.NewSimple(), embedder, merger.NewLocalGreedy(), usecase.WithWorkers(1))
)

func main() {
	c := make(chan struct{})

	js.Global().Set("stdphraseLoad", js.FuncOf(loadPhrases))
	js.Global().Set("stdphraseSuggest", js.FuncOf(suggest))
	js.Global().Set("stdphraseApply", js.FuncOf(apply))
	js.Global().Set("stdphraseStats", js.FuncOf(getStats))

	<-c
}

func loadPhrases(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return makeError("usage: stdphraseLoad(phrasesArray)")
	}

	list := make([]string, 0, args[0].Length())
	for i := 0; i < args[0].Length(); i++ {
		if p := args[0].Index(i).String(); p != "" {
			list = append(list, p)
		}
	}

	set, err := matcher.LoadReferenceSet(context.Background(), list, embedder)
	if err != nil {
		return makeError("loading failed: " + err.Error())
	}
	refs = set

	return makeResult(map[string]interface{}{
		"success": true,
		"phrases": refs.Len(),
	})
}

func suggest(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: stdphraseSuggest(text, [threshold], [windowSize])")
	}

	opts := usecase.DefaultSuggestOptions()
	if len(args) > 1 {
		opts.Threshold = args[1].Float()
	}
	if len(args) > 2 {
		opts.WindowSize = args[2].Int()
	}

	suggestions, err := engine.Suggest(context.Background(), args[0].String(), refs, opts)
	if err != nil {
		return makeError("suggest failed: " + err.Error())
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	return makeResult(map[string]interface{}{
		"suggestions": suggestions,
	})
}

func apply(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeError("usage: stdphraseApply(text, suggestionsJSON, [ignoreArray])")
	}

	var suggestions []domain.Suggestion
	if err := json.Unmarshal([]byte(args[1].String()), &suggestions); err != nil {
		return makeError("invalid suggestions: " + err.Error())
	}

	ignore := make(map[int]struct{})
	if len(args) > 2 && args[2].Type() == js.TypeObject {
		for i := 0; i < args[2].Length(); i++ {
			ignore[args[2].Index(i).Int()] = struct{}{}
		}
	}

	return makeResult(map[string]interface{}{
		"output": usecase.Apply(args[0].String(), suggestions, ignore),
	})
}

func getStats(this js.Value, args []js.Value) interface{} {
	return makeResult(map[string]interface{}{
		"phrases":   refs.Len(),
		"model":     embedder.ModelName(),
		"dimension": embedder.Dimension(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}

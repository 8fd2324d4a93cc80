package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"stdphrase/config"
	"stdphrase/internal/adapter/embedding"
	"stdphrase/internal/adapter/matcher"
	"stdphrase/internal/adapter/phrases"
)

func main() {
	dir := flag.String("dir", ".", "Project directory holding stdphrase.yaml")
	query := flag.String("q", "", "Phrase to test")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -q \"phrase\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding backend (connection, dimension, throughput)")
		fmt.Println("  2. Phrase similarity (query vs canonical phrases)")
		fmt.Println("  3. Threshold fit (how many phrases clear the configured threshold)")
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	src, closeSrc, err := phrases.Open(ctx, cfg.Phrases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening phrases: %v\n", err)
		os.Exit(1)
	}
	list, err := src.Load(ctx)
	closeSrc()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading phrases: %v\n", err)
		os.Exit(1)
	}

	embedder, closeEmb, err := embedding.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedder not available: %v\n", err)
		os.Exit(1)
	}
	defer closeEmb()

	fmt.Println("PHRASE SIMILARITY BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))

	start := time.Now()
	refs, err := matcher.LoadReferenceSet(ctx, list, embedder, matcher.WithBatchSize(cfg.Embedding.BatchSize))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding error: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	fmt.Printf("Phrases embedded: %d in %s (%.1f/s)\n", refs.Len(), elapsed.Round(time.Millisecond), float64(refs.Len())/elapsed.Seconds())
	fmt.Printf("Model: %s (%s)\n", refs.ModelName(), cfg.Embedding.Provider)
	fmt.Printf("Dimension: %d\n", refs.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	results, err := matcher.NewPhraseMatcher(refs, embedder).Rank(ctx, *query, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ranking error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Top %d matches:\n\n", len(results))

	totalScore := 0.0
	above := 0
	for i, r := range results {
		totalScore += r.Score
		if r.Score >= cfg.Suggest.Threshold {
			above++
		}

		rating := "LOW"
		if r.Score > 0.7 {
			rating = "HIGH"
		} else if r.Score > 0.5 {
			rating = "GOOD"
		} else if r.Score > 0.3 {
			rating = "OK"
		}

		fmt.Printf("%d. [%s %.3f] %s (row %d)\n", i+1, rating, r.Score, r.Phrase, r.Index)
	}

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].Score)
	fmt.Printf("  Above threshold:    %d (threshold %.2f)\n", above, cfg.Suggest.Threshold)

	if results[0].Score >= cfg.Suggest.Threshold {
		fmt.Println("  Status: MATCH - the engine would suggest the top phrase")
	} else {
		fmt.Println("  Status: NO MATCH - raise recall by lowering suggest.threshold")
	}
}

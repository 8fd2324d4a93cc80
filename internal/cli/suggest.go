package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stdphrase/internal/adapter/fs"
	"stdphrase/internal/domain"
)

var (
	suggestInput     string
	suggestGlobs     []string
	suggestExclude   []string
	suggestThreshold float64
	suggestWindow    int
	suggestJSON      bool
	suggestApply     bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "List standardised phrase suggestions",
	Long: `Run the suggestion engine over text and print the suggestions.

--input is read as a file when the path exists and used as literal text
otherwise. With --glob, every matching file under --dir is processed.

Examples:
  stdphrase suggest --input "we need to do better"
  stdphrase suggest --input minutes.txt --threshold 0.5 --json
  stdphrase suggest --glob "minutes/**/*.txt" --json`,
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVarP(&suggestInput, "input", "i", "", "input text or path to a text file")
	suggestCmd.Flags().StringSliceVar(&suggestGlobs, "glob", nil, "doublestar patterns of documents under --dir")
	suggestCmd.Flags().StringSliceVar(&suggestExclude, "exclude", nil, "doublestar patterns to skip")
	suggestCmd.Flags().Float64Var(&suggestThreshold, "threshold", -1, "minimum score (default from config)")
	suggestCmd.Flags().IntVarP(&suggestWindow, "window", "w", 0, "window size in words (default from config)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "output as JSON")
	suggestCmd.Flags().BoolVar(&suggestApply, "apply", false, "include the text with every suggestion applied")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if suggestInput == "" && len(suggestGlobs) == 0 {
		return fmt.Errorf("either --input or --glob is required")
	}
	ctx := cmd.Context()

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	opts := suggestOptions(suggestThreshold, suggestWindow)
	var reports []*domain.Report

	if suggestInput != "" {
		text, source, err := readInput(suggestInput)
		if err != nil {
			return err
		}
		report, err := eng.suggest.Report(ctx, source, text, eng.refs, opts, suggestApply)
		if err != nil {
			return fmt.Errorf("suggest failed: %w", err)
		}
		reports = append(reports, report)
	}

	if len(suggestGlobs) > 0 {
		walker, err := fs.NewWalker(suggestGlobs, suggestExclude)
		if err != nil {
			return err
		}
		docs, err := walker.Walk(GetRootDir())
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
		for _, doc := range docs {
			text, err := fs.ReadText(doc.Path)
			if err != nil {
				logger.Warn("skipping document", "path", doc.Rel, "err", err)
				continue
			}
			report, err := eng.suggest.Report(ctx, doc.Rel, text, eng.refs, opts, suggestApply)
			if err != nil {
				return fmt.Errorf("suggest failed for %s: %w", doc.Rel, err)
			}
			reports = append(reports, report)
		}
		logger.Info("documents processed", "count", len(docs))
	}

	if suggestJSON {
		var v any = reports
		if len(reports) == 1 && len(suggestGlobs) == 0 {
			v = reports[0]
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	for _, r := range reports {
		printReport(r)
	}
	return nil
}

func printReport(r *domain.Report) {
	if r.Source != "" {
		fmt.Printf("=== %s ===\n", r.Source)
	}
	if len(r.Suggestions) == 0 {
		fmt.Println("No suggestions.")
		fmt.Println()
		return
	}
	fmt.Printf("Found %d suggestions (threshold %.2f, window %d):\n\n", len(r.Suggestions), r.Threshold, r.WindowSize)
	for i, s := range r.Suggestions {
		fmt.Printf("[%d] %q -> %q (score: %.4f)\n", i, s.InputPhrase, s.SuggestedPhrase, s.Score)
	}
	if r.Output != "" {
		fmt.Println()
		fmt.Println(r.Output)
	}
	fmt.Println()
}

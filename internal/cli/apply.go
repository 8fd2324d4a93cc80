package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stdphrase/internal/domain"
	"stdphrase/internal/usecase"
)

var (
	applyInput       string
	applySuggestions string
	applyIgnore      []string
	applyOutput      string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a saved suggestion report to text",
	Long: `Apply the suggestions from a report written by "suggest --json". Indexes
listed in --ignore are skipped; every other suggestion is applied in order.

Examples:
  stdphrase suggest --input minutes.txt --json > report.json
  stdphrase apply --input minutes.txt --suggestions report.json --ignore 1,3`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyInput, "input", "i", "", "input text or path to a text file (required)")
	applyCmd.Flags().StringVarP(&applySuggestions, "suggestions", "s", "", "suggestion report JSON (required)")
	applyCmd.Flags().StringSliceVar(&applyIgnore, "ignore", nil, "suggestion indexes to skip")
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "write the result to a file instead of stdout")
	applyCmd.MarkFlagRequired("input")
	applyCmd.MarkFlagRequired("suggestions")
}

func runApply(cmd *cobra.Command, args []string) error {
	text, source, err := readInput(applyInput)
	if err != nil {
		return err
	}

	suggestions, err := readSuggestions(applySuggestions, source)
	if err != nil {
		return err
	}
	ignore, err := parseIgnore(applyIgnore)
	if err != nil {
		return err
	}

	result := usecase.Apply(text, suggestions, ignore)
	if applyOutput != "" {
		if err := os.WriteFile(applyOutput, []byte(result+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("result written", "path", applyOutput, "applied", len(suggestions)-countIgnored(ignore, len(suggestions)))
		return nil
	}
	fmt.Println(result)
	return nil
}

// readSuggestions accepts a full report, a bare suggestion array, or the
// report array written by "suggest --glob --json". For a report array the
// entry whose source matches the input path is used.
func readSuggestions(path, source string) ([]domain.Suggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(trimmed, "[") {
		var report domain.Report
		if err := json.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("failed to parse suggestion report: %w", err)
		}
		return report.Suggestions, nil
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	if _, ok := items[0]["suggestions"]; ok {
		var reports []domain.Report
		if err := json.Unmarshal(data, &reports); err != nil {
			return nil, fmt.Errorf("failed to parse suggestion reports: %w", err)
		}
		return pickReport(reports, source)
	}

	var list []domain.Suggestion
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	for i, s := range list {
		if s.InputPhrase == "" {
			return nil, fmt.Errorf("suggestion %d has no input_phrase", i)
		}
	}
	return list, nil
}

func pickReport(reports []domain.Report, source string) ([]domain.Suggestion, error) {
	if len(reports) == 1 {
		return reports[0].Suggestions, nil
	}
	if source != "" {
		want := filepath.ToSlash(filepath.Clean(source))
		for _, r := range reports {
			rel := filepath.ToSlash(filepath.Clean(r.Source))
			if want == rel || strings.HasSuffix(want, "/"+rel) {
				return r.Suggestions, nil
			}
		}
	}
	return nil, fmt.Errorf("report array has %d documents and none matches input %q", len(reports), source)
}

func parseIgnore(values []string) (map[int]struct{}, error) {
	ignore := make(map[int]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid --ignore index %q", v)
		}
		ignore[i] = struct{}{}
	}
	return ignore, nil
}

func countIgnored(ignore map[int]struct{}, n int) int {
	count := 0
	for i := range ignore {
		if i >= 0 && i < n {
			count++
		}
	}
	return count
}

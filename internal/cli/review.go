package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"stdphrase/internal/domain"
	"stdphrase/internal/usecase"
)

const snippetContext = 10

var (
	reviewInput     string
	reviewThreshold float64
	reviewWindow    int
	reviewYes       bool
	reviewOutput    string
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review suggestions one by one and apply the accepted ones",
	Long: `Show each suggestion in context and ask whether to apply it. Any answer
other than "y" rejects the suggestion. The rewritten text is printed, or
written to --output.

Examples:
  stdphrase review --input minutes.txt
  stdphrase review --input minutes.txt --yes -o minutes.std.txt`,
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.Flags().StringVarP(&reviewInput, "input", "i", "", "input text or path to a text file (required)")
	reviewCmd.Flags().Float64Var(&reviewThreshold, "threshold", -1, "minimum score (default from config)")
	reviewCmd.Flags().IntVarP(&reviewWindow, "window", "w", 0, "window size in words (default from config)")
	reviewCmd.Flags().BoolVarP(&reviewYes, "yes", "y", false, "accept every suggestion without prompting")
	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "", "write the result to a file instead of stdout")
	reviewCmd.MarkFlagRequired("input")
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	text, _, err := readInput(reviewInput)
	if err != nil {
		return err
	}

	eng, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer eng.Close()

	suggestions, err := eng.suggest.Suggest(ctx, text, eng.refs, suggestOptions(reviewThreshold, reviewWindow))
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	styled := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	r := &reviewer{in: bufio.NewReader(os.Stdin), out: os.Stdout, styles: newReviewStyles(styled), acceptAll: reviewYes}
	ignore := r.Review(text, suggestions)

	result := usecase.Apply(text, suggestions, ignore)
	logger.Debug("review complete", "suggestions", len(suggestions), "rejected", len(ignore))

	if reviewOutput != "" {
		if err := os.WriteFile(reviewOutput, []byte(result+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("result written", "path", reviewOutput)
		return nil
	}
	fmt.Println(result)
	return nil
}

type reviewStyles struct {
	term       lipgloss.Style
	suggestion lipgloss.Style
	score      lipgloss.Style
	prompt     lipgloss.Style
	enabled    bool
}

func newReviewStyles(enabled bool) reviewStyles {
	return reviewStyles{
		term:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		suggestion: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		score:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		enabled:    enabled,
	}
}

func (s reviewStyles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// reviewer prompts for each suggestion and collects the rejected indexes.
type reviewer struct {
	in        *bufio.Reader
	out       io.Writer
	styles    reviewStyles
	acceptAll bool
}

// Review returns the set of suggestion indexes the user rejected. Input that
// ends early rejects the remaining suggestions.
func (r *reviewer) Review(text string, suggestions []domain.Suggestion) map[int]struct{} {
	ignore := make(map[int]struct{})
	for i, s := range suggestions {
		fmt.Fprint(r.out, r.highlight(text, s))
		if r.acceptAll {
			fmt.Fprintln(r.out)
			continue
		}

		fmt.Fprint(r.out, r.styles.render(r.styles.prompt, "Do you want to apply suggestion? (y/n) "))
		answer, err := r.in.ReadString('\n')
		if strings.TrimSpace(answer) != "y" {
			ignore[i] = struct{}{}
		}
		fmt.Fprintln(r.out)
		if err != nil && strings.TrimSpace(answer) == "" {
			for j := i + 1; j < len(suggestions); j++ {
				ignore[j] = struct{}{}
			}
			break
		}
	}
	return ignore
}

// highlight renders the context snippet, a caret under the original phrase
// with the suggestion, and the score on the line below.
func (r *reviewer) highlight(text string, s domain.Suggestion) string {
	snippet, offset := contextSnippet(text, s.InputPhrase, snippetContext)
	if r.styles.enabled && offset >= 0 {
		prefix := snippet[:runeByteOffset(snippet, offset)]
		rest := strings.TrimPrefix(snippet[len(prefix):], s.InputPhrase)
		snippet = prefix + r.styles.render(r.styles.term, s.InputPhrase) + rest
	}
	pad := strings.Repeat(" ", max(offset, 0))

	var b strings.Builder
	b.WriteString(snippet + "\n")
	b.WriteString(pad + "^ " + r.styles.render(r.styles.suggestion, s.SuggestedPhrase) + "\n")
	b.WriteString(pad + r.styles.render(r.styles.score, fmt.Sprintf("%.4f", s.Score)) + "\n")
	return b.String()
}

// contextSnippet cuts up to width runes either side of the first occurrence
// of term, marking cut edges with "...". It returns the snippet and the rune
// offset of term inside it, or -1 when term does not occur.
func contextSnippet(text, term string, width int) (string, int) {
	runes := []rune(text)
	idx := strings.Index(text, term)
	if idx < 0 {
		end := min(len(runes), utf8.RuneCountInString(term)+width)
		snippet := string(runes[:end])
		if end != len(runes) {
			snippet += "..."
		}
		return snippet, -1
	}

	termStart := utf8.RuneCountInString(text[:idx])
	termEnd := termStart + utf8.RuneCountInString(term)
	start := max(0, termStart-width)
	end := min(len(runes), termEnd+width)

	snippet := string(runes[start:end])
	offset := termStart - start
	if start != 0 {
		snippet = "..." + snippet
		offset += 3
	}
	if end != len(runes) {
		snippet += "..."
	}
	return snippet, offset
}

func runeByteOffset(s string, runeOffset int) int {
	i := 0
	for pos := range s {
		if i == runeOffset {
			return pos
		}
		i++
	}
	return len(s)
}

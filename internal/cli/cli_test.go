package cli

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stdphrase/config"
	"stdphrase/internal/domain"
)

func TestContextSnippet(t *testing.T) {
	tests := []struct {
		text, term string
		want       string
		offset     int
	}{
		{
			"We came to the consensus that we need to do better in terms of performance.",
			"do better",
			"...e need to do better in terms ...",
			13,
		},
		{"do better now", "do better", "do better now", 0},
		{"café is where we do better", "do better", "... where we do better", 13},
		{"no match at all in this text", "xyz", "no match at a...", -1},
	}
	for _, tt := range tests {
		got, offset := contextSnippet(tt.text, tt.term, 10)
		if got != tt.want || offset != tt.offset {
			t.Errorf("contextSnippet(%q, %q) = %q, %d; want %q, %d", tt.text, tt.term, got, offset, tt.want, tt.offset)
		}
	}
}

func TestReviewer_Highlight(t *testing.T) {
	r := &reviewer{styles: newReviewStyles(false)}
	got := r.highlight("we should do better", domain.Suggestion{
		InputPhrase:     "do better",
		SuggestedPhrase: "optimal performance",
		Score:           0.5,
	})
	want := "we should do better\n" +
		"          ^ optimal performance\n" +
		"          0.5000\n"
	if got != want {
		t.Errorf("highlight() =\n%s\nwant\n%s", got, want)
	}
}

func TestReviewer_Review(t *testing.T) {
	text := "We need to do better and reach our goals and plan ahead."
	suggestions := []domain.Suggestion{
		{InputPhrase: "do better", SuggestedPhrase: "optimal performance", Score: 0.5},
		{InputPhrase: "reach our goals", SuggestedPhrase: "achieve objectives", Score: 0.6},
		{InputPhrase: "plan ahead", SuggestedPhrase: "forward planning", Score: 0.7},
	}

	var out bytes.Buffer
	r := &reviewer{in: bufio.NewReader(strings.NewReader("y\nyes\n")), out: &out, styles: newReviewStyles(false)}
	ignore := r.Review(text, suggestions)

	// "yes" is not "y", and the third prompt hits end of input.
	if _, ok := ignore[0]; ok {
		t.Error("suggestion 0 should be accepted")
	}
	if _, ok := ignore[1]; !ok {
		t.Error("suggestion 1 should be rejected")
	}
	if _, ok := ignore[2]; !ok {
		t.Error("suggestion 2 should be rejected at end of input")
	}
	if c := strings.Count(out.String(), "Do you want to apply suggestion? (y/n)"); c != 3 {
		t.Errorf("expected 3 prompts, got %d", c)
	}
}

func TestReviewer_AcceptAll(t *testing.T) {
	var out bytes.Buffer
	r := &reviewer{in: bufio.NewReader(strings.NewReader("")), out: &out, styles: newReviewStyles(false), acceptAll: true}
	ignore := r.Review("do better", []domain.Suggestion{{InputPhrase: "do better", SuggestedPhrase: "improve"}})
	if len(ignore) != 0 {
		t.Errorf("expected nothing ignored, got %v", ignore)
	}
	if strings.Contains(out.String(), "(y/n)") {
		t.Error("acceptAll should not prompt")
	}
}

func TestParseIgnore(t *testing.T) {
	got, err := parseIgnore([]string{"1", " 3", ""})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 indexes, got %v", got)
	}
	if _, err := parseIgnore([]string{"one"}); err == nil {
		t.Error("expected error for non-numeric index")
	}
	if n := countIgnored(map[int]struct{}{0: {}, 5: {}, -1: {}}, 3); n != 1 {
		t.Errorf("countIgnored = %d, want 1", n)
	}
}

func TestReadSuggestions(t *testing.T) {
	dir := t.TempDir()

	report := filepath.Join(dir, "report.json")
	if err := os.WriteFile(report, []byte(`{"source":"x","suggestions":[{"input_phrase":"do better","suggested_phrase":"improve","score":0.5}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := readSuggestions(report, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SuggestedPhrase != "improve" {
		t.Errorf("unexpected suggestions %+v", got)
	}

	bare := filepath.Join(dir, "bare.json")
	if err := os.WriteFile(bare, []byte(` [{"input_phrase":"a","suggested_phrase":"b","score":0.9}]`), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = readSuggestions(bare, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].InputPhrase != "a" {
		t.Errorf("unexpected suggestions %+v", got)
	}
}

func TestReadSuggestions_ReportArray(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glob.json")
	data := `[
  {"source":"docs/a.txt","suggestions":[{"input_phrase":"do better","suggested_phrase":"improve","score":0.5}]},
  {"source":"docs/b.txt","suggestions":[{"input_phrase":"key people","suggested_phrase":"stakeholders","score":0.7}]}
]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := readSuggestions(path, filepath.Join("project", "docs", "b.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SuggestedPhrase != "stakeholders" {
		t.Errorf("expected the docs/b.txt suggestions, got %+v", got)
	}

	if _, err := readSuggestions(path, "other.txt"); err == nil {
		t.Error("expected error when no report matches the input")
	}
	if _, err := readSuggestions(path, ""); err == nil {
		t.Error("expected error for literal input with several reports")
	}
}

func TestReadSuggestions_RejectsEmptyEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`[{"score":0.5}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readSuggestions(path, ""); err == nil {
		t.Error("expected error for an entry without input_phrase")
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutes.txt")
	if err := os.WriteFile(path, []byte("\n  we should do better \n"), 0644); err != nil {
		t.Fatal(err)
	}
	text, source, err := readInput(path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "we should do better" || source != path {
		t.Errorf("readInput(file) = %q, %q", text, source)
	}

	text, source, err = readInput("we should do better")
	if err != nil {
		t.Fatal(err)
	}
	if text != "we should do better" || source != "" {
		t.Errorf("readInput(literal) = %q, %q", text, source)
	}
}

func TestSuggestOptions_FlagOverrides(t *testing.T) {
	cfg = config.DefaultConfig()
	defer func() { cfg = nil }()

	opts := suggestOptions(-1, 0)
	if opts.Threshold != 0.45 || opts.WindowSize != 3 {
		t.Errorf("expected config defaults, got %+v", opts)
	}
	opts = suggestOptions(0.6, 2)
	if opts.Threshold != 0.6 || opts.WindowSize != 2 {
		t.Errorf("expected flag values, got %+v", opts)
	}
}

func TestPhraseFlagsOverrideConfig(t *testing.T) {
	defer func() { phrasesSrc, phraseCol, logLevel = "", "", "" }()

	if err := rootCmd.PersistentFlags().Parse([]string{"--phrases", "terms.csv", "--column", "Preferred"}); err != nil {
		t.Fatal(err)
	}
	c := config.DefaultConfig()
	applyFlagOverrides(c)
	if c.Phrases.Source != "terms.csv" {
		t.Errorf("expected source terms.csv, got %q", c.Phrases.Source)
	}
	if c.Phrases.Column != "Preferred" {
		t.Errorf("expected column Preferred, got %q", c.Phrases.Column)
	}

	phrasesSrc, phraseCol = "", ""
	c = config.DefaultConfig()
	applyFlagOverrides(c)
	if c.Phrases.Source != config.DefaultConfig().Phrases.Source || c.Phrases.Column != "Optimal performance" {
		t.Errorf("unset flags must keep config values, got %+v", c.Phrases)
	}
}

package segmenter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"stdphrase/internal/port"
)

// Punkt segments English text with the pretrained Punkt model, which knows
// common abbreviations ("Dr.", "e.g.") and initials.
type Punkt struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func NewPunkt() (*Punkt, error) {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load punkt model: %w", err)
	}
	return &Punkt{tokenizer: tokenizer}, nil
}

func (p *Punkt) Segment(text string) ([]string, error) {
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

var sentenceEndRegex = regexp.MustCompile(`([.!?]+["')\]]*)(\s+|$)`)

// Simple splits after runs of terminal punctuation followed by whitespace or
// end of text. It has no abbreviation handling.
type Simple struct{}

func NewSimple() *Simple {
	return &Simple{}
}

func (Simple) Segment(text string) ([]string, error) {
	var out []string
	last := 0
	for _, loc := range sentenceEndRegex.FindAllStringSubmatchIndex(text, -1) {
		end := loc[3] // end of the punctuation group
		if trimmed := strings.TrimSpace(text[last:end]); trimmed != "" {
			out = append(out, trimmed)
		}
		last = loc[1]
	}
	if trimmed := strings.TrimSpace(text[last:]); trimmed != "" {
		out = append(out, trimmed)
	}
	return out, nil
}

// New returns the segmenter registered under kind.
func New(kind string) (port.SentenceSegmenter, error) {
	switch kind {
	case "", "punkt":
		return NewPunkt()
	case "simple":
		return NewSimple(), nil
	default:
		return nil, fmt.Errorf("unknown segmenter: %s", kind)
	}
}

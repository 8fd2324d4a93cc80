package window

import (
	"errors"
	"testing"

	"stdphrase/internal/domain"
)

func TestExtractorBasic(t *testing.T) {
	ext, err := NewExtractor(3)
	if err != nil {
		t.Fatal(err)
	}

	windows := ext.Extract("we should do better")
	want := []domain.Window{
		{Text: "we should do", Start: 0, End: 3},
		{Text: "should do better", Start: 1, End: 4},
	}
	if len(windows) != len(want) {
		t.Fatalf("expected %d windows, got %d: %v", len(want), len(windows), windows)
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("window %d: got %+v, want %+v", i, windows[i], want[i])
		}
	}
}

func TestExtractorShortSentence(t *testing.T) {
	for k := 1; k <= 6; k++ {
		ext, err := NewExtractor(k)
		if err != nil {
			t.Fatal(err)
		}
		sentences := []string{"", "   ", "one", "one two", "one two three four five"}
		for _, s := range sentences {
			n := len(Words(s))
			if n >= k {
				continue
			}
			if got := ext.Extract(s); len(got) != 0 {
				t.Errorf("k=%d sentence=%q: expected no windows, got %v", k, s, got)
			}
		}
	}
}

func TestExtractorExactLength(t *testing.T) {
	ext, _ := NewExtractor(2)
	windows := ext.Extract("do better")
	if len(windows) != 1 || windows[0].Text != "do better" {
		t.Errorf("expected single window 'do better', got %v", windows)
	}
}

func TestExtractorCollapsesWhitespace(t *testing.T) {
	ext, _ := NewExtractor(2)
	windows := ext.Extract("  do\tbetter \n now ")
	if len(windows) != 2 {
		t.Fatalf("expected 2 windows, got %v", windows)
	}
	if windows[0].Text != "do better" || windows[1].Text != "better now" {
		t.Errorf("unexpected window text: %v", windows)
	}
}

func TestExtractorKeepsPunctuation(t *testing.T) {
	ext, _ := NewExtractor(2)
	windows := ext.Extract("We must do better.")
	last := windows[len(windows)-1]
	if last.Text != "do better." {
		t.Errorf("expected punctuation kept on last word, got %q", last.Text)
	}
}

func TestExtractorRestartable(t *testing.T) {
	ext, _ := NewExtractor(1)
	seq := ext.Windows("a b c")

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 3 || second != 3 {
		t.Errorf("expected 3 windows on each pass, got %d and %d", first, second)
	}

	// Early break stops the sequence.
	n := 0
	for range seq {
		n++
		break
	}
	if n != 1 {
		t.Errorf("expected early break after 1 window, got %d", n)
	}
}

func TestNewExtractorInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -10} {
		_, err := NewExtractor(size)
		if !errors.Is(err, domain.ErrInvalidWindowSize) {
			t.Errorf("size %d: expected ErrInvalidWindowSize, got %v", size, err)
		}
	}
}

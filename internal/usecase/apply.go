package usecase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"stdphrase/internal/domain"
)

// Apply rewrites original with every suggestion whose index is not in
// ignore. Each replacement runs on the output of the previous one, so all
// accepted suggestions compose into the result.
//
// Matching is literal and case sensitive. Every non-overlapping occurrence of
// the input phrase is replaced, scanning left to right. An edge of the phrase
// that is a word character (letter, digit or underscore) must sit on a word
// boundary; an edge that is punctuation matches wherever it occurs.
func Apply(original string, suggestions []domain.Suggestion, ignore map[int]struct{}) string {
	output := original
	for i, s := range suggestions {
		if _, skip := ignore[i]; skip {
			continue
		}
		output = ReplaceWholeWord(output, s.InputPhrase, s.SuggestedPhrase)
	}
	return output
}

// ReplaceWholeWord replaces every boundary-respecting occurrence of phrase in
// text with replacement. Replacement text is never rescanned.
func ReplaceWholeWord(text, phrase, replacement string) string {
	if phrase == "" {
		return text
	}
	first, _ := utf8.DecodeRuneInString(phrase)
	last, _ := utf8.DecodeLastRuneInString(phrase)
	needLeft := isWordRune(first)
	needRight := isWordRune(last)

	var b strings.Builder
	pos := 0
	replaced := false
	for pos <= len(text) {
		idx := strings.Index(text[pos:], phrase)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(phrase)

		if (needLeft && !leftBoundary(text, start)) || (needRight && !rightBoundary(text, end)) {
			// Step one rune past the rejected start and keep looking.
			_, size := utf8.DecodeRuneInString(text[start:])
			b.WriteString(text[pos : start+size])
			pos = start + size
			continue
		}

		b.WriteString(text[pos:start])
		b.WriteString(replacement)
		pos = end
		replaced = true
	}
	if !replaced {
		return text
	}
	b.WriteString(text[pos:])
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func leftBoundary(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

func rightBoundary(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(r)
}

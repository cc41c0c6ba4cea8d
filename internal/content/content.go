// Package content holds the normalized text representation shared by the
// fetcher, the extractors and the orchestrator, together with the quality
// thresholds every input has to pass before keyword extraction.
package content

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	// MinChars and MinWords gate content quality.
	MinChars = 100
	MinWords = 20
	// MaxChars bounds downstream extraction cost.
	MaxChars = 50_000
	// PreviewChars is the default preview length used by API projections.
	PreviewChars = 1000
)

// ErrTooShort reports input below MinChars or MinWords.
var ErrTooShort = errors.New("content too short or insufficient for keyword extraction")

// Normalized is validated plain text ready for keyword extraction.
type Normalized struct {
	Text      string
	WordCount int
	FetchTime time.Duration
	IsValid   bool
}

// New measures text and truncates it to MaxChars. Word count and validity
// are computed on the untruncated text.
func New(text string, fetchTime time.Duration) Normalized {
	words := CountWords(text)
	return Normalized{
		Text:      Truncate(text, MaxChars),
		WordCount: words,
		FetchTime: fetchTime,
		IsValid:   Len(text) >= MinChars && words >= MinWords,
	}
}

// FromText sanitizes and normalizes raw submitted text. The returned
// Normalized is populated even when ErrTooShort is returned.
func FromText(raw string) (Normalized, error) {
	n := New(Normalize(Sanitize(raw)), 0)
	if !n.IsValid {
		return n, ErrTooShort
	}
	return n, nil
}

// CountWords returns the number of whitespace separated tokens.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Len returns the length of s in characters.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns at most max characters of s.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// Preview returns text unchanged when it fits in maxLen characters, otherwise
// the first maxLen characters followed by "...".
func Preview(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = PreviewChars
	}
	if Len(text) <= maxLen {
		return text
	}
	return Truncate(text, maxLen) + "..."
}

// Normalize applies NFKC, collapses runs of blanks inside a line to a single
// space, collapses runs of line breaks to a single newline and trims.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' || r == '\f' || r == '\v' })
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return strings.Join(out, "\n")
}

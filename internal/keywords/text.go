package keywords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type span struct{ start, end int }

// wordSpans returns the byte ranges of whitespace-separated tokens.
func wordSpans(s string) []span {
	var out []span
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, span{start, len(s)})
	}
	return out
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// trimEdges strips characters that are neither letters nor digits from both
// ends. A currency sign before a digit and a percent sign after one survive.
func trimEdges(s string) string {
	s = strings.TrimSpace(s)
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if isWordRune(r) {
			break
		}
		if unicode.Is(unicode.Sc, r) {
			if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsDigit(next) {
				break
			}
		}
		s = s[size:]
	}
	for s != "" {
		r, size := utf8.DecodeLastRuneInString(s)
		if isWordRune(r) {
			break
		}
		if r == '%' {
			if prev, _ := utf8.DecodeLastRuneInString(s[:len(s)-size]); unicode.IsDigit(prev) {
				break
			}
		}
		s = s[:len(s)-size]
	}
	return s
}

// clipWords keeps the first max tokens of s as a literal prefix.
func clipWords(s string, max int) string {
	spans := wordSpans(s)
	if len(spans) <= max || max <= 0 {
		return s
	}
	return s[:spans[max-1].end]
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "with": true,
	"by": true, "from": true, "as": true, "its": true, "their": true, "our": true,
	"is": true, "are": true, "was": true, "that": true, "which": true,
}

// dropTrailingStopWords removes dangling connectives left by clipping, so
// "funding in" becomes "funding".
func dropTrailingStopWords(s string) string {
	for {
		spans := wordSpans(s)
		if len(spans) < 2 {
			return s
		}
		last := spans[len(spans)-1]
		// Case-sensitive so "Series A" keeps its letter.
		if !stopWords[s[last.start:last.end]] {
			return s
		}
		s = trimEdges(s[:spans[len(spans)-2].end])
	}
}

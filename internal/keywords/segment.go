package keywords

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var sentenceBreak = regexp.MustCompile(`[.!?]+|\n`)

// Segments splits text into sentences and, for sentences with commas, their
// clauses. Only segments whose length lies in [minChars, maxChars] are
// returned, sentences before their clauses.
func Segments(text string, minChars, maxChars int) []string {
	inBand := func(s string) bool {
		n := utf8.RuneCountInString(s)
		return n >= minChars && n <= maxChars
	}
	var out []string
	for _, sentence := range sentenceBreak.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if inBand(sentence) {
			out = append(out, sentence)
		}
		clauses := strings.Split(sentence, ",")
		if len(clauses) < 2 {
			continue
		}
		for _, c := range clauses {
			if c = strings.TrimSpace(c); inBand(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// cueWindow returns seg when it is short enough, otherwise the part of seg
// starting at the word that contains the first cue match.
func cueWindow(seg string, cue *regexp.Regexp, maxWords int) (string, bool) {
	loc := cue.FindStringIndex(seg)
	if loc == nil {
		return "", false
	}
	if len(wordSpans(seg)) <= maxWords {
		return seg, true
	}
	start := strings.LastIndexFunc(seg[:loc[0]], unicode.IsSpace) + 1
	return seg[start:], true
}

package keywords

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// NGram is a frequent contiguous token sequence.
type NGram struct {
	Text  string
	Count int
}

const (
	minNGramChars = 10
	maxNGramChars = 100
)

// TopNGrams counts 2-, 3- and 4-token sequences of text case-insensitively
// and returns the k most frequent. Sequences never span a line break or
// trailing sentence/clause punctuation inside the sequence. Ties keep the
// order in which sequences were first seen, shorter n first.
func TopNGrams(text string, k int) []NGram {
	fold := cases.Fold()
	index := map[string]int{}
	var list []NGram
	lines := strings.Split(text, "\n")
	for n := 2; n <= 4; n++ {
		for _, line := range lines {
			spans := wordSpans(line)
			for i := 0; i+n <= len(spans); i++ {
				if crossesBoundary(line, spans[i:i+n-1]) {
					continue
				}
				g := trimEdges(line[spans[i].start:spans[i+n-1].end])
				if l := utf8.RuneCountInString(g); l < minNGramChars || l > maxNGramChars {
					continue
				}
				key := fold.String(g)
				if j, ok := index[key]; ok {
					list[j].Count++
					continue
				}
				index[key] = len(list)
				list = append(list, NGram{Text: g, Count: 1})
			}
		}
	}
	sort.SliceStable(list, func(a, b int) bool { return list[a].Count > list[b].Count })
	if k > 0 && len(list) > k {
		list = list[:k]
	}
	return list
}

// crossesBoundary reports whether any token in inner ends a sentence or clause.
func crossesBoundary(line string, inner []span) bool {
	for _, sp := range inner {
		r, _ := utf8.DecodeLastRuneInString(line[sp.start:sp.end])
		switch r {
		case '.', '!', '?', ',', ';', ':':
			return true
		}
	}
	return false
}

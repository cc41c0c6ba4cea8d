package keywords

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const minPhraseChars = 5

// Filter cleans and bounds candidate phrases for one schema. It is safe for
// concurrent use.
type Filter struct {
	minWords, maxWords, maxPer int
	boilerplate, blacklist     []string
}

// NewFilter prepares the schema's limits and folded blacklists.
func NewFilter(s Schema) *Filter {
	s = s.WithDefaults()
	fold := cases.Fold()
	foldAll := func(in []string) []string {
		var out []string
		for _, b := range in {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, fold.String(b))
			}
		}
		return out
	}
	return &Filter{
		minWords:    s.MinWords,
		maxWords:    s.MaxWords,
		maxPer:      s.MaxPerCategory,
		boilerplate: foldAll(s.Boilerplate),
		blacklist:   foldAll(s.Blacklist),
	}
}

// Apply cleans candidates, drops rejects and case-insensitive duplicates in
// first-seen order, and caps the result. The result is never nil.
func (f *Filter) Apply(candidates []string, brandless bool) []string {
	fold := cases.Fold()
	seen := map[string]bool{}
	out := []string{}
	for _, c := range candidates {
		p, key, ok := f.clean(fold, c, brandless)
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
		if len(out) == f.maxPer {
			break
		}
	}
	return out
}

// Phrase cleans a single candidate.
func (f *Filter) Phrase(candidate string, brandless bool) (string, bool) {
	p, _, ok := f.clean(cases.Fold(), candidate, brandless)
	return p, ok
}

func (f *Filter) clean(fold cases.Caser, c string, brandless bool) (string, string, bool) {
	p := trimEdges(c)
	p = trimEdges(clipWords(p, f.maxWords))
	p = dropTrailingStopWords(p)
	if n := len(wordSpans(p)); n < f.minWords || n > f.maxWords {
		return "", "", false
	}
	if utf8.RuneCountInString(p) < minPhraseChars {
		return "", "", false
	}
	key := fold.String(p)
	if containsAny(key, f.boilerplate) || (brandless && containsAny(key, f.blacklist)) {
		return "", "", false
	}
	return p, key, true
}

func containsAny(s string, subs []string) bool {
	for _, b := range subs {
		if strings.Contains(s, b) {
			return true
		}
	}
	return false
}

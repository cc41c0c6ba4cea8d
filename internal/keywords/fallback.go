package keywords

import "strings"

// Fallback is the rule-based extractor. It is deterministic, never fails
// and keeps no per-call state.
type Fallback struct {
	schema Schema
	filter *Filter
}

// NewFallback returns a Fallback for s.
func NewFallback(s Schema) *Fallback {
	s = s.WithDefaults()
	return &Fallback{schema: s, filter: NewFilter(s)}
}

// Schema returns the schema in use.
func (f *Fallback) Schema() Schema { return f.schema }

// Extract returns phrases for every category of the schema.
func (f *Fallback) Extract(text string) Result {
	s := f.schema
	res := NewResult(s)
	if strings.TrimSpace(text) == "" {
		res.Confidence = Confidence(0)
		return res
	}
	segments := Segments(text, s.SentenceMinChars, s.SentenceMaxChars)
	var top []NGram
	for _, c := range s.Categories {
		if c.NGrams != NGramNone {
			top = TopNGrams(text, s.TopK)
			break
		}
	}
	for _, c := range s.Categories {
		cands := f.candidates(c, text, segments, top)
		res.Phrases[c.Key] = f.filter.Apply(cands, c.Brandless)
	}
	res.Confidence = Confidence(res.Total())
	return res
}

func (f *Fallback) candidates(c Category, text string, segments []string, top []NGram) []string {
	s := f.schema
	var out []string

	var matched []string
	for _, r := range c.Rules {
		for _, m := range r(text) {
			if m = strings.TrimSpace(m); m != "" {
				matched = append(matched, m)
			}
		}
	}
	if len(matched) > s.PatternLimit {
		matched = matched[:s.PatternLimit]
	}
	out = append(out, matched...)

	if c.Cue != nil {
		n := 0
		for _, seg := range segments {
			if n == s.SentenceLimit {
				break
			}
			if w, ok := cueWindow(seg, c.Cue, s.MaxWords); ok {
				out = append(out, w)
				n++
			}
		}
	}

	n := 0
	for _, g := range top {
		if n == s.NGramLimit {
			break
		}
		switch c.NGrams {
		case NGramTop:
		case NGramCue:
			if c.NGramCue == nil || !c.NGramCue.MatchString(g.Text) {
				continue
			}
		default:
			continue
		}
		out = append(out, g.Text)
		n++
	}
	return out
}

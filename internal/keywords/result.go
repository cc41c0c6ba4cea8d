package keywords

import (
	"bytes"
	"encoding/json"
	"math"
)

// Result holds the phrases of every schema category plus a confidence score.
// Every key in Keys has a non-nil entry in Phrases.
type Result struct {
	Keys       []string
	Phrases    map[string][]string
	Confidence int
}

// NewResult returns a Result with every category of s present and empty.
func NewResult(s Schema) Result {
	r := Result{Keys: s.Keys(), Phrases: make(map[string][]string, len(s.Categories))}
	for _, k := range r.Keys {
		r.Phrases[k] = []string{}
	}
	return r
}

// Get returns the phrases for key, or nil for an unknown key.
func (r Result) Get(key string) []string { return r.Phrases[key] }

// Total counts phrases across all categories.
func (r Result) Total() int {
	n := 0
	for _, k := range r.Keys {
		n += len(r.Phrases[k])
	}
	return n
}

// Counts returns the number of phrases per category.
func (r Result) Counts() map[string]int {
	out := make(map[string]int, len(r.Keys))
	for _, k := range r.Keys {
		out[k] = len(r.Phrases[k])
	}
	return out
}

// MarshalJSON writes one array per category in schema order followed by
// confidenceScore.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := r.writeFields(&buf); err != nil {
		return nil, err
	}
	if len(r.Keys) > 0 {
		buf.WriteByte(',')
	}
	buf.WriteString(`"confidenceScore":`)
	b, _ := json.Marshal(r.Confidence)
	buf.Write(b)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeFields writes `"key":[...]` pairs without surrounding braces so the
// categories can be inlined into larger objects.
func (r Result) writeFields(buf *bytes.Buffer) error {
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		vals := r.Phrases[k]
		if vals == nil {
			vals = []string{}
		}
		vb, err := json.Marshal(vals)
		if err != nil {
			return err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	return nil
}

// CategoryFields returns the category pairs as a JSON fragment, for callers
// that embed the categories at the top level of their own objects.
func (r Result) CategoryFields() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.writeFields(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Confidence maps the number of extracted phrases onto [50, 90]. It rewards
// volume only and says nothing about phrase quality.
func Confidence(total int) int {
	v := float64(total) * 1.2
	return int(math.Round(math.Min(90, math.Max(50, v))))
}

package keywords

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// NGramMode selects how a category consumes the frequent n-gram candidates.
type NGramMode int

const (
	// NGramNone ignores n-grams.
	NGramNone NGramMode = iota
	// NGramTop takes the most frequent n-grams as they are.
	NGramTop
	// NGramCue keeps only the frequent n-grams matching Category.NGramCue.
	NGramCue
)

// Category is one bucket of extracted phrases.
type Category struct {
	Key         string
	Label       string
	Description string
	// Rules yield literal substrings of the text.
	Rules []Rule
	// Cue selects sentences and clauses that belong to the category.
	Cue      *regexp.Regexp
	NGrams   NGramMode
	NGramCue *regexp.Regexp
	// Brandless categories must not contain brand or source names.
	Brandless bool
}

// Schema is a versioned, ordered set of categories plus extraction limits.
type Schema struct {
	Name       string
	Version    int
	Categories []Category

	MinWords         int
	MaxWords         int
	MaxPerCategory   int
	PatternLimit     int
	SentenceLimit    int
	NGramLimit       int
	TopK             int
	SentenceMinChars int
	SentenceMaxChars int

	// Boilerplate entries are rejected in every category.
	Boilerplate []string
	// Blacklist entries are rejected in brandless categories.
	Blacklist []string
}

// DefaultSchema names the schema used when none is configured.
const DefaultSchema = "press"

// wireServices are press distribution names that leak into scraped text.
var wireServices = []string{
	"PR Newswire", "PRNewswire", "Business Wire", "GlobeNewswire",
	"Cision", "Accesswire", "EIN Presswire", "Newswire",
}

// WithDefaults returns s with zero limits replaced by the defaults.
func (s Schema) WithDefaults() Schema {
	def := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&s.MinWords, 2)
	def(&s.MaxWords, 6)
	def(&s.MaxPerCategory, 15)
	def(&s.PatternLimit, 15)
	def(&s.SentenceLimit, 10)
	def(&s.NGramLimit, 10)
	def(&s.TopK, 50)
	def(&s.SentenceMinChars, 30)
	def(&s.SentenceMaxChars, 300)
	if s.MaxWords < s.MinWords {
		s.MaxWords = s.MinWords
	}
	return s
}

// Keys returns the category keys in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Categories))
	for i, c := range s.Categories {
		keys[i] = c.Key
	}
	return keys
}

// Category returns the category with key.
func (s Schema) Category(key string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// WithBlacklist returns a copy with extra brand names appended to Blacklist.
func (s Schema) WithBlacklist(names ...string) Schema {
	bl := append([]string(nil), s.Blacklist...)
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			bl = append(bl, n)
		}
	}
	s.Blacklist = bl
	return s
}

var registry = map[string]func() Schema{
	"press":      Press,
	"telehealth": Telehealth,
}

// Lookup returns the named schema. An empty name selects DefaultSchema.
func Lookup(name string) (Schema, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultSchema
	}
	f, ok := registry[name]
	if !ok {
		return Schema{}, fmt.Errorf("unknown keyword schema %q (have %s)", name, strings.Join(Names(), ", "))
	}
	return f().WithDefaults(), nil
}

// Names lists the registered schemas.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

package report

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/presskeywords/internal/extraction"
	"github.com/hyperifyio/presskeywords/internal/keywords"
)

// Markdown renders an extraction response as a readable report. Category
// headings use the schema labels; categories unknown to the schema fall
// back to their key.
func Markdown(resp extraction.Response, s keywords.Schema) string {
	rec := resp.Record
	var b strings.Builder
	b.WriteString("# Keyword extraction\n\n")
	source := "text input"
	if rec.URL != nil {
		source = fmt.Sprintf("[%s](%s)", *rec.URL, *rec.URL)
	}
	fmt.Fprintf(&b, "- Source: %s\n", source)
	fmt.Fprintf(&b, "- Schema: %s\n", s.Name)
	fmt.Fprintf(&b, "- Method: %s\n", rec.Method)
	fmt.Fprintf(&b, "- Confidence: %d%%\n", rec.Confidence)
	fmt.Fprintf(&b, "- Words: %d\n", resp.WordCount)
	fmt.Fprintf(&b, "- Keywords: %d\n", resp.TotalKeywords)
	fmt.Fprintf(&b, "- Extraction time: %d ms\n\n", rec.ExtractionTime.Milliseconds())

	for _, key := range rec.Keywords.Keys {
		label := key
		if c, ok := s.Category(key); ok && c.Label != "" {
			label = c.Label
		}
		fmt.Fprintf(&b, "## %s\n\n", label)
		phrases := rec.Keywords.Get(key)
		if len(phrases) == 0 {
			b.WriteString("_None found._\n\n")
			continue
		}
		for _, p := range phrases {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	return b.String()
}

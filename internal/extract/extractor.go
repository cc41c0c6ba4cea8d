package extract

// Extractor converts raw HTML into a Document. Implementations must be
// deterministic and free of side effects.
type Extractor interface {
	Extract(input []byte) Document
}

// SelectorExtractor picks the longest prioritized content container and
// falls back to the page body.
type SelectorExtractor struct{}

func (SelectorExtractor) Extract(input []byte) Document {
	return FromHTML(input)
}

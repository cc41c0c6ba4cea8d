package fetch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/presskeywords/internal/content"
	"github.com/hyperifyio/presskeywords/internal/extract"
)

// Getter is the network half of a Fetcher.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, string, error)
}

// Fetcher turns a URL into validated, normalized content.
type Fetcher struct {
	Client    Getter
	Extractor extract.Extractor
}

// NewFetcher returns a Fetcher around client using the selector extractor.
func NewFetcher(client Getter) *Fetcher {
	return &Fetcher{Client: client, Extractor: extract.SelectorExtractor{}}
}

// Fetch validates rawURL, downloads it, extracts the main text and checks
// it against the content thresholds. The result text is truncated to
// content.MaxChars.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (content.Normalized, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return content.Normalized{}, err
	}
	start := time.Now()
	body, _, err := f.Client.Get(ctx, rawURL)
	if err != nil {
		return content.Normalized{}, classify(rawURL, err)
	}
	ex := f.Extractor
	if ex == nil {
		ex = extract.SelectorExtractor{}
	}
	doc := ex.Extract(body)
	n := content.New(doc.Text, time.Since(start))
	log.Debug().Str("url", rawURL).Str("source", doc.Source).Int("words", n.WordCount).Dur("elapsed", n.FetchTime).Msg("fetched content")
	if !n.IsValid {
		return content.Normalized{}, &Error{Kind: TooShort, URL: rawURL, Err: content.ErrTooShort}
	}
	return n, nil
}

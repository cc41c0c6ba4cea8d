package extraction

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/presskeywords/internal/aiextract"
	"github.com/hyperifyio/presskeywords/internal/content"
	"github.com/hyperifyio/presskeywords/internal/fetch"
	"github.com/hyperifyio/presskeywords/internal/keywords"
	"github.com/hyperifyio/presskeywords/internal/metrics"
	"github.com/hyperifyio/presskeywords/internal/store"
)

// ContentFetcher acquires normalized content from a URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (content.Normalized, error)
}

// ModelExtractor is the AI path.
type ModelExtractor interface {
	Extract(ctx context.Context, text string) (keywords.Result, error)
	CheckHealth(ctx context.Context) aiextract.Health
}

// KeywordExtractor is the total rule-based path.
type KeywordExtractor interface {
	Extract(text string) keywords.Result
}

// Service runs extraction requests end to end. Model may be nil, in which
// case every request uses Fallback.
type Service struct {
	Fetcher  ContentFetcher
	Model    ModelExtractor
	Fallback KeywordExtractor
	Store    store.Store
	Metrics  *metrics.Recorder
}

// Request is one extraction input. Exactly one of URL or Text is set; an
// empty InputType is inferred from which one.
type Request struct {
	URL       string          `json:"url,omitempty"`
	Text      string          `json:"text,omitempty"`
	InputType store.InputType `json:"inputType,omitempty"`
}

const bothOrNeither = "Please provide either a URL or text content, but not both"

func validate(req Request) (store.InputType, error) {
	hasURL := strings.TrimSpace(req.URL) != ""
	hasText := strings.TrimSpace(req.Text) != ""
	it := req.InputType
	if it == "" {
		switch {
		case hasURL && !hasText:
			it = store.InputURL
		case hasText && !hasURL:
			it = store.InputText
		}
	}
	switch it {
	case store.InputURL:
		if !hasURL || hasText {
			return "", &Error{Kind: InvalidInput, Message: bothOrNeither}
		}
	case store.InputText:
		if !hasText || hasURL {
			return "", &Error{Kind: InvalidInput, Message: bothOrNeither}
		}
	case "":
		return "", &Error{Kind: InvalidInput, Message: bothOrNeither}
	default:
		return "", &Error{Kind: InvalidInput, Message: "inputType must be url or text"}
	}
	return it, nil
}

// Run validates req, acquires content, extracts keywords and persists the
// record. Stats are updated for every outcome.
func (s *Service) Run(ctx context.Context, req Request) (resp Response, err error) {
	start := time.Now()
	defer func() { s.finish(ctx, start, err) }()

	it, err := validate(req)
	if err != nil {
		return Response{}, err
	}
	n, err := s.acquire(ctx, it, req)
	if err != nil {
		return Response{}, err
	}
	kw, method := s.extract(ctx, n.Text)

	rec := store.Record{
		Content:        n.Text,
		InputType:      it,
		Keywords:       kw,
		Method:         method,
		Confidence:     kw.Confidence,
		ExtractionTime: time.Since(start),
	}
	if it == store.InputURL {
		u := strings.TrimSpace(req.URL)
		rec.URL = &u
	}
	rec, err = s.Store.CreateRecord(ctx, rec)
	if err != nil {
		return Response{}, err
	}
	s.Metrics.Method(string(method))
	log.Info().Str("id", rec.ID).Str("input", string(it)).Str("method", string(method)).Int("keywords", kw.Total()).Dur("elapsed", rec.ExtractionTime).Msg("extraction complete")
	return newResponse(rec, n.WordCount), nil
}

func (s *Service) acquire(ctx context.Context, it store.InputType, req Request) (content.Normalized, error) {
	if it == store.InputText {
		n, err := content.FromText(req.Text)
		if err != nil {
			return content.Normalized{}, &Error{Kind: TooShort, Message: "Please enter at least 100 characters and 20 words of text", Err: err}
		}
		return n, nil
	}
	n, err := s.Fetcher.Fetch(ctx, strings.TrimSpace(req.URL))
	if err != nil {
		if fetch.IsKind(err, fetch.TooShort) {
			return content.Normalized{}, &Error{Kind: TooShort, Err: err}
		}
		return content.Normalized{}, &Error{Kind: FetchFailed, Message: "Failed to fetch content", Err: err}
	}
	return n, nil
}

// extract tries the model first. Model errors are logged and absorbed.
func (s *Service) extract(ctx context.Context, text string) (keywords.Result, store.Method) {
	if s.Model != nil {
		res, err := s.Model.Extract(ctx, text)
		if err == nil {
			return res, store.MethodAI
		}
		kind := aiextract.KindOf(err)
		if kind == "" {
			kind = aiextract.Unavailable
		}
		s.Metrics.ModelFailure(string(kind))
		log.Warn().Err(err).Str("kind", string(kind)).Msg("ai extraction failed; using fallback")
	}
	return s.Fallback.Extract(text), store.MethodFallback
}

// RecordFailure counts a request that failed before Run could start, such
// as an undecodable body.
func (s *Service) RecordFailure(ctx context.Context, start time.Time, err error) {
	if err == nil {
		err = &Error{Kind: InvalidInput, Message: "invalid request"}
	}
	s.finish(ctx, start, err)
}

func (s *Service) finish(ctx context.Context, start time.Time, err error) {
	elapsed := time.Since(start)
	delta := store.Stats{TotalRequests: 1, TotalResponseTime: elapsed}
	if err == nil {
		delta.SuccessfulRequests = 1
	} else {
		delta.FailedRequests = 1
		log.Warn().Err(err).Str("kind", string(KindOf(err))).Msg("extraction failed")
	}
	// Stats must land even when the caller has gone away.
	if _, uerr := s.Store.UpdateStats(context.WithoutCancel(ctx), delta); uerr != nil {
		log.Error().Err(uerr).Msg("update stats")
	}
	s.Metrics.Request(err == nil, elapsed)
}

// ContentPreview is the fetch-content projection.
type ContentPreview struct {
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
	FetchTime int64  `json:"fetchTime"`
	IsValid   bool   `json:"isValid"`
}

// Preview fetches url and returns its first content.PreviewChars
// characters. It does not touch stats.
func (s *Service) Preview(ctx context.Context, url string) (ContentPreview, error) {
	if strings.TrimSpace(url) == "" {
		return ContentPreview{}, &Error{Kind: InvalidInput, Message: "url is required"}
	}
	n, err := s.acquire(ctx, store.InputURL, Request{URL: url})
	if err != nil {
		return ContentPreview{}, err
	}
	return ContentPreview{
		Content:   content.Preview(n.Text, content.PreviewChars),
		WordCount: n.WordCount,
		FetchTime: n.FetchTime.Milliseconds(),
		IsValid:   n.IsValid,
	}, nil
}

package aiextract

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Kind classifies a model failure. None of them reach the end caller; they
// select the fallback path.
type Kind string

const (
	Unavailable       Kind = "unavailable"
	RateLimited       Kind = "rate_limited"
	InvalidResponse   Kind = "invalid_response"
	LowGroundingRatio Kind = "low_grounding_ratio"
)

// ErrNotConfigured is wrapped by Unavailable when no client or model is set.
var ErrNotConfigured = errors.New("model client not configured")

// Error is returned by Extractor for every failure.
type Error struct {
	Kind Kind
	// Ratio is the grounded fraction for LowGroundingRatio.
	Ratio float64
	Err   error
}

func (e *Error) Error() string {
	if e.Kind == LowGroundingRatio {
		return fmt.Sprintf("ai extraction: only %.0f%% of phrases found in source", e.Ratio*100)
	}
	if e.Err == nil {
		return "ai extraction: " + string(e.Kind)
	}
	return fmt.Sprintf("ai extraction: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: InvalidResponse, Err: fmt.Errorf(format, args...)}
}

var rateLimitMarkers = []string{"quota", "rate limit", "rate_limit", "ratelimit", "too many requests", "resource_exhausted"}

// classify maps a client error onto RateLimited or Unavailable.
func classify(err error) *Error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	if status == http.StatusTooManyRequests {
		return &Error{Kind: RateLimited, Err: err}
	}
	msg := strings.ToLower(err.Error())
	for _, m := range rateLimitMarkers {
		if strings.Contains(msg, m) {
			return &Error{Kind: RateLimited, Err: err}
		}
	}
	return &Error{Kind: Unavailable, Err: err}
}

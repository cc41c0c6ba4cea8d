package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a fetch failure.
type Kind string

const (
	InvalidURL Kind = "invalid_url"
	Timeout    Kind = "timeout"
	HTTPError  Kind = "http_error"
	Transport  Kind = "transport"
	TooShort   Kind = "too_short"
)

// Error is returned by Client and Fetcher for every failure.
type Error struct {
	Kind Kind
	URL  string
	// Status is set for HTTPError.
	Status int
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case InvalidURL:
		return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
	case Timeout:
		return fmt.Sprintf("timed out fetching %s", e.URL)
	case HTTPError:
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.Status)
	case TooShort:
		return fmt.Sprintf("content at %s is too short to analyze", e.URL)
	default:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a fetch *Error of kind k.
func IsKind(err error, k Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == k
}

// classify turns a transport-level error into Timeout or Transport.
func classify(rawURL string, err error) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: Timeout, URL: rawURL, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &Error{Kind: Timeout, URL: rawURL, Err: err}
	}
	return &Error{Kind: Transport, URL: rawURL, Err: err}
}

package extraction

import (
	"errors"
	"fmt"
)

// Kind classifies an orchestration failure surfaced to callers.
type Kind string

const (
	InvalidInput Kind = "invalid_input"
	FetchFailed  Kind = "fetch_failed"
	TooShort     Kind = "too_short"
)

// Error carries a caller-actionable message. Err stays reachable with
// errors.As, for example the underlying *fetch.Error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

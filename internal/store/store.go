package store

import (
	"context"
	"errors"
	"time"

	"github.com/hyperifyio/presskeywords/internal/keywords"
)

// InputType says where the analyzed content came from.
type InputType string

const (
	InputURL  InputType = "url"
	InputText InputType = "text"
)

// Method says which extractor produced the keywords.
type Method string

const (
	MethodAI       Method = "ai"
	MethodFallback Method = "fallback"
	MethodEnhanced Method = "enhanced"
)

// ErrNotFound is returned by GetRecord for unknown IDs.
var ErrNotFound = errors.New("record not found")

// Record is one completed extraction. Records are never modified after
// CreateRecord.
type Record struct {
	ID             string
	URL            *string
	Content        string
	InputType      InputType
	Keywords       keywords.Result
	Method         Method
	Confidence     int
	ExtractionTime time.Duration
	CreatedAt      time.Time
}

// Stats are the process-wide request counters.
type Stats struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	TotalResponseTime  time.Duration
}

// Add returns s plus d.
func (s Stats) Add(d Stats) Stats {
	return Stats{
		TotalRequests:      s.TotalRequests + d.TotalRequests,
		SuccessfulRequests: s.SuccessfulRequests + d.SuccessfulRequests,
		FailedRequests:     s.FailedRequests + d.FailedRequests,
		TotalResponseTime:  s.TotalResponseTime + d.TotalResponseTime,
	}
}

// Store persists records and counters. UpdateStats applies a delta
// atomically with respect to other callers.
type Store interface {
	CreateRecord(ctx context.Context, r Record) (Record, error)
	GetRecord(ctx context.Context, id string) (Record, error)
	GetRecent(ctx context.Context, n int) ([]Record, error)
	GetStats(ctx context.Context) (Stats, error)
	UpdateStats(ctx context.Context, delta Stats) (Stats, error)
}

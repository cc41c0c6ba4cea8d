package extraction

import (
	"context"
	"math"
	"net/url"
	"time"

	"github.com/hyperifyio/presskeywords/internal/aiextract"
	"github.com/hyperifyio/presskeywords/internal/store"
)

// Health is the service health projection.
type Health struct {
	Status       string           `json:"status"`
	ResponseTime int64            `json:"responseTime"`
	LastChecked  time.Time        `json:"lastChecked"`
	ModelStatus  aiextract.Status `json:"geminiApiStatus"`
}

// Health probes the model. Without a model the service still answers from
// the fallback, so it reports degraded rather than unhealthy.
func (s *Service) Health(ctx context.Context) Health {
	start := time.Now()
	h := Health{Status: "degraded", ModelStatus: aiextract.StatusUnavailable}
	if s.Model != nil {
		mh := s.Model.CheckHealth(ctx)
		h.ModelStatus = mh.Status
		switch mh.Status {
		case aiextract.StatusAvailable:
			h.Status = "healthy"
		case aiextract.StatusRateLimited:
			h.Status = "degraded"
		default:
			h.Status = "unhealthy"
		}
	}
	h.ResponseTime = time.Since(start).Milliseconds()
	h.LastChecked = time.Now().UTC()
	return h
}

// Activity is one recent extraction.
type Activity struct {
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Method    string    `json:"method"`
}

// Stats is the aggregate statistics projection.
type Stats struct {
	TotalRequests int64 `json:"totalRequests"`
	// SuccessRate is a percentage with one decimal.
	SuccessRate float64 `json:"successRate"`
	// AvgResponseTime is in seconds with two decimals.
	AvgResponseTime float64    `json:"avgResponseTime"`
	RateLimitStatus string     `json:"rateLimitStatus"`
	RecentActivity  []Activity `json:"recentActivity"`
}

const recentActivityCount = 5

// Stats aggregates the store counters and the most recent records.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st, err := s.Store.GetStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	recent, err := s.Store.GetRecent(ctx, recentActivityCount)
	if err != nil {
		return Stats{}, err
	}
	out := Stats{
		TotalRequests:   st.TotalRequests,
		SuccessRate:     100,
		RateLimitStatus: "Safe",
		RecentActivity:  make([]Activity, 0, len(recent)),
	}
	if st.TotalRequests > 0 {
		out.SuccessRate = math.Round(float64(st.SuccessfulRequests)/float64(st.TotalRequests)*1000) / 10
	}
	if st.SuccessfulRequests > 0 {
		avgMs := float64(st.TotalResponseTime.Milliseconds()) / float64(st.SuccessfulRequests)
		out.AvgResponseTime = math.Round(avgMs/10) / 100
	}
	for _, r := range recent {
		out.RecentActivity = append(out.RecentActivity, Activity{
			URL:       activityLabel(r),
			Timestamp: r.CreatedAt,
			Success:   true,
			Method:    string(r.Method),
		})
	}
	return out, nil
}

func activityLabel(r store.Record) string {
	if r.URL == nil {
		return "text input"
	}
	if u, err := url.Parse(*r.URL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return *r.URL
}

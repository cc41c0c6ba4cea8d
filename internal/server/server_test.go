package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hyperifyio/presskeywords/internal/content"
	"github.com/hyperifyio/presskeywords/internal/extraction"
	"github.com/hyperifyio/presskeywords/internal/fetch"
	"github.com/hyperifyio/presskeywords/internal/keywords"
	"github.com/hyperifyio/presskeywords/internal/metrics"
	"github.com/hyperifyio/presskeywords/internal/store"
)

var pressText = strings.Repeat("Acme Corp announces $5 million in Series A funding in Austin, TX on March 3, 2024. ", 3)

type stubFetcher struct {
	text string
	err  error
}

func (f stubFetcher) Fetch(context.Context, string) (content.Normalized, error) {
	if f.err != nil {
		return content.Normalized{}, f.err
	}
	return content.New(f.text, 20*time.Millisecond), nil
}

func newTestServer(t *testing.T, f extraction.ContentFetcher, opts Options) *httptest.Server {
	t.Helper()
	s, err := keywords.Lookup("")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	reg := prometheus.NewRegistry()
	svc := &extraction.Service{
		Fetcher:  f,
		Fallback: keywords.NewFallback(s),
		Store:    store.NewMemory(),
		Metrics:  metrics.New(reg),
	}
	opts.Gatherer = reg
	srv := httptest.NewServer(New(svc, opts))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, out
}

func TestExtract_TextInput(t *testing.T) {
	srv := newTestServer(t, nil, Options{})
	body, _ := json.Marshal(map[string]string{"text": pressText, "inputType": "text"})
	resp, out := post(t, srv.URL+"/api/extract-keywords", string(body))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, out)
	}
	if out["extractionMethod"] != "fallback" {
		t.Fatalf("expected fallback method, got %v", out["extractionMethod"])
	}
	if _, ok := out["financial"]; !ok {
		t.Fatalf("category fields missing: %v", out)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestExtract_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name    string
		fetcher extraction.ContentFetcher
		body    string
		want    int
	}{
		{"bad json", nil, `{`, http.StatusBadRequest},
		{"both inputs", nil, `{"url":"https://example.com","text":"x"}`, http.StatusBadRequest},
		{"short text", nil, `{"text":"too short"}`, http.StatusBadRequest},
		{"fetch failed", stubFetcher{err: &fetch.Error{Kind: fetch.HTTPError, Status: 404}}, `{"url":"https://example.com"}`, http.StatusBadRequest},
		{"fetch timeout", stubFetcher{err: &fetch.Error{Kind: fetch.Timeout, Err: context.DeadlineExceeded}}, `{"url":"https://example.com"}`, http.StatusRequestTimeout},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := newTestServer(t, c.fetcher, Options{})
			resp, out := post(t, srv.URL+"/api/extract-keywords", c.body)
			if resp.StatusCode != c.want {
				t.Fatalf("status %d want %d (%v)", resp.StatusCode, c.want, out)
			}
			if msg, _ := out["error"].(string); msg == "" {
				t.Fatalf("expected error message, got %v", out)
			}
		})
	}
}

func TestExtract_RateLimited(t *testing.T) {
	srv := newTestServer(t, nil, Options{ExtractLimit: Limit{Requests: 2, Window: time.Minute}})
	for i := 0; i < 2; i++ {
		resp, _ := post(t, srv.URL+"/api/extract-keywords", `{"text":"short"}`)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("request %d: status %d", i, resp.StatusCode)
		}
	}
	resp, out := post(t, srv.URL+"/api/extract-keywords", `{"text":"short"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" || out["error"] == nil {
		t.Fatalf("expected Retry-After and error body")
	}
}

func TestFetchContent(t *testing.T) {
	srv := newTestServer(t, stubFetcher{text: pressText}, Options{})
	resp, out := post(t, srv.URL+"/api/fetch-content", `{"url":"https://example.com/pr"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %v", resp.StatusCode, out)
	}
	if out["isValid"] != true || out["fetchTime"].(float64) != 20 {
		t.Fatalf("unexpected preview: %v", out)
	}

	resp, _ = post(t, srv.URL+"/api/fetch-content", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing url should be 400, got %d", resp.StatusCode)
	}
}

func TestHealthAndStats(t *testing.T) {
	srv := newTestServer(t, nil, Options{})
	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	var h map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&h)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || h["status"] != "degraded" {
		t.Fatalf("health without model should be degraded: %d %v", resp.StatusCode, h)
	}

	body, _ := json.Marshal(map[string]string{"text": pressText})
	post(t, srv.URL+"/api/extract-keywords", string(body))

	resp, err = http.Get(srv.URL + "/api/stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var st map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&st)
	resp.Body.Close()
	if st["totalRequests"].(float64) != 1 || st["successRate"].(float64) != 100 {
		t.Fatalf("unexpected stats: %v", st)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, nil, Options{})
	body, _ := json.Marshal(map[string]string{"text": pressText})
	post(t, srv.URL+"/api/extract-keywords", string(body))

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "presskw_extraction_requests_total") {
		t.Fatalf("expected presskw metrics, got %q", b)
	}
}

func TestLimiter_WindowResets(t *testing.T) {
	now := time.Unix(0, 0)
	l := NewLimiter(Limit{Requests: 1, Window: time.Minute})
	l.now = func() time.Time { return now }
	if ok, _, _ := l.Allow("a"); !ok {
		t.Fatalf("first request rejected")
	}
	ok, _, retry := l.Allow("a")
	if ok || retry != time.Minute {
		t.Fatalf("second request should wait a minute, got ok=%v retry=%v", ok, retry)
	}
	if ok, _, _ := l.Allow("b"); !ok {
		t.Fatalf("other clients have their own budget")
	}
	now = now.Add(time.Minute)
	if ok, _, _ := l.Allow("a"); !ok {
		t.Fatalf("window should have reset")
	}
}

func TestExtract_BadBodyCountsAsFailure(t *testing.T) {
	s, err := keywords.Lookup("")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	mem := store.NewMemory()
	svc := &extraction.Service{Fallback: keywords.NewFallback(s), Store: mem}
	srv := httptest.NewServer(New(svc, Options{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/extract-keywords", "application/json", strings.NewReader(`{"url": `))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	st, err := mem.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRequests != 1 || st.FailedRequests != 1 || st.SuccessfulRequests != 0 {
		t.Fatalf("undecodable body not counted: %+v", st)
	}
}

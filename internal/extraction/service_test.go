package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperifyio/presskeywords/internal/aiextract"
	"github.com/hyperifyio/presskeywords/internal/content"
	"github.com/hyperifyio/presskeywords/internal/fetch"
	"github.com/hyperifyio/presskeywords/internal/keywords"
	"github.com/hyperifyio/presskeywords/internal/store"
)

var pressText = strings.Repeat("Acme Corp announces $5 million in Series A funding in Austin, TX on March 3, 2024. ", 3)

type fakeFetcher struct {
	text string
	err  error
}

func (f fakeFetcher) Fetch(_ context.Context, _ string) (content.Normalized, error) {
	if f.err != nil {
		return content.Normalized{}, f.err
	}
	return content.New(f.text, 15*time.Millisecond), nil
}

type fakeModel struct {
	res    keywords.Result
	err    error
	health aiextract.Status
	calls  int
}

func (m *fakeModel) Extract(context.Context, string) (keywords.Result, error) {
	m.calls++
	return m.res, m.err
}

func (m *fakeModel) CheckHealth(context.Context) aiextract.Health {
	return aiextract.Health{Status: m.health}
}

func newService(t *testing.T, f ContentFetcher, m ModelExtractor) (*Service, *store.Memory) {
	t.Helper()
	s, err := keywords.Lookup("press")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	mem := store.NewMemory()
	svc := &Service{Fetcher: f, Fallback: keywords.NewFallback(s), Store: mem}
	if m != nil {
		svc.Model = m
	}
	return svc, mem
}

func stats(t *testing.T, mem *store.Memory) store.Stats {
	t.Helper()
	st, err := mem.GetStats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	return st
}

func TestRun_TextFallsBackWhenModelFails(t *testing.T) {
	model := &fakeModel{err: &aiextract.Error{Kind: aiextract.RateLimited}}
	svc, mem := newService(t, nil, model)
	resp, err := svc.Run(context.Background(), Request{Text: pressText, InputType: store.InputText})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Record.Method != store.MethodFallback || model.calls != 1 {
		t.Fatalf("expected fallback after model failure, got %s", resp.Record.Method)
	}
	if resp.Record.URL != nil || resp.Record.InputType != store.InputText {
		t.Fatalf("unexpected source fields: %+v", resp.Record)
	}
	if resp.TotalKeywords != resp.Record.Keywords.Total() || resp.WordCount == 0 {
		t.Fatalf("stats not computed: %+v", resp)
	}
	st := stats(t, mem)
	if st.TotalRequests != 1 || st.SuccessfulRequests != 1 || st.FailedRequests != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestRun_UsesModelResult(t *testing.T) {
	s, _ := keywords.Lookup("press")
	res := keywords.NewResult(s)
	res.Phrases["locations"] = []string{"Austin, TX"}
	res.Confidence = 88
	svc, _ := newService(t, fakeFetcher{text: pressText}, &fakeModel{res: res})
	resp, err := svc.Run(context.Background(), Request{URL: "https://example.com/pr"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Record.Method != store.MethodAI || resp.Record.Confidence != 88 {
		t.Fatalf("expected ai result, got %s/%d", resp.Record.Method, resp.Record.Confidence)
	}
	if resp.Record.URL == nil || *resp.Record.URL != "https://example.com/pr" {
		t.Fatalf("url not recorded")
	}
}

func TestRun_InvalidInput(t *testing.T) {
	svc, mem := newService(t, fakeFetcher{text: pressText}, nil)
	cases := []Request{
		{},
		{URL: "https://example.com", Text: pressText},
		{URL: "https://example.com", InputType: store.InputText},
		{Text: pressText, InputType: store.InputURL},
		{Text: pressText, InputType: "pdf"},
	}
	for i, req := range cases {
		if _, err := svc.Run(context.Background(), req); KindOf(err) != InvalidInput {
			t.Fatalf("case %d: expected InvalidInput, got %v", i, err)
		}
	}
	st := stats(t, mem)
	if st.TotalRequests != int64(len(cases)) || st.FailedRequests != int64(len(cases)) {
		t.Fatalf("failures must be counted: %+v", st)
	}
}

func TestRun_ShortTextRejectedBeforeExtraction(t *testing.T) {
	model := &fakeModel{}
	svc, mem := newService(t, nil, model)
	_, err := svc.Run(context.Background(), Request{Text: strings.Repeat("x", 50), InputType: store.InputText})
	if KindOf(err) != TooShort {
		t.Fatalf("expected TooShort, got %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("extraction must not run for short text")
	}
	if st := stats(t, mem); st.FailedRequests != 1 {
		t.Fatalf("failure not counted: %+v", st)
	}
}

func TestRun_FetchHTTPErrorKeepsCause(t *testing.T) {
	svc, mem := newService(t, fakeFetcher{err: &fetch.Error{Kind: fetch.HTTPError, Status: 404, URL: "https://example.com/missing"}}, nil)
	_, err := svc.Run(context.Background(), Request{URL: "https://example.com/missing"})
	if KindOf(err) != FetchFailed {
		t.Fatalf("expected FetchFailed, got %v", err)
	}
	var fe *fetch.Error
	if !errors.As(err, &fe) || fe.Status != 404 {
		t.Fatalf("fetch cause should stay reachable, got %v", err)
	}
	if st := stats(t, mem); st.FailedRequests != 1 || st.TotalRequests != 1 {
		t.Fatalf("failure not counted: %+v", st)
	}
}

func TestRun_FetchTooShort(t *testing.T) {
	svc, _ := newService(t, fakeFetcher{err: &fetch.Error{Kind: fetch.TooShort, Err: content.ErrTooShort}}, nil)
	_, err := svc.Run(context.Background(), Request{URL: "https://example.com/tiny"})
	if KindOf(err) != TooShort {
		t.Fatalf("expected TooShort, got %v", err)
	}
}

func TestResponse_JSONShape(t *testing.T) {
	long := strings.Repeat("Acme Corp announces a new telehealth platform for rural clinics. ", 30)
	svc, _ := newService(t, nil, nil)
	resp, err := svc.Run(context.Background(), Request{Text: long})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("invalid JSON %s: %v", b, err)
	}
	for _, k := range []string{"id", "content", "inputType", "headlinePhrases", "locations", "extractionMethod", "confidenceScore", "extractionTime", "stats"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing %q in %s", k, b)
		}
	}
	if _, ok := m["url"]; ok {
		t.Fatalf("url should be omitted for text input")
	}
	if c := m["content"].(string); !strings.HasSuffix(c, "...") || len([]rune(c)) != content.PreviewChars+3 {
		t.Fatalf("content should be a preview, got %d chars", len([]rune(c)))
	}
}

func TestPreview(t *testing.T) {
	svc, mem := newService(t, fakeFetcher{text: pressText}, nil)
	p, err := svc.Preview(context.Background(), "https://example.com/pr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsValid || p.WordCount == 0 || p.FetchTime != 15 {
		t.Fatalf("unexpected preview: %+v", p)
	}
	if st := stats(t, mem); st.TotalRequests != 0 {
		t.Fatalf("preview must not count as extraction: %+v", st)
	}
	if _, err := svc.Preview(context.Background(), " "); KindOf(err) != InvalidInput {
		t.Fatalf("expected InvalidInput for empty url, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	cases := []struct {
		model ModelExtractor
		want  string
	}{
		{nil, "degraded"},
		{&fakeModel{health: aiextract.StatusAvailable}, "healthy"},
		{&fakeModel{health: aiextract.StatusRateLimited}, "degraded"},
		{&fakeModel{health: aiextract.StatusUnavailable}, "unhealthy"},
	}
	for _, c := range cases {
		svc, _ := newService(t, nil, c.model)
		if got := svc.Health(context.Background()).Status; got != c.want {
			t.Fatalf("Health()=%s want %s", got, c.want)
		}
	}
}

func TestStats(t *testing.T) {
	svc, mem := newService(t, fakeFetcher{text: pressText}, nil)
	ctx := context.Background()
	if st, _ := svc.Stats(ctx); st.SuccessRate != 100 || st.AvgResponseTime != 0 {
		t.Fatalf("empty stats should report 100%% success, got %+v", st)
	}
	if _, err := svc.Run(ctx, Request{URL: "https://news.example.com/pr/1"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := svc.Run(ctx, Request{Text: pressText}); err != nil {
		t.Fatalf("run: %v", err)
	}
	_, _ = svc.Run(ctx, Request{})
	_, _ = mem.UpdateStats(ctx, store.Stats{TotalResponseTime: 3 * time.Second})

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalRequests != 3 || st.SuccessRate != 66.7 {
		t.Fatalf("unexpected totals: %+v", st)
	}
	if st.AvgResponseTime < 1.5 {
		t.Fatalf("average should include recorded time, got %v", st.AvgResponseTime)
	}
	if len(st.RecentActivity) != 2 || st.RecentActivity[0].URL != "text input" || st.RecentActivity[1].URL != "news.example.com" {
		t.Fatalf("unexpected activity: %+v", st.RecentActivity)
	}
}

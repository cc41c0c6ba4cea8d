package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemory_RecordsNewestFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var ids []string
	for i := 0; i < 7; i++ {
		r, err := m.CreateRecord(ctx, Record{InputType: InputText, Method: MethodFallback, Confidence: 50 + i})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if r.ID == "" || r.CreatedAt.IsZero() {
			t.Fatalf("expected ID and CreatedAt to be set")
		}
		ids = append(ids, r.ID)
	}
	recent, err := m.GetRecent(ctx, 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 5 || recent[0].ID != ids[6] || recent[4].ID != ids[2] {
		t.Fatalf("unexpected order: %+v", recent)
	}
	got, err := m.GetRecord(ctx, ids[3])
	if err != nil || got.Confidence != 53 {
		t.Fatalf("GetRecord: %+v err=%v", got, err)
	}
	if _, err := m.GetRecord(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_UpdateStatsConcurrent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := Stats{TotalRequests: 1, TotalResponseTime: time.Millisecond}
			if i%4 == 0 {
				d.FailedRequests = 1
			} else {
				d.SuccessfulRequests = 1
			}
			_, _ = m.UpdateStats(ctx, d)
		}(i)
	}
	wg.Wait()
	s, _ := m.GetStats(ctx)
	if s.TotalRequests != 100 || s.FailedRequests != 25 || s.SuccessfulRequests != 75 || s.TotalResponseTime != 100*time.Millisecond {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

package app

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"
)

func TestNewFetchClient_FromConfig(t *testing.T) {
	cfg := Config{FetchTimeout: 3 * time.Second, FetchMaxConcurrent: 4, CacheStrictPerms: true}.WithDefaults()
	dir := filepath.Join(t.TempDir(), "http")
	c := newFetchClient(cfg, dir)

	if c.PerRequestTimeout != 3*time.Second {
		t.Fatalf("PerRequestTimeout=%v, want 3s", c.PerRequestTimeout)
	}
	if c.HTTPClient.Timeout != 3*time.Second+fetchSlack {
		t.Fatalf("client ceiling=%v should exceed the per-attempt timeout by %v", c.HTTPClient.Timeout, fetchSlack)
	}
	if c.MaxConcurrent != 4 || c.MaxAttempts != 2 {
		t.Fatalf("MaxConcurrent=%d MaxAttempts=%d", c.MaxConcurrent, c.MaxAttempts)
	}
	if c.Cache == nil || c.Cache.Dir != dir || !c.Cache.StrictPerms {
		t.Fatalf("unexpected cache: %+v", c.Cache)
	}
	tr, ok := c.HTTPClient.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.HTTPClient.Transport)
	}
	if tr.MaxIdleConns != idleConns || tr.MaxIdleConnsPerHost != idleConnsPerHost {
		t.Fatalf("idle pool %d/%d, want %d/%d", tr.MaxIdleConns, tr.MaxIdleConnsPerHost, idleConns, idleConnsPerHost)
	}
}

func TestNewFetchClient_DefaultTimeout(t *testing.T) {
	c := newFetchClient(Config{}.WithDefaults(), t.TempDir())
	if c.PerRequestTimeout != defaultFetchWait {
		t.Fatalf("PerRequestTimeout=%v, want %v", c.PerRequestTimeout, defaultFetchWait)
	}
}

package app

import (
	"net"
	"net/http"
	"time"

	"github.com/hyperifyio/presskeywords/internal/cache"
	"github.com/hyperifyio/presskeywords/internal/fetch"
)

const (
	idleConns        = 128
	idleConnsPerHost = 16
	// fetchSlack lets the per-attempt context deadline fire before the
	// client ceiling, so timeouts classify as fetch.Timeout.
	fetchSlack = 5 * time.Second
)

// newHTTPClient returns a pooled client for outbound page fetches and model
// calls. Per-request deadlines come from contexts; timeout is the ceiling.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          idleConns,
		MaxIdleConnsPerHost:   idleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// newFetchClient builds the page fetcher's HTTP layer from cfg, caching
// responses under dir.
func newFetchClient(cfg Config, dir string) *fetch.Client {
	return &fetch.Client{
		HTTPClient:        newHTTPClient(cfg.FetchTimeout + fetchSlack),
		PerRequestTimeout: cfg.FetchTimeout,
		MaxAttempts:       2,
		MaxConcurrent:     cfg.FetchMaxConcurrent,
		Cache:             &cache.HTTPCache{Dir: dir, StrictPerms: cfg.CacheStrictPerms},
	}
}

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/presskeywords/internal/cache"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; KeywordExtractor/1.0)"
	DefaultAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultTimeout   = 30 * time.Second

	// DefaultMaxBodyBytes caps how much of a page body is read.
	DefaultMaxBodyBytes = 8 << 20
)

// Client wraps http.Client with a per-request timeout, bounded retry on 5xx
// responses, a redirect cap and optional on-disk revalidation.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	Accept     string
	// MaxAttempts includes the initial attempt. Minimum 1.
	MaxAttempts int
	// PerRequestTimeout bounds each attempt. Zero means DefaultTimeout.
	PerRequestTimeout time.Duration
	// Optional on-disk cache for GET bodies and validators.
	Cache *cache.HTTPCache
	// If true, skip conditional headers but still save the latest response.
	BypassCache bool

	// RedirectMaxHops caps redirect following. Zero means 5.
	RedirectMaxHops int
	// MaxConcurrent limits in-flight requests. Zero means unlimited.
	MaxConcurrent int
	// MaxBodyBytes caps the bytes read per response; the rest is dropped.
	// Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	limiter     chan struct{}
	limiterOnce sync.Once
}

// ValidateURL accepts only absolute http(s) URLs with a host.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &Error{Kind: InvalidURL, URL: raw, Err: errors.New("empty URL")}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Kind: InvalidURL, URL: raw, Err: err}
	}
	if !isHTTPScheme(u) {
		return nil, &Error{Kind: InvalidURL, URL: raw, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" || u.Hostname() == "" {
		return nil, &Error{Kind: InvalidURL, URL: raw, Err: errors.New("missing host")}
	}
	return u, nil
}

func (c *Client) timeout() time.Duration {
	if c.PerRequestTimeout > 0 {
		return c.PerRequestTimeout
	}
	return DefaultTimeout
}

func (c *Client) maxBody() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach the redirect policy without mutating the caller's client.
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get fetches rawURL and returns the body and content type. Every error is
// a *Error.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, string, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, "", err
	}
	var etag, lastMod string
	if c.Cache != nil && !c.BypassCache {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; ; i++ {
		res, err := c.tryOnce(ctx, rawURL, etag, lastMod)
		if err == nil {
			if res.status == http.StatusNotModified && c.Cache != nil {
				if cached, cerr := c.Cache.LoadBody(ctx, rawURL); cerr == nil {
					log.Debug().Str("url", rawURL).Msg("served from cache")
					return cached, res.contentType, nil
				}
				if etag != "" || lastMod != "" {
					// Cached body vanished; refetch unconditionally.
					etag, lastMod = "", ""
					continue
				}
				return nil, "", &Error{Kind: Transport, URL: rawURL, Err: errors.New("304 without cached body")}
			}
			if c.Cache != nil {
				if serr := c.Cache.Save(ctx, rawURL, res.contentType, res.etag, res.lastModified, res.body); serr != nil {
					log.Debug().Err(serr).Str("url", rawURL).Msg("http cache save failed")
				}
			}
			return res.body, res.contentType, nil
		}
		fe := classify(rawURL, err)
		if !isRetryable(fe) || i >= attempts-1 {
			return nil, "", fe
		}
		log.Debug().Str("url", rawURL).Int("status", fe.Status).Int("attempt", i+1).Msg("retrying fetch")
		select {
		case <-ctx.Done():
			return nil, "", classify(rawURL, ctx.Err())
		case <-time.After(time.Duration(i+1) * 200 * time.Millisecond):
		}
	}
}

type response struct {
	body         []byte
	contentType  string
	etag         string
	lastModified string
	status       int
}

func (c *Client) tryOnce(ctx context.Context, rawURL, etag, lastMod string) (response, error) {
	c.acquire()
	defer c.release()

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return response{}, &Error{Kind: InvalidURL, URL: rawURL, Err: err}
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	accept := c.Accept
	if accept == "" {
		accept = DefaultAccept
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", accept)
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return response{contentType: resp.Header.Get("Content-Type"), status: resp.StatusCode}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return response{}, &Error{Kind: HTTPError, URL: rawURL, Status: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody()))
	if err != nil {
		return response{}, fmt.Errorf("read body: %w", err)
	}
	return response{
		body:         b,
		contentType:  resp.Header.Get("Content-Type"),
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		status:       resp.StatusCode,
	}, nil
}

// isRetryable reports server-side failures only; timeouts already consumed
// the whole per-request budget.
func isRetryable(e *Error) bool {
	return e.Kind == HTTPError && e.Status >= 500 && e.Status <= 599
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = 5
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errors.New("too many redirects")
		}
		if req.URL == nil || !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func (c *Client) acquire() {
	if c.MaxConcurrent <= 0 {
		return
	}
	c.limiterOnce.Do(func() {
		c.limiter = make(chan struct{}, c.MaxConcurrent)
	})
	c.limiter <- struct{}{}
}

func (c *Client) release() {
	if c.MaxConcurrent <= 0 || c.limiter == nil {
		return
	}
	select {
	case <-c.limiter:
	default:
	}
}

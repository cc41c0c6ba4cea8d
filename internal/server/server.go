package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/presskeywords/internal/extraction"
	"github.com/hyperifyio/presskeywords/internal/fetch"
)

// Service is the extraction surface exposed over HTTP.
type Service interface {
	Run(ctx context.Context, req extraction.Request) (extraction.Response, error)
	RecordFailure(ctx context.Context, start time.Time, err error)
	Preview(ctx context.Context, url string) (extraction.ContentPreview, error)
	Health(ctx context.Context) extraction.Health
	Stats(ctx context.Context) (extraction.Stats, error)
}

// Options configures the router.
type Options struct {
	ExtractLimit Limit
	HealthLimit  Limit
	// Gatherer, when set, is served on /metrics.
	Gatherer prometheus.Gatherer
	// HealthTimeout bounds the model probe. Zero means 10s.
	HealthTimeout time.Duration
}

// DefaultOptions mirrors the public deployment limits.
func DefaultOptions() Options {
	return Options{
		ExtractLimit:  Limit{Requests: 20, Window: 15 * time.Minute},
		HealthLimit:   Limit{Requests: 30, Window: time.Minute},
		HealthTimeout: 10 * time.Second,
	}
}

// maxBodyBytes bounds request bodies; text input is truncated downstream.
const maxBodyBytes = 2 << 20

type handler struct {
	svc           Service
	healthTimeout time.Duration
}

// New returns the API router.
func New(svc Service, opts Options) http.Handler {
	h := &handler{svc: svc, healthTimeout: opts.HealthTimeout}
	if h.healthTimeout <= 0 {
		h.healthTimeout = 10 * time.Second
	}
	extractLimiter := NewLimiter(opts.ExtractLimit)
	healthLimiter := NewLimiter(opts.HealthLimit)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, accessLog, middleware.Recoverer)

	r.With(extractLimiter.Middleware("Too many extraction requests, please try again later.")).
		Post("/api/extract-keywords", h.extract)
	r.Post("/api/fetch-content", h.fetchContent)
	r.With(healthLimiter.Middleware("Too many health check requests.")).
		Get("/api/health", h.health)
	r.Get("/api/stats", h.stats)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *handler) extract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req extraction.Request
	if err := decode(w, r, &req); err != nil {
		h.svc.RecordFailure(r.Context(), start, err)
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	resp, err := h.svc.Run(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) fetchContent(w http.ResponseWriter, r *http.Request) {
	var req extraction.Request
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, invalidBody)
		return
	}
	p, err := h.svc.Preview(r.Context(), req.URL)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.healthTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, h.svc.Health(ctx))
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("stats")
		writeError(w, http.StatusInternalServerError, "Failed to fetch statistics")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

const invalidBody = "Invalid JSON body"

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &extraction.Error{Kind: extraction.InvalidInput, Message: invalidBody, Err: err}
	}
	return nil
}

// statusFor maps an error onto the API status code.
func statusFor(err error) int {
	if fetch.IsKind(err, fetch.Timeout) {
		return http.StatusRequestTimeout
	}
	switch extraction.KindOf(err) {
	case extraction.InvalidInput, extraction.FetchFailed, extraction.TooShort:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status == http.StatusRequestTimeout:
		msg = "Request timeout - the URL took too long to respond"
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Msg("request failed")
		var ee *extraction.Error
		if !errors.As(err, &ee) {
			msg = "An unexpected error occurred during extraction"
		}
	}
	writeError(w, status, msg)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

// accessLog logs one line per request with zerolog.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Info().
			Str("id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

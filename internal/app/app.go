package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/presskeywords/internal/aiextract"
	"github.com/hyperifyio/presskeywords/internal/cache"
	"github.com/hyperifyio/presskeywords/internal/extraction"
	"github.com/hyperifyio/presskeywords/internal/fetch"
	"github.com/hyperifyio/presskeywords/internal/keywords"
	"github.com/hyperifyio/presskeywords/internal/llm"
	"github.com/hyperifyio/presskeywords/internal/metrics"
	"github.com/hyperifyio/presskeywords/internal/server"
	"github.com/hyperifyio/presskeywords/internal/store"
)

// App wires configuration into a ready extraction service.
type App struct {
	cfg      Config
	schema   keywords.Schema
	svc      *extraction.Service
	registry *prometheus.Registry
}

const (
	preflightTimeout = 5 * time.Second
	modelHTTPTimeout = 60 * time.Second
	shutdownTimeout  = 10 * time.Second
)

// New validates cfg and builds the service graph. An unreachable model is
// logged and tolerated; requests then fall back to rule-based extraction.
func New(ctx context.Context, cfg Config) (*App, error) {
	cfg = cfg.WithDefaults()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	schema, err := keywords.Lookup(cfg.Schema)
	if err != nil {
		return nil, err
	}
	schema = schema.WithBlacklist(cfg.BrandBlacklist...)

	httpDir := filepath.Join(cfg.CacheDir, "http")
	llmDir := filepath.Join(cfg.CacheDir, "llm")
	if cfg.CacheClear {
		if err := cache.ClearDir(cfg.CacheDir); err != nil {
			log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
		}
	}
	if cfg.CacheMaxAge > 0 {
		// Purge failures only cost disk space.
		nh, _ := cache.PurgeHTTPCacheByAge(httpDir, cfg.CacheMaxAge)
		nl, _ := cache.PurgeLLMCacheByAge(llmDir, cfg.CacheMaxAge)
		log.Debug().Int("http", nh).Int("llm", nl).Msg("purged stale cache entries")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := &extraction.Service{
		Fetcher:  fetch.NewFetcher(newFetchClient(cfg, httpDir)),
		Fallback: keywords.NewFallback(schema),
		Store:    store.NewMemory(),
		Metrics:  metrics.New(reg),
	}

	if strings.TrimSpace(cfg.LLMModel) != "" {
		provider := llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, newHTTPClient(modelHTTPTimeout))
		ai := aiextract.New(provider, cfg.LLMModel, schema)
		ai.GroundingThreshold = cfg.GroundingThreshold
		ai.Cache = &cache.LLMCache{Dir: llmDir, StrictPerms: cfg.CacheStrictPerms}
		svc.Model = ai
		preflight(ctx, provider)
	} else {
		log.Info().Msg("no LLM model configured; using rule-based extraction only")
	}

	log.Debug().Str("schema", schema.Name).Int("categories", len(schema.Categories)).Str("cache", cfg.CacheDir).Msg("app ready")
	return &App{cfg: cfg, schema: schema, svc: svc, registry: reg}, nil
}

// preflight lists models as a connectivity check. It never fails startup.
func preflight(ctx context.Context, l llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()
	models, err := l.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}

// Schema is the active keyword schema, blacklist applied.
func (a *App) Schema() keywords.Schema { return a.schema }

// Service exposes the wired extraction service.
func (a *App) Service() *extraction.Service { return a.svc }

// Extract runs a single extraction, as in CLI one-shot mode.
func (a *App) Extract(ctx context.Context, req extraction.Request) (extraction.Response, error) {
	return a.svc.Run(ctx, req)
}

// Handler is the HTTP API including /metrics.
func (a *App) Handler() http.Handler {
	opts := server.DefaultOptions()
	opts.Gatherer = a.registry
	return server.New(a.svc, opts)
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.ListenAddr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}


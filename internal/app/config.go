package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/presskeywords/internal/keywords"
)

// Config holds runtime configuration for the application.
type Config struct {
	// LLM. An empty model disables AI extraction; the fallback still runs.
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Cache
	CacheDir         string
	CacheMaxAge      time.Duration
	CacheClear       bool
	CacheStrictPerms bool

	// Extraction
	Schema             string
	BrandBlacklist     []string
	GroundingThreshold float64

	// Fetching
	FetchTimeout       time.Duration
	FetchMaxConcurrent int

	// Server
	ListenAddr string

	Verbose bool
}

const (
	defaultCacheDir   = ".presskw-cache"
	defaultListenAddr = ":8080"
	defaultGrounding  = 0.7
	defaultFetchWait  = 30 * time.Second
)

// WithDefaults fills zero fields with their defaults.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.CacheDir) == "" {
		c.CacheDir = defaultCacheDir
	}
	if strings.TrimSpace(c.Schema) == "" {
		c.Schema = keywords.DefaultSchema
	}
	if c.GroundingThreshold == 0 {
		c.GroundingThreshold = defaultGrounding
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = defaultFetchWait
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = defaultListenAddr
	}
	return c
}

// ValidateConfig rejects settings the application cannot start with.
func ValidateConfig(cfg Config) error {
	if cfg.GroundingThreshold < 0 || cfg.GroundingThreshold > 1 {
		return fmt.Errorf("config: grounding threshold %v outside [0,1]", cfg.GroundingThreshold)
	}
	if _, err := keywords.Lookup(cfg.Schema); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.FetchTimeout < 0 || cfg.CacheMaxAge < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.FetchMaxConcurrent < 0 {
		return errors.New("config: negative fetch concurrency is not allowed")
	}
	return nil
}

// Resolve merges configuration sources for the CLI. Values already set in
// flags win, then the environment, then the config file, then defaults.
func Resolve(flags Config, fc *FileConfig) Config {
	cfg := flags
	ApplyEnvToConfig(&cfg)
	if fc != nil {
		ApplyFileConfig(&cfg, *fc)
	}
	return cfg.WithDefaults()
}

// SplitList parses a comma separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

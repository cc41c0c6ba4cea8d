package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, envKey string) {
		if *dst == "" {
			*dst = strings.TrimSpace(os.Getenv(envKey))
		}
	}
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.CacheDir, "CACHE_DIR")
	setString(&cfg.Schema, "KEYWORD_SCHEMA")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")

	if len(cfg.BrandBlacklist) == 0 {
		cfg.BrandBlacklist = SplitList(os.Getenv("BRAND_BLACKLIST"))
	}

	if cfg.GroundingThreshold == 0 {
		if s := strings.TrimSpace(os.Getenv("GROUNDING_THRESHOLD")); s != "" {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				cfg.GroundingThreshold = f
			}
		}
	}
	if cfg.FetchMaxConcurrent == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("FETCH_MAX_CONCURRENT"))); err == nil && n > 0 {
			cfg.FetchMaxConcurrent = n
		}
	}

	setDuration := func(dst *time.Duration, envKey string) {
		if *dst != 0 {
			return
		}
		if s := os.Getenv(envKey); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")
	setDuration(&cfg.FetchTimeout, "FETCH_TIMEOUT")

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}

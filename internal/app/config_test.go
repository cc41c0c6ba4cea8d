package app

import (
	"testing"
	"time"
)

func TestResolve_Precedence(t *testing.T) {
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("LLM_BASE_URL", "http://env.example/v1")
	t.Setenv("KEYWORD_SCHEMA", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROUNDING_THRESHOLD", "")

	var fc FileConfig
	fc.LLM.Model = "file-model"
	fc.LLM.BaseURL = "http://file.example/v1"
	fc.LLM.APIKey = "file-key"
	fc.Extraction.Schema = "telehealth"

	cfg := Resolve(Config{LLMModel: "flag-model"}, &fc)
	if cfg.LLMModel != "flag-model" {
		t.Fatalf("flag should win, got %q", cfg.LLMModel)
	}
	if cfg.LLMBaseURL != "http://env.example/v1" {
		t.Fatalf("env should beat file, got %q", cfg.LLMBaseURL)
	}
	if cfg.LLMAPIKey != "file-key" || cfg.Schema != "telehealth" {
		t.Fatalf("file should fill the rest: %+v", cfg)
	}
	if cfg.ListenAddr != defaultListenAddr || cfg.GroundingThreshold != defaultGrounding {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	y := writeFile(t, dir, "presskw.yaml", `
llm:
  model: local-model
cache:
  maxAge: 48h
extraction:
  schema: press
  brandBlacklist: [Acme, Globex]
  groundingThreshold: 0.8
fetch:
  timeout: 10s
server:
  addr: ":9090"
`)
	fc, err := LoadConfigFile(y)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if fc.LLM.Model != "local-model" || time.Duration(fc.Cache.MaxAge) != 48*time.Hour {
		t.Fatalf("unexpected yaml config: %+v", fc)
	}
	if len(fc.Extraction.BrandBlacklist) != 2 || fc.Server.Addr != ":9090" {
		t.Fatalf("unexpected yaml config: %+v", fc)
	}

	j := writeFile(t, dir, "presskw.json", `{"fetch":{"timeout":"3s","maxConcurrent":4},"verbose":true}`)
	fc, err = LoadConfigFile(j)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var cfg Config
	ApplyFileConfig(&cfg, fc)
	if cfg.FetchTimeout != 3*time.Second || cfg.FetchMaxConcurrent != 4 || !cfg.Verbose {
		t.Fatalf("json not applied: %+v", cfg)
	}

	bad := writeFile(t, dir, "bad.yaml", "fetch:\n  timeout: soon\n")
	if _, err := LoadConfigFile(bad); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestValidateConfig(t *testing.T) {
	ok := Config{}.WithDefaults()
	if err := ValidateConfig(ok); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cases := map[string]Config{
		"threshold": func() Config { c := ok; c.GroundingThreshold = 1.5; return c }(),
		"schema":    func() Config { c := ok; c.Schema = "sports"; return c }(),
		"duration":  func() Config { c := ok; c.FetchTimeout = -time.Second; return c }(),
	}
	for name, c := range cases {
		if err := ValidateConfig(c); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

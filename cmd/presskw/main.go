package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/presskeywords/internal/app"
	"github.com/hyperifyio/presskeywords/internal/extraction"
	"github.com/hyperifyio/presskeywords/internal/keywords"
	"github.com/hyperifyio/presskeywords/internal/report"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		flags      app.Config
		configPath string
		envFile    string
		blacklist  string
		pageURL    string
		text       string
		textFile   string
		serve      bool
		format     string
		outPath    string
		pdfPath    string
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&envFile, "env", ".env", "Dotenv file to load; missing files are ignored")
	flag.StringVar(&flags.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (env LLM_BASE_URL)")
	flag.StringVar(&flags.LLMModel, "llm.model", "", "Model name; empty disables AI extraction (env LLM_MODEL)")
	flag.StringVar(&flags.LLMAPIKey, "llm.key", "", "API key (env LLM_API_KEY)")
	flag.StringVar(&flags.CacheDir, "cache.dir", "", "Cache directory (env CACHE_DIR)")
	flag.DurationVar(&flags.CacheMaxAge, "cache.maxAge", 0, "Purge cache entries older than this at startup; 0 disables")
	flag.BoolVar(&flags.CacheClear, "cache.clear", false, "Clear the cache directory at startup")
	flag.BoolVar(&flags.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	flag.StringVar(&flags.Schema, "schema", "", "Keyword schema: "+strings.Join(keywords.Names(), ", "))
	flag.StringVar(&blacklist, "blacklist", "", "Comma separated brand names to keep out of brandless categories")
	flag.Float64Var(&flags.GroundingThreshold, "grounding", 0, "Minimum fraction of model phrases found in the source (default 0.7)")
	flag.DurationVar(&flags.FetchTimeout, "fetch.timeout", 0, "Per-request page fetch timeout (default 30s)")
	flag.IntVar(&flags.FetchMaxConcurrent, "fetch.maxConcurrent", 0, "Maximum concurrent page fetches; 0 is unlimited")
	flag.StringVar(&flags.ListenAddr, "addr", "", "Listen address for -serve (default :8080)")
	flag.BoolVar(&flags.Verbose, "v", false, "Verbose logging")

	flag.BoolVar(&serve, "serve", false, "Run the HTTP API")
	flag.StringVar(&pageURL, "url", "", "Press release URL to analyze")
	flag.StringVar(&text, "text", "", "Press release text to analyze")
	flag.StringVar(&textFile, "text.file", "", "Read press release text from a file ('-' for stdin)")
	flag.StringVar(&format, "format", "json", "One-shot output format: json or md")
	flag.StringVar(&outPath, "output", "", "Write the one-shot result to this file instead of stdout")
	flag.StringVar(&pdfPath, "pdf", "", "Also write a PDF report to this path")
	flag.Parse()

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Fatal().Err(err).Str("file", envFile).Msg("load env")
	}
	flags.BrandBlacklist = app.SplitList(blacklist)

	var fc *app.FileConfig
	if configPath != "" {
		c, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("file", configPath).Msg("load config")
		}
		fc = &c
	}
	cfg := app.Resolve(flags, fc)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init app")
	}

	if serve {
		if err := a.Serve(ctx); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	req, err := buildRequest(pageURL, text, textFile)
	if err != nil {
		log.Error().Err(err).Msg("invalid input")
		flag.Usage()
		os.Exit(2)
	}
	if err := runOnce(ctx, a, req, format, outPath, pdfPath); err != nil {
		log.Error().Err(err).Msg("extraction failed")
		os.Exit(1)
	}
}

func buildRequest(pageURL, text, textFile string) (extraction.Request, error) {
	if textFile != "" {
		var (
			b   []byte
			err error
		)
		if textFile == "-" {
			b, err = io.ReadAll(os.Stdin)
		} else {
			b, err = os.ReadFile(textFile)
		}
		if err != nil {
			return extraction.Request{}, fmt.Errorf("read text: %w", err)
		}
		text = string(b)
	}
	if pageURL == "" && text == "" {
		return extraction.Request{}, errors.New("one of -url, -text or -text.file is required")
	}
	return extraction.Request{URL: pageURL, Text: text}, nil
}

func runOnce(ctx context.Context, a *app.App, req extraction.Request, format, outPath, pdfPath string) error {
	resp, err := a.Extract(ctx, req)
	if err != nil {
		return err
	}
	md := report.Markdown(resp, a.Schema())

	var out []byte
	switch format {
	case "md", "markdown":
		out = []byte(md)
	case "json":
		out, err = json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		out = append(out, '\n')
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(out)
	} else {
		err = os.WriteFile(outPath, out, 0o644)
	}
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if pdfPath != "" {
		f, err := os.Create(pdfPath)
		if err != nil {
			return fmt.Errorf("create pdf: %w", err)
		}
		if err := report.WritePDF(f, md); err != nil {
			_ = f.Close()
			return fmt.Errorf("write pdf: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("out", pdfPath).Msg("wrote PDF report")
	}
	log.Info().Str("method", string(resp.Record.Method)).Int("keywords", resp.TotalKeywords).Msg("done")
	return nil
}

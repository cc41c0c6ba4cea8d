package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/presskeywords/internal/app"
)

var pressText = strings.Repeat("Acme Corp announces $5 million in Series A funding in Austin, TX on March 3, 2024. ", 3)

func TestBuildRequest(t *testing.T) {
	if _, err := buildRequest("", "", ""); err == nil {
		t.Fatalf("expected error without input")
	}
	p := filepath.Join(t.TempDir(), "pr.txt")
	if err := os.WriteFile(p, []byte(pressText), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	req, err := buildRequest("", "ignored", p)
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}
	if req.Text != pressText || req.URL != "" {
		t.Fatalf("file text should replace -text: %+v", req)
	}
}

func TestRunOnce_WritesJSONAndPDF(t *testing.T) {
	dir := t.TempDir()
	a, err := app.New(context.Background(), app.Config{CacheDir: filepath.Join(dir, "cache")})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	req, _ := buildRequest("", pressText, "")
	out := filepath.Join(dir, "out.json")
	pdf := filepath.Join(dir, "out.pdf")
	if err := runOnce(context.Background(), a, req, "json", out, pdf); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["extractionMethod"] != "fallback" {
		t.Fatalf("unexpected method %v", got["extractionMethod"])
	}
	p, err := os.ReadFile(pdf)
	if err != nil || !bytes.HasPrefix(p, []byte("%PDF-")) {
		t.Fatalf("expected a PDF at %s (err=%v)", pdf, err)
	}
}

func TestRunOnce_Markdown(t *testing.T) {
	dir := t.TempDir()
	a, err := app.New(context.Background(), app.Config{CacheDir: filepath.Join(dir, "cache")})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	req, _ := buildRequest("", pressText, "")
	out := filepath.Join(dir, "out.md")
	if err := runOnce(context.Background(), a, req, "md", out, ""); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	b, _ := os.ReadFile(out)
	if !strings.HasPrefix(string(b), "# Keyword extraction") {
		t.Fatalf("unexpected markdown: %q", b)
	}
	if err := runOnce(context.Background(), a, req, "xml", "", ""); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

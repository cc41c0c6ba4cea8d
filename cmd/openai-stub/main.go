// Command openai-stub is a minimal OpenAI-compatible server for local runs
// and tests. Chat completions answer with the rule-based keyword result for
// the submitted press release, so every phrase is grounded.
package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/presskeywords/internal/aiextract"
	"github.com/hyperifyio/presskeywords/internal/keywords"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := strings.TrimSpace(os.Getenv("MODEL_ID"))
	if model == "" {
		model = "test-model"
	}
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	if addr == "" {
		addr = ":8081"
	}
	schema, err := keywords.Lookup(os.Getenv("KEYWORD_SCHEMA"))
	if err != nil {
		log.Fatal().Err(err).Msg("schema")
	}

	log.Info().Str("addr", addr).Str("model", model).Str("schema", schema.Name).Msg("openai-stub listening")
	if err := http.ListenAndServe(addr, newHandler(model, keywords.NewFallback(schema))); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
}

func newHandler(model string, fb *keywords.Fallback) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, openai.ModelsList{Models: []openai.Model{{ID: model, Object: "model", OwnedBy: "stub"}}})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		writeJSON(w, openai.ChatCompletionResponse{
			ID:      "stub-1",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   model,
			Choices: []openai.ChatCompletionChoice{{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: answer(req, fb)},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	})
	return mux
}

// answer replies to the last user message.
func answer(req openai.ChatCompletionRequest, fb *keywords.Fallback) string {
	user := ""
	for _, m := range req.Messages {
		if m.Role == openai.ChatMessageRoleUser {
			user = m.Content
		}
	}
	text, ok := strings.CutPrefix(user, aiextract.UserPrefix)
	if !ok {
		return "OK"
	}
	b, err := json.Marshal(fb.Extract(text))
	if err != nil {
		return "{}"
	}
	return string(b)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

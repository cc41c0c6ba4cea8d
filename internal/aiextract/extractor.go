package aiextract

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/cases"

	"github.com/hyperifyio/presskeywords/internal/budget"
	"github.com/hyperifyio/presskeywords/internal/cache"
	"github.com/hyperifyio/presskeywords/internal/content"
	"github.com/hyperifyio/presskeywords/internal/keywords"
	"github.com/hyperifyio/presskeywords/internal/llm"
)

const (
	DefaultGroundingThreshold   = 0.7
	DefaultReservedOutputTokens = 2048
)

// Extractor asks a chat model for categorized phrases and accepts the answer
// only when it is well formed and grounded in the source text. It holds no
// per-call state.
type Extractor struct {
	Client llm.Client
	Model  string
	Schema keywords.Schema
	Cache  *cache.LLMCache
	// GroundingThreshold is the minimum fraction of returned phrases that
	// must occur in the source. Zero means DefaultGroundingThreshold.
	GroundingThreshold float64
	// ReservedOutputTokens is kept free in the model context for the answer.
	ReservedOutputTokens int
	// SystemPrompt, when non-empty, replaces the generated system message.
	SystemPrompt string
	// HealthModel overrides Model for CheckHealth.
	HealthModel string

	filter *keywords.Filter
}

// New returns an Extractor for schema using client and model.
func New(client llm.Client, model string, schema keywords.Schema) *Extractor {
	schema = schema.WithDefaults()
	return &Extractor{
		Client:               client,
		Model:                model,
		Schema:               schema,
		GroundingThreshold:   DefaultGroundingThreshold,
		ReservedOutputTokens: DefaultReservedOutputTokens,
		filter:               keywords.NewFilter(schema),
	}
}

func (e *Extractor) configured() bool {
	return e != nil && e.Client != nil && strings.TrimSpace(e.Model) != ""
}

func (e *Extractor) threshold() float64 {
	if e.GroundingThreshold > 0 {
		return e.GroundingThreshold
	}
	return DefaultGroundingThreshold
}

func (e *Extractor) getFilter() *keywords.Filter {
	if e.filter != nil {
		return e.filter
	}
	return keywords.NewFilter(e.Schema)
}

// Extract returns the model's phrases for text. Every failure is an *Error.
func (e *Extractor) Extract(ctx context.Context, text string) (keywords.Result, error) {
	if !e.configured() {
		return keywords.Result{}, &Error{Kind: Unavailable, Err: ErrNotConfigured}
	}
	schema := e.Schema.WithDefaults()
	sys := buildSystemMessage(schema)
	if strings.TrimSpace(e.SystemPrompt) != "" {
		sys = e.SystemPrompt
	}
	reserved := e.ReservedOutputTokens
	if reserved <= 0 {
		reserved = DefaultReservedOutputTokens
	}
	limit := budget.InputCharBudget(e.Model, reserved, budget.EstimatePromptTokens(sys, UserPrefix))
	if limit == 0 {
		return keywords.Result{}, &Error{Kind: Unavailable, Err: errors.New("prompt does not fit the model context")}
	}
	user := buildUserMessage(content.Truncate(text, limit))
	log.Debug().Str("model", e.Model).Int("system_chars", len(sys)).Int("user_chars", len(user)).Msg("ai extraction request")

	key := cache.KeyFrom(e.Model, sys+"\n\n"+user)
	if raw, ok, _ := e.Cache.Get(ctx, key); ok {
		if res, err := e.parse(string(raw), text); err == nil {
			log.Debug().Str("model", e.Model).Msg("ai extraction served from cache")
			return res, nil
		}
	}

	resp, err := e.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sys},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature:    0,
		N:              1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return keywords.Result{}, classify(err)
	}
	if len(resp.Choices) == 0 {
		return keywords.Result{}, invalid("no choices in response")
	}
	raw := resp.Choices[0].Message.Content
	res, err := e.parse(raw, text)
	if err != nil {
		return keywords.Result{}, err
	}
	if serr := e.Cache.Save(ctx, key, []byte(stripFences(raw))); serr != nil {
		log.Debug().Err(serr).Msg("llm cache save failed")
	}
	return res, nil
}

// parse validates a raw model answer against the schema and grounds it in
// source.
func (e *Extractor) parse(raw string, source string) (keywords.Result, error) {
	raw = stripFences(raw)
	if raw == "" {
		return keywords.Result{}, invalid("empty response")
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return keywords.Result{}, invalid("decode response: %w", err)
	}
	schema := e.Schema.WithDefaults()
	phrases := make(map[string][]string, len(schema.Categories))
	total := 0
	for _, c := range schema.Categories {
		v, ok := payload[c.Key]
		if !ok {
			return keywords.Result{}, invalid("missing category %q", c.Key)
		}
		var list []string
		if string(v) != "null" {
			if err := json.Unmarshal(v, &list); err != nil {
				return keywords.Result{}, invalid("category %q: %w", c.Key, err)
			}
		}
		phrases[c.Key] = list
		total += len(list)
	}
	if total == 0 {
		return keywords.Result{}, invalid("no phrases returned")
	}

	fold := cases.Fold()
	folded := fold.String(source)
	grounded := make(map[string][]string, len(phrases))
	hits := 0
	for key, list := range phrases {
		for _, p := range list {
			p = strings.TrimSpace(p)
			if p != "" && strings.Contains(folded, fold.String(p)) {
				grounded[key] = append(grounded[key], p)
				hits++
			}
		}
	}
	ratio := float64(hits) / float64(total)
	if ratio < e.threshold() {
		return keywords.Result{}, &Error{Kind: LowGroundingRatio, Ratio: ratio}
	}

	filter := e.getFilter()
	res := keywords.NewResult(schema)
	for _, c := range schema.Categories {
		res.Phrases[c.Key] = filter.Apply(grounded[c.Key], c.Brandless)
	}
	if res.Total() == 0 {
		return keywords.Result{}, invalid("no phrases survived filtering")
	}
	res.Confidence = keywords.Confidence(res.Total())
	if v, ok := payload[confidenceField]; ok {
		var score float64
		if json.Unmarshal(v, &score) == nil {
			res.Confidence = int(math.Round(math.Max(0, math.Min(100, score))))
		}
	}
	return res, nil
}

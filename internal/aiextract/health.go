package aiextract

import (
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Status is the model availability reported by CheckHealth.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusRateLimited Status = "rate_limited"
	StatusUnavailable Status = "unavailable"
)

// Health is the outcome of a health probe.
type Health struct {
	Status       Status
	ResponseTime time.Duration
}

const healthPrompt = "Health check - respond with 'OK'"

// CheckHealth issues a minimal round trip to the model.
func (e *Extractor) CheckHealth(ctx context.Context) Health {
	start := time.Now()
	if !e.configured() {
		return Health{Status: StatusUnavailable}
	}
	model := e.HealthModel
	if model == "" {
		model = e.Model
	}
	resp, err := e.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: healthPrompt}},
		MaxTokens: 8,
		N:         1,
	})
	h := Health{ResponseTime: time.Since(start)}
	switch {
	case err != nil && classify(err).Kind == RateLimited:
		h.Status = StatusRateLimited
	case err != nil:
		h.Status = StatusUnavailable
	case len(resp.Choices) > 0 && strings.Contains(resp.Choices[0].Message.Content, "OK"):
		h.Status = StatusAvailable
	default:
		h.Status = StatusUnavailable
	}
	return h
}

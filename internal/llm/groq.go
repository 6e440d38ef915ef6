package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.3-70b-versatile"

	defaultHTTPTimeout = 60 * time.Second
)

// GroqConfig holds connection settings for the Groq adapter.
type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Groq talks to Groq's OpenAI-compatible chat completions API.
type Groq struct {
	client *openai.Client
	model  string
}

// NewGroq creates a Groq adapter. Empty Model and BaseURL fall back to the
// defaults.
func NewGroq(cfg GroqConfig) *Groq {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultGroqBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}

	model := cfg.Model
	if model == "" {
		model = DefaultGroqModel
	}
	return &Groq{
		client: openai.NewClientWithConfig(oc),
		model:  model,
	}
}

func (g *Groq) Name() string { return "groq" }

// Generate sends the system prompt as the leading turn, the history verbatim
// and the user message last.
func (g *Groq) Generate(ctx context.Context, req Request) (string, error) {
	turns := req.Messages()
	msgs := make([]openai.ChatCompletionMessage, len(turns))
	for i, m := range turns {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    msgs,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	if err != nil {
		return "", providerError(g.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return "", providerError(g.Name(), ErrEmptyCompletion)
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", providerError(g.Name(), ErrEmptyCompletion)
	}
	return text, nil
}

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

const geminiRoleModel = "model"

// GeminiConfig holds connection settings for the Gemini adapter.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// contentGenerator is the subset of genai.Models the adapter uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini talks to Google's Gemini API.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Gemini adapter. An empty Model falls back to the default.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: defaultHTTPTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return newGemini(client.Models, cfg.Model), nil
}

func newGemini(models contentGenerator, model string) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{models: models, model: model}
}

func (g *Gemini) Name() string { return "gemini" }

// Generate passes the system prompt as the system instruction. Gemini has no
// system role inside contents, so system turns from the history are appended
// to the instruction; user and assistant turns keep their order.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	system, contents := geminiContents(req)

	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(Temperature)),
		MaxOutputTokens:   MaxTokens,
		SystemInstruction: system,
		// Thinking tokens count against the output budget.
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(0)),
		},
	}

	result, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", providerError(g.Name(), err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", providerError(g.Name(), ErrEmptyCompletion)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		if reason := result.Candidates[0].FinishReason; reason != "" {
			return "", providerError(g.Name(), fmt.Errorf("%w (finish reason %s)", ErrEmptyCompletion, reason))
		}
		return "", providerError(g.Name(), ErrEmptyCompletion)
	}
	return text, nil
}

func geminiContents(req Request) (*genai.Content, []*genai.Content) {
	system := &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, m := range req.History {
		switch m.Role {
		case RoleSystem:
			system.Parts = append(system.Parts, &genai.Part{Text: m.Content})
		case RoleAssistant:
			contents = append(contents, &genai.Content{Role: geminiRoleModel, Parts: []*genai.Part{{Text: m.Content}}})
		default:
			contents = append(contents, &genai.Content{Role: RoleUser, Parts: []*genai.Part{{Text: m.Content}}})
		}
	}
	contents = append(contents, &genai.Content{Role: RoleUser, Parts: []*genai.Part{{Text: req.UserMessage}}})
	return system, contents
}

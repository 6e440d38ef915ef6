package main

import (
	"context"
	"log/slog"

	"github.com/louay-ouledali/folio/internal/chat"
	"github.com/louay-ouledali/folio/internal/config"
	"github.com/louay-ouledali/folio/internal/llm"
	"github.com/louay-ouledali/folio/internal/portfolio"
)

// credentialSource supplies provider API keys. Implemented by config.Config.
type credentialSource interface {
	Credential(provider string) (string, bool)
}

// newDescriptors builds the primary (Groq) and secondary (Gemini) provider
// descriptors. A provider without a credential is left unconfigured.
func newDescriptors(ctx context.Context, creds credentialSource, p config.ProvidersConfig) (primary, secondary chat.Descriptor, err error) {
	primary = chat.Descriptor{Name: "groq"}
	if key, ok := creds.Credential("groq"); ok {
		primary.Adapter = llm.NewGroq(llm.GroqConfig{
			APIKey:  key,
			Model:   p.GroqModel,
			BaseURL: p.GroqBaseURL,
		})
	} else {
		slog.Info("provider not configured", "provider", primary.Name)
	}

	secondary = chat.Descriptor{Name: "gemini"}
	if key, ok := creds.Credential("gemini"); ok {
		g, err := llm.NewGemini(ctx, llm.GeminiConfig{
			APIKey: key,
			Model:  p.GeminiModel,
		})
		if err != nil {
			return chat.Descriptor{}, chat.Descriptor{}, err
		}
		secondary.Adapter = g
	} else {
		slog.Info("provider not configured", "provider", secondary.Name)
	}

	if !primary.Configured() && !secondary.Configured() {
		printWarning("no provider API keys configured; every reply will be the offline message")
	}
	return primary, secondary, nil
}

// newOrchestrator wires an orchestrator from config and a portfolio source.
func newOrchestrator(ctx context.Context, cfg config.Config, src portfolio.Source) (*chat.Orchestrator, error) {
	primary, secondary, err := newDescriptors(ctx, cfg, cfg.Providers)
	if err != nil {
		return nil, err
	}
	return chat.New(chat.Config{
		Primary:        primary,
		Secondary:      secondary,
		Source:         src,
		AttemptTimeout: cfg.Chat.AttemptTimeout,
	}), nil
}

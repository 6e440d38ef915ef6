package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/louay-ouledali/folio/internal/composer"
	"github.com/louay-ouledali/folio/internal/llm"
	"github.com/louay-ouledali/folio/internal/portfolio"
)

// Descriptor describes one text-generation provider. A descriptor without an
// adapter is unconfigured and is never attempted.
type Descriptor struct {
	Name    string
	Adapter llm.Adapter
}

// Configured reports whether the provider has credentials and can be attempted.
func (d Descriptor) Configured() bool {
	return d.Adapter != nil
}

// Config holds the orchestrator's collaborators, fixed at startup.
type Config struct {
	Primary   Descriptor
	Secondary Descriptor
	Source    portfolio.Source
	// AttemptTimeout bounds each provider call. Zero leaves timing to the
	// caller's context and the transport.
	AttemptTimeout time.Duration
}

// Orchestrator decides which providers to invoke for a chat message and what
// to tell the caller when none of them answers. It keeps no state between
// calls: every Reply attempts the primary first.
type Orchestrator struct {
	primary        Descriptor
	secondary      Descriptor
	source         portfolio.Source
	attemptTimeout time.Duration
}

// New creates an Orchestrator. A nil Source falls back to the built-in
// portfolio snapshot.
func New(cfg Config) *Orchestrator {
	src := cfg.Source
	if src == nil {
		src = portfolio.Static(portfolio.Default())
	}
	return &Orchestrator{
		primary:        cfg.Primary,
		secondary:      cfg.Secondary,
		source:         src,
		attemptTimeout: cfg.AttemptTimeout,
	}
}

// Providers reports the configured state of the primary and secondary
// providers, keyed by name.
func (o *Orchestrator) Providers() map[string]bool {
	m := make(map[string]bool, 2)
	if o.primary.Name != "" {
		m[o.primary.Name] = o.primary.Configured()
	}
	if o.secondary.Name != "" {
		m[o.secondary.Name] = o.secondary.Configured()
	}
	return m
}

// Context returns the portfolio document replies are grounded on.
func (o *Orchestrator) Context() portfolio.Context {
	return o.source.Context()
}

// Reply produces an answer to message given the prior conversation. Provider
// failures never surface as errors: they select one of the terminal outcomes.
// The error return is reserved for faults outside the providers.
func (o *Orchestrator) Reply(ctx context.Context, history []llm.Message, message string) (Outcome, error) {
	doc := o.source.Context()
	out := Outcome{Owner: doc.DisplayName()}

	primaryOn := o.primary.Configured()
	secondaryOn := o.secondary.Configured()

	if !primaryOn && !secondaryOn {
		out.Kind = Offline
		outcomesTotal.WithLabelValues(out.Kind.String()).Inc()
		return out, nil
	}

	prompt, err := composer.BuildSystemPrompt(doc)
	if err != nil {
		return Outcome{}, fmt.Errorf("building system prompt: %w", err)
	}
	slog.DebugContext(ctx, "system prompt built", "approx_tokens", composer.EstimateTokens(prompt), "history_turns", len(history))

	req := llm.Request{
		SystemPrompt: prompt,
		History:      history,
		UserMessage:  message,
	}

	var primaryFailed, secondaryFailed bool

	if primaryOn {
		text, err := o.attempt(ctx, o.primary, req)
		if err == nil {
			return o.success(out, o.primary.Name, text), nil
		}
		primaryFailed = true
	}

	if secondaryOn {
		text, err := o.attempt(ctx, o.secondary, req)
		if err == nil {
			return o.success(out, o.secondary.Name, text), nil
		}
		secondaryFailed = true
	}

	switch {
	case primaryFailed && secondaryFailed:
		out.Kind = BothFailed
	case primaryFailed && !secondaryOn, secondaryFailed && !primaryOn:
		out.Kind = SingleFailed
	default:
		out.Kind = Unexpected
	}
	slog.WarnContext(ctx, "no provider produced a reply", "outcome", out.Kind.String())
	outcomesTotal.WithLabelValues(out.Kind.String()).Inc()
	return out, nil
}

func (o *Orchestrator) success(out Outcome, provider, text string) Outcome {
	out.Kind = Success
	out.Reply = text
	out.Provider = provider
	outcomesTotal.WithLabelValues(out.Kind.String()).Inc()
	return out
}

// attempt runs one provider call. Timeouts and any other error count as a
// provider failure.
func (o *Orchestrator) attempt(ctx context.Context, d Descriptor, req llm.Request) (string, error) {
	if o.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.attemptTimeout)
		defer cancel()
	}

	start := time.Now()
	text, err := d.Adapter.Generate(ctx, req)
	elapsed := time.Since(start)
	providerLatency.WithLabelValues(d.Name).Observe(elapsed.Seconds())

	if err != nil {
		var pe *llm.ProviderError
		if !errors.As(err, &pe) {
			err = &llm.ProviderError{Provider: d.Name, Err: err}
		}
		providerAttempts.WithLabelValues(d.Name, "failure").Inc()
		slog.WarnContext(ctx, "provider attempt failed",
			"provider", d.Name,
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		return "", err
	}

	providerAttempts.WithLabelValues(d.Name, "success").Inc()
	slog.DebugContext(ctx, "provider replied", "provider", d.Name, "duration_ms", elapsed.Milliseconds())
	return text, nil
}

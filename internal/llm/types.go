package llm

import (
	"context"
	"errors"
	"fmt"
)

// Fixed generation parameters shared by every adapter.
const (
	Temperature = 0.5
	MaxTokens   = 300
)

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ErrEmptyCompletion is returned when a provider call succeeds but yields no
// usable text.
var ErrEmptyCompletion = errors.New("empty completion")

// Message represents a chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ValidRole reports whether role is one of the known conversation roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Request is the provider-agnostic generation input.
type Request struct {
	SystemPrompt string
	History      []Message
	UserMessage  string
}

// Messages flattens the request into the ordered turn list: the system prompt
// first, then the history in original order, then the new user message.
func (r Request) Messages() []Message {
	msgs := make([]Message, 0, len(r.History)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: r.SystemPrompt})
	msgs = append(msgs, r.History...)
	msgs = append(msgs, Message{Role: RoleUser, Content: r.UserMessage})
	return msgs
}

// Adapter wraps one external text-generation service. Generate issues exactly
// one request and never retries; any failure is reported as *ProviderError.
type Adapter interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// ProviderError reports a failed generation call on a specific provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerError(name string, err error) error {
	return &ProviderError{Provider: name, Err: err}
}

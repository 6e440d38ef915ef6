package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

type capturedChat struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

func groqServer(t *testing.T, handler http.HandlerFunc) *Groq {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGroq(GroqConfig{APIKey: "test-key", BaseURL: srv.URL})
}

func completionJSON(content string) string {
	b, _ := json.Marshal(content)
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion","model":"llama","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, b)
}

func TestGroq_Generate(t *testing.T) {
	var got capturedChat
	var gotAuth, gotPath string

	g := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionJSON("His email is x@y.com."))
	})

	req := Request{
		SystemPrompt: "SYSTEM",
		History: []Message{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello!"},
			{Role: RoleUser, Content: "who is he?"},
		},
		UserMessage: "What is his email?",
	}
	reply, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "His email is x@y.com." {
		t.Errorf("reply = %q", reply)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if got.Model != DefaultGroqModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultGroqModel)
	}
	if got.Temperature != Temperature {
		t.Errorf("temperature = %v, want %v", got.Temperature, Temperature)
	}
	if got.MaxTokens != MaxTokens {
		t.Errorf("max_tokens = %d, want %d", got.MaxTokens, MaxTokens)
	}

	want := req.Messages()
	if len(got.Messages) != len(want) {
		t.Fatalf("sent %d messages, want %d", len(got.Messages), len(want))
	}
	for i := range want {
		if got.Messages[i] != want[i] {
			t.Errorf("message[%d] = %+v, want %+v", i, got.Messages[i], want[i])
		}
	}
}

func TestGroq_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":{"message":"Invalid API Key","type":"invalid_request_error"}}`)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{not json`)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","choices":[]}`)
			},
			wantErr: ErrEmptyCompletion,
		},
		{
			name: "blank content",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, completionJSON("  "))
			},
			wantErr: ErrEmptyCompletion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := groqServer(t, tt.handler)
			_, err := g.Generate(context.Background(), Request{SystemPrompt: "s", UserMessage: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			var pe *ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ProviderError", err)
			}
			if pe.Provider != "groq" {
				t.Errorf("Provider = %q, want groq", pe.Provider)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGroq_NoRetry(t *testing.T) {
	var calls atomic.Int32
	g := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := g.Generate(context.Background(), Request{UserMessage: "hi"}); err == nil {
		t.Fatal("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestGroq_CustomModel(t *testing.T) {
	var got capturedChat
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionJSON("ok"))
	}))
	defer srv.Close()

	g := NewGroq(GroqConfig{APIKey: "k", Model: "llama-3.1-8b-instant", BaseURL: srv.URL + "/"})
	if _, err := g.Generate(context.Background(), Request{UserMessage: "hi"}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got.Model != "llama-3.1-8b-instant" {
		t.Errorf("model = %q", got.Model)
	}
}

func TestRequestMessages_Order(t *testing.T) {
	req := Request{
		SystemPrompt: "sys",
		History: []Message{
			{Role: RoleUser, Content: "1"},
			{Role: RoleAssistant, Content: "2"},
		},
		UserMessage: "3",
	}
	got := req.Messages()
	want := []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "1"},
		{Role: RoleAssistant, Content: "2"},
		{Role: RoleUser, Content: "3"},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{"user", "assistant", "system"} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	for _, r := range []string{"", "tool", "User"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%q) = true", r)
		}
	}
}

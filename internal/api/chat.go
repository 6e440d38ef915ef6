package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/louay-ouledali/folio/internal/chat"
	"github.com/louay-ouledali/folio/internal/llm"
	"github.com/louay-ouledali/folio/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Error bodies returned by the chat endpoints.
const (
	errMessageRequired  = "Message is required"
	errInvalidHistory   = "Invalid history"
	errInternal         = "Internal Server Error"
	errMethodNotAllowed = "Method not allowed"
	errNotFound         = "Not found"
)

// Orchestrator produces chat replies. Implemented by *chat.Orchestrator.
type Orchestrator interface {
	Reply(ctx context.Context, history []llm.Message, message string) (chat.Outcome, error)
	Providers() map[string]bool
}

// Recorder persists completed exchanges. Implemented by *storage.Store.
type Recorder interface {
	Record(ctx context.Context, r storage.ChatRecord) error
}

// ChatDeps holds dependencies for the chat HTTP handler.
type ChatDeps struct {
	Orchestrator Orchestrator
	Recorder     Recorder // optional; nil disables chat logging
	// AllowedOrigins lists CORS origins. Empty or "*" allows any origin.
	AllowedOrigins []string
	// RequestTimeout bounds the whole orchestration for one request. Zero
	// disables the bound.
	RequestTimeout time.Duration
	// MetricsToken, when set, protects /metrics with bearer auth.
	MetricsToken string
}

// chatRequest is the body accepted by the chat endpoints.
type chatRequest struct {
	Message string        `json:"message"`
	History []historyTurn `json:"history"`
}

type historyTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	Timestamp string `json:"timestamp"`
}

type healthResponse struct {
	Status    string          `json:"status"`
	Providers map[string]bool `json:"providers"`
}

// timestampLayout is RFC 3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var now = time.Now

// NewChatHandler returns an http.Handler serving the chat API, health and
// metrics endpoints.
func NewChatHandler(deps ChatDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(accessLog)
	r.Use(recoverJSON)
	r.Use(corsHandler(deps.AllowedOrigins))
	r.Use(optionsNoContent)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusNotFound, errNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})

	r.Get("/health", handleHealth(deps.Orchestrator))

	metrics := promhttp.Handler()
	if deps.MetricsToken != "" {
		metrics = BearerAuth(deps.MetricsToken)(metrics)
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	chatHandler := handleChat(deps)
	r.Post("/chat", chatHandler)
	r.Post("/api/chat", chatHandler)

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         3600,
	})
	return c.Handler
}

// optionsNoContent answers any OPTIONS request that was not a CORS preflight
// with 204 and no body, whatever the path.
func optionsNoContent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "ok",
			Providers: o.Providers(),
		})
	}
}

func handleChat(deps ChatDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, errMessageRequired)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httpError(w, http.StatusBadRequest, errMessageRequired)
			return
		}
		history, err := toHistory(req.History)
		if err != nil {
			slog.DebugContext(r.Context(), "rejecting chat request", "error", err)
			httpError(w, http.StatusBadRequest, errInvalidHistory)
			return
		}

		ctx := r.Context()
		if deps.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.RequestTimeout)
			defer cancel()
		}

		start := time.Now()
		out, err := deps.Orchestrator.Reply(ctx, history, req.Message)
		if err != nil {
			slog.ErrorContext(r.Context(), "chat orchestration failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   errInternal,
				Details: err.Error(),
			})
			return
		}
		elapsed := time.Since(start)

		reply := out.Message()
		if deps.Recorder != nil {
			rec := storage.ChatRecord{
				UserMessage:  req.Message,
				HistoryTurns: len(history),
				Reply:        reply,
				Outcome:      out.Kind.String(),
				Provider:     out.Provider,
				DurationMs:   elapsed.Milliseconds(),
			}
			if err := deps.Recorder.Record(r.Context(), rec); err != nil {
				slog.WarnContext(r.Context(), "recording chat failed", "error", err)
			}
		}

		writeJSON(w, http.StatusOK, chatResponse{
			Reply:     reply,
			Timestamp: now().UTC().Format(timestampLayout),
		})
	}
}

var errBadRole = errors.New("unsupported role")

// toHistory converts wire turns into llm messages, rejecting unknown roles.
func toHistory(turns []historyTurn) ([]llm.Message, error) {
	if len(turns) == 0 {
		return nil, nil
	}
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		if !llm.ValidRole(t.Role) {
			return nil, fmt.Errorf("history[%d]: %w %q", i, errBadRole, t.Role)
		}
		out[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return out, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response body", "error", err)
	}
}

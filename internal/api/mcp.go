package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/louay-ouledali/folio/internal/portfolio"
	"github.com/louay-ouledali/folio/internal/storage"
)

// ChatLister lists recorded chat exchanges for the MCP layer.
type ChatLister interface {
	RecentChats(limit int) ([]storage.ChatRecord, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Orchestrator Orchestrator
	Portfolio    portfolio.Source
	Chats        ChatLister // optional; if nil, portfolio://recent-chats is not registered
	Version      string
}

const recentChatsLimit = 10

// NewMCPServer creates an MCP server exposing the portfolio assistant.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"folio",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("folio answers questions about the portfolio owner's skills, projects and experience."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_portfolio",
			mcp.WithDescription("Ask the portfolio assistant a question about the owner's profile, projects, skills or experience."),
			mcp.WithString("message", mcp.Description("The question to ask"), mcp.Required()),
			mcp.WithString("history", mcp.Description("Optional JSON array of prior {role, content} turns")),
		),
		mcpAskPortfolio(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"portfolio://context",
			"Portfolio Context",
			mcp.WithResourceDescription("The portfolio document replies are grounded on, as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceContext(deps),
	)

	if deps.Chats != nil {
		s.AddResource(
			mcp.NewResource(
				"portfolio://recent-chats",
				"Recent Chats",
				mcp.WithResourceDescription(fmt.Sprintf("Last %d recorded chat exchanges", recentChatsLimit)),
				mcp.WithMIMEType("application/json"),
			),
			mcpResourceRecentChats(deps),
		)
	}

	return s
}

func mcpAskPortfolio(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil || strings.TrimSpace(message) == "" {
			return mcpError(errMessageRequired), nil
		}

		var turns []historyTurn
		if raw := req.GetString("history", ""); strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &turns); err != nil {
				return mcpError(fmt.Sprintf("invalid history JSON: %v", err)), nil
			}
		}
		history, err := toHistory(turns)
		if err != nil {
			return mcpError(fmt.Sprintf("%s: %v", errInvalidHistory, err)), nil
		}

		out, err := deps.Orchestrator.Reply(ctx, history, message)
		if err != nil {
			return mcpError(fmt.Sprintf("%s: %v", errInternal, err)), nil
		}
		return mcpText(out.Message()), nil
	}
}

func mcpResourceContext(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		src := deps.Portfolio
		if src == nil {
			src = portfolio.Static(portfolio.Default())
		}
		b, err := json.MarshalIndent(src.Context(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal portfolio: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceRecentChats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		chats, err := deps.Chats.RecentChats(recentChatsLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to get recent chats: %w", err)
		}

		type chatSummary struct {
			ID        string `json:"id"`
			CreatedAt string `json:"created_at"`
			Message   string `json:"message"`
			Outcome   string `json:"outcome"`
			Provider  string `json:"provider,omitempty"`
		}

		summaries := make([]chatSummary, len(chats))
		for i, c := range chats {
			summaries[i] = chatSummary{
				ID:        c.ID,
				CreatedAt: c.CreatedAt.Format(time.RFC3339),
				Message:   truncate(c.UserMessage, 200),
				Outcome:   c.Outcome,
				Provider:  c.Provider,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal chats: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}

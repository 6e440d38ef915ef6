package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/louay-ouledali/folio/internal/api"
	"github.com/louay-ouledali/folio/internal/config"
	"github.com/louay-ouledali/folio/internal/llm"
	"github.com/louay-ouledali/folio/internal/portfolio"
	"github.com/louay-ouledali/folio/internal/storage"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the portfolio assistant a question",
	Long: `Ask the portfolio assistant a question.

Without --server the question is answered in-process using the configured
providers. With --server it is sent to a running folio server.

Examples:
  folio ask "What projects has he built?"
  folio ask --history turns.json "And which of those used Go?"
  folio ask --server http://localhost:8080 "What is his email?"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serverURL, _ := cmd.Flags().GetString("server")
		historyPath, _ := cmd.Flags().GetString("history")

		history, err := loadHistoryFile(historyPath)
		if err != nil {
			return err
		}

		var reply string
		if serverURL != "" {
			reply, err = askRemote(cmd.Context(), newAPIClient(serverURL), history, args[0])
		} else {
			reply, err = askLocal(cmd.Context(), history, args[0])
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	askCmd.Flags().String("server", "", "base URL of a running folio server")
	askCmd.Flags().String("history", "", "JSON file with prior [{role, content}] turns")
}

func askLocal(ctx context.Context, history []llm.Message, message string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	setupLogging(os.Stderr, logLevelForCLI(cfg.Log.Level))

	b, err := openBackend(cfg)
	if err != nil {
		return "", err
	}
	defer b.Close()

	orch, err := newOrchestrator(ctx, cfg, b.src)
	if err != nil {
		return "", err
	}
	out, err := orch.Reply(ctx, history, message)
	if err != nil {
		return "", err
	}
	return out.Message(), nil
}

func askRemote(ctx context.Context, c *apiClient, history []llm.Message, message string) (string, error) {
	req := map[string]any{"message": message}
	if len(history) > 0 {
		req["history"] = history
	}
	resp, err := c.post(ctx, "/api/chat", req)
	if err != nil {
		return "", err
	}
	var result struct {
		Reply string `json:"reply"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return "", err
	}
	return result.Reply, nil
}

// logLevelForCLI keeps one-shot commands quiet unless debug logging is asked for.
func logLevelForCLI(level string) string {
	if level == "debug" {
		return level
	}
	return "warn"
}

func loadHistoryFile(path string) ([]llm.Message, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history file: %w", err)
	}
	var history []llm.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history file: %w", err)
	}
	for i, m := range history {
		if !llm.ValidRole(m.Role) {
			return nil, fmt.Errorf("history turn %d: invalid role %q", i, m.Role)
		}
	}
	return history, nil
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the portfolio assistant over MCP (stdio transport)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		// stdout carries the protocol; logs go to stderr.
		setupLogging(os.Stderr, cfg.Log.Level)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		b, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		orch, err := newOrchestrator(ctx, cfg, b.src)
		if err != nil {
			return err
		}

		deps := api.MCPDeps{
			Orchestrator: orch,
			Portfolio:    b.src,
			Version:      version,
		}
		if cfg.Storage.RecordChats {
			deps.Chats = b.store
		}

		stdioSrv := server.NewStdioServer(api.NewMCPServer(deps))
		slog.Info("MCP server started (stdio transport)")
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP stdio server: %w", err)
		}
		return nil
	},
}

// --- context ---

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Show or replace the portfolio document replies are grounded on",
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active portfolio document as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		builtin, _ := cmd.Flags().GetBool("builtin")

		doc := portfolio.Default()
		if !builtin {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if doc, err = portfolio.Load(store); err != nil {
				return err
			}
		}
		return writeIndentedJSON(cmd.OutOrStdout(), doc)
	},
}

var contextImportCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Import a portfolio document, optionally attaching CV text from a PDF",
	Long: `Import a portfolio document into local storage. The imported document
replaces the built-in one on the next start.

Examples:
  folio context import portfolio.json
  folio context import portfolio.json --resume cv.pdf
  folio context import --resume cv.pdf`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resumePath, _ := cmd.Flags().GetString("resume")
		var docPath string
		if len(args) == 1 {
			docPath = args[0]
		}
		if docPath == "" && resumePath == "" {
			return fmt.Errorf("a document file or --resume is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		doc, err := importContext(store, docPath, resumePath)
		if err != nil {
			return err
		}
		printSuccess("Imported portfolio for %s", doc.Name)
		if doc.Resume != "" {
			printStatus("Resume", "%d characters", len([]rune(doc.Resume)))
		}
		return nil
	},
}

var contextResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the imported document and go back to the built-in one",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.DeleteSnapshot(); err != nil {
			return err
		}
		printSuccess("Using the built-in portfolio document")
		return nil
	},
}

func init() {
	contextShowCmd.Flags().Bool("builtin", false, "show the built-in document instead of the active one")
	contextImportCmd.Flags().String("resume", "", "PDF CV whose text is attached to the document")
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextImportCmd)
	contextCmd.AddCommand(contextResetCmd)
}

// snapshotStore is the storage surface used by importContext.
type snapshotStore interface {
	portfolio.SnapshotStore
	PutSnapshot(document string) error
}

// importContext validates and stores a portfolio document. With no docPath
// the currently active document is used as the base.
func importContext(store snapshotStore, docPath, resumePath string) (portfolio.Context, error) {
	var doc portfolio.Context
	if docPath != "" {
		data, err := os.ReadFile(docPath)
		if err != nil {
			return portfolio.Context{}, fmt.Errorf("reading %s: %w", docPath, err)
		}
		if doc, err = portfolio.Parse(data); err != nil {
			return portfolio.Context{}, err
		}
	} else {
		var err error
		if doc, err = portfolio.Load(store); err != nil {
			return portfolio.Context{}, err
		}
	}

	if resumePath != "" {
		printStep("Extracting text from %s", resumePath)
		text, err := readResume(resumePath)
		if err != nil {
			return portfolio.Context{}, err
		}
		doc.Resume = text
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return portfolio.Context{}, fmt.Errorf("encoding portfolio: %w", err)
	}
	if err := store.PutSnapshot(string(data)); err != nil {
		return portfolio.Context{}, err
	}
	return doc, nil
}

var readResume = portfolio.ReadResume

// --- chats ---

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Inspect recorded chat exchanges (storage.record_chats)",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent chat exchanges",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		chats, err := store.RecentChats(limit)
		if err != nil {
			return err
		}
		printChats(cmd.OutOrStdout(), chats)
		return nil
	},
}

var chatsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single chat exchange",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.GetChat(args[0])
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("chat %s not found", args[0])
		}
		if err != nil {
			return err
		}
		return writeIndentedJSON(cmd.OutOrStdout(), rec)
	},
}

func init() {
	chatsListCmd.Flags().Int("limit", 20, "maximum number of chats to list")
	chatsCmd.AddCommand(chatsListCmd)
	chatsCmd.AddCommand(chatsShowCmd)
}

func printChats(w io.Writer, chats []storage.ChatRecord) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "No chats found.")
		return
	}
	for _, c := range chats {
		id := c.ID
		if len(id) > 8 {
			id = id[:8]
		}
		msg := c.UserMessage
		if r := []rune(msg); len(r) > 80 {
			msg = string(r[:80]) + "..."
		}
		outcome := colorize(colorGreen, c.Outcome)
		if c.Outcome != "success" {
			outcome = colorize(colorYellow, c.Outcome)
		}
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			colorize(colorCyan, id),
			c.CreatedAt.Format("2006-01-02 15:04:05"),
			outcome,
			msg,
		)
	}
}

func openStore() (*storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return store, nil
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			val := k.Value
			if k.Secret {
				val = colorize(colorYellow, val)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  (%s)\n", colorize(colorBold, k.Key), val, k.EnvVar)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value (API keys go to the secret store)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"

	"github.com/louay-ouledali/folio/internal/api"
	"github.com/louay-ouledali/folio/internal/config"
	"github.com/louay-ouledali/folio/internal/portfolio"
	"github.com/louay-ouledali/folio/internal/storage"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show folio server and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

// backend bundles what every command that answers questions needs.
type backend struct {
	store *storage.Store
	src   portfolio.Source
}

func (b *backend) Close() {
	if err := b.store.Close(); err != nil {
		slog.Warn("closing storage", "error", err)
	}
}

// openBackend opens storage and resolves the portfolio document once.
func openBackend(cfg config.Config) (*backend, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	doc, err := portfolio.Load(store)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("loading portfolio: %w", err)
	}
	return &backend{store: store, src: portfolio.Static(doc)}, nil
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(os.Stderr, cfg.Log.Level)
	slog.Info(versionString())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
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

	deps := api.ChatDeps{
		Orchestrator:   orch,
		AllowedOrigins: cfg.Server.Origins(),
		RequestTimeout: cfg.Server.RequestTimeout,
		MetricsToken:   cfg.Server.MetricsToken,
	}
	if cfg.Storage.RecordChats {
		deps.Recorder = b.store
		slog.Info("chat recording enabled", "data_dir", cfg.Storage.DataDir)
	}

	addr := net.JoinHostPort(cfg.Server.Host, fmt.Sprintf("%d", cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	if cfg.Server.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, cfg.Server.MaxConnections)
	}

	srv := &http.Server{
		Handler:           api.NewChatHandler(deps),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	return serve(ctx, srv, ln)
}

// serve runs srv on ln until ctx is cancelled or the server fails, then shuts
// down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("folio listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := newAPIClient(localURL(cfg))
	var health struct {
		Status    string          `json:"status"`
		Providers map[string]bool `json:"providers"`
	}
	resp, err := client.get(ctx, "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else if err := decodeJSON(resp, &health); err != nil {
		printStatus("Server", "error (%v)", err)
	} else {
		printStatus("Server", "running on port %d", cfg.Server.Port)
	}

	for _, name := range []string{"groq", "gemini"} {
		_, ok := cfg.Credential(name)
		printStatus(name, "%s", configuredLabel(ok))
	}

	printStatus("Groq model", "%s", cfg.Providers.GroqModel)
	printStatus("Gemini model", "%s", cfg.Providers.GeminiModel)
	printStatus("Record chats", "%t", cfg.Storage.RecordChats)
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}

// localURL is the base URL of a server started with cfg on this machine.
func localURL(cfg config.Config) string {
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprintf("%d", cfg.Server.Port))
}

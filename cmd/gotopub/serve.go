package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gotopub/gotopub/internal/config"
	"github.com/gotopub/gotopub/internal/server"
	"github.com/gotopub/gotopub/internal/suggest"
)

var serveAddrFlag string

func init() {
	serveCmd.Flags().StringVar(&serveAddrFlag, "addr", "", "Listen address (default from config, "+config.DefaultServerAddr+")")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON HTTP API",
	Long: `Serve suggestions and citation links over HTTP.

Endpoints:
  GET /api/suggests?q=&source=name|abbr
  GET /api/url?journal=&volume=&page=
  GET /api/doi?journal=&volume=&page=
  GET /api/providers
  GET /api/journals?provider=
  GET /healthz

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddrFlag
	if addr == "" {
		addr = config.GetServerAddr()
	}

	r := mustLoadResolver()
	cfg := server.DefaultConfig(addr)
	srv := server.NewServer(cfg, r, suggest.NewMatcher(r.Journals()), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	if humanOutput {
		fmt.Fprintf(os.Stderr, "Serving %d journals on http://%s\n", r.Journals().Len(), addr)
	}

	select {
	case err := <-errCh:
		if err != nil {
			exitWithError(ExitError, "serving: %v", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		exitWithError(ExitError, "shutting down: %v", err)
	}
	return <-errCh
}

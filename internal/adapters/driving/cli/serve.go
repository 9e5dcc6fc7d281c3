package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postsync/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/postsync/internal/logger"
)

// shutdownTimeout bounds how long in-flight webhook requests may take to finish.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the GitHub webhook server",
	Long: `Run the HTTP server that receives GitHub push webhooks.

Configure a webhook on the repository with content type application/json,
the secret from 'postsync config set github.webhook_secret', and the
payload URL pointing at server.sync_path (default /github/sync).`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if inboundSync == nil || pushVerifier == nil {
		return errors.New("inbound sync not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.GitHub.WebhookSecret == "" {
		logger.Warn("no webhook secret configured, every request will be rejected")
	}

	cfg := httpapi.ConfigFromSettings(settings.Server)
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	server := httpapi.NewServer(pushVerifier, inboundSync, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cmd, server)
}

// serve starts server and blocks until ctx is done or the server fails.
func serve(ctx context.Context, cmd *cobra.Command, server *httpapi.Server) error {
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	cmd.Printf("Listening on %s\n", server.Addr())

	select {
	case <-ctx.Done():
	case err := <-server.Err():
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	cmd.Println("Server stopped.")
	return nil
}

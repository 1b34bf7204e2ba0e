package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsbot/internal/config"
	"newsbot/internal/logger"
	"newsbot/internal/server"
	"newsbot/internal/store"
	"newsbot/internal/summarize"
	"newsbot/internal/whatsapp"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command for starting the webhook server
func NewServeCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the WhatsApp webhook server",
		Long: `Start the HTTP server that receives WhatsApp webhook calls.

The server provides:
  • GET  /webhook  - subscription verification handshake
  • POST /webhook  - inbound message processing
  • GET  /health   - health check

Examples:
  # Start server on default port 3000
  newsbot serve

  # Start on custom port
  newsbot serve --port 8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), port, host)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (default from config: 3000)")
	cmd.Flags().StringVar(&host, "host", "", "HTTP server host (default from config: 0.0.0.0)")

	return cmd
}

func runServe(ctx context.Context, port int, host string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	serverCfg := cfg.Server
	if port != 0 {
		serverCfg.Port = port
	}
	if host != "" {
		serverCfg.Host = host
	}

	users, err := store.NewClient(cfg.Store)
	if err != nil {
		return err
	}
	summarizer, err := summarize.New(cfg.AI)
	if err != nil {
		return err
	}
	sender, err := whatsapp.NewClient(cfg.WhatsApp)
	if err != nil {
		return err
	}

	srv := server.New(serverCfg, cfg.WhatsApp.VerifyToken, users, summarizer, sender)

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info("Server listening", "host", serverCfg.Host, "port", serverCfg.Port)
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("Server shutdown initiated", "signal", sig.String())

		shutdownTimeout := 10 * time.Second
		if parsed, err := time.ParseDuration(serverCfg.ShutdownTimeout); err == nil {
			shutdownTimeout = parsed
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		logger.Info("Server stopped")
	}

	return nil
}

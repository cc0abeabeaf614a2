package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/cli"
	"github.com/aretw0/funnelkit/internal/presentation/outline"
	httpAdapter "github.com/aretw0/funnelkit/pkg/adapters/http"
	"github.com/aretw0/funnelkit/pkg/observability"
	"github.com/aretw0/funnelkit/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 5 * time.Second
	flushTimeout    = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editing server",
	Long: `Serves the funnel editor as a JSON API with Server-Sent Events for
document changes, and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if cmd.Flags().Changed("port") {
			e.cfg.HTTP.Port, _ = cmd.Flags().GetInt("port")
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			outline.PrintBanner(cmd.ErrOrStderr(), strings.TrimSpace(funnelkit.Version))
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}
		hooks := observability.Combine(metrics.Hooks(), observability.AuditHooks(e.logger))
		sessions := cli.NewSessions(e.cfg, e.backend, e.logger, e.kinds, funnelkit.WithLifecycleHooks(hooks))

		api := httpAdapter.New(sessions,
			httpAdapter.WithLogger(e.logger),
			httpAdapter.WithRegistry(e.kinds),
			httpAdapter.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", e.cfg.HTTP.Port),
			Handler:           api.Routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		srv.RegisterOnShutdown(api.Streams.Close)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			e.logger.Info("HTTP server listening", "address", srv.Addr, "store", e.cfg.Store.Driver)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
			return nil

		case <-sigCtx.Done():
			e.logger.Info("Shutdown signal received", "signal", sigCtx.Signal())
			stopServer(srv, e.logger, sessions)
			e.logger.Info("HTTP server stopped gracefully")
			return nil
		}
	},
}

// stopServer shuts srv down, then saves every open funnel.
func stopServer(srv *http.Server, logger *slog.Logger, sessions *session.Manager) {
	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		if err := srv.Close(); err != nil {
			logger.Error("Error killing server", "err", err)
		}
	}
	flushSessions(logger, sessions)
}

// flushSessions saves every open funnel so that edits survive a restart.
// It runs on its own deadline: the shutdown one may already be spent.
func flushSessions(logger *slog.Logger, sessions *session.Manager) {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	for _, id := range sessions.Opened() {
		if err := sessions.Save(ctx, id); err != nil {
			logger.Error("Failed to save funnel on shutdown", "funnel", id, "err", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (overrides http.port)")
	serveCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}

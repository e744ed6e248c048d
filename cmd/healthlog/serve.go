// ABOUTME: CLI command for the read-only local HTTP JSON API.
// ABOUTME: Serves view-models and Prometheus metrics until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/healthlog/internal/api"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the health log as a read-only JSON API",
	Long: `Serve records, courses, timelines, and statistics over HTTP.

ENDPOINTS:

  GET /api/v1/records?q=&limit=
  GET /api/v1/courses?status=
  GET /api/v1/courses/{id}/timeline
  GET /api/v1/calendar/{year}/{month}
  GET /api/v1/stats/body-parts?limit=
  GET /api/v1/summary
  GET /health/live
  GET /metrics

EXAMPLES:

  healthlog serve                       # Listen on 127.0.0.1:8787
  healthlog serve --addr :9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.GetListenAddr()
		if serveAddr != "" {
			addr = serveAddr
		}
		logger := cfg.NewLogger(os.Stderr)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return api.New(addr, store, logger).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

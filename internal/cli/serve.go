package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vikas872/nyay-sathi-clean/internal/server"
)

var (
	serveHost string
	servePort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Nyay Sathi HTTP API",
	Long: `Start the HTTP API serving legal question answering.

Endpoints:
  POST /ask         answer a question (JSON)
  POST /ask/stream  answer with progress events (SSE)
  GET  /health      readiness, including loaded chunk count

Example:
  nyay serve
  nyay serve --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	orch, indexSvc, err := buildStack(cfg)
	if err != nil {
		return err
	}

	srv := server.New(orch, indexSvc, cfg.Server)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

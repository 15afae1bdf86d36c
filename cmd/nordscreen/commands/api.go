package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nordvik/nordscreen/internal/api"
	"github.com/nordvik/nordscreen/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the HTTP API server. Requires a configured database,
since the server serves stored screening runs.

Endpoints:
  GET  /health                 - Health check
  GET  /api/screen/latest      - Latest screening run, all results
  GET  /api/screen/latest/top  - Top entries of the latest run (?n=10)
  POST /api/screen/run         - Trigger a synchronous screening cycle

Example:
  go run ./cmd/nordscreen api
  go run ./cmd/nordscreen api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	application, cleanup, err := newApp(false, true)
	if err != nil {
		return err
	}
	defer cleanup()

	if apiPort != "" {
		application.cfg.Port = apiPort
	}

	handler := handlers.NewScreenHandler(application.repo, application.pipeline, application.cfg.TopN, application.log)
	router := api.NewRouter(handler, application.log)
	server := api.New(application.cfg, application.log, router)

	go func() {
		if err := server.Start(); err != nil {
			application.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", application.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	application.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

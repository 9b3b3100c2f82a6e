package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/insideralpha/backend/internal/api"
	"github.com/insideralpha/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health             - Health check
  GET  /api/leaderboard    - Top insiders by score
  GET  /api/trades/{cik}   - One insider's trades

Example:
  go run ./cmd/insider api
  go run ./cmd/insider api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	insiderHandler := handlers.NewInsiderHandler(app.store, app.log)
	router := api.NewRouter(insiderHandler, app.log)
	server := api.New(app.cfg, app.log, router)

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.log.Info("Server stopped")
	return nil
}

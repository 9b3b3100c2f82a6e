package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// initdbCmd represents the initdb command
var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Create the database schema",
	Long: `Creates the insider_trades and insider_scores tables and their
indexes. Idempotent: existing tables are left as they are.

Example:
  go run ./cmd/insider initdb`,
	RunE: runInitDB,
}

func init() {
	rootCmd.AddCommand(initdbCmd)
}

func runInitDB(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.store.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	fmt.Println("Database schema ready")
	return nil
}

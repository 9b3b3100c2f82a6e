package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "insider",
	Short: "Insider Alpha - SEC Form 4 trade scoring pipeline",
	Long: `Insider Alpha CLI

Ingests SEC Form 4 insider filings, measures every open-market trade
against the S&P 500 benchmark and ranks insiders by how often their
trades beat it.

Usage:
  go run ./cmd/insider [command]

Examples:
  go run ./cmd/insider initdb
  go run ./cmd/insider ingest
  go run ./cmd/insider score
  go run ./cmd/insider run
  go run ./cmd/insider api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

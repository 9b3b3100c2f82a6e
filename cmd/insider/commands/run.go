package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline once: ingest, score, aggregate",
	Long: `Runs one complete pipeline pass: ingestion, alpha scoring and score
aggregation, in that order.

Example:
  go run ./cmd/insider run`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx := context.Background()

	ingestResult, err := app.pipeline.Run(ctx, app.cfg.Ingest.Tickers)
	if err != nil {
		return fmt.Errorf("run ingestion: %w", err)
	}
	fmt.Printf("Ingested %d filings, %d new trades\n", ingestResult.Filings, ingestResult.TradesInserted)

	engineResult, err := app.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("run alpha engine: %w", err)
	}
	fmt.Printf("Scored %d of %d candidate trades\n", engineResult.Updated, engineResult.Candidates)

	insiders, err := app.aggregator.Run(ctx)
	if err != nil {
		return fmt.Errorf("run aggregator: %w", err)
	}
	fmt.Printf("Refreshed %d insiders\n", insiders)

	return nil
}

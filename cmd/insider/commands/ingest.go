package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest recent Form 4 filings",
	Long: `Fetches recent Form 4 filings for the configured tickers from SEC
EDGAR, extracts open-market insider trades and persists them.

Already ingested trades are skipped, so the command is safe to rerun.

Example:
  go run ./cmd/insider ingest
  go run ./cmd/insider ingest --tickers AAPL,NVDA`,
	RunE: runIngest,
}

var ingestTickers string

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestTickers, "tickers", "", "comma-separated tickers (overrides INGEST_TICKERS)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	tickers := app.cfg.Ingest.Tickers
	if ingestTickers != "" {
		tickers = parseTickerFlag(ingestTickers)
	}

	result, err := app.pipeline.Run(context.Background(), tickers)
	if err != nil {
		return fmt.Errorf("run ingestion: %w", err)
	}

	fmt.Printf("Ingested %d filings, %d new trades (%d filing failures, %d ticker failures)\n",
		result.Filings, result.TradesInserted, result.FilingFailures, result.TickerFailures)
	return nil
}

// parseTickerFlag normalizes a comma-separated ticker list the same way
// the INGEST_TICKERS env var is read: trimmed and uppercased, since the
// EDGAR ticker table is keyed by uppercase symbol.
func parseTickerFlag(value string) []string {
	parts := strings.Split(value, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			tickers = append(tickers, p)
		}
	}
	return tickers
}

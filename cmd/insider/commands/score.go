package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score trades and refresh insider rankings",
	Long: `Runs the alpha engine over all unscored trades, then rebuilds the
insider score table from the trailing three-year window.

A trade whose 180-day window has not elapsed yet stays unscored and is
picked up again on a later run.

Example:
  go run ./cmd/insider score
  go run ./cmd/insider score --alpha-only`,
	RunE: runScore,
}

var (
	alphaOnly     bool
	aggregateOnly bool
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&alphaOnly, "alpha-only", false, "run only the alpha engine")
	scoreCmd.Flags().BoolVar(&aggregateOnly, "aggregate-only", false, "run only the score aggregation")
}

func runScore(cmd *cobra.Command, args []string) error {
	if alphaOnly && aggregateOnly {
		return fmt.Errorf("--alpha-only and --aggregate-only are mutually exclusive")
	}

	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	ctx := context.Background()

	if !aggregateOnly {
		result, err := app.engine.Run(ctx)
		if err != nil {
			return fmt.Errorf("run alpha engine: %w", err)
		}
		fmt.Printf("Scored %d of %d candidate trades\n", result.Updated, result.Candidates)
	}

	if !alphaOnly {
		insiders, err := app.aggregator.Run(ctx)
		if err != nil {
			return fmt.Errorf("run aggregator: %w", err)
		}
		fmt.Printf("Refreshed %d insiders\n", insiders)
	}

	return nil
}

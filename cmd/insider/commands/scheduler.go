package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/insideralpha/backend/internal/scheduler"
	"github.com/insideralpha/backend/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the pipeline on a daily schedule",
	Long: `Starts the cron scheduler with the daily ingestion and scoring jobs
and blocks until interrupted.

Jobs:
  filing_ingestion  - 6 AM daily
  alpha_scoring     - 7 AM daily

Example:
  go run ./cmd/insider scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	sched := scheduler.New(app.log)

	ingestionJob := jobs.NewIngestionJob(app.pipeline, app.cfg, app.log)
	scoringJob := jobs.NewScoringJob(app.engine, app.aggregator, app.log)

	if err := sched.AddJob(ingestionJob); err != nil {
		return fmt.Errorf("add ingestion job: %w", err)
	}
	if err := sched.AddJob(scoringJob); err != nil {
		return fmt.Errorf("add scoring job: %w", err)
	}

	sched.Start()
	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

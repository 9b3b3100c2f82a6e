package jobs

import (
	"context"
	"fmt"

	"github.com/insideralpha/backend/internal/ingest"
	"github.com/insideralpha/backend/pkg/config"
	"github.com/insideralpha/backend/pkg/logger"
)

// IngestionJob pulls recent Form 4 filings for the configured tickers
type IngestionJob struct {
	pipeline *ingest.Pipeline
	config   *config.Config
	logger   *logger.Logger
}

// NewIngestionJob creates a new ingestion job
func NewIngestionJob(pipeline *ingest.Pipeline, cfg *config.Config, log *logger.Logger) *IngestionJob {
	return &IngestionJob{
		pipeline: pipeline,
		config:   cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *IngestionJob) Name() string {
	return "filing_ingestion"
}

// Schedule returns the cron schedule. EDGAR indexes most Form 4s by the
// evening of the filing day, so a single overnight run is enough.
func (j *IngestionJob) Schedule() string {
	return "0 0 6 * * *" // 6 AM daily (with seconds)
}

// Run executes the ingestion
func (j *IngestionJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled filing ingestion")

	result, err := j.pipeline.Run(ctx, j.config.Ingest.Tickers)
	if err != nil {
		return fmt.Errorf("run ingestion: %w", err)
	}

	if result.TickerFailures == len(j.config.Ingest.Tickers) {
		return fmt.Errorf("ingestion failed for all %d tickers", result.TickerFailures)
	}

	j.logger.WithFields(map[string]interface{}{
		"filings":         result.Filings,
		"trades_inserted": result.TradesInserted,
	}).Info("Scheduled filing ingestion completed")
	return nil
}

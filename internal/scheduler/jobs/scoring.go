package jobs

import (
	"context"
	"fmt"

	"github.com/insideralpha/backend/internal/scoring"
	"github.com/insideralpha/backend/pkg/logger"
)

// ScoringJob computes trade alphas and refreshes the insider scores.
// Scheduled after the ingestion job so freshly ingested trades are
// scored the same morning.
type ScoringJob struct {
	engine     *scoring.Engine
	aggregator *scoring.Aggregator
	logger     *logger.Logger
}

// NewScoringJob creates a new scoring job
func NewScoringJob(engine *scoring.Engine, aggregator *scoring.Aggregator, log *logger.Logger) *ScoringJob {
	return &ScoringJob{
		engine:     engine,
		aggregator: aggregator,
		logger:     log,
	}
}

// Name returns the job name
func (j *ScoringJob) Name() string {
	return "alpha_scoring"
}

// Schedule returns the cron schedule
func (j *ScoringJob) Schedule() string {
	return "0 0 7 * * *" // 7 AM daily (with seconds)
}

// Run executes the alpha engine and the score aggregation
func (j *ScoringJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled alpha scoring")

	result, err := j.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("run alpha engine: %w", err)
	}

	insiders, err := j.aggregator.Run(ctx)
	if err != nil {
		return fmt.Errorf("run aggregator: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"trades_scored": result.Updated,
		"insiders":      insiders,
	}).Info("Scheduled alpha scoring completed")
	return nil
}

package commands

import (
	"fmt"

	"github.com/insideralpha/backend/internal/external/edgar"
	"github.com/insideralpha/backend/internal/external/yahoo"
	"github.com/insideralpha/backend/internal/filing"
	"github.com/insideralpha/backend/internal/ingest"
	"github.com/insideralpha/backend/internal/pricing"
	"github.com/insideralpha/backend/internal/scoring"
	"github.com/insideralpha/backend/internal/store"
	"github.com/insideralpha/backend/pkg/config"
	"github.com/insideralpha/backend/pkg/database"
	"github.com/insideralpha/backend/pkg/httputil"
	"github.com/insideralpha/backend/pkg/logger"
)

// app bundles the wired components shared by the CLI commands.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB
	store *store.Store

	pipeline   *ingest.Pipeline
	engine     *scoring.Engine
	aggregator *scoring.Aggregator
}

// newApp loads the config, connects to the database and wires the full
// component graph. Call close when done.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info("Connected to database")

	httpClient := httputil.New(log)

	edgarClient := edgar.NewClient(cfg, httpClient, log)
	yahooClient := yahoo.NewClient(cfg, httpClient, log)

	tradeStore := store.New(db.Pool, log)
	parser := filing.NewParser(log)
	oracle := pricing.NewOracle(yahooClient, log)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		store:      tradeStore,
		pipeline:   ingest.NewPipeline(edgarClient, parser, tradeStore, cfg.Ingest.FilingLimit, log),
		engine:     scoring.NewEngine(tradeStore, oracle, cfg.Scoring.BenchmarkTicker, log),
		aggregator: scoring.NewAggregator(tradeStore, log),
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

package ingest

import (
	"context"
	"time"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

// FilingParser turns a raw ownership document into trades.
// Satisfied by *filing.Parser.
type FilingParser interface {
	Parse(raw []byte, f contracts.Filing) ([]*contracts.Trade, error)
}

// Pipeline pulls recent Form 4 filings for the configured tickers,
// parses them and persists the resulting trades. Each filing commits
// independently, so one bad document never costs the batch.
type Pipeline struct {
	source      contracts.FilingSource
	parser      FilingParser
	store       contracts.TradeStore
	logger      *logger.Logger
	filingLimit int
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(source contracts.FilingSource, parser FilingParser, store contracts.TradeStore, filingLimit int, log *logger.Logger) *Pipeline {
	return &Pipeline{
		source:      source,
		parser:      parser,
		store:       store,
		logger:      log.WithField("module", "ingest"),
		filingLimit: filingLimit,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Filings        int // filings fetched and parsed
	TradesInserted int // new trades persisted
	FilingFailures int // filings skipped after fetch/parse/save errors
	TickerFailures int // tickers whose filing list could not be loaded
}

// Run ingests every configured ticker. Failures are isolated at the
// ticker and filing level; Run itself only fails on context
// cancellation.
func (p *Pipeline) Run(ctx context.Context, tickers []string) (*Result, error) {
	started := time.Now()
	result := &Result{}

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		p.ingestTicker(ctx, ticker, result)
	}

	p.logger.WithFields(map[string]interface{}{
		"tickers":         len(tickers),
		"filings":         result.Filings,
		"trades_inserted": result.TradesInserted,
		"filing_failures": result.FilingFailures,
		"ticker_failures": result.TickerFailures,
		"elapsed":         time.Since(started).String(),
	}).Info("Ingestion run completed")

	return result, nil
}

func (p *Pipeline) ingestTicker(ctx context.Context, ticker string, result *Result) {
	log := p.logger.WithField("ticker", ticker)

	filings, err := p.source.ListFilings(ctx, ticker, p.filingLimit)
	if err != nil {
		result.TickerFailures++
		log.WithError(err).Error("Failed to list filings")
		return
	}

	log.WithField("filings", len(filings)).Info("Ingesting filings")

	for _, f := range filings {
		if ctx.Err() != nil {
			return
		}
		inserted, err := p.ingestFiling(ctx, f)
		if err != nil {
			result.FilingFailures++
			log.WithError(err).WithField("accession", f.AccessionNumber).Warn("Skipping filing")
			continue
		}
		result.Filings++
		result.TradesInserted += inserted
	}
}

// ingestFiling fetches, parses and persists one filing. The store
// commits all of the filing's trades in a single transaction.
func (p *Pipeline) ingestFiling(ctx context.Context, f contracts.Filing) (int, error) {
	raw, err := p.source.FetchOwnership(ctx, f)
	if err != nil {
		return 0, err
	}

	trades, err := p.parser.Parse(raw, f)
	if err != nil {
		return 0, err
	}
	if len(trades) == 0 {
		return 0, nil
	}

	return p.store.SaveFilingTrades(ctx, trades)
}

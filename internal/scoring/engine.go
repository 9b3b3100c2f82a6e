package scoring

import (
	"context"
	"time"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

const (
	// WinAlphaThreshold is the minimum 180-day alpha for a trade to
	// count as a win.
	WinAlphaThreshold = 0.03

	// LookbackYears is the trailing window within which trades are
	// eligible for score aggregation.
	LookbackYears = 3
)

// Horizons are the return windows computed per trade, in days.
// Only the 180-day horizon feeds the canonical alpha and win flag.
var Horizons = []int{30, 90, 180, 365}

// Engine computes multi-horizon returns and direction-aware alpha for
// every trade that has not been scored yet.
type Engine struct {
	store     contracts.TradeStore
	oracle    contracts.PriceOracle
	benchmark string
	logger    *logger.Logger
	now       func() time.Time
}

// NewEngine creates a new alpha engine.
func NewEngine(store contracts.TradeStore, oracle contracts.PriceOracle, benchmark string, log *logger.Logger) *Engine {
	return &Engine{
		store:     store,
		oracle:    oracle,
		benchmark: benchmark,
		logger:    log.WithField("module", "alpha_engine"),
		now:       time.Now,
	}
}

// EngineResult summarizes one engine run.
type EngineResult struct {
	Candidates int // unscored trades examined
	Updated    int // trades with at least one horizon computed
	Failures   int // persistence failures
}

// Run scores all unscored trades. Selection is purely by the null
// canonical alpha, so trades whose windows were not yet computable are
// picked up again on the next run. Horizons that cannot be computed
// stay null; nothing here is a terminal failure.
func (e *Engine) Run(ctx context.Context) (*EngineResult, error) {
	e.oracle.Reset()

	trades, err := e.store.FindUnscored(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.WithField("count", len(trades)).Info("Scoring unscored trades")

	result := &EngineResult{Candidates: len(trades)}
	for _, trade := range trades {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		if !e.scoreTrade(ctx, trade) {
			continue
		}

		if err := e.store.UpdateComputed(ctx, trade); err != nil {
			result.Failures++
			e.logger.WithError(err).WithFields(map[string]interface{}{
				"trade_id": trade.ID,
				"ticker":   trade.Ticker,
			}).Warn("Failed to persist computed fields")
			continue
		}
		result.Updated++
	}

	e.logger.WithFields(map[string]interface{}{
		"candidates": result.Candidates,
		"updated":    result.Updated,
		"failures":   result.Failures,
	}).Info("Alpha engine run completed")

	return result, nil
}

// scoreTrade fills in whatever horizons are computable for one trade.
// Returns false when no horizon could be computed.
func (e *Engine) scoreTrade(ctx context.Context, trade *contracts.Trade) bool {
	computed := false

	for _, days := range Horizons {
		stockRet, benchRet, ok := e.horizonReturns(ctx, trade, days)
		if !ok {
			continue
		}
		computed = true

		// The return pair is stored atomically per horizon
		switch days {
		case 30:
			trade.Return30D, trade.SpyReturn30D = &stockRet, &benchRet
		case 90:
			trade.Return90D, trade.SpyReturn90D = &stockRet, &benchRet
		case 180:
			trade.Return180D, trade.SpyReturn180D = &stockRet, &benchRet

			// Only the 180-day horizon carries the canonical metrics
			alpha := trade.Direction.Alpha(stockRet, benchRet)
			isWin := alpha > WinAlphaThreshold
			trade.Alpha, trade.IsWin = &alpha, &isWin
		case 365:
			trade.Return1Y, trade.SpyReturn1Y = &stockRet, &benchRet
		}
	}

	return computed
}

// horizonReturns computes the stock and benchmark returns over one
// horizon. A window ending in the future or an unavailable price skips
// the horizon.
func (e *Engine) horizonReturns(ctx context.Context, trade *contracts.Trade, days int) (float64, float64, bool) {
	tEnd := trade.TransactionDate.AddDate(0, 0, days)
	if tEnd.After(e.now()) {
		return 0, 0, false
	}

	stockRet, ok := e.oracle.Return(ctx, trade.Ticker, trade.TransactionDate, tEnd)
	if !ok {
		return 0, 0, false
	}

	benchRet, ok := e.oracle.Return(ctx, e.benchmark, trade.TransactionDate, tEnd)
	if !ok {
		return 0, 0, false
	}

	return stockRet, benchRet, true
}

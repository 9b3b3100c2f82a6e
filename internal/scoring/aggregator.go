package scoring

import (
	"context"
	"time"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

// Aggregator rolls per-trade outcomes up into one score row per
// insider. Every run recomputes from the trailing window and fully
// overwrites the insider's row; insiders with no trade in the window
// keep their previous row.
type Aggregator struct {
	store  contracts.TradeStore
	logger *logger.Logger
	now    func() time.Time
}

// NewAggregator creates a new score aggregator.
func NewAggregator(store contracts.TradeStore, log *logger.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		logger: log.WithField("module", "aggregator"),
		now:    time.Now,
	}
}

// insiderAccum collects one insider's trade outcomes before averaging.
type insiderAccum struct {
	name    string
	company string

	totalTrades int
	totalBuys   int
	totalSells  int
	wins        int
	buyWins     int
	sellWins    int

	alphas30  []float64
	alphas90  []float64
	alphas180 []float64
	buy180    []float64
	sell180   []float64
	alphas1Y  []float64
}

// Run aggregates all scored trades in the lookback window and upserts
// one score row per insider seen.
func (a *Aggregator) Run(ctx context.Context) (int, error) {
	now := a.now()
	start := now.AddDate(0, 0, -LookbackYears*365)

	trades, err := a.store.FindScoredInWindow(ctx, start)
	if err != nil {
		return 0, err
	}

	a.logger.WithFields(map[string]interface{}{
		"trades": len(trades),
		"since":  start.Format("2006-01-02"),
	}).Info("Aggregating insider scores")

	accums := make(map[string]*insiderAccum)
	for _, trade := range trades {
		acc := accums[trade.CIK]
		if acc == nil {
			acc = &insiderAccum{}
			accums[trade.CIK] = acc
		}
		acc.add(trade)
	}

	upserted := 0
	for cik, acc := range accums {
		if ctx.Err() != nil {
			return upserted, ctx.Err()
		}

		score := acc.toScore(cik, now)
		if err := a.store.UpsertScore(ctx, score); err != nil {
			a.logger.WithError(err).WithField("cik", cik).Warn("Failed to upsert insider score")
			continue
		}
		upserted++
	}

	a.logger.WithField("insiders", upserted).Info("Score aggregation completed")
	return upserted, nil
}

// add folds one scored trade into the accumulator. Only the canonical
// 180-day metrics are guaranteed present; the other horizons contribute
// when their return pair was computable.
func (acc *insiderAccum) add(trade *contracts.Trade) {
	acc.name = trade.InsiderName
	acc.company = trade.Ticker

	acc.totalTrades++
	win := trade.IsWin != nil && *trade.IsWin
	if win {
		acc.wins++
	}

	buy := trade.Direction == contracts.DirectionBuy
	if buy {
		acc.totalBuys++
		if win {
			acc.buyWins++
		}
	} else {
		acc.totalSells++
		if win {
			acc.sellWins++
		}
	}

	if trade.Alpha != nil {
		acc.alphas180 = append(acc.alphas180, *trade.Alpha)
		if buy {
			acc.buy180 = append(acc.buy180, *trade.Alpha)
		} else {
			acc.sell180 = append(acc.sell180, *trade.Alpha)
		}
	}

	if trade.Return30D != nil && trade.SpyReturn30D != nil {
		acc.alphas30 = append(acc.alphas30, trade.Direction.Alpha(*trade.Return30D, *trade.SpyReturn30D))
	}
	if trade.Return90D != nil && trade.SpyReturn90D != nil {
		acc.alphas90 = append(acc.alphas90, trade.Direction.Alpha(*trade.Return90D, *trade.SpyReturn90D))
	}
	if trade.Return1Y != nil && trade.SpyReturn1Y != nil {
		acc.alphas1Y = append(acc.alphas1Y, trade.Direction.Alpha(*trade.Return1Y, *trade.SpyReturn1Y))
	}
}

func (acc *insiderAccum) toScore(cik string, now time.Time) *contracts.InsiderScore {
	return &contracts.InsiderScore{
		CIK:           cik,
		Name:          acc.name,
		Company:       acc.company,
		Score:         contracts.WinRate(acc.wins, acc.totalTrades),
		TotalTrades:   acc.totalTrades,
		TotalBuys:     acc.totalBuys,
		TotalSells:    acc.totalSells,
		Wins:          acc.wins,
		BuyWins:       acc.buyWins,
		SellWins:      acc.sellWins,
		Alpha30D:      mean(acc.alphas30),
		Alpha90D:      mean(acc.alphas90),
		Alpha180D:     mean(acc.alphas180),
		BuyAlpha180D:  mean(acc.buy180),
		SellAlpha180D: mean(acc.sell180),
		Alpha1Y:       mean(acc.alphas1Y),
		LastUpdated:   now,
	}
}

// mean returns 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

package contracts

import "time"

// MinTradesForScore is the statistical floor: insiders with fewer
// qualifying trades in the lookback window score 0.
const MinTradesForScore = 3

// InsiderScore is the aggregate record for one insider, keyed by CIK.
// Every aggregation run recomputes and fully overwrites the row.
type InsiderScore struct {
	CIK     string
	Name    string
	Company string // most recently observed ticker

	Score float64 // 0-100 win rate, 0 below the trade-count floor

	TotalTrades int
	TotalBuys   int
	TotalSells  int

	Wins     int
	BuyWins  int
	SellWins int

	// Mean per-trade alpha for each horizon, 0 when no trade has the
	// horizon populated
	Alpha30D      float64
	Alpha90D      float64
	Alpha180D     float64
	BuyAlpha180D  float64
	SellAlpha180D float64
	Alpha1Y       float64

	LastUpdated time.Time
}

// WinRate computes the 0-100 score for a win/trade count pair.
// Below the floor the score is 0 regardless of the record.
func WinRate(wins, totalTrades int) float64 {
	if totalTrades < MinTradesForScore {
		return 0.0
	}
	return float64(wins) / float64(totalTrades) * 100.0
}

package contracts

import (
	"fmt"
	"time"
)

// Direction is the side of an insider transaction. Only open-market
// purchases ("P") and sales ("S") are tracked; award, gift and exercise
// codes are rejected at parse time.
type Direction string

const (
	DirectionBuy  Direction = "P"
	DirectionSell Direction = "S"
)

// ParseDirection maps a Form 4 transaction code to a Direction.
// The boolean is false for any code other than P or S.
func ParseDirection(code string) (Direction, bool) {
	switch code {
	case "P":
		return DirectionBuy, true
	case "S":
		return DirectionSell, true
	default:
		return "", false
	}
}

// Alpha computes the direction-adjusted excess return of a trade.
// A buy wins when the stock beats the benchmark. A sell wins when the
// stock trails the benchmark: the insider avoided a drop or missed
// nothing by sitting out a rally.
func (d Direction) Alpha(stockReturn, benchmarkReturn float64) float64 {
	if d == DirectionSell {
		return benchmarkReturn - stockReturn
	}
	return stockReturn - benchmarkReturn
}

// Valid reports whether d is one of the two tracked directions.
func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// Trade is one insider transaction extracted from one Form 4 filing.
// The computed fields stay nil until the alpha engine has processed the
// trade; they are written in a single update so readers only ever see a
// trade fully unscored or fully scored for a horizon.
type Trade struct {
	ID              int64
	CIK             string // reporting owner CIK, the stable insider identity
	Ticker          string
	InsiderName     string
	TransactionDate time.Time
	FilingDate      time.Time
	Direction       Direction
	NumberOfShares  float64
	PricePerShare   float64
	AmountUSD       float64
	AccessionNumber string

	// Computed by the alpha engine, nil until then
	Return30D     *float64
	SpyReturn30D  *float64
	Return90D     *float64
	SpyReturn90D  *float64
	Return180D    *float64
	SpyReturn180D *float64
	Return1Y      *float64
	SpyReturn1Y   *float64

	// Canonical 180-day metrics
	Alpha *float64
	IsWin *bool
}

// DedupKey identifies a trade for ingestion-time deduplication.
// It is not a uniqueness constraint: a filing may legitimately report
// two same-day trades for the same amount, which this key collapses.
type DedupKey struct {
	AccessionNumber string
	TransactionDate time.Time
	Ticker          string
	AmountUSD       float64
}

// Key returns the trade's dedup key.
func (t *Trade) Key() DedupKey {
	return DedupKey{
		AccessionNumber: t.AccessionNumber,
		TransactionDate: t.TransactionDate,
		Ticker:          t.Ticker,
		AmountUSD:       t.AmountUSD,
	}
}

// String implements fmt.Stringer for log output.
func (k DedupKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%.2f",
		k.AccessionNumber, k.TransactionDate.Format("2006-01-02"), k.Ticker, k.AmountUSD)
}

// Scored reports whether the canonical 180-day metrics are populated.
func (t *Trade) Scored() bool {
	return t.Alpha != nil
}

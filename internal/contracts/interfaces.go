package contracts

import (
	"context"
	"time"
)

// Filing is an opaque handle to one regulatory filing, as listed by a
// FilingSource. The pipeline resolves it to a raw ownership document.
type Filing struct {
	Ticker          string
	CIK             string // issuer CIK, zero-padded to 10 digits
	AccessionNumber string // dashed form, e.g. 0000320193-24-000001
	FilingDate      time.Time
	PrimaryDocument string // name of the ownership XML, may be empty
}

// FilingSource lists and fetches insider filings for a company.
type FilingSource interface {
	// ListFilings returns up to limit recent Form 4 filings for a ticker.
	ListFilings(ctx context.Context, ticker string, limit int) ([]Filing, error)

	// FetchOwnership returns the raw ownership document for a filing,
	// locating the primary XML and falling back to the combined
	// submission text when necessary.
	FetchOwnership(ctx context.Context, filing Filing) ([]byte, error)
}

// PriceOracle supplies daily closing prices. A lookup that finds no
// price is unavailable, not an error: callers skip the unit of work and
// try again on a later run.
type PriceOracle interface {
	// Close returns the closing price on date or the next trading day
	// within five calendar days.
	Close(ctx context.Context, ticker string, date time.Time) (float64, bool)

	// Return returns the relative price change between two dates,
	// composed from two Close lookups.
	Return(ctx context.Context, ticker string, start, end time.Time) (float64, bool)

	// Reset drops memoized lookups. Called at the start of each scoring
	// run so a miss never outlives the run that observed it.
	Reset()
}

// TradeStore persists trades and insider scores.
type TradeStore interface {
	// SaveFilingTrades inserts the trades parsed from one filing in a
	// single transaction, skipping any trade whose dedup key already
	// exists. Returns the number of rows inserted.
	SaveFilingTrades(ctx context.Context, trades []*Trade) (int, error)

	// FindByDedupKey returns the trade matching the key, or nil.
	FindByDedupKey(ctx context.Context, key DedupKey) (*Trade, error)

	// FindUnscored returns all trades whose canonical alpha is null.
	FindUnscored(ctx context.Context) ([]*Trade, error)

	// FindScoredInWindow returns trades with a transaction date on or
	// after start and is_win populated.
	FindScoredInWindow(ctx context.Context, start time.Time) ([]*Trade, error)

	// UpdateComputed writes all computed fields of a trade at once.
	UpdateComputed(ctx context.Context, trade *Trade) error

	// UpsertScore overwrites the score row for an insider.
	UpsertScore(ctx context.Context, score *InsiderScore) error

	// Leaderboard returns score rows ordered by score descending.
	Leaderboard(ctx context.Context, limit int) ([]*InsiderScore, error)

	// TradesByInsider returns an insider's trades, most recent first.
	TradesByInsider(ctx context.Context, cik string) ([]*Trade, error)
}

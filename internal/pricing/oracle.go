package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/internal/external/yahoo"
	"github.com/insideralpha/backend/pkg/logger"
)

// LookaheadDays is how far past a target date the oracle searches for
// the next trading day. Five calendar days always spans a weekend plus
// a market holiday.
const LookaheadDays = 5

// Fetcher supplies daily candles. *yahoo.Client satisfies it.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]yahoo.DailyClose, error)
}

// Oracle implements contracts.PriceOracle on top of a daily-candle
// fetcher. Lookups are memoized in a cache owned by the Oracle, so the
// cache lives exactly as long as the pipeline run that created it.
// Safe for concurrent use.
type Oracle struct {
	fetcher Fetcher
	logger  *logger.Logger

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

var _ contracts.PriceOracle = (*Oracle)(nil)

type cacheKey struct {
	ticker string
	day    string // YYYY-MM-DD of the requested date
}

type cacheEntry struct {
	price float64
	ok    bool
}

// NewOracle creates an Oracle with a fresh cache. Create one per
// pipeline run.
func NewOracle(fetcher Fetcher, log *logger.Logger) *Oracle {
	return &Oracle{
		fetcher: fetcher,
		logger:  log.WithField("module", "pricing"),
		cache:   make(map[cacheKey]cacheEntry),
	}
}

// Close returns the closing price on date or the next trading day
// within LookaheadDays. Transport failures and missing data both come
// back as unavailable; the caller skips and retries on a later run.
func (o *Oracle) Close(ctx context.Context, ticker string, date time.Time) (float64, bool) {
	date = truncateToDay(date)
	key := cacheKey{ticker: ticker, day: date.Format("2006-01-02")}

	o.mu.Lock()
	if entry, hit := o.cache[key]; hit {
		o.mu.Unlock()
		return entry.price, entry.ok
	}
	o.mu.Unlock()

	price, ok := o.lookup(ctx, ticker, date)

	o.mu.Lock()
	o.cache[key] = cacheEntry{price: price, ok: ok}
	o.mu.Unlock()

	return price, ok
}

// Reset clears the memoized lookups.
func (o *Oracle) Reset() {
	o.mu.Lock()
	o.cache = make(map[cacheKey]cacheEntry)
	o.mu.Unlock()
}

// Return returns the relative price change of ticker between two dates.
func (o *Oracle) Return(ctx context.Context, ticker string, start, end time.Time) (float64, bool) {
	pStart, ok := o.Close(ctx, ticker, start)
	if !ok || pStart == 0 {
		return 0, false
	}

	pEnd, ok := o.Close(ctx, ticker, end)
	if !ok {
		return 0, false
	}

	return (pEnd - pStart) / pStart, true
}

// lookup fetches the candle window and picks the first close on or
// after the target date.
func (o *Oracle) lookup(ctx context.Context, ticker string, date time.Time) (float64, bool) {
	// One extra day so the exclusive end of the fetch window still
	// covers the full lookahead
	from := date
	to := date.AddDate(0, 0, LookaheadDays+1)

	closes, err := o.fetcher.FetchDailyCloses(ctx, ticker, from, to)
	if err != nil {
		o.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": ticker,
			"date":   date.Format("2006-01-02"),
		}).Debug("Price fetch failed, treating as unavailable")
		return 0, false
	}

	limit := date.AddDate(0, 0, LookaheadDays)
	for _, c := range closes {
		day := truncateToDay(c.Date)
		if day.Before(date) || day.After(limit) {
			continue
		}
		return c.Close, true
	}

	return 0, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

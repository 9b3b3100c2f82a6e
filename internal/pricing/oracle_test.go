package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insideralpha/backend/internal/external/yahoo"
	"github.com/insideralpha/backend/pkg/logger"
)

// fakeFetcher serves canned candles and counts calls.
type fakeFetcher struct {
	closes map[string][]yahoo.DailyClose // keyed by ticker
	err    error
	calls  int
}

func (f *fakeFetcher) FetchDailyCloses(_ context.Context, symbol string, from, to time.Time) ([]yahoo.DailyClose, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	var out []yahoo.DailyClose
	for _, c := range f.closes[symbol] {
		if !c.Date.Before(from) && c.Date.Before(to) {
			out = append(out, c)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCloseExactDate(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"AAPL": {{Date: day(2024, 3, 15), Close: 172.5}},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	price, ok := oracle.Close(context.Background(), "AAPL", day(2024, 3, 15))
	require.True(t, ok)
	assert.Equal(t, 172.5, price)
}

func TestCloseRollsToNextTradingDay(t *testing.T) {
	// Saturday target, Monday first close
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"AAPL": {
			{Date: day(2024, 3, 18), Close: 174.0},
			{Date: day(2024, 3, 19), Close: 175.0},
		},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	price, ok := oracle.Close(context.Background(), "AAPL", day(2024, 3, 16))
	require.True(t, ok)
	assert.Equal(t, 174.0, price)
}

func TestCloseUnavailableBeyondLookahead(t *testing.T) {
	// First close is 6 days out, past the 5-day lookahead
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"AAPL": {{Date: day(2024, 3, 22), Close: 174.0}},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	_, ok := oracle.Close(context.Background(), "AAPL", day(2024, 3, 16))
	assert.False(t, ok)
}

func TestCloseTransportErrorIsUnavailable(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	oracle := NewOracle(fetcher, logger.NewNop())

	_, ok := oracle.Close(context.Background(), "AAPL", day(2024, 3, 15))
	assert.False(t, ok)
}

func TestCloseMemoizesLookups(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"SPY": {{Date: day(2024, 3, 15), Close: 510.0}},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	for i := 0; i < 5; i++ {
		price, ok := oracle.Close(context.Background(), "SPY", day(2024, 3, 15))
		require.True(t, ok)
		assert.Equal(t, 510.0, price)
	}
	assert.Equal(t, 1, fetcher.calls)

	// Misses are memoized too
	for i := 0; i < 3; i++ {
		_, ok := oracle.Close(context.Background(), "SPY", day(2030, 1, 1))
		assert.False(t, ok)
	}
	assert.Equal(t, 2, fetcher.calls)
}

func TestResetDropsCache(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"SPY": {{Date: day(2024, 3, 15), Close: 510.0}},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	oracle.Close(context.Background(), "SPY", day(2024, 3, 15))
	oracle.Reset()
	oracle.Close(context.Background(), "SPY", day(2024, 3, 15))

	assert.Equal(t, 2, fetcher.calls)
}

func TestReturn(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"AAPL": {
			{Date: day(2024, 1, 2), Close: 100.0},
			{Date: day(2024, 7, 1), Close: 110.0},
		},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	ret, ok := oracle.Return(context.Background(), "AAPL", day(2024, 1, 2), day(2024, 7, 1))
	require.True(t, ok)
	assert.InDelta(t, 0.10, ret, 1e-9)
}

func TestReturnUnavailableWhenEitherEndMissing(t *testing.T) {
	fetcher := &fakeFetcher{closes: map[string][]yahoo.DailyClose{
		"AAPL": {{Date: day(2024, 1, 2), Close: 100.0}},
	}}
	oracle := NewOracle(fetcher, logger.NewNop())

	_, ok := oracle.Return(context.Background(), "AAPL", day(2024, 1, 2), day(2024, 7, 1))
	assert.False(t, ok)

	_, ok = oracle.Return(context.Background(), "AAPL", day(2023, 1, 2), day(2024, 1, 2))
	assert.False(t, ok)
}

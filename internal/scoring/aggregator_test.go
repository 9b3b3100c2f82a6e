package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insideralpha/backend/internal/contracts"
	"github.com/insideralpha/backend/pkg/logger"
)

func newAggregator(store *fakeStore) *Aggregator {
	a := NewAggregator(store, logger.NewNop())
	a.now = func() time.Time { return fixedNow }
	return a
}

func f64(v float64) *float64 { return &v }
func b(v bool) *bool         { return &v }

// scoredTrade builds a trade with the canonical 180-day metrics set.
func scoredTrade(cik string, direction contracts.Direction, alpha float64, win bool) *contracts.Trade {
	return &contracts.Trade{
		CIK:             cik,
		Ticker:          "AAPL",
		InsiderName:     "COOK TIMOTHY D",
		Direction:       direction,
		TransactionDate: fixedNow.AddDate(0, -6, 0),
		Return180D:      f64(alpha + 0.10),
		SpyReturn180D:   f64(0.10),
		Alpha:           f64(alpha),
		IsWin:           b(win),
	}
}

func TestAggregatorWindowStart(t *testing.T) {
	store := newFakeStore()
	_, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixedNow.AddDate(0, 0, -3*365), store.windowStart)
}

func TestAggregatorScoresOneInsider(t *testing.T) {
	store := newFakeStore()
	store.scored = []*contracts.Trade{
		scoredTrade("0001214156", contracts.DirectionBuy, 0.20, true),
		scoredTrade("0001214156", contracts.DirectionBuy, 0.10, true),
		scoredTrade("0001214156", contracts.DirectionSell, -0.05, false),
		scoredTrade("0001214156", contracts.DirectionSell, 0.15, true),
	}

	upserted, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, upserted)

	score := store.scores["0001214156"]
	require.NotNil(t, score)
	assert.Equal(t, "COOK TIMOTHY D", score.Name)
	assert.Equal(t, "AAPL", score.Company)
	assert.Equal(t, 4, score.TotalTrades)
	assert.Equal(t, 2, score.TotalBuys)
	assert.Equal(t, 2, score.TotalSells)
	assert.Equal(t, 3, score.Wins)
	assert.Equal(t, 2, score.BuyWins)
	assert.Equal(t, 1, score.SellWins)
	assert.Equal(t, 75.0, score.Score)
	assert.InDelta(t, 0.10, score.Alpha180D, 1e-9)
	assert.InDelta(t, 0.15, score.BuyAlpha180D, 1e-9)
	assert.InDelta(t, 0.05, score.SellAlpha180D, 1e-9)
	assert.Equal(t, fixedNow, score.LastUpdated)
}

func TestAggregatorBelowTradeFloorScoresZero(t *testing.T) {
	store := newFakeStore()
	store.scored = []*contracts.Trade{
		scoredTrade("0001214156", contracts.DirectionBuy, 0.20, true),
		scoredTrade("0001214156", contracts.DirectionBuy, 0.10, true),
	}

	_, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)

	score := store.scores["0001214156"]
	require.NotNil(t, score)
	assert.Equal(t, 0.0, score.Score)
	// Counters and alphas still reflect the trades
	assert.Equal(t, 2, score.TotalTrades)
	assert.Equal(t, 2, score.Wins)
	assert.InDelta(t, 0.15, score.Alpha180D, 1e-9)
}

func TestAggregatorGroupsByInsider(t *testing.T) {
	store := newFakeStore()
	store.scored = []*contracts.Trade{
		scoredTrade("0001214156", contracts.DirectionBuy, 0.20, true),
		scoredTrade("0000999999", contracts.DirectionSell, -0.10, false),
	}

	upserted, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, upserted)
	assert.Len(t, store.scores, 2)
}

func TestAggregatorSecondaryHorizonAverages(t *testing.T) {
	first := scoredTrade("0001214156", contracts.DirectionBuy, 0.20, true)
	first.Return30D, first.SpyReturn30D = f64(0.06), f64(0.02)
	first.Return1Y, first.SpyReturn1Y = f64(0.40), f64(0.10)

	// Second trade has no 30d pair: it must not dilute the average
	second := scoredTrade("0001214156", contracts.DirectionBuy, 0.10, true)

	store := newFakeStore()
	store.scored = []*contracts.Trade{first, second}

	_, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)

	score := store.scores["0001214156"]
	require.NotNil(t, score)
	assert.InDelta(t, 0.04, score.Alpha30D, 1e-9)
	assert.InDelta(t, 0.30, score.Alpha1Y, 1e-9)
	assert.Equal(t, 0.0, score.Alpha90D)
}

func TestAggregatorRerunIsStable(t *testing.T) {
	store := newFakeStore()
	store.scored = []*contracts.Trade{
		scoredTrade("0001214156", contracts.DirectionBuy, 0.20, true),
		scoredTrade("0001214156", contracts.DirectionBuy, 0.10, true),
		scoredTrade("0001214156", contracts.DirectionSell, -0.05, false),
		scoredTrade("0001214156", contracts.DirectionSell, 0.15, true),
	}

	_, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)
	first := *store.scores["0001214156"]

	// Rerun a day later over the same trades
	later := newAggregator(store)
	later.now = func() time.Time { return fixedNow.Add(24 * time.Hour) }
	_, err = later.Run(context.Background())
	require.NoError(t, err)
	second := *store.scores["0001214156"]

	assert.Equal(t, fixedNow, first.LastUpdated)
	assert.Equal(t, fixedNow.Add(24*time.Hour), second.LastUpdated)

	// Everything but the timestamp is byte-for-byte identical
	second.LastUpdated = first.LastUpdated
	assert.Equal(t, first, second)
}

func TestAggregatorSellAlphaDirectionAdjusted(t *testing.T) {
	trade := scoredTrade("0001214156", contracts.DirectionSell, 0.12, true)
	// Stock fell 7%, market rose 5% over 30 days
	trade.Return30D, trade.SpyReturn30D = f64(-0.07), f64(0.05)

	store := newFakeStore()
	store.scored = []*contracts.Trade{trade}

	_, err := newAggregator(store).Run(context.Background())
	require.NoError(t, err)

	score := store.scores["0001214156"]
	require.NotNil(t, score)
	assert.InDelta(t, 0.12, score.Alpha30D, 1e-9)
}

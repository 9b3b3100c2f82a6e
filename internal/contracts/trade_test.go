package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		code   string
		want   Direction
		wantOK bool
	}{
		{"P", DirectionBuy, true},
		{"S", DirectionSell, true},
		{"A", "", false}, // award
		{"G", "", false}, // gift
		{"M", "", false}, // option exercise
		{"F", "", false},
		{"", "", false},
		{"p", "", false}, // codes are case-sensitive in Form 4
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ParseDirection(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("ParseDirection(%q) ok = %v, want %v", tt.code, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseDirection(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestDirectionAlpha(t *testing.T) {
	// A buy profits when the stock beats the market
	assert.InDelta(t, 0.06, DirectionBuy.Alpha(0.10, 0.04), 1e-9)

	// The same numbers score negatively for a sell
	assert.InDelta(t, -0.06, DirectionSell.Alpha(0.10, 0.04), 1e-9)

	// Sign symmetry: buy and sell alphas are exact negatives
	for _, pair := range [][2]float64{{0.10, 0.04}, {-0.02, 0.05}, {0.0, 0.0}, {-0.3, -0.1}} {
		buy := DirectionBuy.Alpha(pair[0], pair[1])
		sell := DirectionSell.Alpha(pair[0], pair[1])
		assert.InDelta(t, -buy, sell, 1e-12)
	}

	// A sell ahead of a drop scores positively
	assert.InDelta(t, 0.07, DirectionSell.Alpha(-0.02, 0.05), 1e-9)
}

func TestDedupKey(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	trade := &Trade{
		CIK:             "0001214156",
		Ticker:          "AAPL",
		TransactionDate: date,
		AmountUSD:       150000.50,
		AccessionNumber: "0000320193-24-000042",
	}

	key := trade.Key()
	assert.Equal(t, "0000320193-24-000042", key.AccessionNumber)
	assert.Equal(t, "AAPL", key.Ticker)
	assert.Equal(t, date, key.TransactionDate)
	assert.Equal(t, 150000.50, key.AmountUSD)

	assert.Equal(t, "0000320193-24-000042/2024-03-15/AAPL/150000.50", key.String())
}

func TestTradeScored(t *testing.T) {
	trade := &Trade{}
	assert.False(t, trade.Scored())

	alpha := 0.05
	trade.Alpha = &alpha
	assert.True(t, trade.Scored())
}

package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insideralpha/backend/pkg/config"
	"github.com/insideralpha/backend/pkg/httputil"
	"github.com/insideralpha/backend/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{Yahoo: config.YahooConfig{BaseURL: server.URL}}
	log := logger.NewNop()
	return NewClient(cfg, httputil.New(log).DisableRetry(), log)
}

func TestFetchDailyCloses(t *testing.T) {
	day1 := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC).Unix()
	day2 := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC).Unix()
	day3 := time.Date(2024, 1, 17, 14, 30, 0, 0, time.UTC).Unix()

	payload := fmt.Sprintf(`{"chart":{"result":[{
		"timestamp":[%d,%d,%d],
		"indicators":{"quote":[{"close":[185.5,null,187.25]}]}
	}],"error":null}}`, day1, day2, day3)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla")
		w.Write([]byte(payload))
	}))

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 5)

	prices, err := client.FetchDailyCloses(context.Background(), "AAPL", from, to)
	require.NoError(t, err)

	// The null close is dropped
	require.Len(t, prices, 2)
	assert.Equal(t, 185.5, prices[0].Close)
	assert.Equal(t, 187.25, prices[1].Close)
	assert.Equal(t, 15, prices[0].Date.Day())
	assert.Equal(t, 17, prices[1].Date.Day())
}

func TestFetchDailyClosesChartError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))

	_, err := client.FetchDailyCloses(context.Background(), "GONE",
		time.Now().AddDate(0, 0, -5), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestFetchDailyClosesEmptyResult(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))

	prices, err := client.FetchDailyCloses(context.Background(), "AAPL",
		time.Now().AddDate(0, 0, -5), time.Now())
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestToYahooSymbol(t *testing.T) {
	assert.Equal(t, "BRK-B", toYahooSymbol("BRK.B"))
	assert.Equal(t, "AAPL", toYahooSymbol("AAPL"))
}

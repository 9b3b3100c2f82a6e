package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/insideralpha/backend/pkg/config"
	"github.com/insideralpha/backend/pkg/httputil"
	"github.com/insideralpha/backend/pkg/logger"
)

// Yahoo blocks generic clients, so chart requests carry a browser UA.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client fetches daily candles from the Yahoo Finance chart API.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("client", "yahoo"),
		baseURL:    cfg.Yahoo.BaseURL,
	}
}

// DailyClose is one trading day's closing price.
type DailyClose struct {
	Date  time.Time
	Close float64
}

// chartResponse is the shape of the v8 chart API payload.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses fetches daily closing prices for a symbol over
// [from, to]. Days without a close (halts, partial data) are dropped.
func (c *Client) FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]DailyClose, error) {
	fullURL := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(toYahooSymbol(symbol)), from.Unix(), to.Unix(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s - %s",
			result.Chart.Error.Code, result.Chart.Error.Description)
	}

	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	series := result.Chart.Result[0]
	closes := series.Indicators.Quote[0].Close

	var prices []DailyClose
	for i, ts := range series.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		prices = append(prices, DailyClose{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(prices),
	}).Debug("Fetched daily closes")

	return prices, nil
}

// toYahooSymbol maps share-class tickers to Yahoo's dash notation.
func toYahooSymbol(sym string) string {
	return strings.ReplaceAll(sym, ".", "-")
}

package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"golang.org/x/time/rate"

	"github.com/insideralpha/backend/pkg/config"
	"github.com/insideralpha/backend/pkg/httputil"
	"github.com/insideralpha/backend/pkg/logger"
)

// Client handles communication with SEC EDGAR.
// The SEC enforces a hard limit of 10 requests per second and rejects
// requests without a descriptive User-Agent, so every call goes through
// the shared rate limiter and the configured UA.
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	limiter     *rate.Limiter
	baseURL     string // www.sec.gov
	dataBaseURL string // data.sec.gov

	mu        sync.Mutex
	tickerCIK map[string]string // ticker -> zero-padded CIK, loaded lazily
}

// NewClient creates a new EDGAR client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:  httpClient.WithUserAgent(cfg.SEC.UserAgent),
		logger:      log.WithField("client", "edgar"),
		limiter:     rate.NewLimiter(rate.Limit(cfg.SEC.RequestsPerSec), cfg.SEC.RequestsPerSec),
		baseURL:     cfg.SEC.BaseURL,
		dataBaseURL: cfg.SEC.DataBaseURL,
	}
}

// get performs a rate-limited GET against EDGAR.
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp, nil
}

// tickerEntry is one record in company_tickers.json. The file is an
// object keyed by row index, not an array.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveCIK maps a ticker symbol to its zero-padded 10-digit CIK.
// The full ticker table is fetched once per client lifetime.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tickerCIK == nil {
		table, err := c.fetchTickerTable(ctx)
		if err != nil {
			return "", err
		}
		c.tickerCIK = table
	}

	cik, ok := c.tickerCIK[ticker]
	if !ok {
		return "", fmt.Errorf("unknown ticker: %s", ticker)
	}
	return cik, nil
}

// fetchTickerTable downloads company_tickers.json and builds the
// ticker -> CIK mapping.
func (c *Client) fetchTickerTable(ctx context.Context) (map[string]string, error) {
	url := c.baseURL + "/files/company_tickers.json"

	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker table: %w", err)
	}
	defer resp.Body.Close()

	var entries map[string]tickerEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode ticker table: %w", err)
	}

	table := make(map[string]string, len(entries))
	for _, e := range entries {
		table[e.Ticker] = PadCIK(strconv.FormatInt(e.CIK, 10))
	}

	c.logger.WithField("tickers", len(table)).Debug("Loaded EDGAR ticker table")
	return table, nil
}

// PadCIK zero-pads a CIK to the 10 digits EDGAR URLs expect.
func PadCIK(cik string) string {
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}

// TrimCIK strips leading zeros for the Archives path form.
func TrimCIK(cik string) string {
	trimmed := cik
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}
	return trimmed
}

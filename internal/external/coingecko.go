package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/abeelha/btc-tracker/internal/httputil"
	"github.com/abeelha/btc-tracker/internal/models"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client talks to the CoinGecko market-data API for a single asset.
type Client struct {
	baseURL      string
	coinID       string
	vsCurrency   string
	lookbackDays int
	httpClient   *http.Client
	retry        httputil.RetryConfig
}

type ClientOptions struct {
	BaseURL      string
	CoinID       string
	VsCurrency   string
	LookbackDays int
	Timeout      time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CoinID == "" {
		opts.CoinID = "bitcoin"
	}
	if opts.VsCurrency == "" {
		opts.VsCurrency = "usd"
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = 365
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:      opts.BaseURL,
		coinID:       opts.CoinID,
		vsCurrency:   opts.VsCurrency,
		lookbackDays: opts.LookbackDays,
		httpClient:   &http.Client{Timeout: opts.Timeout},
		retry: httputil.RetryConfig{
			MaxAttempts: 2,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
		},
	}
}

// MarketChart holds the parallel [timestamp-ms, value] series returned by the
// historical endpoint. The three series are aligned by timestamp, not index.
type MarketChart struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// CurrentPrice fetches the latest price, market cap and 24h volume.
// The verbatim response body is returned alongside the parsed quote so the
// caller can persist the raw snapshot.
func (c *Client) CurrentPrice(ctx context.Context) (*models.CurrentQuote, []byte, error) {
	q := url.Values{}
	q.Set("ids", c.coinID)
	q.Set("vs_currencies", c.vsCurrency)
	q.Set("include_market_cap", "true")
	q.Set("include_24hr_vol", "true")
	q.Set("include_24hr_change", "true")
	q.Set("include_last_updated_at", "true")

	raw, err := c.get(ctx, "/simple/price", q)
	if err != nil {
		return nil, nil, fmt.Errorf("current price: %w", err)
	}

	var payload map[string]map[string]float64
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, nil, fmt.Errorf("current price: decode: %w", err)
	}
	fields, ok := payload[c.coinID]
	if !ok {
		return nil, nil, fmt.Errorf("current price: coin %q missing from response", c.coinID)
	}

	quote := &models.CurrentQuote{
		Price:     fields[c.vsCurrency],
		MarketCap: fields[c.vsCurrency+"_market_cap"],
		Volume24h: fields[c.vsCurrency+"_24h_vol"],
		Change24h: fields[c.vsCurrency+"_24h_change"],
	}
	if ts, ok := fields["last_updated_at"]; ok {
		quote.LastUpdatedAt = time.Unix(int64(ts), 0).UTC()
	}
	if quote.Price <= 0 {
		return nil, nil, fmt.Errorf("current price: invalid price %f", quote.Price)
	}

	return quote, raw, nil
}

// MarketChart fetches the daily historical series over the lookback window.
func (c *Client) MarketChart(ctx context.Context) (*MarketChart, []byte, error) {
	q := url.Values{}
	q.Set("vs_currency", c.vsCurrency)
	q.Set("days", strconv.Itoa(c.lookbackDays))
	q.Set("interval", "daily")

	raw, err := c.get(ctx, "/coins/"+c.coinID+"/market_chart", q)
	if err != nil {
		return nil, nil, fmt.Errorf("market chart: %w", err)
	}

	var chart MarketChart
	if err := json.Unmarshal(raw, &chart); err != nil {
		return nil, nil, fmt.Errorf("market chart: decode: %w", err)
	}
	if len(chart.Prices) == 0 {
		return nil, nil, fmt.Errorf("market chart: empty price series")
	}

	return &chart, raw, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + q.Encode()

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return raw, nil
}

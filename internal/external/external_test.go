package external_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abeelha/btc-tracker/internal/external"
)

const currentBody = `{"bitcoin":{"usd":64250.37,"usd_market_cap":1266000000000,"usd_24h_vol":25400000000,"usd_24h_change":1.73,"last_updated_at":1724400000}}`

const chartBody = `{
	"prices":[[1704067200000,40000.0],[1704153600000,41000.0]],
	"market_caps":[[1704067200000,780000000000.0],[1704153600000,800000000000.0]],
	"total_volumes":[[1704067200000,25000000000.0],[1704153600000,26000000000.0]]
}`

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/simple/price", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ids") != "bitcoin" {
			http.Error(w, "unknown coin", http.StatusNotFound)
			return
		}
		w.Write([]byte(currentBody))
	})
	mux.HandleFunc("/coins/bitcoin/market_chart", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("days") == "" {
			http.Error(w, "missing days", http.StatusBadRequest)
			return
		}
		w.Write([]byte(chartBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCurrentPrice(t *testing.T) {
	srv := newFakeAPI(t)
	client := external.NewClient(external.ClientOptions{BaseURL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	quote, raw, err := client.CurrentPrice(ctx)
	if err != nil {
		t.Fatalf("CurrentPrice: %v", err)
	}
	if quote.Price != 64250.37 {
		t.Fatalf("price: got %f", quote.Price)
	}
	if quote.MarketCap != 1266000000000 {
		t.Fatalf("market cap: got %f", quote.MarketCap)
	}
	if quote.Volume24h != 25400000000 {
		t.Fatalf("volume: got %f", quote.Volume24h)
	}
	if quote.LastUpdatedAt.IsZero() {
		t.Fatal("expected last-updated-at to be set")
	}
	if string(raw) != currentBody {
		t.Fatal("raw body should be returned verbatim")
	}
	t.Logf("BTC price: $%.2f", quote.Price)
}

func TestMarketChart(t *testing.T) {
	srv := newFakeAPI(t)
	client := external.NewClient(external.ClientOptions{BaseURL: srv.URL, LookbackDays: 365})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	chart, raw, err := client.MarketChart(ctx)
	if err != nil {
		t.Fatalf("MarketChart: %v", err)
	}
	if len(chart.Prices) != 2 || len(chart.MarketCaps) != 2 || len(chart.TotalVolumes) != 2 {
		t.Fatalf("series lengths: %d/%d/%d", len(chart.Prices), len(chart.MarketCaps), len(chart.TotalVolumes))
	}
	if chart.Prices[1][1] != 41000.0 {
		t.Fatalf("second price sample: got %f", chart.Prices[1][1])
	}
	if string(raw) != chartBody {
		t.Fatal("raw body should be returned verbatim")
	}
}

func TestCurrentPrice_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := external.NewClient(external.ClientOptions{BaseURL: srv.URL})
	if _, _, err := client.CurrentPrice(context.Background()); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestMarketChart_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prices": "nope"}`))
	}))
	defer srv.Close()

	client := external.NewClient(external.ClientOptions{BaseURL: srv.URL})
	if _, _, err := client.MarketChart(context.Background()); err == nil {
		t.Fatal("expected decode error for malformed body")
	}
}

func TestCurrentPrice_InvalidPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bitcoin":{"usd":0}}`))
	}))
	defer srv.Close()

	client := external.NewClient(external.ClientOptions{BaseURL: srv.URL})
	if _, _, err := client.CurrentPrice(context.Background()); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

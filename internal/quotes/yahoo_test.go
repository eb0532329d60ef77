package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"financebrief/internal/ratelimit"
)

func chartHandler(t *testing.T, prices map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sym := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("interval = %q, want 1d", got)
		}

		body, ok := prices[sym]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func newTestClient(baseURL string, ttl time.Duration) *Client {
	return NewClient(baseURL, Options{
		Timeout:  5 * time.Second,
		CacheTTL: ttl,
		Limiter:  ratelimit.NewUnlimited(),
	})
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"005930", "005930.KS"},
		{" 005930 ", "005930.KS"},
		{"AAPL", "AAPL"},
		{"005930.KS", "005930.KS"},
		{"12345", "12345"},
		{"1234567", "1234567"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeSymbol(tt.in); got != tt.want {
				t.Errorf("NormalizeSymbol(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetQuotes_Success(t *testing.T) {
	server := httptest.NewServer(chartHandler(t, map[string]string{
		"AAPL":      `{"chart": {"result": [{"meta": {"symbol": "AAPL", "currency": "USD", "regularMarketPrice": 178.23}}], "error": null}}`,
		"005930.KS": `{"chart": {"result": [{"meta": {"symbol": "005930.KS", "currency": "KRW", "regularMarketPrice": 71500}}], "error": null}}`,
	}))
	defer server.Close()

	records, err := newTestClient(server.URL, 0).GetQuotes(context.Background(), []string{"AAPL", "005930"})
	if err != nil {
		t.Fatalf("GetQuotes() returned unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	tests := []struct {
		symbol   string
		price    float64
		currency string
	}{
		{"AAPL", 178.23, "USD"},
		{"005930.KS", 71500, "KRW"},
	}
	for i, tt := range tests {
		rec := records[i]
		if rec.Symbol != tt.symbol || rec.Price != tt.price || rec.Currency != tt.currency || !rec.OK() {
			t.Errorf("records[%d] = %+v, want %s %.2f %s", i, rec, tt.symbol, tt.price, tt.currency)
		}
	}
}

func TestGetQuotes_PerSymbolFailures(t *testing.T) {
	server := httptest.NewServer(chartHandler(t, map[string]string{
		"AAPL":  `{"chart": {"result": [{"meta": {"symbol": "AAPL", "currency": "USD", "regularMarketPrice": 178.23}}], "error": null}}`,
		"NOCCY": `{"chart": {"result": [{"meta": {"symbol": "NOCCY", "regularMarketPrice": 10}}], "error": null}}`,
		"NOPRC": `{"chart": {"result": [{"meta": {"symbol": "NOPRC", "currency": "USD"}}], "error": null}}`,
		"EMPTY": `{"chart": {"result": [], "error": null}}`,
	}))
	defer server.Close()

	records, err := newTestClient(server.URL, 0).GetQuotes(context.Background(),
		[]string{"AAPL", "ZZZZ", "NOCCY", "NOPRC", "EMPTY", "  "})
	if err != nil {
		t.Fatalf("GetQuotes() returned unexpected error: %v", err)
	}

	if len(records) != 6 {
		t.Fatalf("len(records) = %d, want 6", len(records))
	}
	if !records[0].OK() {
		t.Errorf("records[0] unexpectedly failed: %+v", records[0])
	}
	for i, rec := range records[1:] {
		if rec.OK() {
			t.Errorf("records[%d] = %+v, want an error record", i+1, rec)
		}
		if rec.Price != 0 || rec.Currency != "" {
			t.Errorf("records[%d] error record carries price data: %+v", i+1, rec)
		}
	}
	if records[1].Symbol != "ZZZZ" {
		t.Errorf("records[1].Symbol = %q, want ZZZZ", records[1].Symbol)
	}
}

func TestGetQuotes_Cache(t *testing.T) {
	var hits atomic.Int32
	handler := chartHandler(t, map[string]string{
		"MSFT": `{"chart": {"result": [{"meta": {"symbol": "MSFT", "currency": "USD", "regularMarketPrice": 378.91}}], "error": null}}`,
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		records, err := client.GetQuotes(ctx, []string{"MSFT"})
		if err != nil {
			t.Fatalf("GetQuotes() returned unexpected error: %v", err)
		}
		if records[0].Price != 378.91 {
			t.Errorf("Price = %.2f, want 378.91", records[0].Price)
		}
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}

func TestGetQuotes_FailuresAreNotCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Minute)
	client.GetQuotes(context.Background(), []string{"GONE"})
	client.GetQuotes(context.Background(), []string{"GONE"})

	if got := hits.Load(); got != 2 {
		t.Errorf("server hits = %d, want 2", got)
	}
}

func TestGetQuotes_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(server.URL, 0).GetQuotes(ctx, []string{"AAPL"}); err == nil {
		t.Error("GetQuotes() expected error for cancelled context, got nil")
	}
}

func TestGetQuotes_NoSymbols(t *testing.T) {
	records, err := newTestClient("http://localhost", 0).GetQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetQuotes() returned unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %v, want none", records)
	}
}

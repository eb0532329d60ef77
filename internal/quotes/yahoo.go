package quotes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financebrief/internal/fetcher"
	"financebrief/internal/ratelimit"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"resty.dev/v3"
)

// ChartResponse represents the Yahoo Finance chart API response
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string   `json:"symbol"`
				Currency           string   `json:"currency"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				ExchangeName       string   `json:"exchangeName"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Options tunes a Client.
type Options struct {
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Limiter   *ratelimit.Limiter
}

// Client fetches quotes from Yahoo Finance
type Client struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	cache   *expirable.LRU[string, fetcher.QuoteRecord]
}

// NewClient creates a new quote client. A zero CacheTTL disables caching.
func NewClient(baseURL string, opts Options) *Client {
	client := fetcher.NewHTTPClient(baseURL, opts.Timeout).
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; financebrief/1.0)")

	c := &Client{
		client:  client,
		limiter: opts.Limiter,
	}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 256
		}
		c.cache = expirable.NewLRU[string, fetcher.QuoteRecord](size, nil, opts.CacheTTL)
	}
	return c
}

// GetQuotes looks up every symbol in order. Symbols that cannot be priced get
// a record with Error set. An error is returned only when ctx ends first.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]fetcher.QuoteRecord, error) {
	out := make([]fetcher.QuoteRecord, 0, len(symbols))
	for _, raw := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("quote lookup aborted: %w", err)
		}

		sym := NormalizeSymbol(raw)
		if sym == "" {
			out = append(out, fetcher.QuoteRecord{Symbol: sym, Error: "empty symbol"})
			continue
		}

		if c.cache != nil {
			if rec, ok := c.cache.Get(sym); ok {
				out = append(out, rec)
				continue
			}
		}

		rec, err := c.fetchQuote(ctx, sym)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("quote lookup aborted at %s: %w", sym, ctx.Err())
			}
			slog.Debug("quote lookup failed", "symbol", sym, "error", err)
			out = append(out, fetcher.QuoteRecord{Symbol: sym, Error: err.Error()})
			continue
		}

		if c.cache != nil {
			c.cache.Add(sym, rec)
		}
		out = append(out, rec)
	}
	return out, nil
}

// fetchQuote retrieves the current price and currency for one normalized symbol
func (c *Client) fetchQuote(ctx context.Context, sym string) (fetcher.QuoteRecord, error) {
	if err := c.limiter.Wait(ctx, ratelimit.APIYahoo); err != nil {
		return fetcher.QuoteRecord{}, fmt.Errorf("rate limiter: %w", err)
	}

	var result ChartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", sym).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "1d",
		}).
		SetResult(&result).
		Get("/v8/finance/chart/{symbol}")

	if err != nil {
		return fetcher.QuoteRecord{}, fetcher.ClassifyRequestError(err)
	}

	if !resp.IsSuccess() {
		return fetcher.QuoteRecord{}, fetcher.ClassifyHTTPError(resp.StatusCode())
	}

	if result.Chart.Error != nil {
		return fetcher.QuoteRecord{}, fetcher.NewValidationError(
			fmt.Sprintf("%s: %s", result.Chart.Error.Code, result.Chart.Error.Description))
	}

	if len(result.Chart.Result) == 0 {
		return fetcher.QuoteRecord{}, fetcher.NewValidationError("no chart data for " + sym)
	}

	meta := result.Chart.Result[0].Meta
	if meta.RegularMarketPrice == nil || meta.Currency == "" {
		return fetcher.QuoteRecord{}, fetcher.NewValidationError("price or currency not found for " + sym)
	}

	return fetcher.QuoteRecord{
		Symbol:   sym,
		Price:    *meta.RegularMarketPrice,
		Currency: meta.Currency,
	}, nil
}

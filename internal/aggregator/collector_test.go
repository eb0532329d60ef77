package aggregator

import (
	"errors"
	"log/slog"
	"testing"

	"financebrief/internal/fetcher"

	"github.com/stretchr/testify/assert"
)

func TestCollector_Integrate(t *testing.T) {
	t.Run("Should route successes by task kind", func(t *testing.T) {
		r := NewAggregationResult("q", ExecutionPlan{})
		c := newCollector(r, slog.Default())

		c.integrate(completion{kind: TaskStock, out: outcome{quotes: []fetcher.QuoteRecord{{Symbol: "AAPL"}}}})
		c.integrate(completion{kind: TaskWeb, out: outcome{items: []fetcher.WebResult{{URL: "u"}}}})
		c.integrate(completion{kind: TaskProfile, out: outcome{profile: &ProfileResult{Text: "p", Sources: []string{"s"}}}})

		assert.Equal(t, []fetcher.WebResult{{URL: "u"}}, r.Items)
		assert.Equal(t, []fetcher.QuoteRecord{{Symbol: "AAPL"}}, r.Tickers)
		assert.Equal(t, "p", r.CompanyProfile)
		assert.Equal(t, []string{"s"}, r.ProfileSources)
		assert.Empty(t, r.Errors)
	})

	t.Run("Should leave profile defaults for an absent profile", func(t *testing.T) {
		r := NewAggregationResult("q", ExecutionPlan{})
		c := newCollector(r, slog.Default())

		c.integrate(completion{kind: TaskProfile})

		assert.Empty(t, r.CompanyProfile)
		assert.Nil(t, r.ProfileSources)
		assert.Empty(t, r.Errors)
	})

	t.Run("Should append failures in observation order without touching data", func(t *testing.T) {
		r := NewAggregationResult("q", ExecutionPlan{})
		c := newCollector(r, slog.Default())

		c.integrate(completion{kind: TaskWeb, out: outcome{items: []fetcher.WebResult{{URL: "kept"}}}})
		c.integrate(completion{kind: TaskProfile, err: errors.New("second")})
		c.integrate(completion{kind: TaskStock, err: fetcher.NewTimeoutError(nil)})

		assert.Equal(t, []string{
			"profile_pipeline: unknown: second",
			"stock_pipeline: timeout: timeout error: request timed out",
		}, r.Errors)
		assert.Equal(t, []fetcher.WebResult{{URL: "kept"}}, r.Items)
		assert.Nil(t, r.Tickers)
	})
}

package aggregator

import (
	"encoding/json"
	"testing"

	"financebrief/internal/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *AggregationResult {
	return &AggregationResult{
		Query: "AAPL",
		Analysis: PlanAnalysis{
			DoWeb:       true,
			WebKeywords: []string{"apple"},
			DoStocks:    true,
			Tickers:     []string{"AAPL"},
		},
		Items:          []fetcher.WebResult{{Title: "t", URL: "https://x.example"}},
		Tickers:        []fetcher.QuoteRecord{{Symbol: "AAPL", Error: "not found"}},
		CompanyProfile: "Apple makes phones.",
		ProfileSources: []string{"https://apple.example"},
		Errors:         []string{"web_pipeline: unknown: boom"},
	}
}

func TestMerge(t *testing.T) {
	t.Run("Should default every field of an empty result", func(t *testing.T) {
		payload := Merge(&AggregationResult{})

		assert.Equal(t, PayloadType, payload.Type)
		assert.NotNil(t, payload.Items)
		assert.NotNil(t, payload.Tickers)
		assert.NotNil(t, payload.Errors)
		assert.NotNil(t, payload.ProfileSources)
		assert.NotNil(t, payload.Analysis.WebKeywords)
		assert.NotNil(t, payload.Analysis.Tickers)

		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "web_results",
			"query": "",
			"analysis": {"do_web": false, "web_keywords": [], "do_stocks": false, "tickers": []},
			"items": [],
			"tickers": [],
			"errors": [],
			"company_profile": "",
			"profile_sources": []
		}`, string(raw))
	})

	t.Run("Should tolerate a nil result", func(t *testing.T) {
		payload := Merge(nil)

		assert.Equal(t, PayloadType, payload.Type)
		assert.Empty(t, payload.Items)
	})

	t.Run("Should pass values through unchanged", func(t *testing.T) {
		r := sampleResult()

		payload := Merge(r)

		assert.Equal(t, r.Query, payload.Query)
		assert.Equal(t, r.Analysis, payload.Analysis)
		assert.Equal(t, r.Items, payload.Items)
		assert.Equal(t, r.Tickers, payload.Tickers)
		assert.Equal(t, r.CompanyProfile, payload.CompanyProfile)
		assert.Equal(t, r.ProfileSources, payload.ProfileSources)
		assert.Equal(t, r.Errors, payload.Errors)
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		r := sampleResult()

		first := Merge(r)
		second := Merge(r)

		assert.Equal(t, first, second)
		assert.Equal(t, sampleResult(), r)
	})

	t.Run("Should not share backing arrays with the result", func(t *testing.T) {
		r := sampleResult()

		payload := Merge(r)
		payload.Items[0].Title = "changed"
		payload.Errors[0] = "changed"
		payload.Analysis.Tickers[0] = "changed"
		payload.ProfileSources[0] = "changed"

		assert.Equal(t, sampleResult(), r)
	})

	t.Run("Should encode quote records by outcome", func(t *testing.T) {
		payload := Merge(&AggregationResult{Tickers: []fetcher.QuoteRecord{
			{Symbol: "AAPL", Price: 178.23, Currency: "USD"},
			{Symbol: "ZZZZ", Error: "not found"},
		}})

		raw, err := json.Marshal(payload.Tickers)
		require.NoError(t, err)
		assert.JSONEq(t, `[
			{"symbol": "AAPL", "price": 178.23, "currency": "USD"},
			{"symbol": "ZZZZ", "error": "not found"}
		]`, string(raw))
	})
}

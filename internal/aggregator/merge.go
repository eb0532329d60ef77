package aggregator

import "financebrief/internal/fetcher"

// PayloadType is the discriminator stamped on every payload.
const PayloadType = "web_results"

// NormalizedPayload is the schema-stable output of Aggregate. Every slice is
// non-nil so the JSON form always carries [] rather than null.
type NormalizedPayload struct {
	Type           string                `json:"type"`
	Query          string                `json:"query"`
	Analysis       PlanAnalysis          `json:"analysis"`
	Items          []fetcher.WebResult   `json:"items"`
	Tickers        []fetcher.QuoteRecord `json:"tickers"`
	Errors         []string              `json:"errors"`
	CompanyProfile string                `json:"company_profile"`
	ProfileSources []string              `json:"profile_sources"`
}

// Merge normalizes r into a payload. It does not modify r and shares no
// backing arrays with it, so repeated calls return equal, independent values.
func Merge(r *AggregationResult) NormalizedPayload {
	if r == nil {
		r = &AggregationResult{}
	}

	items := make([]fetcher.WebResult, len(r.Items))
	copy(items, r.Items)

	tickers := make([]fetcher.QuoteRecord, len(r.Tickers))
	copy(tickers, r.Tickers)

	return NormalizedPayload{
		Type:  PayloadType,
		Query: r.Query,
		Analysis: PlanAnalysis{
			DoWeb:       r.Analysis.DoWeb,
			WebKeywords: cloneStrings(r.Analysis.WebKeywords),
			DoStocks:    r.Analysis.DoStocks,
			Tickers:     cloneStrings(r.Analysis.Tickers),
		},
		Items:          items,
		Tickers:        tickers,
		Errors:         cloneStrings(r.Errors),
		CompanyProfile: r.CompanyProfile,
		ProfileSources: cloneStrings(r.ProfileSources),
	}
}

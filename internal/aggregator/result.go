package aggregator

import (
	"fmt"

	"financebrief/internal/fetcher"
)

// ProfileResult is a summarized company profile and the pages behind it.
type ProfileResult struct {
	Text    string
	Sources []string
}

// AggregationResult accumulates task outcomes for a single Aggregate call.
// Each field is written by at most one task kind; Errors is append-only.
type AggregationResult struct {
	Query          string
	Analysis       PlanAnalysis
	Items          []fetcher.WebResult
	Tickers        []fetcher.QuoteRecord
	CompanyProfile string
	ProfileSources []string
	Errors         []string
}

// NewAggregationResult returns an empty result for query and plan.
func NewAggregationResult(query string, plan ExecutionPlan) *AggregationResult {
	return &AggregationResult{
		Query:    query,
		Analysis: plan.Snapshot(),
	}
}

// FormatTaskError renders a task failure as "<kind>_pipeline: <errorType>: <message>".
func FormatTaskError(kind TaskKind, err error) string {
	return fmt.Sprintf("%s_pipeline: %s: %v", kind, fetcher.ErrorTypeOf(err), err)
}

package aggregator

import (
	"context"
	"regexp"
	"strings"

	"financebrief/internal/fetcher"
)

// TaskKind identifies the source a unit of work belongs to.
type TaskKind string

const (
	TaskWeb     TaskKind = "web"
	TaskStock   TaskKind = "stock"
	TaskProfile TaskKind = "profile"
)

var (
	// Letter-led symbols up to 6 characters with an optional share class or
	// exchange suffix: AAPL, BRK.B, RDS-A, SHOP.TO
	alphaTicker   = regexp.MustCompile(`^[A-Z][A-Z0-9]{0,5}(?:[.-][A-Z]{1,2})?$`)
	// Korea Exchange style codes: 005930, 005930.KS
	numericTicker = regexp.MustCompile(`^[0-9]{6}(?:\.[A-Z]{2})?$`)
)

// LooksLikeTicker reports whether query, once trimmed, is a single ticker-like token.
func LooksLikeTicker(query string) bool {
	q := strings.TrimSpace(query)
	return alphaTicker.MatchString(q) || numericTicker.MatchString(q)
}

// EligibleTasks returns the tasks to dispatch for query and plan, in submission order.
func EligibleTasks(query string, plan ExecutionPlan) []TaskKind {
	var kinds []TaskKind
	if plan.DoWeb && len(plan.WebKeywords) > 0 {
		kinds = append(kinds, TaskWeb)
	}
	if plan.DoStocks && len(plan.Tickers) > 0 {
		kinds = append(kinds, TaskStock)
	}
	if LooksLikeTicker(query) || len(plan.Tickers) > 0 {
		kinds = append(kinds, TaskProfile)
	}
	return kinds
}

// ProfileTerm is the search term for the profile task: the first ticker when
// there is one, otherwise the trimmed query.
func ProfileTerm(query string, plan ExecutionPlan) string {
	if len(plan.Tickers) > 0 {
		return plan.Tickers[0]
	}
	return strings.TrimSpace(query)
}

// outcome carries the typed value of a successful task.
type outcome struct {
	items   []fetcher.WebResult
	quotes  []fetcher.QuoteRecord
	profile *ProfileResult
}

// task is one schedulable adapter invocation.
type task struct {
	kind TaskKind
	run  func(ctx context.Context) (outcome, error)
}

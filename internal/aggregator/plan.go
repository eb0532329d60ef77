package aggregator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPlan is returned by NewPlan for plans that cannot be dispatched.
var ErrInvalidPlan = errors.New("invalid execution plan")

// ExecutionPlan selects which sources to consult and with what parameters.
// Treat it as a value: Aggregate never modifies it.
type ExecutionPlan struct {
	// DoWeb enables the web search task. Only WebKeywords[0] is searched.
	DoWeb       bool
	WebKeywords []string

	// DoStocks enables the quote task for Tickers.
	DoStocks bool
	Tickers  []string
}

// PlanAnalysis is the serialized copy of the plan carried in the payload.
type PlanAnalysis struct {
	DoWeb       bool     `json:"do_web"`
	WebKeywords []string `json:"web_keywords"`
	DoStocks    bool     `json:"do_stocks"`
	Tickers     []string `json:"tickers"`
}

// NewPlan builds a validated plan. Keywords and tickers are trimmed, tickers
// are de-duplicated keeping first occurrence. A blank ticker, or a blank
// first keyword while web search is enabled, is rejected.
func NewPlan(doWeb bool, keywords []string, doStocks bool, tickers []string) (ExecutionPlan, error) {
	plan := ExecutionPlan{
		DoWeb:    doWeb,
		DoStocks: doStocks,
	}

	for i, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			if i == 0 && doWeb {
				return ExecutionPlan{}, fmt.Errorf("%w: first web keyword is blank", ErrInvalidPlan)
			}
			continue
		}
		plan.WebKeywords = append(plan.WebKeywords, k)
	}

	seen := make(map[string]struct{}, len(tickers))
	for i, t := range tickers {
		t = strings.TrimSpace(t)
		if t == "" {
			return ExecutionPlan{}, fmt.Errorf("%w: ticker %d is blank", ErrInvalidPlan, i)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		plan.Tickers = append(plan.Tickers, t)
	}

	return plan, nil
}

// Snapshot returns an independent copy of the plan for serialization.
func (p ExecutionPlan) Snapshot() PlanAnalysis {
	return PlanAnalysis{
		DoWeb:       p.DoWeb,
		WebKeywords: cloneStrings(p.WebKeywords),
		DoStocks:    p.DoStocks,
		Tickers:     cloneStrings(p.Tickers),
	}
}

// cloneStrings copies s, turning nil into an empty slice.
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Package aggregator fans a query out to web search, quote lookup and company
// profile sources concurrently, and merges whatever comes back into a single
// NormalizedPayload. Failed sources are reported in the payload, never returned.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"financebrief/internal/fetcher"
)

const (
	DefaultWebTopK     = 6
	DefaultProfileTopK = 2
	DefaultMaxWorkers  = 4
	DefaultTimeout     = 20 * time.Second
)

// Sources are the adapters the aggregator dispatches to. A nil source makes
// its task fail with a validation error rather than disabling it.
type Sources struct {
	Web              fetcher.WebSearcher
	Quotes           fetcher.QuoteSource
	ProfileFinder    fetcher.ProfileFinder
	ProfileExtractor fetcher.ProfileExtractor
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWebTopK sets how many web results are requested.
func WithWebTopK(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.webTopK = n
		}
	}
}

// WithProfileTopK sets how many profile candidate URLs are requested.
func WithProfileTopK(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.profileTopK = n
		}
	}
}

// WithTimeout bounds each adapter invocation.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.scheduler.timeout = d
		}
	}
}

// WithMaxWorkers bounds how many tasks run at once.
func WithMaxWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.scheduler.maxWorkers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSummarizer sets the function used to condense profile text.
func WithSummarizer(fn fetcher.SummarizeFunc) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.summarize = fn
		}
	}
}

// Aggregator fans a query out to the configured sources and merges the results.
// It holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	sources     Sources
	webTopK     int
	profileTopK int
	summarize   fetcher.SummarizeFunc
	scheduler   *scheduler
	logger      *slog.Logger
}

// New creates an Aggregator over sources.
func New(sources Sources, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources:     sources,
		webTopK:     DefaultWebTopK,
		profileTopK: DefaultProfileTopK,
		summarize:   func(context.Context, string) string { return "" },
		scheduler: &scheduler{
			maxWorkers: DefaultMaxWorkers,
			timeout:    DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "aggregator")
	a.scheduler.logger = a.logger
	return a
}

// Aggregate runs every eligible task for query and plan and returns the merged
// payload. It never fails: task failures are reported in the payload's Errors.
func (a *Aggregator) Aggregate(ctx context.Context, query string, plan ExecutionPlan) NormalizedPayload {
	result := NewAggregationResult(query, plan)

	tasks := a.buildTasks(query, plan)
	if len(tasks) == 0 {
		a.logger.Debug("no eligible tasks", "query", query)
		return Merge(result)
	}

	completions := make(chan completion, len(tasks))
	col := newCollector(result, a.logger)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for c := range completions {
			col.integrate(c)
		}
	}()

	a.scheduler.run(ctx, tasks, completions)
	close(completions)
	<-drained

	a.logger.Info("aggregation finished",
		"query", query,
		"tasks", len(tasks),
		"errors", len(result.Errors),
	)
	return Merge(result)
}

func (a *Aggregator) buildTasks(query string, plan ExecutionPlan) []task {
	kinds := EligibleTasks(query, plan)
	tasks := make([]task, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case TaskWeb:
			tasks = append(tasks, task{kind: kind, run: a.webTask(plan.WebKeywords[0])})
		case TaskStock:
			tasks = append(tasks, task{kind: kind, run: a.stockTask(plan.Tickers)})
		case TaskProfile:
			tasks = append(tasks, task{kind: kind, run: a.profileTask(ProfileTerm(query, plan))})
		}
	}
	return tasks
}

func (a *Aggregator) webTask(keyword string) func(context.Context) (outcome, error) {
	return func(ctx context.Context) (outcome, error) {
		if a.sources.Web == nil {
			return outcome{}, fetcher.NewValidationError("no web searcher configured")
		}
		items, err := a.sources.Web.Search(ctx, keyword, a.webTopK)
		if err != nil {
			return outcome{}, err
		}
		return outcome{items: items}, nil
	}
}

func (a *Aggregator) stockTask(tickers []string) func(context.Context) (outcome, error) {
	symbols := cloneStrings(tickers)
	return func(ctx context.Context) (outcome, error) {
		if a.sources.Quotes == nil {
			return outcome{}, fetcher.NewValidationError("no quote source configured")
		}
		quotes, err := a.sources.Quotes.GetQuotes(ctx, symbols)
		if err != nil {
			return outcome{}, err
		}
		return outcome{quotes: quotes}, nil
	}
}

func (a *Aggregator) profileTask(term string) func(context.Context) (outcome, error) {
	return func(ctx context.Context) (outcome, error) {
		if a.sources.ProfileFinder == nil || a.sources.ProfileExtractor == nil {
			return outcome{}, fetcher.NewValidationError("no profile sources configured")
		}

		urls, err := a.sources.ProfileFinder.SearchProfileCandidates(ctx, term, a.profileTopK)
		if err != nil {
			return outcome{}, err
		}
		if len(urls) == 0 {
			return outcome{}, nil
		}

		text, sources, err := a.sources.ProfileExtractor.ExtractAndSummarize(ctx, urls, a.summarize)
		if err != nil {
			return outcome{}, err
		}
		if text == "" && len(sources) == 0 {
			return outcome{}, nil
		}
		return outcome{profile: &ProfileResult{Text: text, Sources: sources}}, nil
	}
}

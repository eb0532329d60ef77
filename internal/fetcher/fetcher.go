package fetcher

import "context"

// WebSearcher runs a keyword search against a web search provider.
type WebSearcher interface {
	// Search returns at most topK results for keyword.
	Search(ctx context.Context, keyword string, topK int) ([]WebResult, error)
}

// QuoteSource looks up current quotes for a list of symbols.
//
// Failures for individual symbols are reported inside the returned records,
// so an error return means the lookup as a whole could not run (for example
// the context expired).
type QuoteSource interface {
	GetQuotes(ctx context.Context, symbols []string) ([]QuoteRecord, error)
}

// ProfileFinder finds pages likely to describe a company.
type ProfileFinder interface {
	// SearchProfileCandidates returns up to topK URLs. An empty slice is not an error.
	SearchProfileCandidates(ctx context.Context, term string, topK int) ([]string, error)
}

// SummarizeFunc condenses text. It never fails: on any problem it returns "".
type SummarizeFunc func(ctx context.Context, text string) string

// ProfileExtractor pulls the content behind urls and summarizes it.
type ProfileExtractor interface {
	// ExtractAndSummarize returns the summary and the URLs that contributed to it.
	ExtractAndSummarize(ctx context.Context, urls []string, summarize SummarizeFunc) (string, []string, error)
}

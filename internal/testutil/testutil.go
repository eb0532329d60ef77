package testutil

import (
	"context"

	"financebrief/internal/fetcher"
)

// MockWebSearcher is a mock implementation of fetcher.WebSearcher for testing
type MockWebSearcher struct {
	SearchFunc func(ctx context.Context, keyword string, topK int) ([]fetcher.WebResult, error)
}

// Search implements fetcher.WebSearcher
func (m *MockWebSearcher) Search(ctx context.Context, keyword string, topK int) ([]fetcher.WebResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, keyword, topK)
	}
	return nil, nil
}

// MockQuoteSource is a mock implementation of fetcher.QuoteSource for testing
type MockQuoteSource struct {
	GetQuotesFunc func(ctx context.Context, symbols []string) ([]fetcher.QuoteRecord, error)
}

// GetQuotes implements fetcher.QuoteSource
func (m *MockQuoteSource) GetQuotes(ctx context.Context, symbols []string) ([]fetcher.QuoteRecord, error) {
	if m.GetQuotesFunc != nil {
		return m.GetQuotesFunc(ctx, symbols)
	}
	return nil, nil
}

// MockProfileFinder is a mock implementation of fetcher.ProfileFinder for testing
type MockProfileFinder struct {
	SearchFunc func(ctx context.Context, term string, topK int) ([]string, error)
}

// SearchProfileCandidates implements fetcher.ProfileFinder
func (m *MockProfileFinder) SearchProfileCandidates(ctx context.Context, term string, topK int) ([]string, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term, topK)
	}
	return nil, nil
}

// MockProfileExtractor is a mock implementation of fetcher.ProfileExtractor for testing
type MockProfileExtractor struct {
	ExtractFunc func(ctx context.Context, urls []string, summarize fetcher.SummarizeFunc) (string, []string, error)
}

// ExtractAndSummarize implements fetcher.ProfileExtractor
func (m *MockProfileExtractor) ExtractAndSummarize(ctx context.Context, urls []string, summarize fetcher.SummarizeFunc) (string, []string, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, urls, summarize)
	}
	return "", nil, nil
}

// NewMockWebSearcher creates a web searcher returning fixed results
func NewMockWebSearcher(results []fetcher.WebResult, err error) *MockWebSearcher {
	return &MockWebSearcher{
		SearchFunc: func(ctx context.Context, keyword string, topK int) ([]fetcher.WebResult, error) {
			return results, err
		},
	}
}

// NewMockQuoteSource creates a quote source returning fixed records
func NewMockQuoteSource(records []fetcher.QuoteRecord, err error) *MockQuoteSource {
	return &MockQuoteSource{
		GetQuotesFunc: func(ctx context.Context, symbols []string) ([]fetcher.QuoteRecord, error) {
			return records, err
		},
	}
}

// NewMockProfileFinder creates a profile finder returning fixed URLs
func NewMockProfileFinder(urls []string, err error) *MockProfileFinder {
	return &MockProfileFinder{
		SearchFunc: func(ctx context.Context, term string, topK int) ([]string, error) {
			return urls, err
		},
	}
}

// NewMockProfileExtractor creates a profile extractor that summarizes text with
// the supplied summarizer and reports every URL as a source
func NewMockProfileExtractor(text string, err error) *MockProfileExtractor {
	return &MockProfileExtractor{
		ExtractFunc: func(ctx context.Context, urls []string, summarize fetcher.SummarizeFunc) (string, []string, error) {
			if err != nil {
				return "", nil, err
			}
			if summarize != nil {
				if s := summarize(ctx, text); s != "" {
					return s, urls, nil
				}
			}
			return text, urls, nil
		},
	}
}

// Package profile turns company profile URLs into a short summary.
package profile

import (
	"context"
	"log/slog"
	"strings"

	"financebrief/internal/fetcher"
	"financebrief/internal/tavily"
)

// maxDocRunes caps how much of each page is handed to the summarizer.
const maxDocRunes = 4000

// ContentExtractor bulk-extracts readable content, reporting unreadable URLs in failed.
type ContentExtractor interface {
	Extract(ctx context.Context, urls []string) (docs []tavily.Document, failed []string, err error)
}

// TextFetcher downloads a single page as plain text.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Extractor implements fetcher.ProfileExtractor.
type Extractor struct {
	extractor ContentExtractor
	pages     TextFetcher
	logger    *slog.Logger
}

// NewExtractor creates an Extractor. pages may be nil to disable the direct-fetch fallback.
func NewExtractor(extractor ContentExtractor, pages TextFetcher, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		extractor: extractor,
		pages:     pages,
		logger:    logger.With("component", "profile"),
	}
}

// ExtractAndSummarize reads every url, summarizes the combined text and returns
// the summary with the URLs that produced content, in input order. When no URL
// yields content the result is ("", nil, nil). An error is returned only when
// bulk extraction failed and no page could be fetched directly either.
func (e *Extractor) ExtractAndSummarize(ctx context.Context, urls []string, summarize fetcher.SummarizeFunc) (string, []string, error) {
	if len(urls) == 0 {
		return "", nil, nil
	}

	content := make(map[string]string, len(urls))

	docs, failed, extractErr := e.extractor.Extract(ctx, urls)
	if extractErr != nil {
		e.logger.Warn("bulk extraction failed, fetching pages directly", "error", extractErr)
		failed = urls
	}
	for _, d := range docs {
		content[d.URL] = d.Content
	}

	if e.pages != nil {
		for _, u := range failed {
			if _, ok := content[u]; ok {
				continue
			}
			text, err := e.pages.FetchText(ctx, u)
			if err != nil {
				e.logger.Debug("direct page fetch failed", "url", u, "error", err)
				continue
			}
			if strings.TrimSpace(text) != "" {
				content[u] = text
			}
		}
	}

	var sb strings.Builder
	var sources []string
	for _, u := range urls {
		text, ok := content[u]
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Source: ")
		sb.WriteString(u)
		sb.WriteByte('\n')
		sb.WriteString(truncateRunes(strings.TrimSpace(text), maxDocRunes))
		sources = append(sources, u)
	}

	if len(sources) == 0 {
		if extractErr != nil {
			return "", nil, extractErr
		}
		return "", nil, nil
	}

	var summary string
	if summarize != nil {
		summary = summarize(ctx, sb.String())
	}
	return summary, sources, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

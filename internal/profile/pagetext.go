package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"financebrief/internal/fetcher"
	"financebrief/internal/ratelimit"

	"golang.org/x/net/html"
	"resty.dev/v3"
)

// skippedElements never contribute readable text.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"svg":      true,
	"iframe":   true,
}

// blockElements end a line of text.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "table": true,
}

// PageFetcher downloads pages directly and reduces them to plain text.
type PageFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewPageFetcher creates a fetcher for absolute page URLs. limiter may be nil.
func NewPageFetcher(timeout time.Duration, limiter *ratelimit.Limiter) *PageFetcher {
	client := fetcher.NewHTTPClient("", timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("User-Agent", "Mozilla/5.0 (compatible; financebrief/1.0)")

	return &PageFetcher{client: client, limiter: limiter}
}

// FetchText downloads url and returns its visible text.
func (f *PageFetcher) FetchText(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx, ratelimit.APIPages); err != nil {
		return "", fmt.Errorf("page rate limiter: %w", fetcher.ClassifyRequestError(err))
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, fetcher.ClassifyRequestError(err))
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("failed to fetch %s: %w", url, fetcher.ClassifyHTTPError(resp.StatusCode()))
	}

	text, err := HTMLToText(resp.String())
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return text, nil
}

// HTMLToText parses an HTML document and returns its visible text, one block per line.
func HTMLToText(doc string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	atLineStart := true
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				if !atLineStart {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
				atLineStart = false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] && !atLineStart {
			sb.WriteByte('\n')
			atLineStart = true
		}
	}
	walk(root)

	return strings.TrimSpace(sb.String()), nil
}

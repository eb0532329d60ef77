package tavily

import (
	"context"
	"fmt"
	"strings"
	"time"

	"financebrief/internal/fetcher"
	"financebrief/internal/ratelimit"

	"resty.dev/v3"
)

// profileQuerySuffix steers profile searches toward company overview pages.
const profileQuerySuffix = "company overview"

// SearchRequest is the body of a Tavily /search call.
type SearchRequest struct {
	APIKey      string `json:"api_key"`
	Query       string `json:"query"`
	MaxResults  int    `json:"max_results"`
	SearchDepth string `json:"search_depth"`
}

// SearchResponse is the subset of the Tavily /search response we use.
type SearchResponse struct {
	Query   string `json:"query"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// ExtractRequest is the body of a Tavily /extract call.
type ExtractRequest struct {
	APIKey string   `json:"api_key"`
	URLs   []string `json:"urls"`
}

// ExtractResponse is the Tavily /extract response.
type ExtractResponse struct {
	Results []struct {
		URL        string `json:"url"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
	FailedResults []struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	} `json:"failed_results"`
}

// Document is the extracted text behind one URL.
type Document struct {
	URL     string
	Content string
}

// Client talks to the Tavily search and extract endpoints.
type Client struct {
	apiKey  string
	limiter *ratelimit.Limiter
	client  *resty.Client
}

// NewClient creates a Tavily client. limiter may be nil.
func NewClient(apiKey, baseURL string, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	return &Client{
		apiKey:  apiKey,
		limiter: limiter,
		client:  fetcher.NewHTTPClient(baseURL, timeout),
	}
}

// Search returns at most topK web results for keyword.
func (c *Client) Search(ctx context.Context, keyword string, topK int) ([]fetcher.WebResult, error) {
	resp, err := c.search(ctx, keyword, topK)
	if err != nil {
		return nil, err
	}

	results := make([]fetcher.WebResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, fetcher.WebResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
		if topK > 0 && len(results) >= topK {
			break
		}
	}
	return results, nil
}

// SearchProfileCandidates returns up to topK distinct URLs describing the company named by term.
func (c *Client) SearchProfileCandidates(ctx context.Context, term string, topK int) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	resp, err := c.search(ctx, term+" "+profileQuerySuffix, topK)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(resp.Results))
	urls := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		u := strings.TrimSpace(r.URL)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
		if topK > 0 && len(urls) >= topK {
			break
		}
	}
	return urls, nil
}

// Extract downloads the readable content of urls. URLs Tavily could not
// read are returned in failed rather than as an error.
func (c *Client) Extract(ctx context.Context, urls []string) (docs []Document, failed []string, err error) {
	if len(urls) == 0 {
		return nil, nil, nil
	}
	if err := c.ready(ctx); err != nil {
		return nil, nil, err
	}

	var result ExtractResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(ExtractRequest{APIKey: c.apiKey, URLs: urls}).
		SetResult(&result).
		Post("/extract")

	if err != nil {
		return nil, nil, fmt.Errorf("tavily extract: %w", fetcher.ClassifyRequestError(err))
	}

	if !resp.IsSuccess() {
		return nil, nil, fmt.Errorf("tavily extract: %w", fetcher.ClassifyHTTPError(resp.StatusCode()))
	}

	for _, r := range result.Results {
		if strings.TrimSpace(r.RawContent) == "" {
			failed = append(failed, r.URL)
			continue
		}
		docs = append(docs, Document{URL: r.URL, Content: r.RawContent})
	}
	for _, f := range result.FailedResults {
		failed = append(failed, f.URL)
	}
	return docs, failed, nil
}

func (c *Client) search(ctx context.Context, query string, topK int) (*SearchResponse, error) {
	if err := c.ready(ctx); err != nil {
		return nil, err
	}

	var result SearchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(SearchRequest{
			APIKey:      c.apiKey,
			Query:       query,
			MaxResults:  topK,
			SearchDepth: "basic",
		}).
		SetResult(&result).
		Post("/search")

	if err != nil {
		return nil, fmt.Errorf("tavily search for %q: %w", query, fetcher.ClassifyRequestError(err))
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("tavily search for %q: %w", query, fetcher.ClassifyHTTPError(resp.StatusCode()))
	}

	return &result, nil
}

// ready checks the API key and waits for the rate limiter.
func (c *Client) ready(ctx context.Context) error {
	if strings.TrimSpace(c.apiKey) == "" {
		return fetcher.NewValidationError("tavily API key is missing")
	}
	if err := c.limiter.Wait(ctx, ratelimit.APITavily); err != nil {
		return fmt.Errorf("tavily rate limiter: %w", fetcher.ClassifyRequestError(err))
	}
	return nil
}

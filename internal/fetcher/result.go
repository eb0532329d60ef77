package fetcher

// WebResult is a single web search hit.
type WebResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// QuoteRecord is the outcome of a quote lookup for one symbol.
// Exactly one of (Price, Currency) or Error is meaningful: a failed symbol
// carries an Error and is otherwise empty.
type QuoteRecord struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// OK reports whether the record carries a price.
func (q QuoteRecord) OK() bool {
	return q.Error == ""
}

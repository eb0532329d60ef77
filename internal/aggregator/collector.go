package aggregator

import "log/slog"

// collector folds completions into an AggregationResult. It is driven by a
// single goroutine draining the completion channel, so it needs no locking.
type collector struct {
	result *AggregationResult
	logger *slog.Logger
}

func newCollector(result *AggregationResult, logger *slog.Logger) *collector {
	return &collector{result: result, logger: logger}
}

// integrate applies one completion. Failures only ever append to Errors.
func (c *collector) integrate(cm completion) {
	if cm.err != nil {
		entry := FormatTaskError(cm.kind, cm.err)
		c.result.Errors = append(c.result.Errors, entry)
		c.logger.Warn("task failed",
			"task", cm.kind,
			"duration_ms", cm.duration.Milliseconds(),
			"error", cm.err,
		)
		return
	}

	switch cm.kind {
	case TaskWeb:
		c.result.Items = cm.out.items
	case TaskStock:
		c.result.Tickers = cm.out.quotes
	case TaskProfile:
		// an absent profile is not an error, leave the defaults
		if p := cm.out.profile; p != nil {
			c.result.CompanyProfile = p.Text
			c.result.ProfileSources = p.Sources
		}
	default:
		c.logger.Error("completion for unknown task kind", "task", cm.kind)
	}
}

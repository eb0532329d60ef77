// Package summarize condenses extracted company text with a language model.
//
// A Summarizer never reports errors to its caller: a missing model, a failed
// call or an empty completion all produce "". Callers treat an empty summary
// as "no profile text" rather than as a failure.
package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gpt-4o-mini"

// maxInputRunes caps the text sent to the model.
const maxInputRunes = 12000

const promptTemplate = `Summarize the following company information in 3 to 5 sentences.
Cover what the company does, its main products or segments, and where it operates.
Reply with the summary only.

%s`

// Summarizer wraps an llms.Model. The zero value and a nil *Summarizer are
// valid and always return "".
type Summarizer struct {
	model  llms.Model
	logger *slog.Logger
}

// New wraps an existing model.
func New(model llms.Model, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{model: model, logger: logger.With("component", "summarizer")}
}

// NewOpenAI builds a Summarizer backed by an OpenAI-compatible endpoint.
// An empty apiKey yields a disabled Summarizer.
func NewOpenAI(apiKey, model, baseURL string, logger *slog.Logger) (*Summarizer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return New(nil, logger), nil
	}
	if model == "" {
		model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(apiKey),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}
	return New(llm, logger), nil
}

// Enabled reports whether a model is configured.
func (s *Summarizer) Enabled() bool {
	return s != nil && s.model != nil
}

// Summarize returns a short summary of text, or "" on any failure.
func (s *Summarizer) Summarize(ctx context.Context, text string) (summary string) {
	if !s.Enabled() {
		return ""
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("summarizer panicked", "panic", r)
			summary = ""
		}
	}()

	out, err := llms.GenerateFromSinglePrompt(ctx, s.model,
		fmt.Sprintf(promptTemplate, truncateRunes(text, maxInputRunes)),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		s.logger.Warn("summarization failed", "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

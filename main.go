package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"financebrief/internal/aggregator"
	"financebrief/internal/config"
	"financebrief/internal/profile"
	"financebrief/internal/quotes"
	"financebrief/internal/ratelimit"
	"financebrief/internal/summarize"
	"financebrief/internal/tavily"

	"github.com/spf13/pflag"
)

// cliArgs is the parsed command line.
type cliArgs struct {
	query    string
	doWeb    bool
	keywords []string
	doStocks bool
	tickers  []string
	timeout  time.Duration
}

func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	var a cliArgs

	fs := pflag.NewFlagSet("financebrief", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: financebrief [flags] <query>")
		fs.PrintDefaults()
	}
	fs.BoolVar(&a.doWeb, "web", false, "run a web search")
	fs.StringArrayVar(&a.keywords, "keyword", nil, "web search keyword (repeatable, the first is searched)")
	fs.BoolVar(&a.doStocks, "stocks", false, "look up stock quotes")
	fs.StringSliceVar(&a.tickers, "ticker", nil, "ticker symbol (repeatable or comma separated)")
	fs.DurationVar(&a.timeout, "timeout", 0, "per-source timeout (overrides REQUEST_TIMEOUT)")

	if err := fs.Parse(args); err != nil {
		return cliArgs{}, err
	}

	a.query = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if a.query == "" {
		fs.Usage()
		return cliArgs{}, fmt.Errorf("a query is required")
	}

	// a bare --web searches the query itself
	if a.doWeb && len(a.keywords) == 0 {
		a.keywords = []string{a.query}
	}
	return a, nil
}

// newAggregator wires the provider clients described by cfg into an Aggregator.
func newAggregator(cfg *config.Config, logger *slog.Logger) (*aggregator.Aggregator, error) {
	limiter := ratelimit.Default()

	tavilyClient := tavily.NewClient(cfg.TavilyAPIKey, cfg.TavilyBaseURL, cfg.RequestTimeout, limiter)

	quoteClient := quotes.NewClient(cfg.YahooBaseURL, quotes.Options{
		Timeout:   cfg.RequestTimeout,
		CacheSize: cfg.QuoteCacheSize,
		CacheTTL:  cfg.QuoteCacheTTL,
		Limiter:   limiter,
	})

	extractor := profile.NewExtractor(
		tavilyClient,
		profile.NewPageFetcher(cfg.RequestTimeout, limiter),
		logger,
	)

	summarizer, err := summarize.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, logger)
	if err != nil {
		return nil, err
	}
	if !summarizer.Enabled() {
		logger.Info("OPENAI_API_KEY not set, company profiles will be empty")
	}

	return aggregator.New(
		aggregator.Sources{
			Web:              tavilyClient,
			Quotes:           quoteClient,
			ProfileFinder:    tavilyClient,
			ProfileExtractor: extractor,
		},
		aggregator.WithWebTopK(cfg.WebTopK),
		aggregator.WithProfileTopK(cfg.ProfileTopK),
		aggregator.WithTimeout(cfg.RequestTimeout),
		aggregator.WithMaxWorkers(cfg.MaxWorkers),
		aggregator.WithLogger(logger),
		aggregator.WithSummarizer(summarizer.Summarize),
	), nil
}

// run executes one query and writes the payload as indented JSON to stdout.
func run(ctx context.Context, cfg *config.Config, args cliArgs, logger *slog.Logger, stdout io.Writer) error {
	plan, err := aggregator.NewPlan(args.doWeb, args.keywords, args.doStocks, args.tickers)
	if err != nil {
		return err
	}

	agg, err := newAggregator(cfg, logger)
	if err != nil {
		return err
	}

	payload := agg.Aggregate(ctx, args.query, plan)

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	return nil
}

func main() {
	args, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if args.timeout > 0 {
		cfg.RequestTimeout = args.timeout
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Warn("received interrupt signal, cancelling")
		cancel()
	}()

	if err := run(ctx, cfg, args, logger, os.Stdout); err != nil {
		log.Fatalf("financebrief failed: %v", err)
	}
}

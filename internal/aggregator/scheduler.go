package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"financebrief/internal/fetcher"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

// completion is the terminal state of one task.
type completion struct {
	kind     TaskKind
	out      outcome
	err      error
	duration time.Duration
}

// scheduler runs tasks on a bounded pool. It knows nothing about what a
// task does, only how long it may take.
type scheduler struct {
	maxWorkers int
	timeout    time.Duration
	logger     *slog.Logger
}

// run executes every task and sends exactly one completion per task.
// It returns once all tasks have reached a terminal state.
func (s *scheduler) run(ctx context.Context, tasks []task, completions chan<- completion) {
	p := pool.New().WithMaxGoroutines(s.maxWorkers)
	for _, t := range tasks {
		t := t // per-iteration copy; go.mod targets go1.21 loop semantics
		p.Go(func() {
			completions <- s.execute(ctx, t)
		})
	}
	p.Wait()
}

// execute runs a single task under the per-task timeout. A task that panics
// or ignores its context still produces a completion: the former is
// recovered, the latter is abandoned when the timeout fires.
func (s *scheduler) execute(ctx context.Context, t task) completion {
	start := time.Now()
	s.logger.Debug("task started", "task", t.kind)

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan completion, 1)
	go func() {
		var c completion
		var pc panics.Catcher
		pc.Try(func() {
			c.out, c.err = t.run(tctx)
		})
		if r := pc.Recovered(); r != nil {
			c.out, c.err = outcome{}, fetcher.NewPanicError(r.Value)
		}
		done <- c
	}()

	var c completion
	select {
	case c = <-done:
	case <-tctx.Done():
		select {
		case c = <-done:
		default:
			c.err = s.abandoned(t.kind, tctx.Err())
		}
	}

	c.kind = t.kind
	c.duration = time.Since(start)
	s.logger.Debug("task completed",
		"task", t.kind,
		"duration_ms", c.duration.Milliseconds(),
		"error", c.err != nil,
	)
	return c
}

func (s *scheduler) abandoned(kind TaskKind, ctxErr error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return fetcher.NewTimeoutError(fmt.Errorf("%s task exceeded %s: %w", kind, s.timeout, ctxErr))
	}
	return fmt.Errorf("%s task abandoned: %w", kind, ctxErr)
}

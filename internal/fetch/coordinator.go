package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps in-flight fetches per batch.
const DefaultConcurrency = 5

// ErrMalformedList reports a bracketed URL list that is not a JSON array of strings.
var ErrMalformedList = errors.New("malformed JSON URL list")

// Worker fetches one URL. *Fetcher is the production implementation.
type Worker interface {
	Fetch(ctx context.Context, rawURL string) Outcome
}

// Coordinator runs a batch of fetches under a bounded pool.
type Coordinator struct {
	worker Worker
	limit  int
	logger *slog.Logger
}

// NewCoordinator builds a Coordinator. limit <= 0 selects DefaultConcurrency.
func NewCoordinator(worker Worker, limit int, logger *slog.Logger) *Coordinator {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{worker: worker, limit: limit, logger: logger}
}

// Limit returns the pool size.
func (c *Coordinator) Limit() int {
	return c.limit
}

// Convert fetches every URL and waits for all of them. Failures never cancel
// siblings. Outcomes are indexed by input position.
func (c *Coordinator) Convert(ctx context.Context, urls []string) []Outcome {
	outcomes := make([]Outcome, len(urls))
	if len(urls) == 0 {
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(c.limit)
	for i, rawURL := range urls {
		g.Go(func() error {
			outcomes[i] = c.worker.Fetch(ctx, rawURL)
			return nil
		})
	}
	_ = g.Wait()

	c.logger.Info("convert batch complete", "urls", len(urls), "limit", c.limit)
	return outcomes
}

// Summary partitions a batch into public URLs and failure messages.
type Summary struct {
	URLs     []string
	Warnings []string
}

// Succeeded reports whether at least one fetch stored an object.
func (s Summary) Succeeded() bool {
	return len(s.URLs) > 0
}

// Summarize maps successes through publicURL and collects failure messages.
func Summarize(outcomes []Outcome, publicURL func(name string) string) Summary {
	summary := Summary{URLs: []string{}, Warnings: []string{}}
	for _, outcome := range outcomes {
		if outcome.OK() {
			summary.URLs = append(summary.URLs, publicURL(outcome.Name))
			continue
		}
		summary.Warnings = append(summary.Warnings, outcome.Message)
	}
	return summary
}

// ParseURLList accepts either a JSON array of strings (when the trimmed input
// starts with '[') or a whitespace/newline separated list. Empty entries are
// dropped; no URL validation happens here.
func ParseURLList(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal([]byte(trimmed), &values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedList, err)
		}
		out := make([]string, 0, len(values))
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			out = append(out, value)
		}
		return out, nil
	}
	return strings.Fields(strings.ReplaceAll(trimmed, "\n", " ")), nil
}

package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/orderscan/pkg/extract"
	"github.com/ccollicutt/orderscan/pkg/source"
)

// ProgressFunc is called after each document with the number of finished
// documents and the total. Calls are serialized.
type ProgressFunc func(done, total int)

// Runner orchestrates loading and extraction across documents.
type Runner struct {
	extractor *extract.Extractor
	loader    source.Loader

	// Options
	strategy    extract.Strategy
	concurrency int
	progress    ProgressFunc
	logger      *slog.Logger
}

// Option configures runner behavior.
type Option func(*Runner)

// WithStrategy sets the extraction strategy (default positions).
func WithStrategy(s extract.Strategy) Option {
	return func(r *Runner) {
		if s != "" {
			r.strategy = s
		}
	}
}

// WithConcurrency sets how many documents are processed at once (default 1).
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a runner. A nil extractor selects extract.New(nil).
func New(extractor *extract.Extractor, loader source.Loader, opts ...Option) *Runner {
	if extractor == nil {
		extractor = extract.New(nil)
	}
	r := &Runner{
		extractor:   extractor,
		loader:      loader,
		strategy:    extract.StrategyPositions,
		concurrency: 1,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes all paths and returns results in input order. A document that
// fails to load is recorded on its DocumentResult; only an invalid strategy or
// a cancelled context fails the run.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	if _, err := extract.ParseStrategy(string(r.strategy)); err != nil {
		return nil, err
	}

	result := &Result{
		Documents: make([]DocumentResult, len(paths)),
		Metadata: Metadata{
			RunID:     uuid.NewString(),
			Strategy:  r.strategy,
			Sources:   append([]string(nil), paths...),
			StartTime: time.Now(),
		},
	}
	logger := r.logger.With("run_id", result.Metadata.RunID)
	logger.Info("batch.start", "documents", len(paths), "strategy", r.strategy, "concurrency", r.concurrency)

	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc := r.process(gctx, logger, path)
			if doc.Err != nil && gctx.Err() != nil {
				return gctx.Err()
			}
			result.Documents[i] = doc

			if r.progress != nil {
				mu.Lock()
				done++
				r.progress(done, len(paths))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Warn("batch.aborted", "error", err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Metadata.EndTime = time.Now()
	logger.Info("batch.done",
		"documents", len(paths),
		"failed", result.Failed(),
		"records", len(result.Records()),
		"duration_ms", result.Metadata.EndTime.Sub(result.Metadata.StartTime).Milliseconds(),
	)

	return result, nil
}

// process loads and extracts one document.
func (r *Runner) process(ctx context.Context, logger *slog.Logger, path string) DocumentResult {
	start := time.Now()
	doc := DocumentResult{Path: path}

	text, err := r.loader.Load(ctx, path)
	if err != nil {
		doc.Err = err
		doc.Duration = time.Since(start)
		logger.Warn("batch.document.failed", "path", path, "error", err)
		return doc
	}

	parser, err := r.extractor.Resolve(text, r.strategy)
	if err != nil {
		doc.Err = err
		doc.Duration = time.Since(start)
		logger.Warn("batch.document.failed", "path", path, "error", err)
		return doc
	}

	doc.Strategy = parser.Strategy()
	doc.Records = parser.Extract(text)
	doc.Duration = time.Since(start)

	logger.Debug("batch.document.ok",
		"path", path,
		"strategy", doc.Strategy,
		"records", len(doc.Records),
		"duration_ms", doc.Duration.Milliseconds(),
	)
	return doc
}

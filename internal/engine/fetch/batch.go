// Package fetch implements the batched fan-out used for per-item upstream
// requests.
package fetch

import (
	"context"
	"time"

	"go.trai.ch/fjordsync/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Defaults for the fan-out. Chunk size keeps the upstream rate limiter
// happy; the delay spaces chunks out further.
const (
	DefaultBatchSize  = 20
	DefaultBatchDelay = 100 * time.Millisecond
)

// Options configures FetchAll.
type Options struct {
	// BatchSize is the number of items fetched concurrently per chunk.
	BatchSize int
	// BatchDelay is the pause between chunks. No pause after the last
	// one. Zero means the default; negative disables the pause.
	BatchDelay time.Duration
	// OnProgress, when set, is called after each chunk with the overall
	// completion percentage and the number of results collected so far.
	OnProgress func(percent, results int)
	// Reporter, when set, receives a job spanning the whole fan-out.
	Reporter ports.ProgressReporter
	// Name labels the reporter job.
	Name string

	// sleep is the inter-chunk pause. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

func (o *Options) defaults() {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.BatchDelay == 0 {
		o.BatchDelay = DefaultBatchDelay
	}
	if o.Name == "" {
		o.Name = "fetch"
	}
	if o.sleep == nil {
		o.sleep = sleepCtx
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// FetchAll runs fn over items in chunks. Within a chunk all items are
// fetched concurrently; failing items are dropped from the result, not
// reported as errors. The only error FetchAll returns is the context's.
// Results keep item order within the surviving set.
func FetchAll[T, R any](ctx context.Context, items []T, fn func(ctx context.Context, item T) (R, error), opts Options, log ports.Logger) ([]R, error) {
	opts.defaults()

	var job ports.Job
	if opts.Reporter != nil {
		ctx, job = opts.Reporter.Start(ctx, opts.Name)
	}

	results := make([]R, 0, len(items))
	var finished error
	defer func() {
		if job != nil {
			job.End(finished)
		}
	}()

	for start := 0; start < len(items); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			finished = err
			return results, err
		}

		end := min(start+opts.BatchSize, len(items))
		chunk := items[start:end]

		// Each worker owns its slot, no locking needed.
		fetched := make([]*R, len(chunk))

		g, gctx := errgroup.WithContext(ctx)
		for i, item := range chunk {
			g.Go(func() error {
				r, err := fn(gctx, item)
				if err != nil {
					log.Debug("item fetch failed", "error", err)
					return nil
				}
				fetched[i] = &r
				return nil
			})
		}
		// Worker funcs never return errors, so Wait only surfaces a
		// cancelled group context.
		if err := g.Wait(); err != nil {
			finished = err
			return results, err
		}

		for _, r := range fetched {
			if r != nil {
				results = append(results, *r)
			}
		}

		percent := end * 100 / len(items)
		if opts.OnProgress != nil {
			opts.OnProgress(percent, len(results))
		}
		if job != nil {
			job.Update(percent, len(results))
		}

		if end < len(items) && opts.BatchDelay > 0 {
			if err := opts.sleep(ctx, opts.BatchDelay); err != nil {
				finished = err
				return results, err
			}
		}
	}

	return results, nil
}

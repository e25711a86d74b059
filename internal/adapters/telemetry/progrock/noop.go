package progrock

import (
	"context"

	"go.trai.ch/fjordsync/internal/core/ports"
)

// Noop is a progress reporter that records nothing. It is the default when
// no interactive output is wanted.
type Noop struct{}

// Start returns the context unchanged and a job that discards everything.
func (Noop) Start(ctx context.Context, _ string) (context.Context, ports.Job) {
	return ctx, noopJob{}
}

type noopJob struct{}

func (noopJob) Update(int, int) {}
func (noopJob) End(error)       {}

var _ ports.ProgressReporter = Noop{}

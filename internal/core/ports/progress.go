package ports

import "context"

//go:generate mockgen -source=progress.go -destination=mocks/mock_progress.go -package=mocks

// ProgressReporter is the entry point for reporting long-running fetch jobs.
type ProgressReporter interface {
	// Start begins a new job and returns a context carrying it.
	Start(ctx context.Context, name string) (context.Context, Job)
}

// Job represents one reported unit of work.
type Job interface {
	// Update reports completion percentage and the number of results
	// collected so far.
	Update(percent, results int)
	// End completes the job; err is nil on success.
	End(err error)
}

// Package progrock provides the Progrock implementation of the progress
// reporter.
package progrock

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/fjordsync/internal/core/ports"
)

// Recorder implements ports.ProgressReporter on top of a progrock tape.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
}

// New creates a Recorder with a default tape.
func New() ports.ProgressReporter {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start begins recording a new vertex for the named job.
func (r *Recorder) Start(ctx context.Context, name string) (context.Context, ports.Job) {
	d := digest.FromString(name)
	v := r.rec.Vertex(d, name)
	return ctx, &job{vertex: v}
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// job wraps *progrock.VertexRecorder.
type job struct {
	vertex *progrock.VertexRecorder
}

// Update writes a progress line to the vertex output.
func (j *job) Update(percent, results int) {
	_, _ = fmt.Fprintf(j.vertex.Stdout(), "%3d%% (%d results)\n", percent, results)
}

// End marks the vertex as finished.
func (j *job) End(err error) {
	j.vertex.Done(err)
}

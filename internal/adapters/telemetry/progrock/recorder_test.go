package progrock_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/adapters/telemetry/progrock"
)

func TestRecorderLifecycle(t *testing.T) {
	rec := progrock.New()
	require.NotNil(t, rec)

	ctx, job := rec.Start(t.Context(), "fetch localities")
	require.NotNil(t, ctx)

	job.Update(50, 20)
	job.Update(100, 45)
	job.End(nil)

	closer, ok := rec.(interface{ Close() error })
	require.True(t, ok)
	require.NoError(t, closer.Close())
}

func TestNoop(t *testing.T) {
	var n progrock.Noop
	_, job := n.Start(t.Context(), "anything")
	job.Update(10, 1)
	job.End(nil)
}

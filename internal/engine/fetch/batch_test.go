package fetch

import (
	"context"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/fjordsync/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(error)          {}

func seq(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return items
}

func TestFetchAllChunksAndSwallowsFailures(t *testing.T) {
	var progress [][2]int

	results, err := FetchAll(t.Context(), seq(47), func(_ context.Context, item int) (int, error) {
		if item == 5 || item == 25 {
			return 0, zerr.New("transient")
		}
		return item * 2, nil
	}, Options{
		BatchDelay: -1,
		OnProgress: func(percent, results int) {
			progress = append(progress, [2]int{percent, results})
		},
	}, nopLogger{})

	require.NoError(t, err)
	require.Len(t, results, 45)

	// 47 items at the default chunk size of 20 is three chunks.
	require.Len(t, progress, 3)
	require.Equal(t, [2]int{42, 19}, progress[0])
	require.Equal(t, [2]int{85, 39}, progress[1])
	require.Equal(t, [2]int{100, 45}, progress[2])
}

func TestFetchAllKeepsOrder(t *testing.T) {
	results, err := FetchAll(t.Context(), seq(30), func(_ context.Context, item int) (int, error) {
		return item, nil
	}, Options{BatchSize: 7, BatchDelay: -1}, nopLogger{})

	require.NoError(t, err)
	require.Equal(t, seq(30), results)
}

func TestFetchAllDelaysBetweenChunks(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		start := time.Now()

		results, err := FetchAll(t.Context(), seq(47), func(_ context.Context, item int) (int, error) {
			return item, nil
		}, Options{}, nopLogger{})

		require.NoError(t, err)
		require.Len(t, results, 47)
		// Two pauses between three chunks, none after the last.
		require.Equal(t, 200*time.Millisecond, time.Since(start))
	})
}

func TestFetchAllConcurrentWithinChunk(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	synctest.Test(t, func(t *testing.T) {
		_, err := FetchAll(t.Context(), seq(20), func(_ context.Context, item int) (int, error) {
			mu.Lock()
			inFlight++
			if inFlight > peak {
				peak = inFlight
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()
			return item, nil
		}, Options{BatchDelay: -1}, nopLogger{})
		require.NoError(t, err)
	})

	require.Equal(t, 20, peak)
}

func TestFetchAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := FetchAll(ctx, seq(5), func(context.Context, int) (int, error) {
		t.Fatal("must not fetch after cancellation")
		return 0, nil
	}, Options{BatchDelay: -1}, nopLogger{})

	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchAllEmpty(t *testing.T) {
	called := false
	results, err := FetchAll(t.Context(), nil, func(context.Context, int) (int, error) {
		return 0, nil
	}, Options{OnProgress: func(int, int) { called = true }}, nopLogger{})

	require.NoError(t, err)
	require.Empty(t, results)
	require.False(t, called)
}

func TestFetchAllReportsJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockProgressReporter(ctrl)
	job := mocks.NewMockJob(ctrl)

	reporter.EXPECT().Start(gomock.Any(), "fetch localities").
		DoAndReturn(func(ctx context.Context, _ string) (context.Context, ports.Job) {
			return ctx, job
		})
	job.EXPECT().Update(50, 10)
	job.EXPECT().Update(100, 20)
	job.EXPECT().End(nil)

	_, err := FetchAll(t.Context(), seq(20), func(_ context.Context, item int) (int, error) {
		return item, nil
	}, Options{
		BatchSize:  10,
		BatchDelay: -1,
		Reporter:   reporter,
		Name:       "fetch localities",
	}, nopLogger{})
	require.NoError(t, err)
}

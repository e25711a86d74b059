package progrock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/core/ports"
)

// NodeID is the unique identifier for the progress reporter Graft node.
const NodeID graft.ID = "adapter.progress"

func init() {
	// The node yields Noop: without a display reading the tape, a
	// tape-backed recorder would accumulate vertices nobody sees. Callers
	// that attach a reader construct a Recorder via NewRecorder instead.
	graft.Register(graft.Node[ports.ProgressReporter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProgressReporter, error) {
			return Noop{}, nil
		},
	})
}

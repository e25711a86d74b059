package ports

import "go.trai.ch/fjordsync/internal/core/domain"

// Broadcaster delivers interceptor messages to all foreground contexts.
// Replay of queued offline writes is the foreground's responsibility; the
// interceptor only announces them.
//
//go:generate mockgen -source=broadcaster.go -destination=mocks/mock_broadcaster.go -package=mocks
type Broadcaster interface {
	Broadcast(msg domain.Message)
}

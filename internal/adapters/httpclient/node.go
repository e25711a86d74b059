// Package httpclient provides the shared HTTP client used by every upstream
// adapter. Its transport is the offline interceptor, so all outbound requests
// go through the per-kind cache strategies and degrade gracefully without a
// network.
package httpclient

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/adapters/config"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/fjordsync/internal/engine/offline"
)

// NodeID is the unique identifier for the shared HTTP client Graft node.
const NodeID graft.ID = "adapter.httpclient"

func init() {
	graft.Register(graft.Node[ports.Doer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, offline.NodeID},
		Run: func(ctx context.Context) (ports.Doer, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			interceptor, err := graft.Dep[*offline.Interceptor](ctx)
			if err != nil {
				return nil, err
			}
			return &http.Client{
				Timeout:   cfg.Fetch.HTTPTimeout,
				Transport: interceptor,
			}, nil
		},
	})
}

package fiskeridir

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/adapters/config"
	"go.trai.ch/fjordsync/internal/adapters/httpclient"
	"go.trai.ch/fjordsync/internal/adapters/logger"
	"go.trai.ch/fjordsync/internal/core/ports"
)

// NodeID is the unique identifier for the map service client Graft node.
const NodeID graft.ID = "adapter.fiskeridir"

func init() {
	graft.Register(graft.Node[*Client]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, httpclient.NodeID},
		Run: func(ctx context.Context) (*Client, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			doer, err := graft.Dep[ports.Doer](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg.Endpoints.ProtectedAreas, cfg.Endpoints.Localities, doer, log), nil
		},
	})
}

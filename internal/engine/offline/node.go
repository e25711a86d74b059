package offline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/adapters/config"
	"go.trai.ch/fjordsync/internal/adapters/logger"
	"go.trai.ch/fjordsync/internal/core/ports"
)

const (
	// HubNodeID is the unique identifier for the broadcast hub Graft node.
	HubNodeID graft.ID = "engine.offline.hub"
	// NodeID is the unique identifier for the interceptor Graft node.
	NodeID graft.ID = "engine.offline"
)

func init() {
	// Broadcast hub Node
	graft.Register(graft.Node[*Hub]{
		ID:        HubNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Hub, error) {
			return NewHub(), nil
		},
	})

	// Interceptor Node
	graft.Register(graft.Node[*Interceptor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, HubNodeID},
		Run: func(ctx context.Context) (*Interceptor, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			hub, err := graft.Dep[*Hub](ctx)
			if err != nil {
				return nil, err
			}
			return NewInterceptor(nil, Config{
				TileHosts:      cfg.Offline.TileHosts,
				GeodataHosts:   cfg.Offline.GeodataHosts,
				CacheablePaths: cfg.Offline.CacheablePaths,
				MaxTiles:       cfg.Offline.MaxTiles,
			}, hub, log), nil
		},
	})
}

package zones

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/adapters/barentswatch"
	"go.trai.ch/fjordsync/internal/adapters/config"
	"go.trai.ch/fjordsync/internal/adapters/fiskeridir"
	"go.trai.ch/fjordsync/internal/adapters/geonorge"
	"go.trai.ch/fjordsync/internal/adapters/logger"
	"go.trai.ch/fjordsync/internal/adapters/telemetry/progrock"
	"go.trai.ch/fjordsync/internal/cache"
	"go.trai.ch/fjordsync/internal/core/ports"
)

// NodeID is the unique identifier for the geodata service Graft node.
const NodeID graft.ID = "engine.zones"

func init() {
	graft.Register(graft.Node[*Service]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			cache.NodeID,
			barentswatch.ClientNodeID,
			fiskeridir.NodeID,
			geonorge.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Service, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			registry, err := graft.Dep[*cache.Registry](ctx)
			if err != nil {
				return nil, err
			}
			health, err := graft.Dep[*barentswatch.Client](ctx)
			if err != nil {
				return nil, err
			}
			areas, err := graft.Dep[*fiskeridir.Client](ctx)
			if err != nil {
				return nil, err
			}
			polygons, err := graft.Dep[*geonorge.Client](ctx)
			if err != nil {
				return nil, err
			}
			reporter, err := graft.Dep[ports.ProgressReporter](ctx)
			if err != nil {
				return nil, err
			}

			svcCfg := Config{
				DiseaseZonesTTL:     cfg.Cache.DiseaseZonesTTL,
				ProtectedAreasTTL:   cfg.Cache.ProtectedAreasTTL,
				LocalityPolygonsTTL: cfg.Cache.LocalityPolygonsTTL,
				FishHealthTTL:       cfg.Cache.FishHealthTTL,
				BatchSize:           cfg.Fetch.BatchSize,
				BatchDelay:          cfg.Fetch.BatchDelay,
				WeekLookback:        cfg.Fetch.WeekLookback,
			}
			return NewService(health, areas, polygons, registry, svcCfg, log, WithReporter(reporter)), nil
		},
	})
}

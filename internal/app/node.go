package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/fjordsync/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/fjordsync/internal/cache"
	"go.trai.ch/fjordsync/internal/core/ports"
	"go.trai.ch/fjordsync/internal/engine/zones"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			zones.NodeID,
			cache.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			geodata, err := graft.Dep[*zones.Service](ctx)
			if err != nil {
				return nil, err
			}

			caches, err := graft.Dep[*cache.Registry](ctx)
			if err != nil {
				return nil, err
			}

			return New(geodata, caches), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*config.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
		Config: cfg,
	}, nil
}

package barentswatch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/fjordsync/internal/adapters/config"
	"go.trai.ch/fjordsync/internal/adapters/httpclient"
	"go.trai.ch/fjordsync/internal/adapters/logger"
	"go.trai.ch/fjordsync/internal/core/ports"
)

const (
	// TokenNodeID is the unique identifier for the token broker Graft node.
	TokenNodeID graft.ID = "adapter.barentswatch.token"
	// ClientNodeID is the unique identifier for the fish health client Graft node.
	ClientNodeID graft.ID = "adapter.barentswatch.client"
)

func init() {
	// Token broker Node
	graft.Register(graft.Node[ports.TokenSource]{
		ID:        TokenNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, httpclient.NodeID},
		Run: func(ctx context.Context) (ports.TokenSource, error) {
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
			return NewBroker(
				cfg.Endpoints.TokenURL,
				cfg.Credentials.ClientID,
				cfg.Credentials.ClientSecret,
				doer, log,
			), nil
		},
	})

	// Fish health client Node
	graft.Register(graft.Node[*Client]{
		ID:        ClientNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{TokenNodeID, config.NodeID, logger.NodeID, httpclient.NodeID},
		Run: func(ctx context.Context) (*Client, error) {
			cfg, err := graft.Dep[*config.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tokens, err := graft.Dep[ports.TokenSource](ctx)
			if err != nil {
				return nil, err
			}
			doer, err := graft.Dep[ports.Doer](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg.Endpoints.FishHealthBase, doer, tokens, log), nil
		},
	})
}

package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/standin/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
)

// NodeID is the unique identifier for the artifact store Graft node.
const NodeID graft.ID = "engine.cache"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.SettingsNodeID},
		Run: func(ctx context.Context) (*Store, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(settings.FixesDir, settings.CacheDir, log), nil
		},
	})
}

package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/standin/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
)

// NodeID is the unique identifier for the fingerprint engine Graft node.
const NodeID graft.ID = "engine.fingerprint"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, config.SettingsNodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			settings, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			return New(settings.HashMode, log), nil
		},
	})
}

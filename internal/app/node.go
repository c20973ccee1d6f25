package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/standin/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/standin/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/standin/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/standin/internal/core/domain"
	"go.trai.ch/standin/internal/core/ports"
	"go.trai.ch/standin/internal/engine/cache"
	"go.trai.ch/standin/internal/engine/resolver"
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
			cache.NodeID,
			resolver.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			store, err := graft.Dep[*cache.Store](ctx)
			if err != nil {
				return nil, err
			}

			res, err := graft.Dep[*resolver.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, res, w, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.SettingsNodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			cfg, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:      app,
				Logger:   log,
				Settings: cfg,
			}, nil
		},
	})
}

// Components bundles the resolved application graph for the CLI entry
// point.
type Components struct {
	App      *App
	Logger   ports.Logger
	Settings *domain.Settings
}

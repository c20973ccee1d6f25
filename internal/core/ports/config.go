package ports

import "go.trai.ch/standin/internal/core/domain"

// ConfigLoader locates and parses the engine configuration.
//
//go:generate mockgen -source=config.go -destination=mocks/mock_config.go -package=mocks
type ConfigLoader interface {
	// Load searches from cwd upwards for a configuration file and returns
	// the validated settings.
	Load(cwd string) (*domain.Settings, error)
}

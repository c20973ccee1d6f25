// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/standin/internal/adapters/config"
	_ "go.trai.ch/standin/internal/adapters/logger"
	_ "go.trai.ch/standin/internal/adapters/telemetry"
	_ "go.trai.ch/standin/internal/adapters/toolchain"
	_ "go.trai.ch/standin/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/standin/internal/app"
	_ "go.trai.ch/standin/internal/engine/cache"
	_ "go.trai.ch/standin/internal/engine/fingerprint"
	_ "go.trai.ch/standin/internal/engine/resolver"
)

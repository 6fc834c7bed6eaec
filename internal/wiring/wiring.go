// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/vgren/internal/adapters/config"
	_ "go.trai.ch/vgren/internal/adapters/daemon"
	_ "go.trai.ch/vgren/internal/adapters/depscan"
	_ "go.trai.ch/vgren/internal/adapters/gren"
	_ "go.trai.ch/vgren/internal/adapters/hostfs"
	_ "go.trai.ch/vgren/internal/adapters/logger"
	_ "go.trai.ch/vgren/internal/adapters/telemetry"
	_ "go.trai.ch/vgren/internal/adapters/transform"
	_ "go.trai.ch/vgren/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/vgren/internal/app"
)

package ports

import "go.trai.ch/vgren/internal/core/domain"

// ConfigLoader defines the interface for loading the vgren configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load searches for the config file upwards from cwd and returns the resolved configuration.
	// Without a config file the defaults rooted at cwd are returned.
	Load(cwd string) (*domain.Config, error)
}

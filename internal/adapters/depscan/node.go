package depscan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vgren/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the dependency lister Graft node.
	NodeID graft.ID = "adapter.depscan"

	// LocatorNodeID is the unique identifier for the project locator Graft node.
	LocatorNodeID graft.ID = "adapter.depscan.locator"
)

func init() {
	graft.Register(graft.Node[ports.DependencyLister]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DependencyLister, error) {
			return NewScanner(NewLocator()), nil
		},
	})

	graft.Register(graft.Node[ports.ProjectLocator]{
		ID:        LocatorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProjectLocator, error) {
			return NewLocator(), nil
		},
	})
}

package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/vgren/internal/adapters/config"
	"go.trai.ch/vgren/internal/adapters/daemon"
	"go.trai.ch/vgren/internal/adapters/depscan"
	"go.trai.ch/vgren/internal/adapters/gren"
	"go.trai.ch/vgren/internal/adapters/hostfs"
	"go.trai.ch/vgren/internal/adapters/logger"
	"go.trai.ch/vgren/internal/adapters/telemetry"
	"go.trai.ch/vgren/internal/adapters/transform"
	"go.trai.ch/vgren/internal/adapters/watcher"
	"go.trai.ch/vgren/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			hostfs.NodeID,
			depscan.NodeID,
			depscan.LocatorNodeID,
			gren.NodeID,
			transform.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			daemon.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
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
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[ports.HostResolver](ctx)
	if err != nil {
		return nil, err
	}
	lister, err := graft.Dep[ports.DependencyLister](ctx)
	if err != nil {
		return nil, err
	}
	locator, err := graft.Dep[ports.ProjectLocator](ctx)
	if err != nil {
		return nil, err
	}
	compiler, err := graft.Dep[ports.Compiler](ctx)
	if err != nil {
		return nil, err
	}
	transformer, err := graft.Dep[ports.Transformer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	dialer, err := graft.Dep[ports.DaemonDialer](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, resolver, lister, locator, compiler, transformer, log, tracer, w, dialer), nil
}

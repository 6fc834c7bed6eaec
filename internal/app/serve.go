package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.trai.ch/vgren/internal/adapters/daemon"
	"golang.org/x/sync/errgroup"
)

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	// Socket overrides the configured daemon socket.
	Socket string
	// Watch logs the units every saved gren source invalidates.
	Watch bool
}

// Serve runs the daemon a host bundler shim talks to until ctx is done, a client asks it
// to stop, or it stays idle for the configured timeout.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	loader := a.newLoader(cfg)

	lifecycle := daemon.NewLifecycle(cfg.Daemon.IdleTimeout)
	server := daemon.NewServer(socketPath(cfg, opts.Socket), devServer{loader: loader}, lifecycle, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	watchCtx, stopWatching := context.WithCancel(ctx)

	g.Go(func() error {
		defer stopWatching()
		if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	if opts.Watch {
		g.Go(func() error {
			return a.watchChanges(watchCtx, cfg, loader, func(ctx context.Context, file string) {
				res := loader.HotUpdate(ctx, file, nil)
				if len(res.Impacted) > 0 {
					a.logger.Info(fmt.Sprintf("%s changed, invalidates %s", relative(cfg.Root, file), strings.Join(res.Impacted, ", ")))
				}
			})
		})
	}

	return g.Wait()
}

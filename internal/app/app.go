// Package app implements the application layer for vgren.
package app

import (
	"context"
	"io"
	"os"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/vgren/internal/engine/plugin"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	resolver     ports.HostResolver
	lister       ports.DependencyLister
	locator      ports.ProjectLocator
	compiler     ports.Compiler
	transformer  ports.Transformer
	logger       ports.Logger
	tracer       ports.Tracer
	watcher      ports.Watcher
	dialer       ports.DaemonDialer
	out          io.Writer
	getwd        func() (string, error)
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	resolver ports.HostResolver,
	lister ports.DependencyLister,
	locator ports.ProjectLocator,
	compiler ports.Compiler,
	transformer ports.Transformer,
	log ports.Logger,
	tracer ports.Tracer,
	watcher ports.Watcher,
	dialer ports.DaemonDialer,
) *App {
	return &App{
		configLoader: loader,
		resolver:     resolver,
		lister:       lister,
		locator:      locator,
		compiler:     compiler,
		transformer:  transformer,
		logger:       log,
		tracer:       tracer,
		watcher:      watcher,
		dialer:       dialer,
		out:          os.Stdout,
		getwd:        os.Getwd,
	}
}

// WithOutput sets where command results are written.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithWorkingDir fixes the directory the configuration is searched from.
// This is primarily used for testing.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// SetVerbose enables logging of finished trace spans when the tracer supports it.
func (a *App) SetVerbose(verbose bool) {
	if v, ok := a.tracer.(interface{ SetVerbose(bool) }); ok {
		v.SetVerbose(verbose)
	}
}

// ConfigureLogging switches the log format and level when the logger supports it.
func (a *App) ConfigureLogging(json, quiet bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(json)
	}
	if l, ok := a.logger.(interface{ SetQuiet(bool) }); ok {
		l.SetQuiet(quiet)
	}
}

func (a *App) loadConfig() (*domain.Config, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	cfg, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

func (a *App) newLoader(cfg *domain.Config) *plugin.Loader {
	return plugin.NewLoader(
		cfg,
		a.resolver,
		a.lister,
		a.locator,
		a.compiler,
		a.transformer,
		a.logger,
		a.tracer,
	)
}

// socketPath returns the daemon socket: the explicit override, the configured one, or
// the default below the project root.
func socketPath(cfg *domain.Config, override string) string {
	switch {
	case override != "":
		return override
	case cfg.Daemon.Socket != "":
		return cfg.Daemon.Socket
	default:
		return domain.DefaultSocketPath(cfg.Root)
	}
}

// devServer exposes a Loader as the daemon backend.
type devServer struct {
	loader *plugin.Loader
}

var _ ports.DevServer = devServer{}

func (d devServer) Load(ctx context.Context, id string, moduleIDs []string) (*ports.LoadedModule, error) {
	res, err := d.loader.Load(ctx, plugin.LoadRequest{ID: id, ModuleIDs: moduleIDs})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &ports.LoadedModule{}, nil
	}
	return &ports.LoadedModule{
		Handled:      true,
		Code:         res.Code,
		Dependencies: res.WatchFiles,
	}, nil
}

func (d devServer) HotUpdate(ctx context.Context, file string, modules []string) domain.HotUpdateResult {
	return d.loader.HotUpdate(ctx, file, modules)
}

func (d devServer) Units() int {
	return len(d.loader.Units())
}

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/vgren/internal/adapters/watcher"
	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/engine/plugin"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch loads the given modules, then reloads every unit a saved gren source impacts
// until ctx is done.
func (a *App) Watch(ctx context.Context, ids []string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	loader := a.newLoader(cfg)

	for _, id := range ids {
		res, err := loader.Load(ctx, plugin.LoadRequest{ID: id, ModuleIDs: ids})
		if err != nil {
			a.logger.Error(err)
			continue
		}
		if res == nil {
			return errors.Join(domain.ErrModuleNotHandled, zerr.With(zerr.New("nothing to watch"), "id", id))
		}
		_, _ = fmt.Fprintf(a.out, "loaded %s (%d dependencies)\n", id, len(res.WatchFiles))
	}

	return a.watchChanges(ctx, cfg, loader, func(ctx context.Context, file string) {
		res := loader.HotUpdate(ctx, file, nil)
		if len(res.Impacted) == 0 {
			return
		}
		_, _ = fmt.Fprintf(a.out, "%s changed, reloading %s\n", relative(cfg.Root, file), strings.Join(res.Impacted, ", "))

		for _, id := range res.Impacted {
			if _, err := loader.Load(ctx, plugin.LoadRequest{ID: id, ModuleIDs: ids}); err != nil {
				a.logger.Error(err)
				continue
			}
			_, _ = fmt.Fprintf(a.out, "reloaded %s\n", id)
		}
	})
}

// watchChanges watches the project root and calls onChange for every gren source whose
// content changed, one debounced batch at a time.
func (a *App) watchChanges(
	ctx context.Context,
	cfg *domain.Config,
	loader *plugin.Loader,
	onChange func(ctx context.Context, file string),
) error {
	filter := watcher.NewContentFilter()
	for _, id := range loader.Units() {
		if deps, ok := loader.Dependencies(id); ok {
			for _, p := range deps.Sorted() {
				filter.Seed(p)
			}
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	if err := a.watcher.Start(ctx, cfg.Root); err != nil {
		return zerr.Wrap(err, "failed to start file watcher")
	}
	defer func() { _ = a.watcher.Stop() }()

	batches := make(chan []string)
	debouncer := watcher.NewDebouncer(cfg.Watch.Debounce, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})

	stopped := make(chan struct{})
	g.Go(func() error {
		defer close(stopped)
		for event := range a.watcher.Events() {
			if filter.Changed(event.Path) {
				debouncer.Add(event.Path)
			}
		}
		debouncer.Flush()
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-stopped:
				return nil
			case paths := <-batches:
				for _, p := range paths {
					onChange(ctx, p)
				}
			}
		}
	})

	return g.Wait()
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

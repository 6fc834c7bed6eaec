package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/engine/plugin"
	"go.trai.ch/zerr"
)

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// ModuleIDs are the host module ids preceding the compiled module, used to resolve
	// its accompanies.
	ModuleIDs []string
	// WatchFiles prints the unit's watch files instead of the module body.
	WatchFiles bool
}

// Compile loads one module and writes its body to the output.
func (a *App) Compile(ctx context.Context, id string, opts CompileOptions) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	res, err := a.newLoader(cfg).Load(ctx, plugin.LoadRequest{
		ID:        id,
		ModuleIDs: append(slices.Clone(opts.ModuleIDs), id),
	})
	if err != nil {
		return err
	}
	if res == nil {
		return errors.Join(domain.ErrModuleNotHandled, zerr.With(zerr.New("nothing to compile"), "id", id))
	}

	if opts.WatchFiles {
		for _, f := range res.WatchFiles {
			_, _ = fmt.Fprintln(a.out, f)
		}
		return nil
	}
	_, _ = fmt.Fprint(a.out, res.Code)
	return nil
}

// Deps prints the dependencies discovered for each file.
func (a *App) Deps(ctx context.Context, files []string) error {
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", file)
		}

		deps, err := a.lister.FindAllDependencies(ctx, abs)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(a.out, abs)
		for _, dep := range deps {
			_, _ = fmt.Fprintln(a.out, "  "+dep)
		}
	}
	return nil
}

// Package plugin implements the request lifecycle between a host bundler's module loader
// and the gren compiler: classification, accompany resolution, dependency tracking,
// serialized compilation and hot-update invalidation.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/vgren/internal/engine/index"
	"go.trai.ch/vgren/internal/engine/serializer"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// LoadRequest is a module load request from the host.
type LoadRequest struct {
	// ID is the requested module identifier.
	ID string
	// ModuleIDs are the module ids the host knows about, in the order they entered its
	// module graph. They are used to find the importer of ID.
	ModuleIDs []string
}

// LoadResult is the module produced for a LoadRequest.
type LoadResult struct {
	// Code is the module body.
	Code string
	// WatchFiles are the sources the unit depends on besides its primary target, sorted.
	WatchFiles []string
	// Unit is the compiled unit as recorded in the dependency index.
	Unit domain.CompiledUnit
}

// Loader turns gren module requests into loadable modules and tracks what each
// loaded unit depends on.
type Loader struct {
	cfg         *domain.Config
	resolver    ports.HostResolver
	lister      ports.DependencyLister
	locator     ports.ProjectLocator
	compiler    ports.Compiler
	transformer ports.Transformer
	logger      ports.Logger
	tracer      ports.Tracer

	index      *index.Index
	serializer *serializer.Serializer
}

// NewLoader creates a Loader with an empty dependency index and a compile lock
// bounded by the configured timeouts.
func NewLoader(
	cfg *domain.Config,
	resolver ports.HostResolver,
	lister ports.DependencyLister,
	locator ports.ProjectLocator,
	compiler ports.Compiler,
	transformer ports.Transformer,
	log ports.Logger,
	tracer ports.Tracer,
) *Loader {
	return &Loader{
		cfg:         cfg,
		resolver:    resolver,
		lister:      lister,
		locator:     locator,
		compiler:    compiler,
		transformer: transformer,
		logger:      log,
		tracer:      tracer,
		index:       index.New(),
		serializer: serializer.New(
			serializer.WithLockTimeout(cfg.LockTimeout),
			serializer.WithCompileTimeout(cfg.CompileTimeout),
		),
	}
}

// Load compiles the module named by req.ID.
// It returns nil and no error when the id does not name a gren source file.
func (l *Loader) Load(ctx context.Context, req LoadRequest) (*LoadResult, error) {
	parsed := domain.ParseRequest(req.ID)
	if !parsed.Valid {
		return nil, nil
	}

	ctx, span := l.tracer.Start(ctx, "load", ports.WithAttribute("unit", req.ID))
	defer span.End()

	result, err := l.load(ctx, req, parsed)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

func (l *Loader) load(ctx context.Context, req LoadRequest, parsed domain.ModuleRequest) (*LoadResult, error) {
	accompanies, err := l.resolveAccompanies(ctx, req, parsed.Accompanies)
	if err != nil {
		return nil, err
	}

	unit := domain.CompiledUnit{
		ID:               req.ID,
		PrimaryTarget:    filepath.Clean(parsed.Path),
		AccompanyTargets: accompanies,
	}

	// A reload never sees the dependency set of the previous compile.
	l.index.Remove(unit.ID)
	deps, err := l.discover(ctx, unit.Targets())
	if err != nil {
		return nil, err
	}
	unit.Dependencies = deps
	l.index.Set(unit.ID, unit.PrimaryTarget, deps)

	watch := make([]string, 0, deps.Len())
	for _, p := range deps.Sorted() {
		if p != unit.PrimaryTarget {
			watch = append(watch, p)
		}
	}

	_, wait := l.tracer.Start(ctx, "lock.wait")
	acquired := false
	code, err := serializer.WithLock(ctx, l.serializer, func(ctx context.Context) (string, error) {
		acquired = true
		wait.End()
		return l.compile(ctx, unit, watch)
	})
	if !acquired {
		wait.RecordError(err)
		wait.End()
	}
	if err != nil {
		return nil, err
	}

	return &LoadResult{Code: code, WatchFiles: watch, Unit: unit}, nil
}

// resolveAccompanies resolves the accompany references of a request against its importer.
// Unresolvable references are dropped unless strict accompaniment is configured.
func (l *Loader) resolveAccompanies(ctx context.Context, req LoadRequest, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	importer := importerOf(req.ID, req.ModuleIDs)
	resolved := make([]string, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			path, err := l.resolver.Resolve(gctx, l.cfg.Root, ref, importer)
			if err == nil && path != "" {
				resolved[i] = filepath.Clean(path)
				return nil
			}

			if err == nil {
				err = zerr.New("no module matches the reference")
			}
			unresolved := errors.Join(
				domain.ErrAccompanyUnresolved,
				zerr.With(zerr.With(zerr.Wrap(err, "failed to resolve accompany module"), "reference", ref), "importer", importer),
			)
			if l.cfg.StrictAccompany {
				return unresolved
			}
			l.logger.Warn(fmt.Sprintf("%s: dropping accompany %q, it could not be resolved", req.ID, ref))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.DeleteFunc(resolved, func(p string) bool { return p == "" }), nil
}

// importerOf returns the module id listed right before id, or "" when id comes first
// or is unknown to the host and nothing precedes it.
func importerOf(id string, moduleIDs []string) string {
	importer := ""
	for _, moduleID := range moduleIDs {
		if moduleID == id {
			break
		}
		importer = moduleID
	}
	return importer
}

// discover lists the dependencies of every target concurrently. The result holds the
// targets themselves as well.
func (l *Loader) discover(ctx context.Context, targets []string) (domain.DependencySet, error) {
	ctx, span := l.tracer.Start(ctx, "discover", ports.WithAttribute("targets", len(targets)))
	defer span.End()

	found := make([][]string, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, target := range targets {
		g.Go(func() error {
			deps, err := l.lister.FindAllDependencies(gctx, target)
			if err != nil {
				return errors.Join(
					domain.ErrDiscoveryFailed,
					zerr.With(zerr.Wrap(err, "failed to list dependencies"), "target", target),
				)
			}
			found[i] = deps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return domain.DependencySet{}, err
	}

	return domain.NewDependencySet(slices.Concat(append([][]string{targets}, found...)...)...), nil
}

// compile runs the compiler and the post-compile transforms. It must be called with the
// compile lock held.
func (l *Loader) compile(ctx context.Context, unit domain.CompiledUnit, watch []string) (string, error) {
	ctx, span := l.tracer.Start(ctx, "compile", ports.WithAttribute("unit", unit.ID))
	defer span.End()

	targets := unit.Targets()
	span.SetAttribute("targets", len(targets))

	opts := l.cfg.CompileOptions(l.locator.ProjectDir(unit.PrimaryTarget))
	start := time.Now()
	compiled, err := l.compiler.Compile(ctx, targets, opts)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNoMain) {
			msg := l.projectPath(unit.PrimaryTarget) +
				": NO MAIN .gren file is requested to transform by vite. Probably, this file is just a depending module"
			l.logger.Warn(msg)
			return "", zerr.Wrap(err, msg)
		}
		return "", err
	}
	if opts.Verbose {
		l.logger.Info(fmt.Sprintf("compiled %s in %s", l.projectPath(unit.PrimaryTarget), time.Since(start).Round(time.Millisecond)))
	}

	esm, err := l.transformer.ToESModule(compiled)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	esm = l.transformer.InjectAssets(esm)
	if l.cfg.IsBuild() {
		return esm, nil
	}

	hmrDeps := make([]string, len(watch))
	for i, dep := range watch {
		hmrDeps[i] = l.projectPath(dep)
	}
	return l.transformer.TrimDebugMessage(l.transformer.InjectHMR(esm, hmrDeps)), nil
}

// projectPath renders path relative to the project root the way the host addresses it.
func (l *Loader) projectPath(path string) string {
	rel, err := filepath.Rel(l.cfg.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return "/" + filepath.ToSlash(rel)
}

// HotUpdate computes which loaded units a change of file invalidates.
//
// Units whose primary target is the changed file are reloaded by the host on its own.
// When other units depend on file, the result carries an event naming them and the
// module list is the union of hostModules and every impacted unit. Otherwise the result
// falls back to hostModules.
func (l *Loader) HotUpdate(ctx context.Context, file string, hostModules []string) domain.HotUpdateResult {
	if !domain.IsSourceFile(file) {
		return domain.HotUpdateResult{Impacted: []string{}, Modules: hostModules, Fallback: true}
	}

	_, span := l.tracer.Start(ctx, "hot_update", ports.WithAttribute("file", file))
	defer span.End()

	file = filepath.Clean(file)
	impacted := l.index.UnitsDependingOn(file)
	span.SetAttribute("impacted", len(impacted))

	dependents := make([]string, 0, len(impacted))
	for _, id := range impacted {
		if target, ok := l.index.PrimaryTarget(id); ok && target == file {
			continue
		}
		dependents = append(dependents, id)
	}

	if len(dependents) == 0 {
		return domain.HotUpdateResult{Impacted: impacted, Modules: hostModules, Fallback: true}
	}

	modules := slices.Clone(hostModules)
	for _, id := range impacted {
		if !slices.Contains(modules, id) {
			modules = append(modules, id)
		}
	}

	return domain.HotUpdateResult{
		Impacted: impacted,
		Modules:  modules,
		Event: &domain.HotUpdateEvent{
			Name:    domain.HotUpdateDependentsEvent,
			Modules: dependents,
		},
	}
}

// Units returns the ids of every loaded unit, sorted.
func (l *Loader) Units() []string {
	return l.index.Units()
}

// Dependencies returns the dependency set recorded for unitID.
func (l *Loader) Dependencies(unitID string) (domain.DependencySet, bool) {
	return l.index.Get(unitID)
}

// Package depscan discovers the local gren modules a source file depends on.
package depscan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// cachedImports remembers the imports of a file together with the content hash they
// were parsed from.
type cachedImports struct {
	sum     uint64
	modules []string
}

// Scanner implements ports.DependencyLister by following import declarations through
// the source directories of the gren project. Imports that resolve to no local file
// belong to packages and are ignored.
type Scanner struct {
	locator *Locator

	group singleflight.Group
	// beforeScan runs at the start of every shared scan. Tests use it to hold a scan open.
	beforeScan func(target string)

	mu      sync.Mutex
	imports map[string]cachedImports
}

// NewScanner creates a new Scanner.
func NewScanner(locator *Locator) *Scanner {
	return &Scanner{
		locator: locator,
		imports: make(map[string]cachedImports),
	}
}

var _ ports.DependencyLister = (*Scanner)(nil)

// FindAllDependencies returns the sorted absolute paths of every local module target
// depends on. Concurrent calls for the same target share one scan. A caller giving up
// does not cancel the scan the others wait for.
func (s *Scanner) FindAllDependencies(ctx context.Context, target string) ([]string, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, zerr.Wrap(err, "resolve target path")
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(target, func() (any, error) {
		if s.beforeScan != nil {
			s.beforeScan(target)
		}
		return s.scan(shared, target)
	})

	select {
	case <-ctx.Done():
		return nil, zerr.With(zerr.Wrap(ctx.Err(), "dependency scan abandoned"), "target", target)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]string)), nil
	}
}

func (s *Scanner) scan(ctx context.Context, target string) ([]string, error) {
	dirs, err := sourceDirectories(s.locator.ProjectDir(target), target)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{target: {}}
	queue := []string{target}
	var deps []string

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, zerr.Wrap(err, "dependency scan interrupted")
		}

		file := queue[0]
		queue = queue[1:]

		modules, err := s.importsOf(ctx, file)
		if err != nil {
			return nil, err
		}

		for _, module := range modules {
			path, ok := resolveModule(dirs, module)
			if !ok {
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			deps = append(deps, path)
			queue = append(queue, path)
		}
	}

	slices.Sort(deps)
	return deps, nil
}

func (s *Scanner) importsOf(ctx context.Context, file string) ([]string, error) {
	// #nosec G304 -- file is a gren source below a project source directory
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Join(domain.ErrSourceReadFailed, zerr.With(zerr.Wrap(err, "read"), "path", file))
	}
	sum := xxhash.Sum64(src)

	s.mu.Lock()
	cached, ok := s.imports[file]
	s.mu.Unlock()
	if ok && cached.sum == sum {
		return cached.modules, nil
	}

	modules, err := parseImports(ctx, src)
	if err != nil {
		return nil, zerr.With(err, "path", file)
	}

	s.mu.Lock()
	s.imports[file] = cachedImports{sum: sum, modules: modules}
	s.mu.Unlock()

	return modules, nil
}

// resolveModule maps a dotted module name to the first existing file in dirs.
func resolveModule(dirs []string, module string) (string, bool) {
	rel := strings.ReplaceAll(module, ".", string(filepath.Separator)) + domain.SourceExtension
	for _, dir := range dirs {
		candidate := filepath.Join(dir, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

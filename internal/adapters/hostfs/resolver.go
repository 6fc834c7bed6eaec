// Package hostfs resolves module references against the filesystem the way the host
// bundler does for plain source files.
package hostfs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver implements ports.HostResolver.
//
// Relative references resolve against the importer's directory, or the project root
// without an importer. References starting with a slash are tried as absolute paths
// first and then relative to the project root.
type Resolver struct{}

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

var _ ports.HostResolver = (*Resolver)(nil)

// Resolve returns the absolute path ref names, or an empty string if no such file exists.
func (r *Resolver) Resolve(_ context.Context, root, ref, importer string) (string, error) {
	ref = stripQuery(ref)
	if ref == "" {
		return "", nil
	}

	for _, candidate := range candidates(filepath.Clean(root), ref, importer) {
		ok, err := isFile(candidate)
		if err != nil {
			return "", zerr.With(zerr.With(err, "ref", ref), "candidate", candidate)
		}
		if ok {
			return candidate, nil
		}
	}
	return "", nil
}

func candidates(root, ref, importer string) []string {
	if filepath.IsAbs(ref) {
		return []string{filepath.Clean(ref), filepath.Join(root, ref)}
	}

	base := root
	if importer != "" {
		if req := domain.ParseRequest(importer); req.Path != "" {
			base = filepath.Dir(req.Path)
		}
	}
	return []string{filepath.Join(base, ref)}
}

func stripQuery(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i]
	}
	return ref
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return false, zerr.Wrap(err, "stat module")
		}
		// Missing files and paths through regular files name nothing.
		return false, nil
	}
	return !info.IsDir(), nil
}

package ports

import "context"

// DependencyLister lists the source files a gren module transitively depends on.
//
//go:generate go run go.uber.org/mock/mockgen -source=dependency.go -destination=mocks/mock_dependency.go -package=mocks
type DependencyLister interface {
	// FindAllDependencies returns the absolute paths of every local source file target imports,
	// directly or transitively. The target itself is not included.
	FindAllDependencies(ctx context.Context, target string) ([]string, error)
}

// ProjectLocator finds the gren project a source file belongs to.
type ProjectLocator interface {
	// ProjectDir returns the closest directory above path holding a gren.json,
	// or an empty string if there is none.
	ProjectDir(path string) string
}

package ports

import "context"

// HostResolver resolves module references the way the host bundler does.
//
//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=mocks/mock_host.go -package=mocks
type HostResolver interface {
	// Resolve resolves ref relative to the importer module id. References without an
	// importer and root-relative references resolve against the project root.
	// It returns an empty string when the reference cannot be resolved.
	Resolve(ctx context.Context, root, ref, importer string) (string, error)
}

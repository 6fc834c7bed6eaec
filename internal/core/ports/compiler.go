// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/vgren/internal/core/domain"
)

// Compiler invokes the external gren compiler.
//
// Implementations are not safe for concurrent use against the same project: the
// compiler keeps an on-disk cache in the project directory. Callers serialize
// invocations.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile compiles the given targets into a single output and returns its text.
	//
	// Launch failures are reported as domain.ErrCompilerNotFound, domain.ErrCompilerNotExecutable
	// or domain.ErrCompilerLaunchFailed. A non-zero exit status is reported as domain.ErrCompileFailed,
	// or domain.ErrNoMain when the diagnostics say no entry point was requested.
	Compile(ctx context.Context, targets []string, opts domain.CompileOptions) (string, error)
}

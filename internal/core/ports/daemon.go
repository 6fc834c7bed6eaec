package ports

import (
	"context"
	"time"

	"go.trai.ch/vgren/internal/core/domain"
)

// DaemonStatus represents the current state of the daemon.
type DaemonStatus struct {
	Running       bool
	PID           int
	Uptime        time.Duration
	Units         int
	IdleRemaining time.Duration
}

// LoadedModule is the module body produced for a load request.
type LoadedModule struct {
	// Handled is false when the module id does not name a gren source file.
	Handled bool
	// Code is the module body.
	Code string
	// Dependencies are the files the host should watch for this module.
	Dependencies []string
}

// DaemonClient defines the interface for talking to a running daemon.
type DaemonClient interface {
	// Load loads a module through the daemon.
	Load(ctx context.Context, id string, moduleIDs []string) (*LoadedModule, error)

	// HotUpdate notifies the daemon of a changed file.
	HotUpdate(ctx context.Context, file string, modules []string) (*domain.HotUpdateResult, error)

	// Status returns the current daemon status.
	Status(ctx context.Context) (*DaemonStatus, error)

	// Shutdown requests a graceful daemon shutdown.
	Shutdown(ctx context.Context) error

	// Close releases client resources.
	Close() error
}

// DevServer is the backend a daemon serves requests from.
type DevServer interface {
	// Load loads a module. Modules vgren does not handle report Handled false.
	Load(ctx context.Context, id string, moduleIDs []string) (*LoadedModule, error)

	// HotUpdate computes the modules a change of file invalidates.
	HotUpdate(ctx context.Context, file string, modules []string) domain.HotUpdateResult

	// Units returns the number of loaded units.
	Units() int
}

// DaemonDialer connects to a daemon listening on a unix socket.
type DaemonDialer interface {
	// Dial returns a client for the daemon at socket. The connection is established lazily.
	Dial(socket string) (DaemonClient, error)
}

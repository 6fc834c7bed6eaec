package domain

import "path/filepath"

const (
	// VgrenDirName is the name of the internal project directory.
	VgrenDirName = ".vgren"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "vgren.yaml"

	// ProjectFileName is the name of the gren project file marking a project root.
	ProjectFileName = "gren.json"

	// SourceExtension is the file extension of gren source files.
	SourceExtension = ".gren"

	// SocketFileName is the name of the daemon socket file.
	SocketFileName = "daemon.sock"

	// PIDFileName is the name of the daemon pid file.
	PIDFileName = "daemon.pid"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// SocketPerm is the permission for the daemon socket (rw-------).
	SocketPerm = 0o600
)

// DefaultSocketPath returns the daemon socket path for the given project root.
// It joins root, .vgren and daemon.sock.
func DefaultSocketPath(root string) string {
	return filepath.Join(root, VgrenDirName, SocketFileName)
}


package domain

import "go.trai.ch/zerr"

var (
	// ErrAccompanyUnresolved is returned when an accompany reference cannot be resolved
	// and strict accompaniment is enabled.
	ErrAccompanyUnresolved = zerr.New("accompany module could not be resolved")

	// ErrDiscoveryFailed is returned when the dependency listing of a target fails.
	ErrDiscoveryFailed = zerr.New("dependency discovery failed")

	// ErrSourceReadFailed is returned when a gren source file cannot be read.
	ErrSourceReadFailed = zerr.New("failed to read gren source file")

	// ErrProjectFileInvalid is returned when a gren.json file cannot be parsed.
	ErrProjectFileInvalid = zerr.New("failed to parse gren.json")

	// ErrCompilerNotFound is returned when the gren binary cannot be found.
	ErrCompilerNotFound = zerr.New("gren compiler not found")

	// ErrCompilerNotExecutable is returned when the gren binary lacks execute permission.
	ErrCompilerNotExecutable = zerr.New("gren compiler is not executable")

	// ErrCompilerLaunchFailed is returned when the gren process cannot be started for any other reason.
	ErrCompilerLaunchFailed = zerr.New("failed to start gren compiler")

	// ErrCompileFailed is returned when the compiler exits with a non-zero status.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrNoMain is returned when the compiled module has no entry point.
	ErrNoMain = zerr.New("no main gren file requested")

	// ErrNoTargets is returned when a compilation is requested without any target file.
	ErrNoTargets = zerr.New("no compile targets specified")

	// ErrTempFileFailed is returned when the temporary output location cannot be allocated.
	ErrTempFileFailed = zerr.New("failed to allocate temporary output file")

	// ErrOutputReadFailed is returned when the compiled output cannot be read back.
	ErrOutputReadFailed = zerr.New("failed to read compiled output")

	// ErrTempCleanupFailed is returned when the temporary output location cannot be removed.
	ErrTempCleanupFailed = zerr.New("failed to clean up temporary output")

	// ErrLockTimeout is returned when waiting for the compile lock exceeds the configured timeout.
	ErrLockTimeout = zerr.New("timed out waiting for compile lock")

	// ErrCompileTimeout is returned when the compiler process exceeds the configured timeout.
	ErrCompileTimeout = zerr.New("compiler process timed out")

	// ErrTransformFailed is returned when the compiled output cannot be turned into a module.
	ErrTransformFailed = zerr.New("failed to transform compiled output")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnknownCompilerOption is returned when the config names a compiler option that does not exist.
	ErrUnknownCompilerOption = zerr.New("unrecognized gren compiler option")

	// ErrRemovedCompilerOption is returned when the config names a compiler option that was removed or renamed.
	ErrRemovedCompilerOption = zerr.New("gren compiler option is no longer supported")

	// ErrInvalidMode is returned when the configured mode is neither serve nor build.
	ErrInvalidMode = zerr.New("invalid mode, expected 'serve' or 'build'")

	// ErrDaemonUnavailable is returned when the daemon cannot be reached.
	ErrDaemonUnavailable = zerr.New("daemon is not running")

	// ErrModuleNotHandled is returned when a module id does not name a gren source file.
	ErrModuleNotHandled = zerr.New("module id is not a gren source file")
)

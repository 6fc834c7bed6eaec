package domain

import "time"

// Mode selects between the development server and a production build.
type Mode string

const (
	// ModeServe compiles for the development server with hot reload.
	ModeServe Mode = "serve"
	// ModeBuild compiles for a production build.
	ModeBuild Mode = "build"
)

// DefaultPathToGren is the compiler binary looked up on PATH when none is configured.
const DefaultPathToGren = "gren"

// DefaultOutputSuffix is the suffix of the temporary compiler output file.
const DefaultOutputSuffix = ".js"

// DefaultDebounceWindow is the default time window for coalescing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// CompileOptions are passed through to the gren compiler verbatim.
type CompileOptions struct {
	// PathToGren is the compiler executable.
	PathToGren string
	// Output is the suffix of the output file (".js" or ".html").
	Output string
	// Optimize enables --optimize.
	Optimize bool
	// Debug enables --debug.
	Debug bool
	// Cwd is the project directory the compiler runs in.
	Cwd string
	// Verbose echoes the command line and compiler output.
	Verbose bool
	// Report is passed as --report when set.
	Report string
	// Docs is passed as --docs when set.
	Docs string
	// Env holds extra process environment variables.
	Env map[string]string
}

// CompilerConfig holds the compiler settings from the config file.
// Nil pointers mean "not configured" and fall back to mode-derived defaults.
type CompilerConfig struct {
	PathToGren string
	Cwd        string
	Verbose    *bool
	Output     string
	Report     string
	Docs       string
	Env        map[string]string
}

// DaemonConfig holds the daemon settings.
type DaemonConfig struct {
	// Socket is the unix socket path. Empty means DefaultSocketPath(root).
	Socket string
	// IdleTimeout shuts the daemon down after this much inactivity. Zero disables it.
	IdleTimeout time.Duration
}

// WatchConfig holds the file watcher settings.
type WatchConfig struct {
	Debounce time.Duration
}

// Config is the resolved vgren configuration.
type Config struct {
	// Root is the directory holding the config file, or the working directory without one.
	Root            string
	Mode            Mode
	Debug           *bool
	Optimize        *bool
	StrictAccompany bool
	LockTimeout     time.Duration
	CompileTimeout  time.Duration
	Compiler        CompilerConfig
	Daemon          DaemonConfig
	Watch           WatchConfig
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig(root string) *Config {
	return &Config{
		Root: root,
		Mode: ModeServe,
		Watch: WatchConfig{
			Debounce: DefaultDebounceWindow,
		},
	}
}

// IsBuild reports whether the config targets a production build.
func (c *Config) IsBuild() bool {
	return c.Mode == ModeBuild
}

// CompileOptions derives the compiler options for a target living in projectDir.
// Debug defaults to on outside of builds, optimize defaults to on for non-debug builds,
// and explicitly configured compiler settings win over derived ones.
func (c *Config) CompileOptions(projectDir string) CompileOptions {
	isBuild := c.IsBuild()

	debug := !isBuild
	if c.Debug != nil {
		debug = *c.Debug
	}

	optimize := !debug && isBuild
	if c.Optimize != nil {
		optimize = *c.Optimize
	}

	opts := CompileOptions{
		PathToGren: DefaultPathToGren,
		Output:     DefaultOutputSuffix,
		Optimize:   optimize,
		Debug:      debug,
		Cwd:        projectDir,
		Verbose:    isBuild,
		Report:     c.Compiler.Report,
		Docs:       c.Compiler.Docs,
		Env:        c.Compiler.Env,
	}

	if c.Compiler.PathToGren != "" {
		opts.PathToGren = c.Compiler.PathToGren
	}
	if c.Compiler.Output != "" {
		opts.Output = c.Compiler.Output
	}
	if c.Compiler.Cwd != "" {
		opts.Cwd = c.Compiler.Cwd
	}
	if c.Compiler.Verbose != nil {
		opts.Verbose = *c.Compiler.Verbose
	}

	return opts
}

// Package gren runs the gren compiler as a subprocess.
package gren

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports"
	"go.trai.ch/zerr"
)

// noMainMarker is the diagnostic header gren prints when none of the targets has a main.
const noMainMarker = "-- NO MAIN"

// waitDelay bounds how long Wait blocks on output pipes after the process was killed.
const waitDelay = 2 * time.Second

// Executor implements ports.Compiler using os/exec.
type Executor struct {
	logger  ports.Logger
	tempDir string
	environ func() []string
}

// Option configures an Executor.
type Option func(*Executor)

// WithTempDir sets the parent directory of the per-invocation output directories.
func WithTempDir(dir string) Option {
	return func(e *Executor) {
		e.tempDir = dir
	}
}

// WithEnviron replaces the process environment the compiler inherits.
func WithEnviron(environ func() []string) Option {
	return func(e *Executor) {
		e.environ = environ
	}
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger, opts ...Option) *Executor {
	e := &Executor{logger: logger, environ: os.Environ}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ ports.Compiler = (*Executor)(nil)

// Compile runs `gren make` for targets and returns the produced output text.
// The temporary output directory is removed on every path.
func (e *Executor) Compile(ctx context.Context, targets []string, opts domain.CompileOptions) (code string, err error) {
	if len(targets) == 0 {
		return "", domain.ErrNoTargets
	}

	pathToGren := opts.PathToGren
	if pathToGren == "" {
		pathToGren = domain.DefaultPathToGren
	}

	dir, err := os.MkdirTemp(e.tempDir, "vgren-*")
	if err != nil {
		return "", errors.Join(domain.ErrTempFileFailed, zerr.Wrap(err, "create output directory"))
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			code = ""
			err = errors.Join(domain.ErrTempCleanupFailed, zerr.With(zerr.Wrap(rmErr, "remove output directory"), "dir", dir))
		}
	}()

	outputPath := filepath.Join(dir, "output"+outputSuffix(opts.Output))
	args := buildArgs(targets, outputPath, opts)
	env := resolveEnvironment(e.environ(), opts.Env)

	executable, err := resolveExecutable(pathToGren, env)
	if err != nil {
		return "", err
	}

	if opts.Verbose {
		e.logger.Info(strings.Join(append([]string{"Running", pathToGren}, args...), " "))
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // compiler path comes from the project config
	cmd.Args[0] = pathToGren
	cmd.Dir = opts.Cwd
	cmd.Env = env
	cmd.WaitDelay = waitDelay

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", zerr.Wrap(ctxErr, "gren make not started")
		}
		return "", launchError(pathToGren, err)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", zerr.With(zerr.Wrap(ctxErr, "gren make interrupted"), "output", combined.String())
		}
		return "", compileError(err, combined.String())
	}

	if opts.Verbose && combined.Len() > 0 {
		w := &logWriter{logger: e.logger}
		_, _ = w.Write(combined.Bytes())
		_ = w.Close()
	}

	// #nosec G304 -- outputPath lives in the directory created above
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return "", errors.Join(domain.ErrOutputReadFailed, zerr.With(zerr.Wrap(err, "read compiled output"), "path", outputPath))
	}
	return string(data), nil
}

func buildArgs(targets []string, outputPath string, opts domain.CompileOptions) []string {
	args := make([]string, 0, len(targets)+8)
	args = append(args, "make")
	args = append(args, targets...)
	args = append(args, "--output", outputPath)
	if opts.Debug {
		args = append(args, "--debug")
	}
	if opts.Optimize {
		args = append(args, "--optimize")
	}
	if opts.Report != "" {
		args = append(args, "--report", opts.Report)
	}
	if opts.Docs != "" {
		args = append(args, "--docs", opts.Docs)
	}
	return args
}

// outputSuffix accepts either a bare suffix (".html") or a file name and falls back to ".js".
func outputSuffix(output string) string {
	if ext := filepath.Ext(output); ext != "" {
		return ext
	}
	return domain.DefaultOutputSuffix
}

func compileError(waitErr error, output string) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	}

	detail := zerr.With(zerr.New("Compilation failed\n"+output), "exit_code", exitCode)
	if strings.Contains(output, noMainMarker) {
		return errors.Join(domain.ErrNoMain, detail)
	}
	return errors.Join(domain.ErrCompileFailed, detail)
}

func launchError(pathToGren string, err error) error {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return errors.Join(domain.ErrCompilerNotFound,
			zerr.New(`Could not find Gren compiler "`+pathToGren+`". Is it installed?`))
	case errors.Is(err, fs.ErrPermission):
		return errors.Join(domain.ErrCompilerNotExecutable,
			zerr.New(`Gren compiler "`+pathToGren+`" did not have permission to run. Do you need to give it executable permissions?`))
	default:
		return errors.Join(domain.ErrCompilerLaunchFailed,
			zerr.Wrap(err, `Error attempting to run Gren compiler "`+pathToGren+`"`))
	}
}

// resolveEnvironment layers the inherited environment over the compiler defaults and
// applies the configured overrides last.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := map[string]string{"LANG": "en_US.UTF-8"}
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}
	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// resolveExecutable finds the compiler binary using the PATH of the compiler's own
// environment, not the one of the vgren process.
func resolveExecutable(pathToGren string, env []string) (string, error) {
	if strings.ContainsRune(pathToGren, filepath.Separator) {
		if err := findExecutable(pathToGren); err != nil {
			return "", launchError(pathToGren, err)
		}
		return pathToGren, nil
	}

	executable, err := lookPath(pathToGren, env)
	if err != nil {
		return "", launchError(pathToGren, err)
	}
	return executable, nil
}

func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	found := exec.ErrNotFound
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		err := findExecutable(candidate)
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, fs.ErrPermission) {
			found = err
		}
	}
	return "", found
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

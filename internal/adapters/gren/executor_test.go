package gren_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vgren/internal/adapters/gren"
	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeGren is a stand-in compiler: it records its arguments and working directory,
// then writes FAKE_OUTPUT to the --output file.
const fakeGren = `#!/bin/sh
printf '%s\n' "$@" > "$ARGS_FILE"
pwd > "$ARGS_FILE.cwd"
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
echo "Success! Compiled 1 module."
printf '%s' "$FAKE_OUTPUT" > "$out"
`

const failingGren = `#!/bin/sh
echo "-- $FAKE_ERROR ------------------------------------------ src/Main.gren" >&2
echo "" >&2
echo "details"
exit 1
`

func writeScript(t *testing.T, dir, name, body string, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), perm))
	return path
}

func newExecutor(t *testing.T, tmp string) (*gren.Executor, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return gren.NewExecutor(log, gren.WithTempDir(tmp), gren.WithEnviron(func() []string {
		return []string{"PATH=" + os.Getenv("PATH"), "HOME=" + t.TempDir()}
	})), log
}

func TestExecutor_Compile_Success(t *testing.T) {
	bin := t.TempDir()
	tmp := t.TempDir()
	project := t.TempDir()
	argsFile := filepath.Join(t.TempDir(), "args")
	compiler := writeScript(t, bin, "gren", fakeGren, 0o755)

	exec, _ := newExecutor(t, tmp)
	code, err := exec.Compile(context.Background(), []string{"/app/src/Main.gren", "/app/src/Other.gren"}, domain.CompileOptions{
		PathToGren: compiler,
		Output:     ".js",
		Debug:      true,
		Cwd:        project,
		Report:     "json",
		Env:        map[string]string{"ARGS_FILE": argsFile, "FAKE_OUTPUT": "var app = {};"},
	})

	require.NoError(t, err)
	assert.Equal(t, "var app = {};", code)

	raw, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, args, 8)
	assert.Equal(t, []string{"make", "/app/src/Main.gren", "/app/src/Other.gren", "--output"}, args[:4])
	assert.Equal(t, ".js", filepath.Ext(args[4]))
	assert.Equal(t, []string{"--debug", "--report", "json"}, args[5:])

	cwd, err := os.ReadFile(argsFile + ".cwd")
	require.NoError(t, err)
	wantCwd, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	assert.Equal(t, wantCwd, strings.TrimSpace(string(cwd)))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "output directory must be removed after success")
}

func TestExecutor_Compile_VerboseLogsCommandAndOutput(t *testing.T) {
	bin := t.TempDir()
	compiler := writeScript(t, bin, "gren", fakeGren, 0o755)

	exec, log := newExecutor(t, t.TempDir())
	gomock.InOrder(
		log.EXPECT().Info(gomock.Cond(func(msg any) bool {
			return strings.HasPrefix(msg.(string), "Running "+compiler+" make /app/Main.gren --output ")
		})),
		log.EXPECT().Info("Success! Compiled 1 module."),
	)

	_, err := exec.Compile(context.Background(), []string{"/app/Main.gren"}, domain.CompileOptions{
		PathToGren: compiler,
		Verbose:    true,
		Env:        map[string]string{"ARGS_FILE": filepath.Join(t.TempDir(), "args")},
	})
	require.NoError(t, err)
}

func TestExecutor_Compile_OptimizeAndDocs(t *testing.T) {
	bin := t.TempDir()
	argsFile := filepath.Join(t.TempDir(), "args")
	compiler := writeScript(t, bin, "gren", fakeGren, 0o755)

	exec, _ := newExecutor(t, t.TempDir())
	_, err := exec.Compile(context.Background(), []string{"/app/Main.gren"}, domain.CompileOptions{
		PathToGren: compiler,
		Output:     ".html",
		Optimize:   true,
		Docs:       "docs.json",
		Env:        map[string]string{"ARGS_FILE": argsFile},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, ".html", filepath.Ext(args[3]))
	assert.Equal(t, []string{"--optimize", "--docs", "docs.json"}, args[4:])
}

func TestExecutor_Compile_LooksUpCompilerOnPath(t *testing.T) {
	bin := t.TempDir()
	writeScript(t, bin, "gren", fakeGren, 0o755)

	ctrl := gomock.NewController(t)
	exec := gren.NewExecutor(mocks.NewMockLogger(ctrl), gren.WithTempDir(t.TempDir()), gren.WithEnviron(func() []string {
		return []string{"PATH=" + bin + string(os.PathListSeparator) + os.Getenv("PATH")}
	}))

	code, err := exec.Compile(context.Background(), []string{"/app/Main.gren"}, domain.CompileOptions{
		PathToGren: "gren",
		Env:        map[string]string{"ARGS_FILE": filepath.Join(t.TempDir(), "args"), "FAKE_OUTPUT": "ok"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", code)
}

func TestExecutor_Compile_Failures(t *testing.T) {
	tests := []struct {
		name      string
		fakeError string
		wantErr   error
		otherErr  error
	}{
		{
			name:      "no main",
			fakeError: "NO MAIN",
			wantErr:   domain.ErrNoMain,
			otherErr:  domain.ErrCompileFailed,
		},
		{
			name:      "general compile error",
			fakeError: "NAMING ERROR",
			wantErr:   domain.ErrCompileFailed,
			otherErr:  domain.ErrNoMain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := t.TempDir()
			tmp := t.TempDir()
			compiler := writeScript(t, bin, "gren", failingGren, 0o755)

			exec, _ := newExecutor(t, tmp)
			_, err := exec.Compile(context.Background(), []string{"/app/src/Util.gren"}, domain.CompileOptions{
				PathToGren: compiler,
				Env:        map[string]string{"FAKE_ERROR": tt.fakeError},
			})

			require.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, tt.otherErr)
			assert.Contains(t, err.Error(), "Compilation failed\n")
			assert.Contains(t, err.Error(), "-- "+tt.fakeError)
			assert.Contains(t, err.Error(), "details", "stdout and stderr are both captured")

			entries, err := os.ReadDir(tmp)
			require.NoError(t, err)
			assert.Empty(t, entries, "output directory must be removed after failure")
		})
	}
}

func TestExecutor_Compile_LaunchFailures(t *testing.T) {
	bin := t.TempDir()
	notExecutable := writeScript(t, bin, "gren-noexec", fakeGren, 0o644)

	tests := []struct {
		name       string
		pathToGren string
		wantErr    error
		wantMsg    string
	}{
		{
			name:       "missing binary on path",
			pathToGren: "gren-does-not-exist",
			wantErr:    domain.ErrCompilerNotFound,
			wantMsg:    `Could not find Gren compiler "gren-does-not-exist". Is it installed?`,
		},
		{
			name:       "missing binary by path",
			pathToGren: filepath.Join(bin, "missing"),
			wantErr:    domain.ErrCompilerNotFound,
			wantMsg:    "Is it installed?",
		},
		{
			name:       "not executable",
			pathToGren: notExecutable,
			wantErr:    domain.ErrCompilerNotExecutable,
			wantMsg:    "did not have permission to run. Do you need to give it executable permissions?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			exec, _ := newExecutor(t, tmp)

			_, err := exec.Compile(context.Background(), []string{"/app/Main.gren"}, domain.CompileOptions{PathToGren: tt.pathToGren})

			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)

			entries, err := os.ReadDir(tmp)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestExecutor_Compile_NoTargets(t *testing.T) {
	exec, _ := newExecutor(t, t.TempDir())

	_, err := exec.Compile(context.Background(), nil, domain.CompileOptions{})

	require.ErrorIs(t, err, domain.ErrNoTargets)
}

func TestExecutor_Compile_Canceled(t *testing.T) {
	bin := t.TempDir()
	compiler := writeScript(t, bin, "gren", "#!/bin/sh\nsleep 30\n", 0o755)

	exec, _ := newExecutor(t, t.TempDir())
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := exec.Compile(ctx, []string{"/app/Main.gren"}, domain.CompileOptions{PathToGren: compiler})

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, domain.ErrCompileFailed)
	assert.Less(t, time.Since(start), 10*time.Second)
}

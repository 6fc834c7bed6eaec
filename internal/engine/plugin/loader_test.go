package plugin_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vgren/internal/adapters/telemetry"
	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/vgren/internal/core/ports/mocks"
	"go.trai.ch/vgren/internal/engine/plugin"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const (
	mainGren  = "/app/src/Main.gren"
	pageGren  = "/app/src/Page.gren"
	otherGren = "/app/src/Other.gren"
	utilGren  = "/app/src/Util.gren"
)

type fixture struct {
	cfg      *domain.Config
	resolver *mocks.MockHostResolver
	lister   *mocks.MockDependencyLister
	compiler *mocks.MockCompiler
	logger   *mocks.MockLogger
	loader   *plugin.Loader
}

func newFixture(t *testing.T, configure ...func(*domain.Config)) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cfg := domain.DefaultConfig("/app")
	for _, fn := range configure {
		fn(cfg)
	}

	f := &fixture{
		cfg:      cfg,
		resolver: mocks.NewMockHostResolver(ctrl),
		lister:   mocks.NewMockDependencyLister(ctrl),
		compiler: mocks.NewMockCompiler(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	locator := mocks.NewMockProjectLocator(ctrl)
	locator.EXPECT().ProjectDir(gomock.Any()).Return("/app").AnyTimes()

	transformer := mocks.NewMockTransformer(ctrl)
	transformer.EXPECT().ToESModule(gomock.Any()).DoAndReturn(func(compiled string) (string, error) {
		return "esm(" + compiled + ")", nil
	}).AnyTimes()
	transformer.EXPECT().InjectAssets(gomock.Any()).DoAndReturn(func(m string) string {
		return m + "+assets"
	}).AnyTimes()
	transformer.EXPECT().InjectHMR(gomock.Any(), gomock.Any()).DoAndReturn(func(m string, deps []string) string {
		return m + "+hmr[" + strings.Join(deps, ",") + "]"
	}).AnyTimes()
	transformer.EXPECT().TrimDebugMessage(gomock.Any()).DoAndReturn(func(m string) string {
		return m + "+trim"
	}).AnyTimes()

	f.loader = plugin.NewLoader(cfg, f.resolver, f.lister, locator, f.compiler, transformer, f.logger, telemetry.NewNoOpTracer())
	return f
}

func (f *fixture) deps(target string, deps ...string) {
	f.lister.EXPECT().FindAllDependencies(gomock.Any(), target).Return(deps, nil).AnyTimes()
}

func TestLoad_NotHandled(t *testing.T) {
	f := newFixture(t)

	for _, id := range []string{
		"/app/src/main.js",
		"/app/src/Main.gren?raw",
		"/app/src/Main.gren?with=./Other.gren&raw",
		"/app/src/Main.grenx",
	} {
		t.Run(id, func(t *testing.T) {
			got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: id})
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
	assert.Empty(t, f.loader.Units())
}

func TestLoad_ServeMode(t *testing.T) {
	f := newFixture(t)
	f.deps(mainGren, pageGren)
	f.compiler.EXPECT().
		Compile(gomock.Any(), []string{mainGren}, domain.CompileOptions{
			PathToGren: "gren",
			Output:     ".js",
			Debug:      true,
			Cwd:        "/app",
		}).
		Return("OUT", nil)

	got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})

	require.NoError(t, err)
	assert.Equal(t, "esm(OUT)+assets+hmr[/src/Page.gren]+trim", got.Code)
	assert.Equal(t, []string{pageGren}, got.WatchFiles)
	assert.Equal(t, mainGren, got.Unit.PrimaryTarget)
	assert.Empty(t, got.Unit.AccompanyTargets)

	deps, ok := f.loader.Dependencies(mainGren)
	require.True(t, ok)
	assert.Equal(t, []string{mainGren, pageGren}, deps.Sorted())
}

func TestLoad_BuildModeSkipsHotReloadGlue(t *testing.T) {
	f := newFixture(t, func(c *domain.Config) { c.Mode = domain.ModeBuild })
	f.deps(mainGren, pageGren)
	f.compiler.EXPECT().
		Compile(gomock.Any(), []string{mainGren}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []string, opts domain.CompileOptions) (string, error) {
			assert.True(t, opts.Optimize)
			assert.False(t, opts.Debug)
			assert.True(t, opts.Verbose)
			return "OUT", nil
		})
	f.logger.EXPECT().Info(gomock.Any())

	got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})

	require.NoError(t, err)
	assert.Equal(t, "esm(OUT)+assets", got.Code)
}

func TestLoad_Accompanies(t *testing.T) {
	f := newFixture(t)
	id := mainGren + "?with=./Other.gren&with=./Missing.gren"
	moduleIDs := []string{"/app/index.html", "/app/src/main.js", id, "/app/src/late.js"}

	f.resolver.EXPECT().Resolve(gomock.Any(), "/app", "./Other.gren", "/app/src/main.js").Return(otherGren, nil)
	f.resolver.EXPECT().Resolve(gomock.Any(), "/app", "./Missing.gren", "/app/src/main.js").Return("", nil)
	f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, `"./Missing.gren"`)
	})
	f.deps(mainGren, pageGren)
	f.deps(otherGren, utilGren)
	f.compiler.EXPECT().Compile(gomock.Any(), []string{mainGren, otherGren}, gomock.Any()).Return("OUT", nil)

	got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: id, ModuleIDs: moduleIDs})

	require.NoError(t, err)
	assert.Equal(t, []string{otherGren}, got.Unit.AccompanyTargets)
	assert.Equal(t, []string{otherGren, pageGren, utilGren}, got.WatchFiles)

	deps, ok := f.loader.Dependencies(id)
	require.True(t, ok)
	assert.Equal(t, []string{mainGren, otherGren, pageGren, utilGren}, deps.Sorted())
}

func TestLoad_AccompanyWithoutImporter(t *testing.T) {
	f := newFixture(t)
	id := mainGren + "?with=./Other.gren"

	f.resolver.EXPECT().Resolve(gomock.Any(), "/app", "./Other.gren", "").Return(otherGren, nil)
	f.deps(mainGren)
	f.deps(otherGren)
	f.compiler.EXPECT().Compile(gomock.Any(), []string{mainGren, otherGren}, gomock.Any()).Return("OUT", nil)

	_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: id, ModuleIDs: []string{id}})
	require.NoError(t, err)
}

func TestLoad_StrictAccompany(t *testing.T) {
	f := newFixture(t, func(c *domain.Config) { c.StrictAccompany = true })
	id := mainGren + "?with=./Missing.gren"

	f.resolver.EXPECT().Resolve(gomock.Any(), "/app", "./Missing.gren", "").Return("", errors.New("permission denied"))

	got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: id})

	require.ErrorIs(t, err, domain.ErrAccompanyUnresolved)
	assert.Nil(t, got)
	_, ok := f.loader.Dependencies(id)
	assert.False(t, ok)
}

func TestLoad_ReloadReplacesDependencies(t *testing.T) {
	f := newFixture(t)
	gomock.InOrder(
		f.lister.EXPECT().FindAllDependencies(gomock.Any(), mainGren).Return([]string{pageGren}, nil),
		f.lister.EXPECT().FindAllDependencies(gomock.Any(), mainGren).Return([]string{utilGren}, nil),
	)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return("OUT", nil).Times(2)

	_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.NoError(t, err)
	_, err = f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.NoError(t, err)

	deps, ok := f.loader.Dependencies(mainGren)
	require.True(t, ok)
	assert.Equal(t, []string{mainGren, utilGren}, deps.Sorted())

	update := f.loader.HotUpdate(context.Background(), pageGren, nil)
	assert.Empty(t, update.Impacted)
}

func TestLoad_DiscoveryFailure(t *testing.T) {
	f := newFixture(t)
	listErr := errors.Join(domain.ErrSourceReadFailed, zerr.New("no such file"))
	f.lister.EXPECT().FindAllDependencies(gomock.Any(), mainGren).Return(nil, listErr)

	got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})

	require.ErrorIs(t, err, domain.ErrDiscoveryFailed)
	require.ErrorIs(t, err, domain.ErrSourceReadFailed)
	assert.NotErrorIs(t, err, domain.ErrCompileFailed)
	assert.Nil(t, got)
	_, ok := f.loader.Dependencies(mainGren)
	assert.False(t, ok)
}

func TestLoad_NoMain(t *testing.T) {
	f := newFixture(t)
	f.deps("/app/src/Lib.gren")
	f.compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.Join(domain.ErrNoMain, zerr.New("Compilation failed\n-- NO MAIN ----")))

	const want = "/src/Lib.gren: NO MAIN .gren file is requested to transform by vite. Probably, this file is just a depending module"
	f.logger.EXPECT().Warn(want)

	_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: "/app/src/Lib.gren"})

	require.ErrorIs(t, err, domain.ErrNoMain)
	assert.NotErrorIs(t, err, domain.ErrCompileFailed)
	assert.Contains(t, err.Error(), want)
}

func TestLoad_CompileFailureReleasesLock(t *testing.T) {
	f := newFixture(t)
	f.deps(mainGren)
	gomock.InOrder(
		f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.Join(domain.ErrCompileFailed, zerr.New("Compilation failed\n-- TYPE MISMATCH"))),
		f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return("OUT", nil),
	)

	_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.ErrorIs(t, err, domain.ErrCompileFailed)

	got, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.NoError(t, err)
	assert.NotEmpty(t, got.Code)
}

func TestLoad_CompilesNeverOverlap(t *testing.T) {
	f := newFixture(t)
	f.lister.EXPECT().FindAllDependencies(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	type interval struct{ start, end int64 }
	var (
		clock     atomic.Int64
		mu        sync.Mutex
		intervals []interval
	)
	f.compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, []string, domain.CompileOptions) (string, error) {
			start := clock.Add(1)
			time.Sleep(time.Millisecond)
			end := clock.Add(1)
			mu.Lock()
			intervals = append(intervals, interval{start, end})
			mu.Unlock()
			return "OUT", nil
		}).
		Times(8)

	var wg sync.WaitGroup
	for n := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: fmt.Sprintf("/app/src/Unit%d.gren", n)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, intervals, 8)
	for _, iv := range intervals {
		assert.Equal(t, iv.start+1, iv.end, "another compile ran inside %v", iv)
	}
	assert.Len(t, f.loader.Units(), 8)
}

func TestLoad_IdempotentReload(t *testing.T) {
	f := newFixture(t)
	f.deps(mainGren, pageGren, utilGren)
	f.compiler.EXPECT().Compile(gomock.Any(), []string{mainGren}, gomock.Any()).Return("OUT", nil).Times(2)

	first, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.NoError(t, err)
	second, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.NoError(t, err)

	assert.Equal(t, first.Code, second.Code)
	assert.True(t, first.Unit.Dependencies.Equal(second.Unit.Dependencies))
}

func TestHotUpdate(t *testing.T) {
	f := newFixture(t)
	const pageID = pageGren
	f.deps(mainGren, pageGren, utilGren)
	f.deps(pageGren, utilGren)
	f.compiler.EXPECT().Compile(gomock.Any(), gomock.Any(), gomock.Any()).Return("OUT", nil).Times(2)

	_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
	require.NoError(t, err)
	_, err = f.loader.Load(context.Background(), plugin.LoadRequest{ID: pageID})
	require.NoError(t, err)

	tests := []struct {
		name         string
		file         string
		host         []string
		wantImpacted []string
		wantModules  []string
		wantEvent    []string
	}{
		{
			name:         "shared dependency",
			file:         utilGren,
			host:         []string{"/app/src/main.js"},
			wantImpacted: []string{mainGren, pageGren},
			wantModules:  []string{"/app/src/main.js", mainGren, pageGren},
			wantEvent:    []string{mainGren, pageGren},
		},
		{
			name:         "loaded unit that is also a dependency",
			file:         pageGren,
			host:         []string{pageID},
			wantImpacted: []string{mainGren, pageGren},
			wantModules:  []string{pageID, mainGren},
			wantEvent:    []string{mainGren},
		},
		{
			name:         "own primary target only",
			file:         mainGren,
			host:         []string{mainGren},
			wantImpacted: []string{mainGren},
			wantModules:  []string{mainGren},
		},
		{
			name:         "unknown source",
			file:         "/app/src/Unrelated.gren",
			host:         []string{"x"},
			wantImpacted: []string{},
			wantModules:  []string{"x"},
		},
		{
			name:         "raw marker",
			file:         utilGren + "?raw",
			host:         []string{"x"},
			wantImpacted: []string{},
			wantModules:  []string{"x"},
		},
		{
			name:         "not a gren source",
			file:         "/app/src/style.css",
			wantImpacted: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.loader.HotUpdate(context.Background(), tt.file, tt.host)

			assert.Equal(t, tt.wantImpacted, got.Impacted)
			assert.Equal(t, tt.wantModules, got.Modules)
			if tt.wantEvent == nil {
				assert.Nil(t, got.Event)
				assert.True(t, got.Fallback)
				return
			}
			require.NotNil(t, got.Event)
			assert.False(t, got.Fallback)
			assert.Equal(t, domain.HotUpdateDependentsEvent, got.Event.Name)
			assert.Equal(t, tt.wantEvent, got.Event.Modules)
		})
	}
}

func TestLoad_LockTimeout(t *testing.T) {
	f := newFixture(t, func(c *domain.Config) { c.LockTimeout = 20 * time.Millisecond })
	f.lister.EXPECT().FindAllDependencies(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	release := make(chan struct{})
	held := make(chan struct{})
	f.compiler.EXPECT().
		Compile(gomock.Any(), []string{mainGren}, gomock.Any()).
		DoAndReturn(func(context.Context, []string, domain.CompileOptions) (string, error) {
			close(held)
			<-release
			return "OUT", nil
		})

	done := make(chan error, 1)
	go func() {
		_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: mainGren})
		done <- err
	}()
	<-held

	_, err := f.loader.Load(context.Background(), plugin.LoadRequest{ID: pageGren})
	require.ErrorIs(t, err, domain.ErrLockTimeout)
	assert.NotErrorIs(t, err, domain.ErrCompileFailed)

	close(release)
	require.NoError(t, <-done)
}

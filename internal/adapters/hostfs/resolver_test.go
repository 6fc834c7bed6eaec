package hostfs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vgren/internal/adapters/hostfs"
	"go.trai.ch/vgren/internal/core/domain"
)

func TestResolver_Resolve(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"src/Main.gren", "src/Other.gren", "src/pages/About.gren"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, []byte("module X exposing (..)\n"), domain.PrivateFilePerm))
	}
	importer := filepath.Join(root, "src/main.ts")

	tests := []struct {
		name     string
		ref      string
		importer string
		want     string
	}{
		{name: "relative to importer", ref: "./Other.gren", importer: importer, want: filepath.Join(root, "src/Other.gren")},
		{name: "parent of importer", ref: "../pages/About.gren", importer: filepath.Join(root, "src/pages/x.ts"), want: filepath.Join(root, "src/pages/About.gren")},
		{name: "sibling directory of importer", ref: "../src/pages/About.gren", importer: filepath.Join(root, "src/x.ts"), want: filepath.Join(root, "src/pages/About.gren")},
		{name: "relative without importer uses root", ref: "src/Main.gren", want: filepath.Join(root, "src/Main.gren")},
		{name: "root relative", ref: "/src/Other.gren", importer: importer, want: filepath.Join(root, "src/Other.gren")},
		{name: "absolute", ref: filepath.Join(root, "src/Main.gren"), want: filepath.Join(root, "src/Main.gren")},
		{name: "query is ignored", ref: "./Other.gren?with=./Main.gren", importer: importer, want: filepath.Join(root, "src/Other.gren")},
		{name: "importer with query", ref: "./Other.gren", importer: importer + "?v=1", want: filepath.Join(root, "src/Other.gren")},
		{name: "missing file", ref: "./Missing.gren", importer: importer, want: ""},
		{name: "directory", ref: "./pages", importer: importer, want: ""},
		{name: "empty reference", ref: "", importer: importer, want: ""},
	}

	resolver := hostfs.NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(context.Background(), root, tt.ref, tt.importer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_UsesProjectRootNotWorkingDir(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "src", "Other.gren")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte("module Other exposing (..)\n"), domain.PrivateFilePerm))

	// Running from a subdirectory of the project must not change what root-relative
	// and importer-less references name.
	t.Chdir(filepath.Join(root, "src"))

	resolver := hostfs.NewResolver()

	got, err := resolver.Resolve(context.Background(), root, "/src/Other.gren", "")
	require.NoError(t, err)
	assert.Equal(t, path, got)

	got, err = resolver.Resolve(context.Background(), root, "src/Other.gren", "")
	require.NoError(t, err)
	assert.Equal(t, path, got)
}
